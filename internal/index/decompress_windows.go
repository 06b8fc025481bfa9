//go:build windows

package index

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/joshuapare/thumbkit/internal/format"
)

// providers are tried in order; mssrch.dll ships with Windows 7 and later,
// tquery.dll with Vista.
var providers = []string{"mssrch.dll", "tquery.dll"}

type nativeDecompressor struct {
	proc *windows.LazyProc
}

// NativeDecompressor loads the system's MSSUncompressText provider.
func NativeDecompressor() (TextDecompressor, error) {
	for _, name := range providers {
		proc := windows.NewLazySystemDLL(name).NewProc("MSSUncompressText")
		if proc.Find() == nil {
			return &nativeDecompressor{proc: proc}, nil
		}
	}
	return nil, ErrNoDecompressor
}

// Uncompress asks the provider for the output size first, then decompresses
// into a buffer of that size.
func (d *nativeDecompressor) Uncompress(in []byte) (string, error) {
	if len(in) == 0 {
		return "", nil
	}
	r, _, _ := d.proc.Call(uintptr(unsafe.Pointer(&in[0])), uintptr(len(in)), 0, 0)
	size := int32(r)
	if size <= 0 {
		return "", fmt.Errorf("MSSUncompressText: size query returned %d", size)
	}
	out := make([]byte, size)
	r, _, _ = d.proc.Call(uintptr(unsafe.Pointer(&in[0])), uintptr(len(in)),
		uintptr(unsafe.Pointer(&out[0])), uintptr(size))
	n := int32(r)
	if n <= 0 || n > size {
		return "", fmt.Errorf("MSSUncompressText: returned %d", n)
	}
	return format.DecodeUTF16(out[:n]), nil
}
