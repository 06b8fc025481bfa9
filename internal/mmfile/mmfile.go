// Package mmfile maps database files read-only and exposes them as
// io.ReaderAt, falling back to reading the whole file where mapping is not
// available.
package mmfile

import (
	"errors"
	"io"
	"os"
)

// ErrClosed is returned by reads after Close.
var ErrClosed = errors.New("mmfile: file closed")

// File is a read-only view of a whole file.
type File struct {
	path  string
	data  []byte
	unmap func() error
}

// Open maps the file at path.
func Open(path string) (*File, error) {
	data, unmap, err := mapFile(path)
	if err != nil {
		return nil, err
	}
	return &File{path: path, data: data, unmap: unmap}, nil
}

// Path returns the path the file was opened from.
func (f *File) Path() string { return f.path }

// Size returns the file size in bytes.
func (f *File) Size() int64 { return int64(len(f.data)) }

// Bytes returns the mapped contents. The slice is invalid after Close.
func (f *File) Bytes() []byte { return f.data }

// ReadAt implements io.ReaderAt.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	if f.data == nil && f.unmap == nil {
		return 0, ErrClosed
	}
	if off < 0 {
		return 0, os.ErrInvalid
	}
	if off >= int64(len(f.data)) {
		return 0, io.EOF
	}
	n := copy(p, f.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Close releases the mapping. It is safe to call more than once.
func (f *File) Close() error {
	if f.unmap == nil {
		return nil
	}
	err := f.unmap()
	f.data, f.unmap = nil, nil
	return err
}

func noop() error { return nil }
