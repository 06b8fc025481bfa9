package index

import "errors"

// ErrNoDecompressor is returned when no native text decompression provider
// is available on this system.
var ErrNoDecompressor = errors.New("index: text decompression is not available")

// TextDecompressor expands compressed text columns. A nil TextDecompressor
// is valid; compressed columns then decode to "".
type TextDecompressor interface {
	Uncompress(compressed []byte) (string, error)
}

// TextDecompressorFunc adapts a function to TextDecompressor.
type TextDecompressorFunc func([]byte) (string, error)

// Uncompress calls f.
func (f TextDecompressorFunc) Uncompress(b []byte) (string, error) { return f(b) }
