//go:build !windows

package index

// NativeDecompressor reports that no provider exists off Windows.
func NativeDecompressor() (TextDecompressor, error) {
	return nil, ErrNoDecompressor
}
