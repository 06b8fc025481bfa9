package reader

import (
	"bytes"
	"io"

	"github.com/joshuapare/thumbkit/internal/format"
)

// scanChunkSize is the read size used while hunting for the next record.
const scanChunkSize = 32 * 1024

// scanForMagic looks for the next entry identifier at or after from and
// returns its offset. Consecutive reads overlap by MagicSize-1 bytes so an
// identifier split across a chunk boundary is still found. It reports false
// at end of file.
func scanForMagic(r io.ReaderAt, from int64, chunk int) (int64, bool) {
	if chunk < 2*format.MagicSize {
		chunk = scanChunkSize
	}
	window := make([]byte, chunk)
	pos := from
	for {
		n, err := r.ReadAt(window, pos)
		if n >= format.MagicSize {
			if i := bytes.Index(window[:n], format.Magic); i >= 0 {
				return pos + int64(i), true
			}
		}
		if err != nil || n < len(window) {
			return 0, false
		}
		pos += int64(n - (format.MagicSize - 1))
	}
}
