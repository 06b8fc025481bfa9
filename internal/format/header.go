package format

import (
	"bytes"
	"fmt"

	"github.com/joshuapare/thumbkit/internal/buf"
)

// Header captures the database header. The diagram below shows the common
// layout; Win8v2 inserts one unused field at 0x0C and shifts the rest by four.
//
//	Offset  Size  Description
//	------  ----  ----------------------------------------------------------
//	 0x00    4    'C' 'M' 'M' 'M'
//	 0x04    4    Version tag
//	 0x08    4    Cache type index
//	 0x0C    4    First cache entry offset
//	 0x10    4    First available cache entry offset
//	 0x14    4    Number of cache entries
type Header struct {
	Version        Version
	CacheType      uint32
	FirstEntry     uint32
	AvailableEntry uint32
	EntryCount     uint32
	Size           int
}

// PeekVersion returns the version tag from the first BaseHeaderSize bytes.
func PeekVersion(b []byte) (Version, error) {
	if len(b) < BaseHeaderSize {
		return 0, fmt.Errorf("database header: %w", ErrTruncated)
	}
	if !bytes.Equal(b[:MagicSize], Magic) {
		return 0, fmt.Errorf("database header: %w", ErrSignatureMismatch)
	}
	v := Version(buf.U32LE(b[HeaderVersionOffset:]))
	if !v.Valid() {
		return v, fmt.Errorf("database header version 0x%X: %w", uint32(v), ErrUnsupportedVersion)
	}
	return v, nil
}

// ParseHeader validates and extracts the database header. b must hold at
// least the full header size for its version.
func ParseHeader(b []byte) (Header, error) {
	v, err := PeekVersion(b)
	if err != nil {
		return Header{}, err
	}
	size := v.HeaderSize()
	if len(b) < size {
		return Header{}, fmt.Errorf("database header: %w (have %d, need %d)", ErrTruncated, len(b), size)
	}
	shift := size - HeaderSize
	return Header{
		Version:        v,
		CacheType:      buf.U32LE(b[HeaderTypeOffset:]),
		FirstEntry:     buf.U32LE(b[HeaderFirstOffset+shift:]),
		AvailableEntry: buf.U32LE(b[HeaderAvailableOffset+shift:]),
		EntryCount:     buf.U32LE(b[HeaderCountOffset+shift:]),
		Size:           size,
	}, nil
}

// StartOffset returns where the first entry record is expected. The
// declared first-entry offset is used when it points past the header and
// inside a file of fileSize bytes; otherwise records start right after the
// header.
func (h Header) StartOffset(fileSize int64) int64 {
	first := int64(h.FirstEntry)
	if first >= int64(h.Size) && first < fileSize {
		return first
	}
	return int64(h.Size)
}
