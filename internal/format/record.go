package format

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/joshuapare/thumbkit/internal/buf"
)

// Layout identifies one of the fixed entry record shapes.
type Layout int

const (
	LayoutVista Layout = iota
	LayoutWin7
	LayoutWin8
)

func (l Layout) String() string {
	switch l {
	case LayoutVista:
		return "vista"
	case LayoutWin7:
		return "win7"
	case LayoutWin8:
		return "win8"
	default:
		return "unknown"
	}
}

// Size returns the fixed byte size of the layout's record header.
func (l Layout) Size() int {
	switch l {
	case LayoutVista:
		return VistaEntrySize
	case LayoutWin7:
		return Win7EntrySize
	default:
		return Win8EntrySize
	}
}

// EntryHeader holds the fields common to every record layout.
type EntryHeader struct {
	CacheEntrySize uint32
	EntryHash      uint64
	FilenameLength uint32
	PaddingSize    uint32
	DataSize       uint32
	Unknown        uint32
	DataChecksum   uint64
	HeaderChecksum uint64
}

// Common returns the shared fields; variants inherit it by embedding.
func (h EntryHeader) Common() EntryHeader { return h }

// Record is a decoded entry record header of any layout.
type Record interface {
	Common() EntryHeader
	Layout() Layout
}

// VistaRecord carries the inline extension field only Vista stores.
type VistaRecord struct {
	EntryHeader
	Extension string
}

func (VistaRecord) Layout() Layout { return LayoutVista }

// Win7Record has no fields beyond the common set.
type Win7Record struct {
	EntryHeader
}

func (Win7Record) Layout() Layout { return LayoutWin7 }

// Win8Record adds the thumbnail dimensions.
type Win8Record struct {
	EntryHeader
	Width  uint32
	Height uint32
}

func (Win8Record) Layout() Layout { return LayoutWin8 }

// HasMagic reports whether b starts with the entry identifier.
func HasMagic(b []byte) bool {
	return len(b) >= MagicSize && bytes.Equal(b[:MagicSize], Magic)
}

// DecodeRecord decodes one fixed record header of layout l from b.
func DecodeRecord(l Layout, b []byte) (Record, error) {
	size := l.Size()
	if len(b) < size {
		return nil, fmt.Errorf("%s entry: %w (have %d, need %d)", l, ErrTruncated, len(b), size)
	}
	if !HasMagic(b) {
		return nil, fmt.Errorf("%s entry: %w", l, ErrSignatureMismatch)
	}
	common := EntryHeader{
		CacheEntrySize: buf.U32LE(b[EntrySizeOffset:]),
		EntryHash:      buf.U64LE(b[EntryHashOffset:]),
	}
	switch l {
	case LayoutVista:
		common.FilenameLength = buf.U32LE(b[VistaFilenameOffset:])
		common.PaddingSize = buf.U32LE(b[VistaPaddingOffset:])
		common.DataSize = buf.U32LE(b[VistaDataSizeOffset:])
		common.Unknown = buf.U32LE(b[VistaUnknownOffset:])
		common.DataChecksum = buf.U64LE(b[VistaDataCRCOffset:])
		common.HeaderChecksum = buf.U64LE(b[VistaHeaderCRCOffset:])
		ext := DecodeUTF16(b[VistaExtensionOffset : VistaExtensionOffset+VistaExtensionSize])
		return VistaRecord{EntryHeader: common, Extension: ext}, nil
	case LayoutWin7:
		common.FilenameLength = buf.U32LE(b[Win7FilenameOffset:])
		common.PaddingSize = buf.U32LE(b[Win7PaddingOffset:])
		common.DataSize = buf.U32LE(b[Win7DataSizeOffset:])
		common.Unknown = buf.U32LE(b[Win7UnknownOffset:])
		common.DataChecksum = buf.U64LE(b[Win7DataCRCOffset:])
		common.HeaderChecksum = buf.U64LE(b[Win7HeaderCRCOffset:])
		return Win7Record{EntryHeader: common}, nil
	default:
		common.FilenameLength = buf.U32LE(b[Win8FilenameOffset:])
		common.PaddingSize = buf.U32LE(b[Win8PaddingOffset:])
		common.DataSize = buf.U32LE(b[Win8DataSizeOffset:])
		common.Unknown = buf.U32LE(b[Win8UnknownOffset:])
		common.DataChecksum = buf.U64LE(b[Win8DataCRCOffset:])
		common.HeaderChecksum = buf.U64LE(b[Win8HeaderCRCOffset:])
		return Win8Record{
			EntryHeader: common,
			Width:       buf.U32LE(b[Win8WidthOffset:]),
			Height:      buf.U32LE(b[Win8HeightOffset:]),
		}, nil
	}
}

// AppendExtension appends ".ext" to name unless name already ends with it,
// compared case-insensitively. An empty ext leaves name unchanged.
func AppendExtension(name, ext string) string {
	if ext == "" {
		return name
	}
	suffix := "." + ext
	if len(name) >= len(suffix) && strings.EqualFold(name[len(name)-len(suffix):], suffix) {
		return name
	}
	return name + suffix
}
