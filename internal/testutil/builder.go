// Package testutil builds synthetic thumbnail cache databases for tests.
package testutil

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuapare/thumbkit/internal/checksum"
	"github.com/joshuapare/thumbkit/internal/format"
)

// Record describes one entry to serialize.
type Record struct {
	Hash      uint64
	Filename  string
	Extension string // Vista inline extension, up to 4 characters
	Padding   int
	Data      []byte
	Width     uint32
	Height    uint32

	// Slack grows cacheEntrySize past the record's content.
	Slack int

	// EntrySize, when nonzero, replaces the computed cacheEntrySize.
	EntrySize uint32

	CorruptMagic        bool
	BadHeaderChecksum   bool
	BadDataChecksum     bool
	TruncateDataAtWrite int // when nonzero, cut the file this many bytes into the data
}

// Builder assembles a database of one version.
type Builder struct {
	Version   format.Version
	CacheType uint32
	Records   []Record

	offsets []int64
}

// New returns a builder for version v.
func New(v format.Version) *Builder {
	return &Builder{Version: v}
}

// Add appends a record and returns the builder for chaining.
func (b *Builder) Add(r Record) *Builder {
	b.Records = append(b.Records, r)
	return b
}

// Offsets returns the header offset of every record from the last Bytes call.
func (b *Builder) Offsets() []int64 {
	return b.offsets
}

// Bytes serializes the database.
func (b *Builder) Bytes() []byte {
	layout, err := b.Version.Layout()
	if err != nil {
		panic(err)
	}
	headerSize := b.Version.HeaderSize()
	out := make([]byte, headerSize)
	copy(out, format.Magic)
	binary.LittleEndian.PutUint32(out[format.HeaderVersionOffset:], uint32(b.Version))
	binary.LittleEndian.PutUint32(out[format.HeaderTypeOffset:], b.CacheType)
	shift := headerSize - format.HeaderSize
	binary.LittleEndian.PutUint32(out[format.HeaderFirstOffset+shift:], uint32(headerSize))
	binary.LittleEndian.PutUint32(out[format.HeaderCountOffset+shift:], uint32(len(b.Records)))

	b.offsets = b.offsets[:0]
	for _, r := range b.Records {
		b.offsets = append(b.offsets, int64(len(out)))
		rec := EncodeRecord(layout, r)
		if r.TruncateDataAtWrite > 0 {
			cut := len(rec) - len(r.Data) - r.Slack + r.TruncateDataAtWrite
			out = append(out, rec[:cut]...)
			break
		}
		out = append(out, rec...)
	}
	binary.LittleEndian.PutUint32(out[format.HeaderAvailableOffset+shift:], uint32(len(out)))
	return out
}

// WriteFile writes the database into dir and returns its path.
func (b *Builder) WriteFile(tb testing.TB, dir, name string) string {
	tb.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, b.Bytes(), 0o644); err != nil {
		tb.Fatalf("write %s: %v", path, err)
	}
	return path
}

type fieldOffsets struct {
	filename, padding, dataSize, dataCRC, headerCRC int
}

func offsetsFor(l format.Layout) fieldOffsets {
	switch l {
	case format.LayoutVista:
		return fieldOffsets{format.VistaFilenameOffset, format.VistaPaddingOffset,
			format.VistaDataSizeOffset, format.VistaDataCRCOffset, format.VistaHeaderCRCOffset}
	case format.LayoutWin7:
		return fieldOffsets{format.Win7FilenameOffset, format.Win7PaddingOffset,
			format.Win7DataSizeOffset, format.Win7DataCRCOffset, format.Win7HeaderCRCOffset}
	default:
		return fieldOffsets{format.Win8FilenameOffset, format.Win8PaddingOffset,
			format.Win8DataSizeOffset, format.Win8DataCRCOffset, format.Win8HeaderCRCOffset}
	}
}

// EncodeRecord serializes one entry record with valid checksums unless r
// asks otherwise.
func EncodeRecord(l format.Layout, r Record) []byte {
	size := l.Size()
	name := format.EncodeUTF16(r.Filename)
	total := size + len(name) + r.Padding + len(r.Data) + r.Slack
	out := make([]byte, total)

	copy(out, format.Magic)
	entrySize := uint32(total)
	if r.EntrySize != 0 {
		entrySize = r.EntrySize
	}
	binary.LittleEndian.PutUint32(out[format.EntrySizeOffset:], entrySize)
	binary.LittleEndian.PutUint64(out[format.EntryHashOffset:], r.Hash)

	off := offsetsFor(l)
	binary.LittleEndian.PutUint32(out[off.filename:], uint32(len(name)))
	binary.LittleEndian.PutUint32(out[off.padding:], uint32(r.Padding))
	binary.LittleEndian.PutUint32(out[off.dataSize:], uint32(len(r.Data)))

	switch l {
	case format.LayoutVista:
		ext := format.EncodeUTF16(r.Extension)
		copy(out[format.VistaExtensionOffset:format.VistaExtensionOffset+format.VistaExtensionSize], ext)
	case format.LayoutWin8:
		binary.LittleEndian.PutUint32(out[format.Win8WidthOffset:], r.Width)
		binary.LittleEndian.PutUint32(out[format.Win8HeightOffset:], r.Height)
	}

	dataCRC := checksum.Data(r.Data)
	if r.BadDataChecksum {
		dataCRC ^= 0xFF
	}
	binary.LittleEndian.PutUint64(out[off.dataCRC:], dataCRC)

	headerCRC := checksum.Header(out[:size])
	if r.BadHeaderChecksum {
		headerCRC ^= 0xFF
	}
	binary.LittleEndian.PutUint64(out[off.headerCRC:], headerCRC)

	copy(out[size:], name)
	copy(out[size+len(name)+r.Padding:], r.Data)

	if r.CorruptMagic {
		copy(out, "XXXX")
	}
	return out
}

// PNG returns n bytes starting with the PNG signature.
func PNG(n int) []byte { return fill(format.PNGSignature, n) }

// JPEG returns n bytes starting with the JFIF signature.
func JPEG(n int) []byte { return fill(format.JPEGSignature, n) }

// BMP returns n bytes starting with the bitmap signature.
func BMP(n int) []byte { return fill(format.BMPSignature, n) }

func fill(sig []byte, n int) []byte {
	out := make([]byte, max(n, len(sig)))
	copy(out, sig)
	for i := len(sig); i < len(out); i++ {
		out[i] = byte(i * 7)
	}
	return out
}
