package types

import (
	"sync/atomic"

	"github.com/joshuapare/thumbkit/internal/format"
)

// Version is the operating system version a database was written by.
type Version = format.Version

const (
	VersionVista  = format.VersionVista
	VersionWin7   = format.VersionWin7
	VersionWin8   = format.VersionWin8
	VersionWin8v2 = format.VersionWin8v2
	VersionWin8v3 = format.VersionWin8v3
	VersionWin8_1 = format.VersionWin8_1
	VersionWin10  = format.VersionWin10
)

// ImageKind classifies an entry's data blob by its leading bytes.
type ImageKind = format.ImageKind

const (
	ImageUnknown = format.ImageUnknown
	ImageBMP     = format.ImageBMP
	ImageJPEG    = format.ImageJPEG
	ImagePNG     = format.ImagePNG
)

// SharedInfo describes the database file a group of entries came from. One
// instance is shared by every entry parsed from that file and counts them;
// the count never drops below zero.
type SharedInfo struct {
	Path       string
	Version    Version
	CacheType  uint32
	HeaderSize int

	refs atomic.Int32
}

// NewSharedInfo returns a SharedInfo with no entries attached.
func NewSharedInfo(path string, v Version, cacheType uint32, headerSize int) *SharedInfo {
	return &SharedInfo{Path: path, Version: v, CacheType: cacheType, HeaderSize: headerSize}
}

// Acquire attaches one more entry.
func (s *SharedInfo) Acquire() {
	s.refs.Add(1)
}

// Release detaches one entry and reports whether it was the last one.
// Releasing with nothing attached is a no-op.
func (s *SharedInfo) Release() bool {
	for {
		n := s.refs.Load()
		if n <= 0 {
			return false
		}
		if s.refs.CompareAndSwap(n, n-1) {
			return n == 1
		}
	}
}

// Refs returns the number of attached entries.
func (s *SharedInfo) Refs() int {
	return int(s.refs.Load())
}

// CacheTypeLabel renders the cache type as the size label used in the
// database file name, e.g. "256" or "sr".
func (s *SharedInfo) CacheTypeLabel() string {
	return s.Version.CacheTypeLabel(s.CacheType)
}

// ExtendedInfo is one decoded property value from the index database. Name
// is interned, so thousands of entries share a handful of name strings.
type ExtendedInfo struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Entry is one recovered thumbnail or icon record. Offsets point into the
// source database; the data blob is re-read on demand.
type Entry struct {
	Hash         uint64 `json:"hash"`
	HeaderOffset int64  `json:"header_offset"`
	DataOffset   int64  `json:"data_offset"`
	Size         uint32 `json:"size"`

	DataChecksum           uint64 `json:"data_checksum"`
	HeaderChecksum         uint64 `json:"header_checksum"`
	VerifiedDataChecksum   uint64 `json:"verified_data_checksum"`
	VerifiedHeaderChecksum uint64 `json:"verified_header_checksum"`

	Filename string    `json:"filename"`
	Image    ImageKind `json:"image"`

	// Width and Height are only recorded by the Windows 8 family.
	Width  uint32 `json:"width,omitempty"`
	Height uint32 `json:"height,omitempty"`

	Shared   *SharedInfo    `json:"-"`
	Extended []ExtendedInfo `json:"extended,omitempty"`
}

// HeaderValid reports whether the recomputed header checksum matches the
// stored one. It is trivially true before verification.
func (e *Entry) HeaderValid() bool {
	return e.VerifiedHeaderChecksum == e.HeaderChecksum
}

// DataValid reports whether the recomputed data checksum matches the stored
// one. It is trivially true before verification.
func (e *Entry) DataValid() bool {
	return e.VerifiedDataChecksum == e.DataChecksum
}

// Version returns the version of the database the entry came from.
func (e *Entry) Version() Version {
	if e.Shared == nil {
		return 0
	}
	return e.Shared.Version
}

// DatabasePath returns the path of the database the entry came from.
func (e *Entry) DatabasePath() string {
	if e.Shared == nil {
		return ""
	}
	return e.Shared.Path
}

// Property returns the first extended value named name.
func (e *Entry) Property(name string) (string, bool) {
	for _, x := range e.Extended {
		if x.Name == name {
			return x.Value, true
		}
	}
	return "", false
}
