// Package format houses low-level decoders for the Windows thumbnail cache
// database format (thumbcache_*.db and iconcache_*.db). The goal is to keep the
// parsing focused and independent from the public API so higher-level packages
// can orchestrate the data in a more ergonomic form.
package format

var (
	// Magic is the four-byte identifier at the start of the database header
	// and of every cache entry record.
	Magic = []byte{'C', 'M', 'M', 'M'}

	// BMPSignature, JPEGSignature and PNGSignature identify the embedded
	// image formats by their leading bytes.
	BMPSignature  = []byte{'B', 'M'}
	JPEGSignature = []byte{0xFF, 0xD8, 0xFF, 0xE0}
	PNGSignature  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
)

const (
	// MagicSize is the length of the "CMMM" identifier.
	MagicSize = 4

	// BaseHeaderSize covers magic, version and cache type. It is read first so
	// the version can select the full header size.
	BaseHeaderSize = 12

	// HeaderSize is the database header size for every version but Win8v2.
	HeaderSize = 24

	// HeaderSizeWin8v2 is the header size of the Win8v2 sub-variant, which
	// carries one extra unused field after the cache type.
	HeaderSizeWin8v2 = 28

	// Database header field offsets.
	HeaderVersionOffset   = 0x04
	HeaderTypeOffset      = 0x08
	HeaderFirstOffset     = 0x0C // first cache entry offset
	HeaderAvailableOffset = 0x10 // first available cache entry offset
	HeaderCountOffset     = 0x14 // number of cache entries (Vista/7 family)

	// SniffSize is how many leading data bytes are inspected to classify the
	// embedded image.
	SniffSize = 8

	// MaxFilenameUnits caps the number of UTF-16 code units read from a
	// record's identifier string. Longer declared lengths are skipped.
	MaxFilenameUnits = 32767

	// ChecksumFieldSize is the width of the trailing header checksum that is
	// excluded when the header checksum is recomputed.
	ChecksumFieldSize = 8
)

// Entry record field offsets shared by all layouts.
const (
	EntryMagicOffset = 0x00
	EntrySizeOffset  = 0x04
	EntryHashOffset  = 0x08
)

// Vista entry layout (56 bytes).
//
//	Offset  Size  Description
//	------  ----  -------------------------------------------
//	 0x00    4    'C' 'M' 'M' 'M'
//	 0x04    4    Cache entry size
//	 0x08    8    Entry hash
//	 0x10    8    Extension (4 UTF-16 code units)
//	 0x18    4    Filename length in bytes
//	 0x1C    4    Padding size
//	 0x20    4    Data size
//	 0x24    4    Unknown
//	 0x28    8    Data checksum
//	 0x30    8    Header checksum
const (
	VistaExtensionOffset = 0x10
	VistaExtensionSize   = 8
	VistaFilenameOffset  = 0x18
	VistaPaddingOffset   = 0x1C
	VistaDataSizeOffset  = 0x20
	VistaUnknownOffset   = 0x24
	VistaDataCRCOffset   = 0x28
	VistaHeaderCRCOffset = 0x30
	VistaEntrySize       = 0x38
)

// Windows 7 entry layout (48 bytes).
//
//	Offset  Size  Description
//	------  ----  -------------------------------------------
//	 0x00    4    'C' 'M' 'M' 'M'
//	 0x04    4    Cache entry size
//	 0x08    8    Entry hash
//	 0x10    4    Filename length in bytes
//	 0x14    4    Padding size
//	 0x18    4    Data size
//	 0x1C    4    Unknown
//	 0x20    8    Data checksum
//	 0x28    8    Header checksum
const (
	Win7FilenameOffset  = 0x10
	Win7PaddingOffset   = 0x14
	Win7DataSizeOffset  = 0x18
	Win7UnknownOffset   = 0x1C
	Win7DataCRCOffset   = 0x20
	Win7HeaderCRCOffset = 0x28
	Win7EntrySize       = 0x30
)

// Windows 8 family entry layout (56 bytes), shared by Win8, Win8v2, Win8v3,
// Windows 8.1 and Windows 10.
//
//	Offset  Size  Description
//	------  ----  -------------------------------------------
//	 0x00    4    'C' 'M' 'M' 'M'
//	 0x04    4    Cache entry size
//	 0x08    8    Entry hash
//	 0x10    4    Filename length in bytes
//	 0x14    4    Padding size
//	 0x18    4    Data size
//	 0x1C    4    Width
//	 0x20    4    Height
//	 0x24    4    Unknown
//	 0x28    8    Data checksum
//	 0x30    8    Header checksum
const (
	Win8FilenameOffset  = 0x10
	Win8PaddingOffset   = 0x14
	Win8DataSizeOffset  = 0x18
	Win8WidthOffset     = 0x1C
	Win8HeightOffset    = 0x20
	Win8UnknownOffset   = 0x24
	Win8DataCRCOffset   = 0x28
	Win8HeaderCRCOffset = 0x30
	Win8EntrySize       = 0x38
)
