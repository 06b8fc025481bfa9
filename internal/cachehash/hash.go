// Package cachehash reproduces the rolling hash Windows uses to derive a
// thumbnail cache entry hash from a file's identity. Matching a live file
// against a cache entry only works when every byte fed here matches what the
// shell fed, in the same order and native little-endian layout.
package cachehash

import (
	"encoding/binary"

	"github.com/joshuapare/thumbkit/internal/format"
)

// Seed is the initial hash value.
const Seed uint64 = 0x95E729BA2C37FD21

// Input identifies one file the way the shell hashes it.
type Input struct {
	// VolumeGUID is the 16-byte GUID of the volume, in Windows GUID memory
	// layout (first three fields little-endian).
	VolumeGUID [16]byte
	// FileID is the file system file index (FileIndexHigh<<32 | FileIndexLow).
	FileID uint64
	// Extension is the file extension including the leading dot.
	Extension string
	// LastWrite is the last write time as a FILETIME.
	LastWrite uint64
}

// Update feeds data into hash one byte at a time.
func Update(hash uint64, data []byte) uint64 {
	for _, b := range data {
		hash ^= hash*0x820 + uint64(b) + hash>>2
	}
	return hash
}

// Compute returns the entry hash of in for databases of version v.
//
// Vista hashes the volume GUID and file id. Windows 7 through the Windows 8
// variants add the UTF-16 extension and the packed DOS date/time of the last
// write. Windows 8.1 and later also add the sub-two-second remainder lost by
// the DOS conversion, but only when it is nonzero.
func Compute(in Input, v format.Version) uint64 {
	hash := Update(Seed, in.VolumeGUID[:])

	var id [8]byte
	binary.LittleEndian.PutUint64(id[:], in.FileID)
	hash = Update(hash, id[:])

	if v == format.VersionVista {
		return hash
	}

	hash = Update(hash, format.EncodeUTF16(in.Extension))

	date, clock, ok := format.FiletimeToDOS(in.LastWrite)
	var packed [4]byte
	binary.LittleEndian.PutUint32(packed[:], uint32(date)<<16|uint32(clock))
	hash = Update(hash, packed[:])

	if v != format.VersionWin8_1 && v != format.VersionWin10 {
		return hash
	}
	if loss := PrecisionLoss(in.LastWrite, date, clock, ok); loss != 0 {
		var b [4]byte
		binary.LittleEndian.PutUint32(b[:], loss)
		hash = Update(hash, b[:])
	}
	return hash
}

// PrecisionLoss is the low 32 bits of the original FILETIME minus the low 32
// bits of the FILETIME reconstructed from its DOS date/time. It is zero when
// the DOS conversion failed.
func PrecisionLoss(lastWrite uint64, date, clock uint16, ok bool) uint32 {
	if !ok {
		return 0
	}
	return uint32(lastWrite) - uint32(format.DOSToFiletime(date, clock))
}
