// Package checksum implements the CRC-64 variant thumbcache databases use to
// protect entry headers and data blobs, together with the two invocation
// protocols the database format applies it with.
//
// The polynomial is 0x42F0E1EBA9EA3693 processed most-significant bit first
// (no input or output reflection, no final XOR). hash/crc64 in the standard
// library only builds reflected tables, so the table is generated here.
package checksum

const polynomial = 0x42F0E1EBA9EA3693

const (
	// HeaderSeed seeds the header checksum.
	HeaderSeed uint64 = 0xFFFFFFFFFFFFFFFF

	// DataSeed seeds every data checksum pass.
	DataSeed uint64 = 0

	// DataPrefixSize is the leading span of the data blob that is fully
	// checksummed.
	DataPrefixSize = 1024

	// DataStride is the chunk size used past the prefix; only the first
	// DataSampleSize bytes of each chunk contribute to the checksum.
	DataStride     = 400
	DataSampleSize = 4
)

var table = makeTable()

func makeTable() *[256]uint64 {
	t := new([256]uint64)
	for i := range t {
		crc := uint64(i) << 56
		for range 8 {
			if crc&(1<<63) != 0 {
				crc = crc<<1 ^ polynomial
			} else {
				crc <<= 1
			}
		}
		t[i] = crc
	}
	return t
}

// Update returns the CRC-64 of data continued from crc.
func Update(crc uint64, data []byte) uint64 {
	for _, b := range data {
		crc = table[byte(crc>>56)^b] ^ crc<<8
	}
	return crc
}

// CRC64 computes the checksum of data seeded with initial.
func CRC64(data []byte, initial uint64) uint64 {
	return Update(initial, data)
}
