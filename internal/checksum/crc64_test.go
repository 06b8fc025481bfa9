package checksum

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTableMatchesPolynomial(t *testing.T) {
	require.Equal(t, uint64(0), table[0])
	require.Equal(t, uint64(0x42F0E1EBA9EA3693), table[1])
	require.Equal(t, uint64(0x85E1C3D753D46D26), table[2])
	require.Equal(t, uint64(0xC711223CFA3E5BB5), table[3])
}

func TestCRC64KnownVector(t *testing.T) {
	// CRC-64/ECMA-182 check value for "123456789" (MSB-first, zero init,
	// no final XOR).
	require.Equal(t, uint64(0x6C40DF5F0B497347), CRC64([]byte("123456789"), 0))
}

func TestCRC64Deterministic(t *testing.T) {
	data := bytes.Repeat([]byte{0xA5, 0x5A, 0x00, 0xFF}, 300)
	for _, seed := range []uint64{0, HeaderSeed, 0x1234} {
		first := CRC64(data, seed)
		require.Equal(t, first, CRC64(data, seed))
	}
	require.NotEqual(t, CRC64(data, 0), CRC64(data, HeaderSeed))
}

func TestUpdateChains(t *testing.T) {
	data := []byte("thumbnail cache entry")
	whole := CRC64(data, HeaderSeed)
	chained := Update(Update(HeaderSeed, data[:7]), data[7:])
	require.Equal(t, whole, chained)
}
