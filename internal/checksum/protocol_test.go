package checksum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func patterned(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i*31 + 7)
	}
	return b
}

func TestDataSmallBlobIsPlainCRC(t *testing.T) {
	for _, n := range []int{0, 1, 400, DataPrefixSize} {
		data := patterned(n)
		require.Equal(t, CRC64(data, 0), Data(data), "len %d", n)
	}
}

func TestDataChunkingLaw(t *testing.T) {
	data := patterned(DataPrefixSize + 3*DataStride + 2)

	rest := data[DataPrefixSize:]
	var b uint64
	b = Update(b, rest[0:4])
	b = Update(b, rest[400:404])
	b = Update(b, rest[800:804])
	b = Update(b, rest[1200:1202]) // partial final chunk

	require.Equal(t, CRC64(data[:DataPrefixSize], 0)^b, Data(data))
}

func TestDataOnlySampledBytesMatter(t *testing.T) {
	data := patterned(DataPrefixSize + 2*DataStride)
	base := Data(data)

	unsampled := append([]byte(nil), data...)
	unsampled[DataPrefixSize+10] ^= 0xFF
	unsampled[DataPrefixSize+DataStride+399] ^= 0xFF
	require.Equal(t, base, Data(unsampled), "bytes outside the sample windows are not covered")

	tampered := append([]byte(nil), data...)
	tampered[DataPrefixSize+DataStride+1] ^= 0x01
	require.NotEqual(t, base, Data(tampered))

	reordered := append([]byte(nil), data...)
	copy(reordered[DataPrefixSize:], data[DataPrefixSize+DataStride:DataPrefixSize+DataStride+4])
	copy(reordered[DataPrefixSize+DataStride:], data[DataPrefixSize:DataPrefixSize+4])
	require.NotEqual(t, base, Data(reordered))

	truncated := data[:len(data)-DataStride]
	require.NotEqual(t, base, Data(truncated))
}

func TestHeaderExcludesTrailingChecksum(t *testing.T) {
	record := patterned(48)
	want := CRC64(record[:40], HeaderSeed)
	require.Equal(t, want, Header(record))

	record[47] ^= 0xFF
	require.Equal(t, want, Header(record), "checksum field itself is not covered")
}
