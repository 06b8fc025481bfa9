package reader

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeFile(path string, b []byte) error {
	return os.WriteFile(path, b, 0o644)
}

func TestScanForMagicStraddlesChunks(t *testing.T) {
	const chunk = 16
	for at := 0; at < 3*chunk; at++ {
		data := make([]byte, 4*chunk)
		for i := range data {
			data[i] = byte('a' + i%20)
		}
		copy(data[at:], "CMMM")

		got, ok := scanForMagic(bytes.NewReader(data), 0, chunk)
		if assert.True(t, ok, "magic at %d", at) {
			assert.Equal(t, int64(at), got, "magic at %d", at)
		}
	}
}

func TestScanForMagicFromOffset(t *testing.T) {
	data := []byte("CMMMxxxxxxxxCMMMyyyy")
	got, ok := scanForMagic(bytes.NewReader(data), 1, 0)
	assert.True(t, ok)
	assert.Equal(t, int64(12), got)
}

func TestScanForMagicNotFound(t *testing.T) {
	data := bytes.Repeat([]byte("CMM"), 100)
	_, ok := scanForMagic(bytes.NewReader(data), 0, 16)
	assert.False(t, ok)

	_, ok = scanForMagic(bytes.NewReader(nil), 0, 16)
	assert.False(t, ok)
}
