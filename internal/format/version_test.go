package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in   string
		want Version
	}{
		{"vista", VersionVista},
		{"Win7", VersionWin7},
		{" win8.1 ", VersionWin8_1},
		{"win81", VersionWin8_1},
		{"win11", VersionWin10},
		{"0x1C", VersionWin8v2},
		{"32", VersionWin10},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVersion(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "win95", "0x99"} {
		_, err := ParseVersion(bad)
		assert.ErrorIs(t, err, ErrUnsupportedVersion, bad)
	}
}

func TestVersionLabels(t *testing.T) {
	assert.Equal(t, "Windows 8.1", VersionWin8_1.String())
	assert.Equal(t, "Unknown (0x99)", Version(0x99).String())
	assert.Equal(t, "256", VersionWin7.CacheTypeLabel(2))
	assert.Equal(t, "exif", VersionWin8.CacheTypeLabel(8))
	assert.Equal(t, "custom_stream", VersionWin10.CacheTypeLabel(13))
	assert.Equal(t, "unknown(20)", VersionWin10.CacheTypeLabel(20))
	assert.Equal(t, HeaderSizeWin8v2, VersionWin8v2.HeaderSize())
	assert.Equal(t, HeaderSize, VersionWin10.HeaderSize())
}
