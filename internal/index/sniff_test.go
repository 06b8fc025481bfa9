package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/thumbkit/pkg/types"
)

func TestSniffBytes(t *testing.T) {
	kind, err := sniffBytes([]byte("SQLite format 3\x00"), "a")
	require.NoError(t, err)
	assert.Equal(t, KindSQLite, kind)

	ese := make([]byte, 16)
	copy(ese[eseMagicOffset:], []byte{0xEF, 0xCD, 0xAB, 0x89})
	kind, err = sniffBytes(ese, "b")
	require.NoError(t, err)
	assert.Equal(t, KindESE, kind)

	_, err = sniffBytes([]byte("CMMM"), "c")
	assert.ErrorIs(t, err, types.ErrNotIndexDatabase)
}

func TestSniffFile(t *testing.T) {
	dir := t.TempDir()

	short := filepath.Join(dir, "short")
	require.NoError(t, os.WriteFile(short, []byte{1, 2}, 0o644))
	_, err := Sniff(short)
	assert.ErrorIs(t, err, types.ErrNotIndexDatabase)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = Sniff(empty)
	assert.ErrorIs(t, err, types.ErrNotIndexDatabase)

	_, err = Sniff(filepath.Join(dir, "missing"))
	assert.Error(t, err)

	assert.Equal(t, "ESE", KindESE.String())
	assert.Equal(t, "SQLite", KindSQLite.String())
	assert.Equal(t, "unknown", KindUnknown.String())
}
