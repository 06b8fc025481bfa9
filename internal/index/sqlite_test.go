package index

import (
	"context"
	"database/sql"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/thumbkit/internal/format"
	"github.com/joshuapare/thumbkit/pkg/types"
)

type sqliteProp struct {
	id  int
	key string
	vt  int
}

type sqliteValue struct {
	workID int
	colID  int
	value  any
}

func writeSQLiteIndex(t *testing.T, propsRows []sqliteProp, values []sqliteValue) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Windows.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE SystemIndex_1_PropertyStore_Metadata (Id INTEGER, UniqueKey TEXT, VariantType INTEGER)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE SystemIndex_1_PropertyStore (WorkId INTEGER, ColumnId INTEGER, Value BLOB)`)
	require.NoError(t, err)
	for _, p := range propsRows {
		_, err = db.Exec(`INSERT INTO SystemIndex_1_PropertyStore_Metadata VALUES (?, ?, ?)`, p.id, p.key, p.vt)
		require.NoError(t, err)
	}
	for _, v := range values {
		_, err = db.Exec(`INSERT INTO SystemIndex_1_PropertyStore VALUES (?, ?, ?)`, v.workID, v.colID, v.value)
		require.NoError(t, err)
	}
	return path
}

var testSQLiteProps = []sqliteProp{
	{1, "4447-System_ThumbnailCacheId", int(VTUI8)},
	{2, "4448-System_ItemPathDisplay", int(VTLPWSTR)},
	{3, "4449-System_FileAttributes", int(VTUI4)},
	{4, "4450-System_Size", int(VTUI8)},
}

func beBytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// wstr encodes s the way Windows.db stores text: NUL-terminated UTF-16LE.
func wstr(s string) []byte {
	return append(format.EncodeUTF16(s), 0, 0)
}

func testSQLiteValues() []sqliteValue {
	return []sqliteValue{
		{10, 1, u64(0x1122334455667788)},
		{10, 2, wstr(`C:\pics\a.jpg`)},
		{10, 3, u32(0x20)},
		{10, 4, int64(2048)},
		{11, 1, beBytes(0xAABBCCDD00112233)},
		{11, 2, wstr(`C:\pics\b.png`)},
		{12, 1, u64(0x1122334455667788)},
		{12, 2, wstr(`C:\dup.jpg`)},
		{13, 2, wstr(`C:\nothumb.txt`)},
	}
}

func TestHashHex(t *testing.T) {
	assert.Equal(t, "8877665544332211", hashHex(0x1122334455667788))
	assert.Equal(t, "33221100DDCCBBAA", hashHex(0xAABBCCDD00112233))
}

func TestSQLiteDSN(t *testing.T) {
	assert.Equal(t, "file:///tmp/Windows.db?mode=ro", sqliteDSN("/tmp/Windows.db"))
	assert.Equal(t, `file:C:\ProgramData\Windows.db?mode=ro`, sqliteDSN(`C:\ProgramData\Windows.db`))
}

func TestSQLiteSession(t *testing.T) {
	ctx := context.Background()
	path := writeSQLiteIndex(t, testSQLiteProps, testSQLiteValues())

	s, err := Open(ctx, path, Options{})
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, KindSQLite, s.Kind())
	assert.Equal(t, path, s.Path())
	assert.Len(t, s.Columns(), 4)

	info, err := s.Lookup(ctx, 0x1122334455667788)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"System_ThumbnailCacheId": "1122334455667788",
		"System_ItemPathDisplay":  `C:\pics\a.jpg`,
		"System_FileAttributes":   "FILE_ATTRIBUTE_ARCHIVE",
		"System_Size":             "2048 bytes",
	}, props(info), "first work item wins")

	// A blob written big-endian is read as little-endian everywhere, so
	// lookups, rendering and path listing agree on the same id.
	info, err = s.Lookup(ctx, 0xAABBCCDD00112233)
	require.NoError(t, err)
	assert.Empty(t, info)
	info, err = s.Lookup(ctx, 0x33221100DDCCBBAA)
	require.NoError(t, err)
	assert.Equal(t, `C:\pics\b.png`, props(info)["System_ItemPathDisplay"])
	assert.Equal(t, "33221100ddccbbaa", props(info)["System_ThumbnailCacheId"])

	info, err = s.Lookup(ctx, 0x42)
	require.NoError(t, err)
	assert.Empty(t, info)

	var hashes []uint64
	var paths []string
	err = s.Paths(ctx, func(h uint64, p string) error {
		hashes = append(hashes, h)
		paths = append(paths, p)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{`C:\pics\a.jpg`, `C:\pics\b.png`, `C:\dup.jpg`}, paths)
	assert.Equal(t, []uint64{0x1122334455667788, 0x33221100DDCCBBAA, 0x1122334455667788}, hashes)

	// Every listed id resolves through Lookup to the same path.
	for i, h := range hashes[:2] {
		info, err := s.Lookup(ctx, h)
		require.NoError(t, err)
		assert.Equal(t, paths[i], props(info)["System_ItemPathDisplay"])
	}

	found := 0
	err = s.LookupMany(ctx, []uint64{0x1122334455667788, 0x42}, func(h uint64, info []types.ExtendedInfo) {
		found++
		assert.Equal(t, uint64(0x1122334455667788), h)
	})
	require.NoError(t, err)
	assert.Equal(t, 1, found)

	require.NoError(t, s.Close())
	_, err = s.Lookup(ctx, 0x42)
	assert.ErrorIs(t, err, types.ErrClosed)
}

func TestSQLiteMissingThumbnailColumn(t *testing.T) {
	path := writeSQLiteIndex(t, testSQLiteProps[1:], nil)
	_, err := Open(context.Background(), path, Options{})
	assert.ErrorIs(t, err, types.ErrIndexSchema)
}

func TestSQLiteMissingTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE other (x INTEGER)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = Open(context.Background(), path, Options{})
	require.Error(t, err)
	assert.True(t, types.IsKind(err, types.ErrKindIndex))
}

func TestOpenNotIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thumbcache_32.db")
	require.NoError(t, os.WriteFile(path, []byte("CMMM\x20\x00\x00\x00not an index at all"), 0o644))
	_, err := Open(context.Background(), path, Options{})
	assert.ErrorIs(t, err, types.ErrNotIndexDatabase)
}
