package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/thumbkit/internal/namecache"
	"github.com/joshuapare/thumbkit/pkg/types"
)

// fakeESE serves fixed rows for one or both value tables.
type fakeESE struct {
	revision uint32
	tables   []string
	cols     []eseColumn
	rows     []map[string]any
	visited  int
	closed   bool
}

func (f *fakeESE) Revision() uint32 { return f.revision }
func (f *fakeESE) Tables() []string { return f.tables }

func (f *fakeESE) Columns(string) ([]eseColumn, error) { return f.cols, nil }

func (f *fakeESE) Scan(ctx context.Context, _ string, fn func(map[string]any) error) error {
	for _, row := range f.rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		f.visited++
		if err := fn(row); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeESE) Close() error {
	f.closed = true
	return nil
}

const (
	colThumb   = "4447-System_ThumbnailCacheId"
	colPath    = "4448-System_ItemPathDisplay"
	colAttr    = "4449-System_FileAttributes"
	colSummary = "4450-System_Search_AutoSummary"
)

func newFakeESE() *fakeESE {
	return &fakeESE{
		revision: 0x14,
		tables:   []string{"MSysObjects", tableLegacy, tablePropertyStore},
		cols: []eseColumn{
			{ID: 1, Name: "WorkID", Type: "Signed long"},
			{ID: 2, Name: colThumb, Type: "Long Binary"},
			{ID: 3, Name: colPath, Type: "Long Text"},
			{ID: 4, Name: colAttr, Type: "Unsigned long"},
			{ID: 5, Name: colSummary, Type: "Long Binary", Flags: compressedFlag},
		},
		rows: []map[string]any{
			{"WorkID": int32(1), colThumb: u64(0x10), colPath: `C:\one.jpg`, colAttr: uint32(0x20), colSummary: []byte{9, 9}},
			{"WorkID": int32(2), colThumb: nil, colPath: `C:\nothumb.txt`},
			{"WorkID": int32(3), colThumb: u64(0x30), colPath: `C:\three.png`},
			{"WorkID": int32(4), colThumb: u64(0x10), colPath: `C:\dup.jpg`},
			{"WorkID": int32(5), colThumb: u64(0x50), colPath: `C:\five.bmp`},
		},
	}
}

func TestPickTable(t *testing.T) {
	f := newFakeESE()
	table, err := pickTable(f)
	require.NoError(t, err)
	assert.Equal(t, tablePropertyStore, table)

	f.revision = 0x10
	table, err = pickTable(f)
	require.NoError(t, err)
	assert.Equal(t, tableLegacy, table)

	// A single table decides regardless of the revision.
	f.tables = []string{tablePropertyStore}
	table, err = pickTable(f)
	require.NoError(t, err)
	assert.Equal(t, tablePropertyStore, table)

	f.revision = 0x20
	f.tables = []string{"MSysObjects", tableLegacy}
	table, err = pickTable(f)
	require.NoError(t, err)
	assert.Equal(t, tableLegacy, table)

	f.tables = []string{"MSysObjects"}
	_, err = pickTable(f)
	assert.ErrorIs(t, err, types.ErrIndexSchema)
}

func TestESEBackendCatalog(t *testing.T) {
	be, err := newESEBackend(context.Background(), newFakeESE(), namecache.New(0))
	require.NoError(t, err)

	assert.Equal(t, 5, be.catalog().Len())
	sum, ok := be.catalog().ByProperty("System_Search_AutoSummary")
	require.True(t, ok)
	assert.True(t, sum.Compressed)
	attr, ok := be.catalog().ByName(colAttr)
	require.True(t, ok)
	assert.Equal(t, VTUI4, attr.VarType)

	assert.Len(t, be.rows, 3)
	assert.Equal(t, 0, be.rows[0x10], "first row wins")
	assert.Equal(t, 2, be.rows[0x30])
}

func TestESEBackendSchemaErrors(t *testing.T) {
	f := newFakeESE()
	f.rows[2][colThumb] = []byte{1, 2, 3}
	_, err := newESEBackend(context.Background(), f, namecache.New(0))
	assert.ErrorIs(t, err, types.ErrIndexSchema)

	f = newFakeESE()
	f.cols = f.cols[2:]
	_, err = newESEBackend(context.Background(), f, namecache.New(0))
	assert.ErrorIs(t, err, types.ErrIndexSchema)
}

func newESESession(t *testing.T, f *fakeESE, dec TextDecompressor) *Session {
	t.Helper()
	names := namecache.New(0)
	be, err := newESEBackend(context.Background(), f, names)
	require.NoError(t, err)
	return newSession("Windows.edb", KindESE, be, names, dec, nil)
}

func props(info []types.ExtendedInfo) map[string]string {
	m := make(map[string]string, len(info))
	for _, i := range info {
		m[i.Name] = i.Value
	}
	return m
}

func TestESESessionLookup(t *testing.T) {
	ctx := context.Background()
	s := newESESession(t, newFakeESE(), nil)
	defer s.Close()

	info, err := s.Lookup(ctx, 0x10)
	require.NoError(t, err)
	m := props(info)
	assert.Equal(t, `C:\one.jpg`, m["System_ItemPathDisplay"])
	assert.Equal(t, "FILE_ATTRIBUTE_ARCHIVE", m["System_FileAttributes"])
	assert.Equal(t, "0000000000000010", m["System_ThumbnailCacheId"])
	v, ok := m["System_Search_AutoSummary"]
	assert.True(t, ok, "compressed columns stay listed")
	assert.Empty(t, v)

	info, err = s.Lookup(ctx, 0x99)
	require.NoError(t, err)
	assert.Empty(t, info)
}

func TestESESessionDecompressor(t *testing.T) {
	dec := TextDecompressorFunc(func(b []byte) (string, error) { return "summary", nil })
	s := newESESession(t, newFakeESE(), dec)
	defer s.Close()

	info, err := s.Lookup(context.Background(), 0x10)
	require.NoError(t, err)
	assert.Equal(t, "summary", props(info)["System_Search_AutoSummary"])
}

func TestESELookupManyStopsEarly(t *testing.T) {
	f := newFakeESE()
	s := newESESession(t, f, nil)
	defer s.Close()

	f.visited = 0
	got := map[uint64]string{}
	err := s.LookupMany(context.Background(), []uint64{0x30, 0x10, 0x77}, func(h uint64, info []types.ExtendedInfo) {
		got[h] = props(info)["System_ItemPathDisplay"]
	})
	require.NoError(t, err)
	assert.Equal(t, map[uint64]string{0x10: `C:\one.jpg`, 0x30: `C:\three.png`}, got)
	assert.Equal(t, 3, f.visited, "scan ends at the last wanted row")
}

func TestESEPaths(t *testing.T) {
	s := newESESession(t, newFakeESE(), nil)
	defer s.Close()

	type pair struct {
		hash uint64
		path string
	}
	var got []pair
	err := s.Paths(context.Background(), func(h uint64, p string) error {
		got = append(got, pair{h, p})
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []pair{
		{0x10, `C:\one.jpg`},
		{0x30, `C:\three.png`},
		{0x10, `C:\dup.jpg`},
		{0x50, `C:\five.bmp`},
	}, got)
}

func TestSessionClosed(t *testing.T) {
	f := newFakeESE()
	s := newESESession(t, f, nil)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	assert.True(t, f.closed)

	_, err := s.Lookup(context.Background(), 0x10)
	assert.ErrorIs(t, err, types.ErrClosed)
	err = s.Paths(context.Background(), func(uint64, string) error { return nil })
	assert.ErrorIs(t, err, types.ErrClosed)
}

func TestSessionLookupCancelled(t *testing.T) {
	s := newESESession(t, newFakeESE(), nil)
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Lookup(ctx, 0x10)
	assert.ErrorIs(t, err, context.Canceled)
}
