package index

import (
	"context"
	"testing"

	"github.com/Velocidex/ordereddict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"www.velocidex.com/golang/go-ese/parser"

	"github.com/joshuapare/thumbkit/pkg/types"
)

func TestNormalizeESE(t *testing.T) {
	tests := []struct {
		name   string
		coltyp string
		in     any
		want   any
	}{
		{"binary hex", "Binary", "0a0b0c", []byte{0x0a, 0x0b, 0x0c}},
		{"long binary hex", "Long Binary", "8877665544332211", u64(0x1122334455667788)},
		{"binary not hex", "Binary", "zz", []byte("zz")},
		{"guid", "GUID", "{6B29FC40-CA47-1067-B31D-00DD010662DA}",
			[]byte{0x40, 0xFC, 0x29, 0x6B, 0x47, 0xCA, 0x67, 0x10, 0xB3, 0x1D, 0x00, 0xDD, 0x01, 0x06, 0x62, 0xDA}},
		{"bad guid", "GUID", "nope", "nope"},
		{"long text", "Long Text", `C:\pics\a.jpg`, `C:\pics\a.jpg`},
		{"integer", "Unsigned long", uint32(7), uint32(7)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeESE(tt.coltyp, tt.in))
		})
	}
}

func TestDecodeCompressedESEValues(t *testing.T) {
	calls := 0
	d := Decoder{Text: TextDecompressorFunc(func(b []byte) (string, error) {
		calls++
		return "expanded", nil
	})}

	// go-ese expands compressed text itself; the string passes through.
	path := &Column{Name: colPath, Property: PropItemPathDisplay, Type: "Long Text", VarType: VTLPWSTR, Compressed: true}
	assert.Equal(t, `C:\pics\a.jpg`, d.Decode(path, normalizeESE("Long Text", `C:\pics\a.jpg`)))
	var none Decoder
	assert.Equal(t, `C:\pics\a.jpg`, none.Decode(path, normalizeESE("Long Text", `C:\pics\a.jpg`)))
	assert.Zero(t, calls)

	// Packed binary still goes through the decompressor.
	sum := &Column{Name: colSummary, Property: "System_Search_AutoSummary", Type: "Long Binary", VarType: VTBlob, Compressed: true}
	assert.Equal(t, "expanded", d.Decode(sum, normalizeESE("Long Binary", "0102")))
	assert.Equal(t, 1, calls)
}

func TestESEPathsFromCompressedText(t *testing.T) {
	f := newFakeESE()
	f.cols[2].Flags = compressedFlag
	s := newESESession(t, f, nil)
	defer s.Close()

	var paths []string
	err := s.Paths(context.Background(), func(_ uint64, p string) error {
		paths = append(paths, p)
		return nil
	})
	require.NoError(t, err)
	assert.Contains(t, paths, `C:\one.jpg`)

	info, err := s.Lookup(context.Background(), 0x30)
	require.NoError(t, err)
	assert.Equal(t, `C:\three.png`, props(info)[PropItemPathDisplay])
}

func testESETable() *parser.Table {
	return &parser.Table{
		Columns: []*parser.ColumnSpec{
			{Name: "WorkID", Type: "Signed long", Identifier: 1, SpaceUsage: 4},
			{Name: colThumb, Type: "Long Binary", Identifier: 256},
			{Name: colPath, Type: "Long Text", Identifier: 257, Flags: compressedFlag},
			{Name: colAttr, Type: "Unsigned long", Identifier: 3, SpaceUsage: 4},
		},
	}
}

func TestTableColumns(t *testing.T) {
	cols, kinds := tableColumns(testESETable())
	require.Len(t, cols, 4)
	assert.Equal(t, eseColumn{ID: 1, Name: "WorkID", Type: "Signed long", Size: 4}, cols[0])
	assert.Equal(t, eseColumn{ID: 257, Name: colPath, Type: "Long Text", Flags: compressedFlag}, cols[2])
	assert.Equal(t, "Long Binary", kinds[colThumb])
	assert.Equal(t, "Unsigned long", kinds[colAttr])
}

func TestGoESEColumns(t *testing.T) {
	g := &goESE{
		catalog: &parser.Catalog{
			Tables: ordereddict.NewDict().
				Set(tablePropertyStore, testESETable()).
				Set("Broken", "not a table"),
		},
		types: make(map[string]map[string]string),
	}
	assert.Equal(t, []string{tablePropertyStore, "Broken"}, g.Tables())

	cols, err := g.Columns(tablePropertyStore)
	require.NoError(t, err)
	assert.Len(t, cols, 4)
	assert.Equal(t, "Long Text", g.types[tablePropertyStore][colPath])

	compressed := 0
	for _, c := range cols {
		if c.Flags&compressedFlag != 0 {
			compressed++
			assert.Equal(t, colPath, c.Name)
		}
	}
	assert.Equal(t, 1, compressed)

	_, err = g.Columns(tableLegacy)
	assert.ErrorIs(t, err, types.ErrNotFound)
	_, err = g.Columns("Broken")
	assert.ErrorIs(t, err, types.ErrIndexSchema)
}
