package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/thumbkit/pkg/types"
)

func entries(shared *types.SharedInfo, hashes ...uint64) []*types.Entry {
	out := make([]*types.Entry, len(hashes))
	for i, h := range hashes {
		out[i] = &types.Entry{Hash: h, Shared: shared, Filename: "orig"}
	}
	return out
}

func TestDuplicatesAreChained(t *testing.T) {
	shared := types.NewSharedInfo("a.db", types.VersionWin7, 0, 24)
	s := New()
	es := entries(shared, 5, 3, 5)
	s.AddAll(es)

	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 3, shared.Refs())
	assert.Equal(t, []uint64{3, 5}, s.Hashes())
	chain := s.Lookup(5)
	require.Len(t, chain, 2)
	assert.Same(t, es[0], chain[0])
	assert.Same(t, es[2], chain[1])
	assert.Equal(t, es, s.Entries())
}

func TestRenameUpdatesWholeChain(t *testing.T) {
	s := New()
	es := entries(nil, 9, 9, 1)
	s.AddAll(es)

	n := s.Rename(9, `C:\pics\cat.jpg`)
	assert.Equal(t, 2, n)
	assert.Equal(t, `C:\pics\cat.jpg`, es[0].Filename)
	assert.Equal(t, `C:\pics\cat.jpg`, es[1].Filename)
	assert.Equal(t, "orig", es[2].Filename)
	assert.Zero(t, s.Rename(42, "x"))
}

func TestAddFirstIsFirstWins(t *testing.T) {
	s := New()
	a := &types.Entry{Hash: 1, Filename: "a"}
	b := &types.Entry{Hash: 1, Filename: "b"}
	assert.True(t, s.AddFirst(a))
	assert.False(t, s.AddFirst(b))
	require.Len(t, s.Lookup(1), 1)
	assert.Equal(t, "a", s.Lookup(1)[0].Filename)
}

func TestRemoveReleasesShared(t *testing.T) {
	shared := types.NewSharedInfo("a.db", types.VersionWin8, 0, 24)
	s := New()
	es := entries(shared, 1, 2, 2)
	s.AddAll(es)

	assert.Equal(t, 1, s.Remove(es[1], &types.Entry{Hash: 2}))
	assert.Equal(t, 2, shared.Refs())
	require.Len(t, s.Lookup(2), 1)
	assert.Same(t, es[2], s.Lookup(2)[0])

	assert.Equal(t, 2, s.Remove(es[0], es[2]))
	assert.Zero(t, shared.Refs())
	assert.False(t, s.Has(1))
	assert.False(t, s.Has(2))
	assert.Empty(t, s.Hashes())

	// Removing again changes nothing and never drives the count negative.
	assert.Zero(t, s.Remove(es...))
	assert.Zero(t, shared.Refs())
}

func TestVersionsAndClear(t *testing.T) {
	s := New()
	s.AddAll(entries(types.NewSharedInfo("10.db", types.VersionWin10, 0, 24), 1))
	s.AddAll(entries(types.NewSharedInfo("7.db", types.VersionWin7, 0, 24), 2, 3))
	s.Add(&types.Entry{Hash: 4})

	assert.Equal(t, []types.Version{types.VersionWin7, types.VersionWin10}, s.Versions())

	all := s.Entries()
	s.Clear()
	assert.Zero(t, s.Len())
	assert.Zero(t, all[0].Shared.Refs())
	assert.Zero(t, all[1].Shared.Refs())
}

func TestSetExtended(t *testing.T) {
	s := New()
	es := entries(nil, 7, 7)
	s.AddAll(es)

	info := []types.ExtendedInfo{{Name: "System_Size", Value: "10 bytes"}}
	assert.Equal(t, 2, s.SetExtended(7, info))
	info[0].Value = "changed"
	assert.Equal(t, "10 bytes", es[0].Extended[0].Value)
	assert.Equal(t, "10 bytes", es[1].Extended[0].Value)
}
