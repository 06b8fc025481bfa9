package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedInfoRefcount(t *testing.T) {
	s := NewSharedInfo("thumbcache_256.db", VersionWin7, 2, 24)
	s.Acquire()
	s.Acquire()
	require.Equal(t, 2, s.Refs())

	assert.False(t, s.Release())
	assert.True(t, s.Release())
	assert.Equal(t, 0, s.Refs())

	// Never below zero.
	assert.False(t, s.Release())
	assert.Equal(t, 0, s.Refs())
	assert.Equal(t, "256", s.CacheTypeLabel())
}

func TestEntryChecksumState(t *testing.T) {
	e := &Entry{DataChecksum: 1, HeaderChecksum: 2, VerifiedDataChecksum: 1, VerifiedHeaderChecksum: 2}
	assert.True(t, e.HeaderValid())
	assert.True(t, e.DataValid())

	e.VerifiedDataChecksum = 9
	assert.False(t, e.DataValid())
	assert.True(t, e.HeaderValid())
}

func TestEntryAccessors(t *testing.T) {
	e := &Entry{}
	assert.Equal(t, Version(0), e.Version())
	assert.Empty(t, e.DatabasePath())

	e.Shared = NewSharedInfo("a.db", VersionWin10, 0, 24)
	e.Extended = []ExtendedInfo{{Name: "System_ItemPathDisplay", Value: `C:\x.jpg`}}
	assert.Equal(t, VersionWin10, e.Version())
	assert.Equal(t, "a.db", e.DatabasePath())

	v, ok := e.Property("System_ItemPathDisplay")
	require.True(t, ok)
	assert.Equal(t, `C:\x.jpg`, v)
	_, ok = e.Property("System_Size")
	assert.False(t, ok)
}

func TestErrorKinds(t *testing.T) {
	wrapped := fmt.Errorf("open x.db: %w", ErrNotThumbcache)
	assert.True(t, errors.Is(wrapped, ErrNotThumbcache))
	assert.True(t, IsKind(wrapped, ErrKindFormat))
	assert.False(t, IsKind(wrapped, ErrKindState))

	e := &Error{Kind: ErrKindIndex, Msg: "query failed", Err: errors.New("disk I/O error")}
	assert.Equal(t, "query failed: disk I/O error", e.Error())
	assert.True(t, IsKind(e, ErrKindIndex))
	assert.Equal(t, "index", ErrKindIndex.String())
}
