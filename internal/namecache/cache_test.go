package namecache

import (
	"fmt"
	"sync"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPropertyName(t *testing.T) {
	cases := map[string]string{
		"4447-System_ItemPathDisplay": "System_ItemPathDisplay",
		"System_Size":                 "System_Size",
		"0F-InvertedOnlyPids":         "InvertedOnlyPids",
		"12-System-Odd":               "System-Odd",
		"":                            "",
	}
	for in, want := range cases {
		assert.Equal(t, want, PropertyName(in), in)
	}
}

func TestInternSharesStorage(t *testing.T) {
	c := New(64)
	a := c.Intern("4447-System_ItemPathDisplay")
	b := c.Intern("17-System_ItemPathDisplay")
	require.Equal(t, "System_ItemPathDisplay", a)
	assert.Equal(t, unsafe.StringData(a), unsafe.StringData(b))
	assert.Equal(t, 1, c.Len())
}

func TestLRUEviction(t *testing.T) {
	l := newLRU(2)
	l.store("a", "A")
	l.store("b", "B")
	_, _ = l.lookup("a") // a becomes most recent
	l.store("c", "C")

	_, ok := l.lookup("b")
	assert.False(t, ok, "b should have been evicted")
	name, ok := l.lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "A", name)
	assert.Equal(t, 2, l.len())
}

func TestStoreKeepsFirst(t *testing.T) {
	l := newLRU(4)
	assert.Equal(t, "first", l.store("k", "first"))
	assert.Equal(t, "first", l.store("k", "second"))
}

func TestReset(t *testing.T) {
	c := New(0)
	c.Intern("1-System_Size")
	c.Reset()
	assert.Zero(t, c.Len())
}

func TestConcurrentIntern(t *testing.T) {
	c := New(256)
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				col := fmt.Sprintf("%d-System_Prop%d", i, i%10)
				assert.Equal(t, fmt.Sprintf("System_Prop%d", i%10), c.Intern(col))
			}
		}()
	}
	wg.Wait()
}
