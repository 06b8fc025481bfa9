package thumbcache

import (
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/joshuapare/thumbkit/internal/index"
	"github.com/joshuapare/thumbkit/internal/reader"
	"github.com/joshuapare/thumbkit/internal/store"
	"github.com/joshuapare/thumbkit/pkg/types"
)

// Options configure an Engine.
type Options struct {
	// MaxFilenameUnits caps entry filenames, in UTF-16 code units. Zero
	// uses the format maximum.
	MaxFilenameUnits int

	// Decompressor expands compressed index columns. When nil and
	// NativeDecompressor is set, the system provider is used if present.
	Decompressor       index.TextDecompressor
	NativeDecompressor bool

	Logger *zap.SugaredLogger
}

// Engine holds the entries of every parsed database and at most one open
// index database.
type Engine struct {
	opts  Options
	log   *zap.SugaredLogger
	store *store.Store

	gate   sync.Mutex // held by the running task
	busy   atomic.Bool
	closed atomic.Bool

	sess *index.Session // guarded by gate
}

// New returns an empty Engine.
func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{opts: opts, log: log, store: store.New()}
}

// begin waits for the gate. The returned func releases it.
func (e *Engine) begin() (func(), error) {
	if e.closed.Load() {
		return nil, types.ErrClosed
	}
	e.gate.Lock()
	if e.closed.Load() {
		e.gate.Unlock()
		return nil, types.ErrClosed
	}
	e.busy.Store(true)
	return e.end, nil
}

// tryBegin is begin without waiting.
func (e *Engine) tryBegin() (func(), error) {
	if e.closed.Load() {
		return nil, types.ErrClosed
	}
	if !e.gate.TryLock() {
		return nil, types.ErrBusy
	}
	if e.closed.Load() {
		e.gate.Unlock()
		return nil, types.ErrClosed
	}
	e.busy.Store(true)
	return e.end, nil
}

func (e *Engine) end() {
	e.busy.Store(false)
	e.gate.Unlock()
}

// Busy reports whether a task is running.
func (e *Engine) Busy() bool { return e.busy.Load() }

func (e *Engine) parserOptions() reader.Options {
	return reader.Options{MaxFilenameUnits: e.opts.MaxFilenameUnits}
}

// Entries returns every entry in the order it was parsed.
func (e *Engine) Entries() []*types.Entry { return e.store.Entries() }

// Lookup returns the entries stored under hash.
func (e *Engine) Lookup(hash uint64) []*types.Entry { return e.store.Lookup(hash) }

// Len returns the number of entries.
func (e *Engine) Len() int { return e.store.Len() }

// Remove drops entries from the engine. It fails with types.ErrBusy while
// another task is running.
func (e *Engine) Remove(entries ...*types.Entry) (int, error) {
	done, err := e.tryBegin()
	if err != nil {
		return 0, err
	}
	defer done()
	n := e.store.Remove(entries...)
	e.log.Infow("entries removed", "count", n)
	return n, nil
}

// Clear drops every entry.
func (e *Engine) Clear() error {
	done, err := e.tryBegin()
	if err != nil {
		return err
	}
	defer done()
	e.store.Clear()
	return nil
}

// Close waits for the running task, closes the index and drops all
// entries. It is safe to call more than once.
func (e *Engine) Close() error {
	e.gate.Lock()
	defer e.gate.Unlock()
	if e.closed.Swap(true) {
		return nil
	}
	err := e.closeIndexLocked()
	e.store.Clear()
	return err
}
