// Package index cross-references cache entries against a Windows Search
// index database (ESE Windows.edb or SQLite Windows.db).
//
// A Session owns everything about one open database: the backend handle,
// the property catalog and the interned property names. Opening a new
// database means closing the previous session first.
package index

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/joshuapare/thumbkit/internal/namecache"
	"github.com/joshuapare/thumbkit/pkg/types"
)

// rawValue is one column value of a matched row.
type rawValue struct {
	col   *Column
	value any
}

// backend is the storage-specific half of a session.
type backend interface {
	catalog() *Catalog
	// lookup returns the values of the row whose thumbnail id is hash, or
	// nil when there is none.
	lookup(ctx context.Context, hash uint64) ([]rawValue, error)
	// lookupMany calls fn once for each of hashes that has a row.
	lookupMany(ctx context.Context, hashes []uint64, fn func(uint64, []rawValue)) error
	// pairs calls fn with the thumbnail id and raw path value of every row
	// carrying both.
	pairs(ctx context.Context, fn func(hash uint64, path rawValue) error) error
	close() error
}

// Options configure a session.
type Options struct {
	// Decompressor expands compressed text columns. Nil leaves them blank.
	Decompressor TextDecompressor
	Logger       *zap.SugaredLogger
}

// Session is one open index database.
type Session struct {
	path  string
	kind  Kind
	be    backend
	names *namecache.Cache
	dec   *Decoder
	log   *zap.SugaredLogger

	mu     sync.Mutex
	closed bool
}

// Open sniffs path and opens it with the matching backend.
func Open(ctx context.Context, path string, opts Options) (*Session, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	kind, err := Sniff(path)
	if err != nil {
		return nil, err
	}

	names := namecache.New(0)
	var be backend
	switch kind {
	case KindSQLite:
		be, err = openSQLite(ctx, path, names)
	case KindESE:
		var r eseReader
		r, err = openGoESE(path)
		if err == nil {
			be, err = newESEBackend(ctx, r, names)
			if err != nil {
				r.Close()
			}
		}
	}
	if err != nil {
		log.Warnw("index open failed", "path", path, "kind", kind.String(), "error", err)
		return nil, asIndexErr(fmt.Sprintf("open %s index %s", kind, path), err)
	}
	log.Infow("index opened", "path", path, "kind", kind.String(), "columns", be.catalog().Len())
	return newSession(path, kind, be, names, opts.Decompressor, log), nil
}

func newSession(path string, kind Kind, be backend, names *namecache.Cache, dec TextDecompressor, log *zap.SugaredLogger) *Session {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Session{
		path:  path,
		kind:  kind,
		be:    be,
		names: names,
		dec:   &Decoder{Text: dec},
		log:   log,
	}
}

// asIndexErr keeps typed errors as they are and wraps everything else in
// an index error carrying the backend's message.
func asIndexErr(msg string, err error) error {
	var te *types.Error
	if errors.As(err, &te) {
		return fmt.Errorf("%s: %w", msg, err)
	}
	return &types.Error{Kind: types.ErrKindIndex, Msg: msg, Err: err}
}

// Path returns the database path.
func (s *Session) Path() string { return s.path }

// Kind returns the storage engine.
func (s *Session) Kind() Kind { return s.kind }

// Columns returns the property catalog in order.
func (s *Session) Columns() []*Column { return s.be.catalog().Columns() }

func (s *Session) check() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrClosed
	}
	return nil
}

// Lookup returns every decoded property of the row whose thumbnail id is
// hash. A hash with no row returns an empty slice. Query failures are
// logged and also return an empty slice.
func (s *Session) Lookup(ctx context.Context, hash uint64) ([]types.ExtendedInfo, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	values, err := s.be.lookup(ctx, hash)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warnw("index lookup failed", "hash", fmt.Sprintf("%016x", hash), "error", err)
		return nil, nil
	}
	return s.decodeAll(values), nil
}

// LookupMany resolves several hashes in one pass and calls fn for each hash
// that has a row.
func (s *Session) LookupMany(ctx context.Context, hashes []uint64, fn func(hash uint64, info []types.ExtendedInfo)) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.be.lookupMany(ctx, hashes, func(h uint64, values []rawValue) {
		fn(h, s.decodeAll(values))
	})
}

// Paths calls fn with the thumbnail id and display path of every indexed
// item that has both.
func (s *Session) Paths(ctx context.Context, fn func(hash uint64, path string) error) error {
	if err := s.check(); err != nil {
		return err
	}
	return s.be.pairs(ctx, func(h uint64, path rawValue) error {
		p := s.dec.Decode(path.col, path.value)
		if p == "" {
			return nil
		}
		return fn(h, p)
	})
}

func (s *Session) decodeAll(values []rawValue) []types.ExtendedInfo {
	out := make([]types.ExtendedInfo, 0, len(values))
	for _, v := range values {
		if v.value == nil {
			continue
		}
		text := s.dec.Decode(v.col, v.value)
		if text == "" && !v.col.Compressed {
			continue
		}
		out = append(out, types.ExtendedInfo{Name: v.col.Property, Value: text})
	}
	return out
}

// Close releases the backend. It is safe to call more than once.
func (s *Session) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	err := s.be.close()
	s.names.Reset()
	s.log.Infow("index closed", "path", s.path)
	return err
}
