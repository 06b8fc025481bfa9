package thumbcache

import (
	"context"
	"fmt"

	"github.com/joshuapare/thumbkit/internal/index"
	"github.com/joshuapare/thumbkit/pkg/types"
)

// OpenIndex opens a Windows Search database (Windows.edb or Windows.db).
// Any index opened before is closed first.
func (e *Engine) OpenIndex(ctx context.Context, path string) error {
	done, err := e.begin()
	if err != nil {
		return err
	}
	defer done()

	if err := e.closeIndexLocked(); err != nil {
		e.log.Warnw("closing previous index failed", "error", err)
	}

	sess, err := index.Open(ctx, path, index.Options{
		Decompressor: e.decompressor(),
		Logger:       e.log,
	})
	if err != nil {
		return err
	}
	e.sess = sess
	return nil
}

func (e *Engine) decompressor() index.TextDecompressor {
	if e.opts.Decompressor != nil {
		return e.opts.Decompressor
	}
	if !e.opts.NativeDecompressor {
		return nil
	}
	d, err := index.NativeDecompressor()
	if err != nil {
		e.log.Debugw("compressed index columns stay blank", "error", err)
		return nil
	}
	return d
}

// CloseIndex closes the open index, if any.
func (e *Engine) CloseIndex() error {
	done, err := e.begin()
	if err != nil {
		return err
	}
	defer done()
	return e.closeIndexLocked()
}

func (e *Engine) closeIndexLocked() error {
	if e.sess == nil {
		return nil
	}
	err := e.sess.Close()
	e.sess = nil
	return err
}

// IndexPath returns the path of the open index, or "".
func (e *Engine) IndexPath() string {
	done, err := e.begin()
	if err != nil {
		return ""
	}
	defer done()
	if e.sess == nil {
		return ""
	}
	return e.sess.Path()
}

func (e *Engine) session() (*index.Session, error) {
	if e.sess == nil {
		return nil, types.ErrNoIndex
	}
	return e.sess, nil
}

// CrossReference returns the index properties recorded for hash. A hash
// the index does not know yields an empty result, as do query failures.
func (e *Engine) CrossReference(ctx context.Context, hash uint64) ([]types.ExtendedInfo, error) {
	done, err := e.begin()
	if err != nil {
		return nil, err
	}
	defer done()
	sess, err := e.session()
	if err != nil {
		return nil, err
	}
	return sess.Lookup(ctx, hash)
}

// CrossReferenceAll attaches index properties to every entry whose hash the
// index knows and returns the number of entries updated.
func (e *Engine) CrossReferenceAll(ctx context.Context) (int, error) {
	done, err := e.begin()
	if err != nil {
		return 0, err
	}
	defer done()
	sess, err := e.session()
	if err != nil {
		return 0, err
	}

	updated := 0
	err = sess.LookupMany(ctx, e.store.Hashes(), func(hash uint64, info []types.ExtendedInfo) {
		if len(info) > 0 {
			updated += e.store.SetExtended(hash, info)
		}
	})
	e.log.Infow("cross reference finished", "index", sess.Path(), "entries", updated)
	return updated, err
}

// MapFromIndex renames entries with the item path the index records for
// their hash. When the index lists a hash more than once the first path
// wins. It returns the number of entries renamed.
func (e *Engine) MapFromIndex(ctx context.Context) (int, error) {
	done, err := e.begin()
	if err != nil {
		return 0, err
	}
	defer done()
	sess, err := e.session()
	if err != nil {
		return 0, err
	}

	renamed := 0
	seen := make(map[uint64]struct{})
	err = sess.Paths(ctx, func(hash uint64, path string) error {
		if _, dup := seen[hash]; dup {
			return nil
		}
		seen[hash] = struct{}{}
		if n := e.store.Rename(hash, path); n > 0 {
			renamed += n
			e.log.Debugw("entry mapped from index", "hash", fmt.Sprintf("%016x", hash), "path", path, "entries", n)
		}
		return nil
	})
	e.log.Infow("index mapping finished", "index", sess.Path(), "renamed", renamed)
	return renamed, err
}
