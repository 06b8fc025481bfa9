package livehash

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// PathSource yields indexed file paths, keyed by their thumbnail cache id.
// An open index session satisfies it.
type PathSource interface {
	Paths(ctx context.Context, fn func(hash uint64, path string) error) error
}

// Walk hashes every file under root depth-first and calls fn for each
// match. fn may be nil.
func (h *Hasher) Walk(ctx context.Context, root string, fn func(Match)) (Stats, error) {
	var st Stats
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err != nil {
			if path == root {
				return err
			}
			h.log.Debugw("walk skipped", "path", path, "error", err)
			st.Failed++
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		st.Visited++
		if !h.wants(path, d.IsDir()) {
			st.Skipped++
			return nil
		}
		h.hashInto(ctx, path, &st, fn)
		return nil
	})
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		h.log.Warnw("walk failed", "root", root, "error", err)
	}
	h.log.Infow("walk finished", "root", root, "visited", st.Visited, "hashed", st.Hashed, "matched", st.Matched, "renamed", st.Renamed)
	return st, err
}

// FromIndex hashes the item paths of an index database instead of walking
// a directory. Duplicate paths are hashed once. Paths that no longer exist
// count as failed.
func (h *Hasher) FromIndex(ctx context.Context, src PathSource, fn func(Match)) (Stats, error) {
	var (
		st    Stats
		paths []string
		seen  = make(map[string]struct{})
	)
	err := src.Paths(ctx, func(_ uint64, path string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, dup := seen[path]; dup {
			return nil
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return st, err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		st.Visited++
		fi, err := os.Stat(path)
		if err != nil {
			st.Failed++
			continue
		}
		if !h.wants(path, fi.IsDir()) {
			st.Skipped++
			continue
		}
		h.hashInto(ctx, path, &st, fn)
	}
	h.log.Infow("index paths hashed", "paths", len(paths), "hashed", st.Hashed, "matched", st.Matched, "renamed", st.Renamed)
	return st, nil
}

func (h *Hasher) wants(path string, dir bool) bool {
	if dir {
		return h.folders
	}
	return h.filter.Allows(path)
}

func (h *Hasher) hashInto(ctx context.Context, path string, st *Stats, fn func(Match)) {
	m, ok, err := h.HashFile(ctx, path)
	if err != nil {
		if ctx.Err() == nil {
			st.Failed++
		}
		return
	}
	st.Hashed++
	if !ok {
		return
	}
	st.Matched++
	st.Renamed += m.Renamed
	if fn != nil {
		fn(m)
	}
}
