package thumbcache

import (
	"context"

	"github.com/joshuapare/thumbkit/internal/livehash"
	"github.com/joshuapare/thumbkit/pkg/types"
)

// ScanOptions configure live hashing.
type ScanOptions struct {
	// Extensions is a pipe-delimited allow-list such as "jpg|png". Empty
	// hashes every file.
	Extensions string
	// IncludeFolders hashes directories too.
	IncludeFolders bool
	// VolumeGUID overrides volume discovery, e.g. for an image mounted on
	// another system.
	VolumeGUID string
	// Versions restricts the layouts hashed. Empty uses the versions of the
	// parsed databases.
	Versions []types.Version
	// OnMatch is called for every matched file.
	OnMatch func(Match)
}

// Match is a live file whose hash named cache entries.
type Match = livehash.Match

// ScanStats counts the work of a scan.
type ScanStats = livehash.Stats

func (e *Engine) hasher(opts ScanOptions) (*livehash.Hasher, error) {
	return livehash.New(e.store, livehash.Options{
		Extensions:     opts.Extensions,
		IncludeFolders: opts.IncludeFolders,
		VolumeGUID:     opts.VolumeGUID,
		Versions:       opts.Versions,
		Logger:         e.log,
	})
}

// HashAndMatch hashes one file for each parsed version and renames every
// entry of the first matching hash.
func (e *Engine) HashAndMatch(ctx context.Context, path string, opts ScanOptions) (uint64, bool, error) {
	done, err := e.begin()
	if err != nil {
		return 0, false, err
	}
	defer done()
	h, err := e.hasher(opts)
	if err != nil {
		return 0, false, err
	}
	m, ok, err := h.HashFile(ctx, path)
	if err != nil || !ok {
		return 0, false, err
	}
	if opts.OnMatch != nil {
		opts.OnMatch(m)
	}
	return m.Hash, true, nil
}

// ScanFilesystem walks root and renames the entries of every matching
// file. Cancelling ctx stops the walk; renames already made stay.
func (e *Engine) ScanFilesystem(ctx context.Context, root string, opts ScanOptions) (ScanStats, error) {
	done, err := e.begin()
	if err != nil {
		return ScanStats{}, err
	}
	defer done()
	h, err := e.hasher(opts)
	if err != nil {
		return ScanStats{}, err
	}
	return h.Walk(ctx, root, opts.OnMatch)
}

// ScanIndexPaths hashes the files listed by the open index instead of
// walking a directory.
func (e *Engine) ScanIndexPaths(ctx context.Context, opts ScanOptions) (ScanStats, error) {
	done, err := e.begin()
	if err != nil {
		return ScanStats{}, err
	}
	defer done()
	sess, err := e.session()
	if err != nil {
		return ScanStats{}, err
	}
	h, err := e.hasher(opts)
	if err != nil {
		return ScanStats{}, err
	}
	return h.FromIndex(ctx, sess, opts.OnMatch)
}
