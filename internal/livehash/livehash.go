// Package livehash recomputes cache entry hashes from files on disk and
// renames the matching entries with the file's real path.
//
// Files come either from a directory walk or from the item paths of an
// open index database. Walks poll their context at every directory entry
// and every file, so cancelling leaves the store with whatever renames
// already happened and nothing half-done.
package livehash

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"

	"go.uber.org/zap"

	"github.com/joshuapare/thumbkit/internal/cachehash"
	"github.com/joshuapare/thumbkit/internal/store"
	"github.com/joshuapare/thumbkit/pkg/types"
)

// Options configure a Hasher.
type Options struct {
	// Extensions is a pipe-delimited allow-list; empty hashes every file.
	Extensions string
	// IncludeFolders hashes directories as well as files.
	IncludeFolders bool
	// VolumeGUID overrides volume GUID discovery for every file.
	VolumeGUID string
	// Versions limits the layouts hashed. Empty uses every version present
	// in the store.
	Versions []types.Version
	Logger   *zap.SugaredLogger
}

// Match is a file whose hash names entries in the store.
type Match struct {
	Path    string
	Hash    uint64
	Version types.Version
	Renamed int
}

// Stats counts what a walk did.
type Stats struct {
	Visited int // directory entries or index paths seen
	Hashed  int // files hashed
	Matched int // files that matched at least one entry
	Renamed int // entries renamed
	Skipped int // filtered out
	Failed  int // unreadable files or unresolved volumes
}

// Hasher matches live files against a store.
type Hasher struct {
	store    *store.Store
	filter   Filter
	folders  bool
	versions []types.Version
	vols     *volumes
	log      *zap.SugaredLogger
}

// New returns a Hasher renaming entries of st.
func New(st *store.Store, opts Options) (*Hasher, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	vols, err := newVolumes(opts.VolumeGUID)
	if err != nil {
		return nil, err
	}
	return &Hasher{
		store:    st,
		filter:   NewFilter(opts.Extensions),
		folders:  opts.IncludeFolders,
		versions: slices.Clone(opts.Versions),
		vols:     vols,
		log:      log,
	}, nil
}

// Filter returns the extension filter in use.
func (h *Hasher) Filter() Filter { return h.filter }

func (h *Hasher) targetVersions() []types.Version {
	if len(h.versions) > 0 {
		return h.versions
	}
	return h.store.Versions()
}

// HashFile hashes path once per target version and renames every entry
// chained under the first hash found in the store. The bool result reports
// a match.
func (h *Hasher) HashFile(ctx context.Context, path string) (Match, bool, error) {
	if err := ctx.Err(); err != nil {
		return Match{}, false, err
	}
	id, err := Identify(path)
	if err != nil {
		return Match{}, false, err
	}
	guid, first, err := h.vols.guidFor(ctx, path)
	if err != nil {
		if first {
			h.log.Warnw("volume GUID lookup failed", "path", path, "error", err)
		}
		return Match{}, false, err
	}

	in := cachehash.Input{VolumeGUID: guid, FileID: id.FileID, LastWrite: id.LastWrite}
	if !id.Dir {
		in.Extension = filepath.Ext(path)
	}

	for _, v := range h.targetVersions() {
		hash := cachehash.Compute(in, v)
		if !h.store.Has(hash) {
			continue
		}
		n := h.store.Rename(hash, path)
		h.log.Debugw("live hash matched", "path", path, "hash", fmt.Sprintf("%016x", hash), "version", v.String(), "renamed", n)
		return Match{Path: path, Hash: hash, Version: v, Renamed: n}, true, nil
	}
	return Match{}, false, nil
}
