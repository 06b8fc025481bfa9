package thumbcache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joshuapare/thumbkit/internal/reader"
	"github.com/joshuapare/thumbkit/pkg/types"
)

// Database is the result of parsing one cache file.
type Database struct {
	Path      string
	Version   types.Version
	CacheType string // size label, e.g. "256" or "wide"
	Header    HeaderInfo
	Entries   []*types.Entry
	Report    *types.DiagnosticReport

	// Truncated is set when parsing stopped at a record whose data runs
	// past the end of the file. Entries before it are kept.
	Truncated bool
}

// HeaderInfo is the database header as stored.
type HeaderInfo struct {
	FirstEntry     uint32
	AvailableEntry uint32
	EntryCount     uint32
	Size           int
}

// ParseDatabase parses path and adds its entries to the engine. Header
// problems fail the whole file; damaged records are skipped and counted in
// the report.
func (e *Engine) ParseDatabase(ctx context.Context, path string) (*Database, error) {
	done, err := e.begin()
	if err != nil {
		return nil, err
	}
	defer done()
	return e.parseLocked(ctx, path)
}

func (e *Engine) parseLocked(ctx context.Context, path string) (*Database, error) {
	res, err := reader.ParseFile(ctx, path, e.parserOptions())
	if err != nil && res == nil {
		e.log.Warnw("database rejected", "path", path, "error", err)
		return nil, err
	}

	// A cancelled parse still hands over what it read.
	e.store.AddAll(res.Entries)

	db := &Database{
		Path:      path,
		Version:   res.Header.Version,
		CacheType: res.Header.Version.CacheTypeLabel(res.Header.CacheType),
		Header: HeaderInfo{
			FirstEntry:     res.Header.FirstEntry,
			AvailableEntry: res.Header.AvailableEntry,
			EntryCount:     res.Header.EntryCount,
			Size:           res.Header.Size,
		},
		Entries:   res.Entries,
		Report:    res.Report,
		Truncated: res.Outcome == reader.OutcomeCorrupt,
	}
	s := res.Report.Summary
	e.log.Infow("database parsed",
		"path", path,
		"version", db.Version.String(),
		"entries", len(db.Entries),
		"placeholders", s.Placeholders,
		"resyncs", s.Resyncs,
		"malformed", s.Malformed,
	)
	if db.Truncated {
		e.log.Warnw("database truncated; remaining entries abandoned", "path", path)
	}
	return db, err
}

// IsCacheFileName reports whether name looks like a thumbnail or icon cache
// database.
func IsCacheFileName(name string) bool {
	name = strings.ToLower(name)
	if !strings.HasSuffix(name, ".db") {
		return false
	}
	return strings.HasPrefix(name, "thumbcache_") || strings.HasPrefix(name, "iconcache_")
}

// ParseDirectory parses every cache database directly inside dir in name
// order. Files that fail are skipped; their errors come back joined next to
// the databases that parsed.
func (e *Engine) ParseDirectory(ctx context.Context, dir string) ([]*Database, error) {
	done, err := e.begin()
	if err != nil {
		return nil, err
	}
	defer done()

	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, it := range items {
		if it.Type().IsRegular() && IsCacheFileName(it.Name()) {
			names = append(names, it.Name())
		}
	}
	slices.Sort(names)

	var (
		dbs  []*Database
		errs []error
	)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return dbs, err
		}
		path := filepath.Join(dir, name)
		db, err := e.parseLocked(ctx, path)
		if db != nil {
			dbs = append(dbs, db)
		}
		if err != nil {
			if ctx.Err() != nil {
				return dbs, ctx.Err()
			}
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}
	e.log.Infow("directory parsed", "dir", dir, "databases", len(dbs), "skipped", len(errs))
	return dbs, errors.Join(errs...)
}
