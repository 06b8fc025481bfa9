package index

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/joshuapare/thumbkit/internal/namecache"
	"github.com/joshuapare/thumbkit/pkg/types"
)

// Table names of the two Windows Search layouts.
const (
	tablePropertyStore = "SystemIndex_PropertyStore" // Windows 8 and later
	tableLegacy        = "SystemIndex_0A"            // Vista, 7
)

// revisionPropertyStore is the ESE format revision (header offset 0xE8)
// at or above which the property store table is preferred. It only breaks
// the tie when a database carries both tables.
const revisionPropertyStore = 0x11

// eseColumn is a column as reported by the ESE reader.
type eseColumn struct {
	ID    uint32
	Name  string
	Type  string
	Flags uint32
	Size  int
}

// eseReader is the part of an ESE library the backend needs. Rows are
// handed over keyed by column name with values already normalized: binary
// columns as []byte, GUIDs as 16 bytes in Windows layout.
type eseReader interface {
	Revision() uint32
	Tables() []string
	Columns(table string) ([]eseColumn, error)
	Scan(ctx context.Context, table string, fn func(row map[string]any) error) error
	Close() error
}

// errStopScan ends a table scan early.
var errStopScan = errors.New("stop scan")

type eseBackend struct {
	r     eseReader
	table string
	cat   *Catalog
	thumb *Column
	rows  map[uint64]int // thumbnail id -> row position, first row wins
}

func newESEBackend(ctx context.Context, r eseReader, names *namecache.Cache) (*eseBackend, error) {
	table, err := pickTable(r)
	if err != nil {
		return nil, err
	}
	cols, err := r.Columns(table)
	if err != nil {
		return nil, err
	}

	b := &eseBackend{r: r, table: table, cat: newCatalog(), rows: make(map[uint64]int)}
	for _, c := range cols {
		b.cat.add(names, Column{
			ID:         c.ID,
			Name:       c.Name,
			VarType:    varTypeForESE(c.Type),
			Type:       c.Type,
			Compressed: c.Flags&compressedFlag != 0,
			MaxSize:    c.Size,
		})
	}
	thumb, ok := b.cat.ByProperty(PropThumbnailCacheID)
	if !ok {
		return nil, fmt.Errorf("%s column in %s: %w", PropThumbnailCacheID, table, types.ErrIndexSchema)
	}
	b.thumb = thumb

	if err := b.prescan(ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// pickTable selects the value table. A database normally holds only one of
// the two layouts; when both exist the schema revision picks.
func pickTable(r eseReader) (string, error) {
	tables := r.Tables()
	legacy := slices.Contains(tables, tableLegacy)
	store := slices.Contains(tables, tablePropertyStore)
	switch {
	case legacy && store:
		if r.Revision() >= revisionPropertyStore {
			return tablePropertyStore, nil
		}
		return tableLegacy, nil
	case store:
		return tablePropertyStore, nil
	case legacy:
		return tableLegacy, nil
	default:
		return "", fmt.Errorf("no %s or %s table: %w", tablePropertyStore, tableLegacy, types.ErrIndexSchema)
	}
}

// prescan records the row position of every thumbnail id.
func (b *eseBackend) prescan(ctx context.Context) error {
	pos := 0
	return b.r.Scan(ctx, b.table, func(row map[string]any) error {
		defer func() { pos++ }()
		v := row[b.thumb.Name]
		if v == nil {
			return nil
		}
		raw, isBytes := v.([]byte)
		if isBytes && len(raw) == 0 {
			return nil
		}
		h, ok := ThumbnailHash(v)
		if !ok {
			return fmt.Errorf("%s value of %d bytes at row %d: %w", PropThumbnailCacheID, len(raw), pos, types.ErrIndexSchema)
		}
		if _, seen := b.rows[h]; !seen {
			b.rows[h] = pos
		}
		return nil
	})
}

func (b *eseBackend) catalog() *Catalog { return b.cat }

func (b *eseBackend) values(row map[string]any) []rawValue {
	out := make([]rawValue, 0, len(row))
	for _, col := range b.cat.columns {
		if v, ok := row[col.Name]; ok && v != nil {
			out = append(out, rawValue{col: col, value: v})
		}
	}
	return out
}

func (b *eseBackend) lookup(ctx context.Context, hash uint64) ([]rawValue, error) {
	var found []rawValue
	err := b.lookupMany(ctx, []uint64{hash}, func(_ uint64, v []rawValue) { found = v })
	return found, err
}

// lookupMany revisits the rows of the wanted hashes in one table pass.
func (b *eseBackend) lookupMany(ctx context.Context, hashes []uint64, fn func(uint64, []rawValue)) error {
	want := make(map[int][]uint64)
	last := -1
	for _, h := range hashes {
		if pos, ok := b.rows[h]; ok {
			want[pos] = append(want[pos], h)
			last = max(last, pos)
		}
	}
	if len(want) == 0 {
		return nil
	}

	pos := 0
	err := b.r.Scan(ctx, b.table, func(row map[string]any) error {
		defer func() { pos++ }()
		if hs, ok := want[pos]; ok {
			values := b.values(row)
			for _, h := range hs {
				fn(h, values)
			}
		}
		if pos >= last {
			return errStopScan
		}
		return nil
	})
	if errors.Is(err, errStopScan) {
		return nil
	}
	return err
}

func (b *eseBackend) pairs(ctx context.Context, fn func(uint64, rawValue) error) error {
	pathCol, ok := b.cat.ByProperty(PropItemPathDisplay)
	if !ok {
		return fmt.Errorf("%s column: %w", PropItemPathDisplay, types.ErrNotFound)
	}
	return b.r.Scan(ctx, b.table, func(row map[string]any) error {
		h, ok := ThumbnailHash(row[b.thumb.Name])
		if !ok {
			return nil
		}
		path := row[pathCol.Name]
		if path == nil {
			return nil
		}
		return fn(h, rawValue{col: pathCol, value: path})
	})
}

func (b *eseBackend) close() error { return b.r.Close() }
