package index

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/joshuapare/thumbkit/internal/namecache"
	"github.com/joshuapare/thumbkit/pkg/types"
)

const (
	sqliteCatalogQuery = `SELECT Id, UniqueKey, VariantType FROM SystemIndex_1_PropertyStore_Metadata`

	// sqliteRowQuery returns every value of the first work item whose
	// thumbnail id matches. Ids are stored as little-endian blobs.
	sqliteRowQuery = `
SELECT p.WorkId, p.ColumnId, p.Value
FROM SystemIndex_1_PropertyStore AS p
WHERE p.WorkId = (
	SELECT t.WorkId FROM SystemIndex_1_PropertyStore AS t
	WHERE t.ColumnId = ? AND hex(t.Value) = ?
	ORDER BY t.WorkId LIMIT 1
)`

	sqlitePairsQuery = `
SELECT t.Value, p.Value
FROM SystemIndex_1_PropertyStore AS t
JOIN SystemIndex_1_PropertyStore AS p ON p.WorkId = t.WorkId
WHERE t.ColumnId = ? AND p.ColumnId = ?
ORDER BY t.WorkId`
)

type sqliteBackend struct {
	db    *sql.DB
	cat   *Catalog
	thumb *Column
}

// sqliteDSN opens the database read-only through a file: URI.
func sqliteDSN(path string) string {
	u := url.URL{Scheme: "file", Path: path, RawQuery: "mode=ro"}
	if strings.Contains(path, `\`) || (len(path) > 1 && path[1] == ':') {
		// Windows drive paths do not fit the URI path form.
		return "file:" + path + "?mode=ro"
	}
	return u.String()
}

func openSQLite(ctx context.Context, path string, names *namecache.Cache) (*sqliteBackend, error) {
	db, err := sql.Open("sqlite3", sqliteDSN(path))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	b := &sqliteBackend{db: db, cat: newCatalog()}
	if err := b.loadCatalog(ctx, names); err != nil {
		db.Close()
		return nil, err
	}
	return b, nil
}

func (b *sqliteBackend) loadCatalog(ctx context.Context, names *namecache.Cache) error {
	rows, err := b.db.QueryContext(ctx, sqliteCatalogQuery)
	if err != nil {
		return fmt.Errorf("read property metadata: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id  int64
			key string
			vt  int64
		)
		if err := rows.Scan(&id, &key, &vt); err != nil {
			return err
		}
		b.cat.add(names, Column{ID: uint32(id), Name: key, VarType: VarType(vt), Type: "sqlite"})
	}
	if err := rows.Err(); err != nil {
		return err
	}

	thumb, ok := b.cat.ByProperty(PropThumbnailCacheID)
	if !ok {
		return fmt.Errorf("%s column: %w", PropThumbnailCacheID, types.ErrIndexSchema)
	}
	b.thumb = thumb
	return nil
}

func (b *sqliteBackend) catalog() *Catalog { return b.cat }

// hashHex renders hash the way SQLite's hex() renders its 8-byte
// little-endian blob. ThumbnailHash reads the blob back the same way.
func hashHex(hash uint64) string {
	var x [8]byte
	binary.LittleEndian.PutUint64(x[:], hash)
	return fmt.Sprintf("%X", x[:])
}

func (b *sqliteBackend) lookup(ctx context.Context, hash uint64) ([]rawValue, error) {
	rows, err := b.db.QueryContext(ctx, sqliteRowQuery, b.thumb.ID, hashHex(hash))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []rawValue
	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var (
			workID, colID int64
			value         any
		)
		if err := rows.Scan(&workID, &colID, &value); err != nil {
			return nil, err
		}
		col, ok := b.cat.ByID(uint32(colID))
		if !ok {
			continue
		}
		out = append(out, rawValue{col: col, value: value})
	}
	return out, rows.Err()
}

func (b *sqliteBackend) lookupMany(ctx context.Context, hashes []uint64, fn func(uint64, []rawValue)) error {
	for _, h := range hashes {
		if err := ctx.Err(); err != nil {
			return err
		}
		values, err := b.lookup(ctx, h)
		if err != nil {
			return err
		}
		if len(values) > 0 {
			fn(h, values)
		}
	}
	return nil
}

func (b *sqliteBackend) pairs(ctx context.Context, fn func(uint64, rawValue) error) error {
	pathCol, ok := b.cat.ByProperty(PropItemPathDisplay)
	if !ok {
		return fmt.Errorf("%s column: %w", PropItemPathDisplay, types.ErrNotFound)
	}
	rows, err := b.db.QueryContext(ctx, sqlitePairsQuery, b.thumb.ID, pathCol.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		var thumb, path any
		if err := rows.Scan(&thumb, &path); err != nil {
			return err
		}
		h, ok := ThumbnailHash(thumb)
		if !ok {
			continue
		}
		if err := fn(h, rawValue{col: pathCol, value: path}); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (b *sqliteBackend) close() error { return b.db.Close() }
