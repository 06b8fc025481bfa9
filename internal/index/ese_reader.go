package index

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/Velocidex/ordereddict"
	"github.com/google/uuid"
	"www.velocidex.com/golang/go-ese/parser"

	"github.com/joshuapare/thumbkit/internal/buf"
	"github.com/joshuapare/thumbkit/internal/mmfile"
	"github.com/joshuapare/thumbkit/pkg/types"
)

// goESE reads Windows.edb through go-ese over a mapped file.
type goESE struct {
	file     *mmfile.File
	catalog  *parser.Catalog
	revision uint32
	types    map[string]map[string]string // table -> column -> type
}

func openGoESE(path string) (*goESE, error) {
	f, err := mmfile.Open(path)
	if err != nil {
		return nil, err
	}
	head := f.Bytes()
	if len(head) < eseRevisionOffset+4 {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, types.ErrNotIndexDatabase)
	}

	ectx, err := parser.NewESEContext(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	catalog, err := parser.ReadCatalog(ectx)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &goESE{
		file:     f,
		catalog:  catalog,
		revision: buf.U32LE(head[eseRevisionOffset:]),
		types:    make(map[string]map[string]string),
	}, nil
}

func (g *goESE) Revision() uint32 { return g.revision }

func (g *goESE) Tables() []string { return g.catalog.Tables.Keys() }

func (g *goESE) table(name string) (*parser.Table, error) {
	v, ok := g.catalog.Tables.Get(name)
	if !ok {
		return nil, fmt.Errorf("table %s: %w", name, types.ErrNotFound)
	}
	t, ok := v.(*parser.Table)
	if !ok {
		return nil, fmt.Errorf("table %s: %w", name, types.ErrIndexSchema)
	}
	return t, nil
}

func (g *goESE) Columns(name string) ([]eseColumn, error) {
	t, err := g.table(name)
	if err != nil {
		return nil, err
	}
	out, kinds := tableColumns(t)
	g.types[name] = kinds
	return out, nil
}

// tableColumns lists the columns of t and maps each name to its ESE type.
func tableColumns(t *parser.Table) ([]eseColumn, map[string]string) {
	kinds := make(map[string]string, len(t.Columns))
	out := make([]eseColumn, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c == nil {
			continue
		}
		kinds[c.Name] = c.Type
		out = append(out, eseColumn{
			ID:    c.Identifier,
			Name:  c.Name,
			Type:  c.Type,
			Flags: c.Flags,
			Size:  int(c.SpaceUsage),
		})
	}
	return out, kinds
}

func (g *goESE) Scan(ctx context.Context, name string, fn func(map[string]any) error) error {
	kinds := g.types[name]
	if kinds == nil {
		if _, err := g.Columns(name); err != nil {
			return err
		}
		kinds = g.types[name]
	}
	return g.catalog.DumpTable(name, func(row *ordereddict.Dict) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out := make(map[string]any, row.Len())
		for _, key := range row.Keys() {
			v, _ := row.Get(key)
			out[key] = normalizeESE(kinds[key], v)
		}
		return fn(out)
	})
}

func (g *goESE) Close() error { return g.file.Close() }

// normalizeESE converts go-ese's rendering of a value back into the raw
// form the decoder expects. Binary columns come out hex encoded and GUIDs as
// text. Text columns, compressed or not, are already expanded to strings and
// pass through.
func normalizeESE(coltyp string, v any) any {
	s, isString := v.(string)
	if !isString {
		return v
	}
	switch coltyp {
	case "Binary", "Long Binary":
		if b, err := hex.DecodeString(s); err == nil {
			return b
		}
		return []byte(s)
	case "GUID":
		u, err := uuid.Parse(strings.Trim(s, "{}"))
		if err != nil {
			return v
		}
		b := GUIDToWindows(u)
		return b[:]
	}
	return v
}
