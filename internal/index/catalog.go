package index

import (
	"slices"

	"github.com/joshuapare/thumbkit/internal/namecache"
)

// Well-known property names.
const (
	PropThumbnailCacheID = "System_ThumbnailCacheId"
	PropItemPathDisplay  = "System_ItemPathDisplay"
	PropFileAttributes   = "System_FileAttributes"
	PropSFGAOFlags       = "System_SFGAOFlags"
	PropLinkTargetSFGAO  = "System_Link_TargetSFGAOFlags"
	PropSize             = "System_Size"
	PropInvertedMD5      = "InvertedOnlyMD5"
	PropInvertedPids     = "InvertedOnlyPids"
)

// compressedFlag marks an ESE column whose values are stored compressed.
const compressedFlag = 0x80000

// Column describes one indexed property.
type Column struct {
	ID         uint32
	Name       string // raw column name, e.g. "4447-System_ItemPathDisplay"
	Property   string // interned property name
	VarType    VarType
	Type       string // physical column type as reported by the backend
	Compressed bool
	MaxSize    int
}

// Catalog is the ordered list of property columns of one open database.
type Catalog struct {
	columns []*Column
	byID    map[uint32]*Column
	byName  map[string]*Column
	byProp  map[string]*Column
}

func newCatalog() *Catalog {
	return &Catalog{
		byID:   make(map[uint32]*Column),
		byName: make(map[string]*Column),
		byProp: make(map[string]*Column),
	}
}

func (c *Catalog) add(names *namecache.Cache, col Column) *Column {
	col.Property = names.Intern(col.Name)
	p := &col
	c.columns = append(c.columns, p)
	c.byID[col.ID] = p
	c.byName[col.Name] = p
	if _, dup := c.byProp[col.Property]; !dup {
		c.byProp[col.Property] = p
	}
	return p
}

// Columns returns the columns in catalog order.
func (c *Catalog) Columns() []*Column { return slices.Clone(c.columns) }

// Len returns the number of columns.
func (c *Catalog) Len() int { return len(c.columns) }

// ByID returns the column with backend id.
func (c *Catalog) ByID(id uint32) (*Column, bool) {
	col, ok := c.byID[id]
	return col, ok
}

// ByName returns the column with the raw name.
func (c *Catalog) ByName(name string) (*Column, bool) {
	col, ok := c.byName[name]
	return col, ok
}

// ByProperty returns the first column carrying property.
func (c *Catalog) ByProperty(property string) (*Column, bool) {
	col, ok := c.byProp[property]
	return col, ok
}
