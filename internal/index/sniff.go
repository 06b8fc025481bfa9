package index

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/joshuapare/thumbkit/internal/buf"
	"github.com/joshuapare/thumbkit/pkg/types"
)

// Kind identifies the storage engine of an index database.
type Kind int

const (
	KindUnknown Kind = iota
	KindESE
	KindSQLite
)

func (k Kind) String() string {
	switch k {
	case KindESE:
		return "ESE"
	case KindSQLite:
		return "SQLite"
	default:
		return "unknown"
	}
}

var sqliteMagic = []byte("SQLite format 3\x00")

const (
	eseMagic          = 0x89ABCDEF
	eseMagicOffset    = 4
	eseRevisionOffset = 0xE8
)

// Sniff classifies the file at path by its header.
func Sniff(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	head := make([]byte, len(sqliteMagic))
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF {
		return KindUnknown, fmt.Errorf("%s: %w", path, types.ErrNotIndexDatabase)
	}
	return sniffBytes(head[:n], path)
}

func sniffBytes(head []byte, path string) (Kind, error) {
	switch {
	case bytes.HasPrefix(head, sqliteMagic):
		return KindSQLite, nil
	case len(head) >= eseMagicOffset+4 && buf.U32LE(head[eseMagicOffset:]) == eseMagic:
		return KindESE, nil
	default:
		return KindUnknown, fmt.Errorf("%s: %w", path, types.ErrNotIndexDatabase)
	}
}
