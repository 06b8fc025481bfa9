package livehash

import (
	"path/filepath"
	"strings"
)

// Filter is a case-insensitive extension allow-list.
type Filter struct {
	wrapped string
}

// NewFilter builds a filter from a pipe-delimited list such as
// "jpg|png|bmp". Leading dots are ignored. An empty list allows everything.
func NewFilter(list string) Filter {
	var exts []string
	for _, e := range strings.Split(list, "|") {
		e = strings.TrimPrefix(strings.TrimSpace(strings.ToLower(e)), ".")
		if e != "" {
			exts = append(exts, e)
		}
	}
	if len(exts) == 0 {
		return Filter{}
	}
	return Filter{wrapped: "|" + strings.Join(exts, "|") + "|"}
}

// Empty reports whether the filter allows every name.
func (f Filter) Empty() bool { return f.wrapped == "" }

// Allows reports whether the extension of name is on the list.
func (f Filter) Allows(name string) bool {
	if f.wrapped == "" {
		return true
	}
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return false
	}
	return strings.Contains(f.wrapped, "|"+strings.ToLower(ext)+"|")
}

// String returns the normalized list without the outer pipes.
func (f Filter) String() string { return strings.Trim(f.wrapped, "|") }
