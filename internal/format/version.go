package format

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is the database version tag stored in the header. The tag selects
// both the header size and the entry record layout.
type Version uint32

const (
	VersionVista  Version = 0x14
	VersionWin7   Version = 0x15
	VersionWin8   Version = 0x1A
	VersionWin8v2 Version = 0x1C
	VersionWin8v3 Version = 0x1E
	VersionWin8_1 Version = 0x1F
	VersionWin10  Version = 0x20
)

// Versions lists every supported version tag in ascending order.
var Versions = []Version{
	VersionVista, VersionWin7, VersionWin8, VersionWin8v2,
	VersionWin8v3, VersionWin8_1, VersionWin10,
}

func (v Version) String() string {
	switch v {
	case VersionVista:
		return "Windows Vista"
	case VersionWin7:
		return "Windows 7"
	case VersionWin8:
		return "Windows 8"
	case VersionWin8v2:
		return "Windows 8 v2"
	case VersionWin8v3:
		return "Windows 8 v3"
	case VersionWin8_1:
		return "Windows 8.1"
	case VersionWin10:
		return "Windows 10"
	default:
		return fmt.Sprintf("Unknown (0x%02X)", uint32(v))
	}
}

// Valid reports whether v is one of the known version tags.
func (v Version) Valid() bool {
	for _, known := range Versions {
		if v == known {
			return true
		}
	}
	return false
}

// HeaderSize returns the full database header size for v.
func (v Version) HeaderSize() int {
	if v == VersionWin8v2 {
		return HeaderSizeWin8v2
	}
	return HeaderSize
}

// Layout returns the entry record layout used by v.
func (v Version) Layout() (Layout, error) {
	switch v {
	case VersionVista:
		return LayoutVista, nil
	case VersionWin7:
		return LayoutWin7, nil
	case VersionWin8, VersionWin8v2, VersionWin8v3, VersionWin8_1, VersionWin10:
		return LayoutWin8, nil
	default:
		return 0, fmt.Errorf("version 0x%X: %w", uint32(v), ErrUnsupportedVersion)
	}
}

var (
	cacheTypesVista = []string{"32", "96", "256", "1024", "sr"}
	cacheTypesWin8  = []string{"16", "32", "48", "96", "256", "1024", "sr", "wide", "exif"}
	cacheTypesWin81 = []string{"16", "32", "48", "96", "256", "1024", "1600", "sr", "wide", "exif", "wide_alternate"}
	cacheTypesWin10 = []string{
		"16", "32", "48", "96", "256", "768", "1280", "1920", "2560",
		"sr", "wide", "exif", "wide_alternate", "custom_stream",
	}
)

// CacheTypeLabel renders the header's cache type index as the thumbnail size
// label Windows uses in the database file name (thumbcache_<label>.db).
func (v Version) CacheTypeLabel(index uint32) string {
	var table []string
	switch v {
	case VersionVista, VersionWin7:
		table = cacheTypesVista
	case VersionWin8, VersionWin8v2, VersionWin8v3:
		table = cacheTypesWin8
	case VersionWin8_1:
		table = cacheTypesWin81
	case VersionWin10:
		table = cacheTypesWin10
	}
	if int(index) < len(table) {
		return table[index]
	}
	return fmt.Sprintf("unknown(%d)", index)
}

var versionNames = map[string]Version{
	"vista":  VersionVista,
	"win7":   VersionWin7,
	"win8":   VersionWin8,
	"win8v2": VersionWin8v2,
	"win8v3": VersionWin8v3,
	"win8.1": VersionWin8_1,
	"win81":  VersionWin8_1,
	"win10":  VersionWin10,
	"win11":  VersionWin10,
}

// ParseVersion accepts a short name such as "win7" or "win8.1", or a raw
// version tag such as "0x20".
func ParseVersion(s string) (Version, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if v, ok := versionNames[key]; ok {
		return v, nil
	}
	n, err := strconv.ParseUint(key, 0, 32)
	if err == nil && Version(n).Valid() {
		return Version(n), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedVersion, s)
}
