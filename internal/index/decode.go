package index

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joshuapare/thumbkit/internal/buf"
	"github.com/joshuapare/thumbkit/internal/format"
)

// Decoder renders raw column values as display strings. Values arrive as
// the backend produced them: []byte, string, integers, bool, float64 or
// time.Time.
type Decoder struct {
	// Text expands compressed columns. Nil leaves them blank.
	Text TextDecompressor
}

// Decode renders v, a value of col.
func (d *Decoder) Decode(col *Column, v any) string {
	if v == nil {
		return ""
	}
	// Compressed columns arrive as bytes only when the reader left them
	// packed. Text the reader already expanded decodes like any other.
	if b, isBytes := v.([]byte); isBytes && col.Compressed {
		return d.uncompress(b)
	}
	if s, ok := decodeNamed(col.Property, v); ok {
		return s
	}

	vt := col.VarType
	if vt.IsVector() {
		return decodeVector(vt.Base(), v)
	}
	switch vt {
	case VTBool:
		if n, ok := toUint(v); ok {
			return strconv.FormatBool(n != 0)
		}
	case VTI1, VTI2, VTI4, VTI8, VTInt:
		if n, ok := toInt(v); ok {
			return strconv.FormatInt(n, 10)
		}
	case VTUI1, VTUI2, VTUI4, VTUI8, VTUInt, VTError:
		if n, ok := toUint(v); ok {
			return strconv.FormatUint(n, 10)
		}
	case VTR4, VTR8:
		if f, ok := toFloat(v, vt == VTR4); ok {
			bits := 64
			if vt == VTR4 {
				bits = 32
			}
			return strconv.FormatFloat(f, 'g', -1, bits)
		}
	case VTCY:
		if n, ok := toInt(v); ok {
			return strconv.FormatFloat(float64(n)/10000, 'f', 4, 64)
		}
	case VTFiletime:
		if t, ok := v.(time.Time); ok {
			return FormatTime(t)
		}
		if n, ok := toUint(v); ok {
			return FormatFiletime(n)
		}
	case VTDate:
		if t, ok := v.(time.Time); ok {
			return FormatTime(t)
		}
		if f, ok := toFloat(v, false); ok {
			return FormatTime(OLEDateToTime(f))
		}
	case VTCLSID:
		if s, ok := FormatGUID(v); ok {
			return s
		}
	case VTLPSTR:
		if b, ok := toBytes(v); ok {
			return strings.TrimRight(string(b), "\x00")
		}
	}
	return decodeText(v)
}

func (d *Decoder) uncompress(v any) string {
	if d == nil || d.Text == nil {
		return ""
	}
	b, ok := toBytes(v)
	if !ok || len(b) == 0 {
		return ""
	}
	s, err := d.Text.Uncompress(b)
	if err != nil {
		return ""
	}
	return s
}

// decodeNamed applies the formats certain properties get regardless of
// their declared type.
func decodeNamed(property string, v any) (string, bool) {
	switch property {
	case PropFileAttributes:
		if n, ok := toUint(v); ok {
			return FileAttributes(uint32(n)), true
		}
	case PropSFGAOFlags, PropLinkTargetSFGAO:
		if n, ok := toUint(v); ok {
			return SFGAOFlags(uint32(n)), true
		}
	case PropSize:
		if n, ok := toUint(v); ok {
			return strconv.FormatUint(n, 10) + " bytes", true
		}
	case PropThumbnailCacheID:
		if h, ok := ThumbnailHash(v); ok {
			return fmt.Sprintf("%016x", h), true
		}
	case PropInvertedMD5, PropInvertedPids:
		if b, ok := toBytes(v); ok {
			return hex.EncodeToString(b), true
		}
	}
	return "", false
}

func decodeVector(base VarType, v any) string {
	b, isBytes := v.([]byte)
	width := 0
	switch base {
	case VTI1, VTUI1:
		width = 1
	case VTI2, VTUI2, VTBool:
		width = 2
	case VTI4, VTUI4, VTInt, VTUInt:
		width = 4
	case VTI8, VTUI8, VTFiletime:
		width = 8
	}
	if !isBytes || width == 0 || len(b)%width != 0 {
		return decodeText(v)
	}
	var plain Decoder
	col := &Column{VarType: base}
	parts := make([]string, 0, len(b)/width)
	for off := 0; off < len(b); off += width {
		parts = append(parts, plain.Decode(col, b[off:off+width]))
	}
	return strings.Join(parts, ";")
}

// decodeText is the fallback: UTF-16 text, with embedded NUL-separated
// members joined by ";".
func decodeText(v any) string {
	switch x := v.(type) {
	case []byte:
		return strings.Join(format.DecodeUTF16List(x), ";")
	case string:
		var parts []string
		for _, p := range strings.Split(x, "\x00") {
			if p != "" {
				parts = append(parts, p)
			}
		}
		return strings.Join(parts, ";")
	case bool:
		return strconv.FormatBool(x)
	case time.Time:
		return FormatTime(x)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	if n, ok := toInt(v); ok {
		return strconv.FormatInt(n, 10)
	}
	if n, ok := toUint(v); ok {
		return strconv.FormatUint(n, 10)
	}
	return fmt.Sprint(v)
}

// ThumbnailHash extracts an entry hash from a System_ThumbnailCacheId value.
// Binary values must be exactly 8 bytes, little-endian.
func ThumbnailHash(v any) (uint64, bool) {
	switch x := v.(type) {
	case []byte:
		if len(x) != 8 {
			return 0, false
		}
		return binary.LittleEndian.Uint64(x), true
	case int64:
		return uint64(x), true
	case uint64:
		return x, true
	}
	return 0, false
}

// FormatFiletime renders a FILETIME as "M/D/Y (HH:MM:SS.mmm) [UTC]".
func FormatFiletime(ft uint64) string {
	return FormatTime(format.FiletimeToTime(ft))
}

// FormatTime renders t in UTC using the FILETIME display format.
func FormatTime(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%d/%d/%d (%02d:%02d:%02d.%03d) [UTC]",
		int(t.Month()), t.Day(), t.Year(),
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond()/int(time.Millisecond))
}

var oleEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// OLEDateToTime converts an OLE automation date. The integer part counts
// days from 1899-12-30 and the fraction is the time of day, also for
// negative dates.
func OLEDateToTime(days float64) time.Time {
	whole := math.Trunc(days)
	frac := math.Abs(days - whole)
	ms := math.Round(frac * 24 * 60 * 60 * 1000)
	return oleEpoch.AddDate(0, 0, int(whole)).Add(time.Duration(ms) * time.Millisecond)
}

// FormatGUID renders a GUID as an uppercase braced string. Binary values
// use the Windows memory layout.
func FormatGUID(v any) (string, bool) {
	var u uuid.UUID
	switch x := v.(type) {
	case []byte:
		if len(x) != 16 {
			return "", false
		}
		u = GUIDFromWindows(x)
	case uuid.UUID:
		u = x
	case string:
		parsed, err := uuid.Parse(strings.Trim(x, "{}"))
		if err != nil {
			return "", false
		}
		u = parsed
	default:
		return "", false
	}
	return "{" + strings.ToUpper(u.String()) + "}", true
}

// GUIDFromWindows converts 16 bytes in Windows GUID layout (first three
// fields little-endian) to a uuid.UUID.
func GUIDFromWindows(b []byte) uuid.UUID {
	var u uuid.UUID
	copy(u[:], b)
	u[0], u[1], u[2], u[3] = b[3], b[2], b[1], b[0]
	u[4], u[5] = b[5], b[4]
	u[6], u[7] = b[7], b[6]
	return u
}

// GUIDToWindows is the inverse of GUIDFromWindows.
func GUIDToWindows(u uuid.UUID) [16]byte {
	var b [16]byte
	copy(b[:], u[:])
	b[0], b[1], b[2], b[3] = u[3], u[2], u[1], u[0]
	b[4], b[5] = u[5], u[4]
	b[6], b[7] = u[7], u[6]
	return b
}

func toBytes(v any) ([]byte, bool) {
	switch x := v.(type) {
	case []byte:
		return x, true
	case string:
		return []byte(x), true
	}
	return nil, false
}

func toUint(v any) (uint64, bool) {
	switch x := v.(type) {
	case []byte:
		return buf.UintLE(x)
	case bool:
		if x {
			return 1, true
		}
		return 0, true
	case uint8:
		return uint64(x), true
	case uint16:
		return uint64(x), true
	case uint32:
		return uint64(x), true
	case uint64:
		return x, true
	case uint:
		return uint64(x), true
	}
	if n, ok := toInt(v); ok {
		return uint64(n), true
	}
	return 0, false
}

func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case []byte:
		return buf.IntLE(x)
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case int:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	}
	return 0, false
}

func toFloat(v any, single bool) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case []byte:
		if single && len(x) == 4 {
			return float64(math.Float32frombits(binary.LittleEndian.Uint32(x))), true
		}
		if len(x) == 8 {
			return math.Float64frombits(binary.LittleEndian.Uint64(x)), true
		}
	}
	return 0, false
}
