package format

import "golang.org/x/text/encoding/unicode"

var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// DecodeUTF16 decodes UTF-16LE bytes to a Go string, stopping at the first
// NUL code unit. A trailing odd byte is ignored. Undecodable input yields "".
func DecodeUTF16(b []byte) string {
	if len(b)%2 == 1 {
		b = b[:len(b)-1]
	}
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			b = b[:i]
			break
		}
	}
	if len(b) == 0 {
		return ""
	}
	out, err := utf16LE.NewDecoder().Bytes(b)
	if err != nil {
		return ""
	}
	return string(out)
}

// DecodeUTF16List decodes a NUL-separated run of UTF-16LE strings, as stored
// in multi-valued index columns. Empty members are dropped.
func DecodeUTF16List(b []byte) []string {
	if len(b)%2 == 1 {
		b = b[:len(b)-1]
	}
	var out []string
	start := 0
	for i := 0; i+1 < len(b); i += 2 {
		if b[i] == 0 && b[i+1] == 0 {
			if s := DecodeUTF16(b[start:i]); s != "" {
				out = append(out, s)
			}
			start = i + 2
		}
	}
	if start < len(b) {
		if s := DecodeUTF16(b[start:]); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// EncodeUTF16 encodes s as UTF-16LE without a terminator.
func EncodeUTF16(s string) []byte {
	out, _ := utf16LE.NewEncoder().Bytes([]byte(s))
	return out
}
