package format

import "bytes"

// ImageKind classifies an embedded data blob by its leading bytes.
type ImageKind int

const (
	ImageUnknown ImageKind = iota
	ImageBMP
	ImageJPEG
	ImagePNG
)

func (k ImageKind) String() string {
	switch k {
	case ImageBMP:
		return "BMP"
	case ImageJPEG:
		return "JPEG"
	case ImagePNG:
		return "PNG"
	default:
		return "Unknown"
	}
}

// Extension returns the file extension for k without the dot, or "" when
// the kind is unknown.
func (k ImageKind) Extension() string {
	switch k {
	case ImageBMP:
		return "bmp"
	case ImageJPEG:
		return "jpg"
	case ImagePNG:
		return "png"
	default:
		return ""
	}
}

// SniffImage classifies b, which holds up to SniffSize leading bytes of a
// data blob. The claimed extension in the record plays no part.
func SniffImage(b []byte) ImageKind {
	switch {
	case bytes.HasPrefix(b, PNGSignature):
		return ImagePNG
	case bytes.HasPrefix(b, JPEGSignature):
		return ImageJPEG
	case bytes.HasPrefix(b, BMPSignature):
		return ImageBMP
	default:
		return ImageUnknown
	}
}
