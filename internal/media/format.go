package media

import "strings"

// Format is the target encoding for a transcoded variant, resolved once at
// request validation time. Everything downstream matches on the enum, never
// on raw query strings.
type Format int

const (
	FormatUnsupported Format = iota
	FormatPNG
	FormatJPEG
	FormatWEBP
)

func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return FormatPNG
	case "jpg", "jpeg":
		return FormatJPEG
	case "webp":
		return FormatWEBP
	default:
		return FormatUnsupported
	}
}

// String returns the normalized name used in variant filenames, so "jpg" and
// "jpeg" requests share one cache entry.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	case FormatWEBP:
		return "webp"
	default:
		return "unsupported"
	}
}

func (f Format) MIME() string {
	return "image/" + f.String()
}

var mimeByExtension = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".pdf":  "application/pdf",
}

// MIMEForExtension maps an original file's extension (with leading dot) to
// its content type, defaulting to a generic binary type.
func MIMEForExtension(ext string) string {
	if mime, ok := mimeByExtension[strings.ToLower(ext)]; ok {
		return mime
	}
	return "application/octet-stream"
}
