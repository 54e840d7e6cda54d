package media

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultQuality = 75
	MinQuality     = 1
	MaxQuality     = 100
)

// Transform is the normalized value object for one variant request. Width 0
// means no resize.
type Transform struct {
	Format  Format
	Quality int
	Width   int
}

// ParseTransform normalizes the raw query values into a Transform.
// fallbackExt (the original's extension, with or without leading dot) is
// used when no target format is requested.
//
// Quality defaults to 75 and is clamped into the 1-100 encoder range;
// non-numeric quality or width, and non-positive width, fail with
// ErrInvalidParameter. A target format outside {png, jpeg, webp} fails with
// ErrUnsupportedFormat.
func ParseTransform(format, quality, width, fallbackExt string) (Transform, error) {
	var t Transform

	q := DefaultQuality
	if quality != "" {
		parsed, err := strconv.Atoi(quality)
		if err != nil {
			return t, fmt.Errorf("%w: quality %q is not a number", ErrInvalidParameter, quality)
		}
		q = parsed
		if q < MinQuality {
			q = MinQuality
		}
		if q > MaxQuality {
			q = MaxQuality
		}
	}
	t.Quality = q

	if width != "" {
		parsed, err := strconv.Atoi(width)
		if err != nil {
			return t, fmt.Errorf("%w: width %q is not a number", ErrInvalidParameter, width)
		}
		if parsed <= 0 {
			return t, fmt.Errorf("%w: width must be positive, got %d", ErrInvalidParameter, parsed)
		}
		t.Width = parsed
	}

	target := format
	if target == "" {
		target = strings.TrimPrefix(fallbackExt, ".")
	}
	t.Format = ParseFormat(target)
	if t.Format == FormatUnsupported {
		return t, fmt.Errorf("%w: %q", ErrUnsupportedFormat, target)
	}

	return t, nil
}

// Key derives the deterministic variant filename for an asset id and a
// normalized transform: <id>_q<quality>_w<width|orig>.<format>. Equal
// transforms always map to the same key and any differing field changes it.
func (t Transform) Key(assetID string) string {
	widthPart := "orig"
	if t.Width > 0 {
		widthPart = strconv.Itoa(t.Width)
	}
	return fmt.Sprintf("%s_q%d_w%s.%s", assetID, t.Quality, widthPart, t.Format)
}
