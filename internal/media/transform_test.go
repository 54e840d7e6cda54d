package media

import (
	"errors"
	"testing"
)

func TestParseTransformDefaults(t *testing.T) {
	tr, err := ParseTransform("", "", "", ".png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Format != FormatPNG {
		t.Fatalf("expected png fallback format, got %s", tr.Format)
	}
	if tr.Quality != DefaultQuality {
		t.Fatalf("expected default quality %d, got %d", DefaultQuality, tr.Quality)
	}
	if tr.Width != 0 {
		t.Fatalf("expected no width, got %d", tr.Width)
	}
}

func TestParseTransformNormalizesJPEGAliases(t *testing.T) {
	a, err := ParseTransform("jpg", "60", "400", ".png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := ParseTransform("jpeg", "60", "400", ".png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Key("a1") != b.Key("a1") {
		t.Fatalf("jpg and jpeg should share a cache key, got %s vs %s", a.Key("a1"), b.Key("a1"))
	}
}

func TestParseTransformClampsQuality(t *testing.T) {
	tr, err := ParseTransform("png", "150", "", ".png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Quality != MaxQuality {
		t.Fatalf("expected quality clamped to %d, got %d", MaxQuality, tr.Quality)
	}
	tr, err = ParseTransform("png", "0", "", ".png")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tr.Quality != MinQuality {
		t.Fatalf("expected quality clamped to %d, got %d", MinQuality, tr.Quality)
	}
}

func TestParseTransformRejectsBadValues(t *testing.T) {
	if _, err := ParseTransform("png", "high", "", ".png"); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for non-numeric quality, got %v", err)
	}
	if _, err := ParseTransform("png", "", "abc", ".png"); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for non-numeric width, got %v", err)
	}
	if _, err := ParseTransform("png", "", "-10", ".png"); !errors.Is(err, ErrInvalidParameter) {
		t.Fatalf("expected ErrInvalidParameter for negative width, got %v", err)
	}
	if _, err := ParseTransform("tiff", "", "", ".png"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat for tiff, got %v", err)
	}
	if _, err := ParseTransform("", "50", "", ".bmp"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat for unsupported original extension, got %v", err)
	}
}

func TestKeyDeterministicAndCollisionFree(t *testing.T) {
	base := Transform{Format: FormatWEBP, Quality: 60, Width: 400}

	if base.Key("a1") != base.Key("a1") {
		t.Fatalf("identical transforms must produce identical keys")
	}
	if got, want := base.Key("a1"), "a1_q60_w400.webp"; got != want {
		t.Fatalf("expected key %s, got %s", want, got)
	}

	variants := []Transform{
		{Format: FormatWEBP, Quality: 61, Width: 400},
		{Format: FormatWEBP, Quality: 60, Width: 401},
		{Format: FormatWEBP, Quality: 60, Width: 0},
		{Format: FormatPNG, Quality: 60, Width: 400},
		{Format: FormatJPEG, Quality: 60, Width: 400},
	}
	seen := map[string]bool{base.Key("a1"): true}
	for _, v := range variants {
		key := v.Key("a1")
		if seen[key] {
			t.Fatalf("key collision for transform %+v: %s", v, key)
		}
		seen[key] = true
	}
}

func TestKeyOmittedWidthUsesOrigToken(t *testing.T) {
	tr := Transform{Format: FormatJPEG, Quality: 75}
	if got, want := tr.Key("a1"), "a1_q75_worig.jpeg"; got != want {
		t.Fatalf("expected key %s, got %s", want, got)
	}
}
