package media

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/yungbote/mediahost-backend/internal/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}
	return log
}

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestTransformResizesToRequestedWidth(t *testing.T) {
	tc := NewImageTranscoder(testLogger(t))
	src := encodeTestPNG(t, 800, 600)

	out, err := tc.Transform(context.Background(), src, Transform{Format: FormatJPEG, Quality: 60, Width: 400})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not valid jpeg: %v", err)
	}
	if img.Bounds().Dx() != 400 {
		t.Fatalf("expected width 400, got %d", img.Bounds().Dx())
	}
	if img.Bounds().Dy() != 300 {
		t.Fatalf("expected aspect-preserving height 300, got %d", img.Bounds().Dy())
	}
}

func TestTransformWithoutWidthKeepsDimensions(t *testing.T) {
	tc := NewImageTranscoder(testLogger(t))
	src := encodeTestPNG(t, 120, 80)

	out, err := tc.Transform(context.Background(), src, Transform{Format: FormatPNG, Quality: 75})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("output is not valid png: %v", err)
	}
	if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 80 {
		t.Fatalf("expected 120x80 output, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestTransformDeterministic(t *testing.T) {
	tc := NewImageTranscoder(testLogger(t))
	src := encodeTestPNG(t, 200, 100)
	tr := Transform{Format: FormatJPEG, Quality: 80, Width: 50}

	first, err := tc.Transform(context.Background(), src, tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := tc.Transform(context.Background(), src, tr)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("identical inputs must produce identical output bytes")
	}
}

func TestTransformRejectsGarbageInput(t *testing.T) {
	tc := NewImageTranscoder(testLogger(t))

	_, err := tc.Transform(context.Background(), []byte("not an image"), Transform{Format: FormatPNG, Quality: 75})
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestTransformHonorsCancellation(t *testing.T) {
	tc := NewImageTranscoder(testLogger(t))
	src := encodeTestPNG(t, 64, 64)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := tc.Transform(ctx, src, Transform{Format: FormatPNG, Quality: 75}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
