package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	_ "image/gif"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/webp"

	"github.com/yungbote/mediahost-backend/internal/logger"
)

// Transcoder turns original image bytes into an encoded variant. Transform
// is deterministic for identical inputs, so regenerating a variant under the
// same key is idempotent.
type Transcoder interface {
	Transform(ctx context.Context, src []byte, t Transform) ([]byte, error)
}

type imageTranscoder struct {
	log *logger.Logger
}

func NewImageTranscoder(baseLog *logger.Logger) Transcoder {
	return &imageTranscoder{log: baseLog.With("service", "ImageTranscoder")}
}

func (tc *imageTranscoder) Transform(ctx context.Context, src []byte, t Transform) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	if t.Width > 0 && t.Width != img.Bounds().Dx() {
		img = resizeToWidth(img, t.Width)
	}

	// Encoding is the expensive part; bail out first if the caller is gone.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	switch t.Format {
	case FormatPNG:
		err = png.Encode(&buf, img)
	case FormatJPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: t.Quality})
	case FormatWEBP:
		err = webp.Encode(&buf, img, &webp.Options{Quality: float32(t.Quality)})
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, t.Format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s variant: %w", t.Format, err)
	}
	return buf.Bytes(), nil
}

func resizeToWidth(img image.Image, width int) image.Image {
	b := img.Bounds()
	height := int(float64(b.Dy()) * float64(width) / float64(b.Dx()))
	if height < 1 {
		height = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
