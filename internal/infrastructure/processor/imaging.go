package processor

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	jpegQuality  = 90
	labelPadding = 6
	labelMargin  = 10
)

type ImageProcessor struct{}

func New() *ImageProcessor {
	return &ImageProcessor{}
}

// Prepare decodes data, shrinks it to fit inside maxSide x maxSide and
// re-encodes it as JPEG. Smaller images keep their size.
func (p *ImageProcessor) Prepare(_ context.Context, data []byte, maxSide int) ([]byte, error) {
	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Prepare - decodeImage: %w", err)
	}

	b := img.Bounds()
	if maxSide > 0 && (b.Dx() > maxSide || b.Dy() > maxSide) {
		img = imaging.Fit(img, maxSide, maxSide, imaging.Lanczos)
	}

	res, err := encodeImage(img, "image/jpeg")
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Prepare - encodeImage: %w", err)
	}

	return res, nil
}

// Label stamps text in the bottom right corner on a dark box.
func (p *ImageProcessor) Label(_ context.Context, contentType string, data []byte, text string) ([]byte, error) {
	img, err := decodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Label - decodeImage: %w", err)
	}

	rgba := imaging.Clone(img)

	d := &font.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(color.White),
		Face: basicfont.Face7x13,
	}

	bounds := rgba.Bounds()
	textWidth := d.MeasureString(text).Round()
	textHeight := basicfont.Face7x13.Metrics().Height.Round()

	x := bounds.Max.X - textWidth - labelMargin
	y := bounds.Max.Y - labelMargin
	if x < bounds.Min.X {
		x = bounds.Min.X
	}

	box := image.Rect(x-labelPadding, y-textHeight-labelPadding/2, x+textWidth+labelPadding, y+labelPadding/2).Intersect(bounds)
	draw.Draw(rgba, box, image.NewUniform(color.NRGBA{A: 160}), image.Point{}, draw.Over)

	d.Dot = fixed.P(x, y-labelPadding/2)
	d.DrawString(text)

	res, err := encodeImage(rgba, contentType)
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - Label - encodeImage: %w", err)
	}

	return res, nil
}

func decodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - decodeImage - imaging.Decode: %w", err)
	}

	return img, nil
}

func encodeImage(img image.Image, contentType string) ([]byte, error) {
	var buf bytes.Buffer
	var format imaging.Format

	switch contentType {
	case "image/png":
		format = imaging.PNG
	case "image/gif":
		format = imaging.GIF
	default:
		format = imaging.JPEG
	}

	err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(jpegQuality))
	if err != nil {
		return nil, fmt.Errorf("ImageProcessor - encodeImage - imaging.Encode: %w", err)
	}

	return buf.Bytes(), nil
}
