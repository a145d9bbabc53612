// Package imaging produces the fixed set of resized JPEG copies stored next
// to every uploaded listing photo.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // register PNG decoder

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

// Preset is a named bounding box.
type Preset struct {
	Name   string
	Width  int
	Height int
}

// Presets are generated for every listing photo, in this order.
var Presets = []Preset{
	{Name: "thumbnail", Width: 150, Height: 150},
	{Name: "small", Width: 320, Height: 240},
	{Name: "medium", Width: 640, Height: 480},
	{Name: "large", Width: 1280, Height: 960},
}

const jpegQuality = 82

// Variant is one encoded copy.
type Variant struct {
	Preset Preset
	Data   []byte
}

// FileName is the deterministic object name of the variant, e.g. "small.jpeg".
func (v Variant) FileName() string {
	return v.Preset.Name + ".jpeg"
}

// MaxPixels caps the declared size of an image before its pixels are decoded.
const MaxPixels = 40_000_000

// ErrTooLarge is returned for images whose header declares more than MaxPixels.
var ErrTooLarge = errors.New("image dimensions too large")

// Decode reads a JPEG, PNG or WebP image. The header is checked against
// MaxPixels first; decoders allocate the full pixel buffer up front.
func Decode(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image config: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Variants resizes img into every preset. Images are scaled to fit inside the
// preset box keeping their aspect ratio and are never upscaled.
func Variants(img image.Image) ([]Variant, error) {
	out := make([]Variant, 0, len(Presets))
	for _, p := range Presets {
		data, err := encode(Fit(img, p.Width, p.Height))
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", p.Name, err)
		}
		out = append(out, Variant{Preset: p, Data: data})
	}
	return out, nil
}

// Fit scales img to fit within maxW x maxH.
func Fit(img image.Image, maxW, maxH int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxW && h <= maxH {
		return img
	}
	scale := float64(maxW) / float64(w)
	if s := float64(maxH) / float64(h); s < scale {
		scale = s
	}
	nw, nh := int(float64(w)*scale), int(float64(h)*scale)
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
