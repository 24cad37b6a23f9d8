// Package imaging decodes stage images and renders cover thumbnails.
//
// Formats are sniffed from content, so pack assets stored without an extension
// decode like any other file. BMP, PNG, JPEG and GIF are supported.
package imaging

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Decode implements ports.Decoder.
func Decode(r io.Reader, name string) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", name, err)
	}
	return img, nil
}

// Fit scales img down to fit within width x height, keeping its aspect ratio.
// Images already fitting are returned unchanged.
func Fit(img image.Image, width, height int) image.Image {
	b := img.Bounds()
	if width <= 0 || height <= 0 || (b.Dx() <= width && b.Dy() <= height) {
		return img
	}

	w, h := width, b.Dy()*width/b.Dx()
	if h > height {
		w, h = b.Dx()*height/b.Dy(), height
	}
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Thumbnailer implements ports.Thumbnailer, writing PNG files.
// A zero MaxWidth keeps the original size.
type Thumbnailer struct {
	MaxWidth int
}

// Thumbnail decodes src and writes it as a PNG to dst.
func (t Thumbnailer) Thumbnail(src io.Reader, name, dst string) error {
	img, err := Decode(src, name)
	if err != nil {
		return err
	}
	if t.MaxWidth > 0 {
		img = Fit(img, t.MaxWidth, img.Bounds().Dy())
	}

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".thumbnail-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("encode thumbnail %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
