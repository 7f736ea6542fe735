// Package images stores uploaded recipe photos and resizes remote thumbnails.
package images

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"github.com/nfnt/resize"
)

const (
	// MaxBytes is the largest encoded image accepted.
	MaxBytes = 5 << 20
	// MaxDimension bounds both sides of a decoded image.
	MaxDimension = 8000
)

var (
	// ErrUnsupportedFormat is returned for files that are not jpeg, png or gif.
	ErrUnsupportedFormat = errors.New("unsupported image format")
	// ErrTooLarge is returned for images over MaxBytes or MaxDimension.
	ErrTooLarge = errors.New("image too large")
)

var allowedExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

// AllowedFile reports whether filename has an accepted image extension.
func AllowedFile(filename string) bool {
	return allowedExt[strings.ToLower(filepath.Ext(filename))]
}

// Thumbnail decodes an image from r, scales it to the given height keeping
// its aspect ratio and writes it to w in its original format. GIFs are
// written as PNG. It returns the written format.
func Thumbnail(w io.Writer, r io.Reader, height uint) (string, error) {
	img, format, err := decode(r)
	if err != nil {
		return "", err
	}

	bounds := img.Bounds()
	aspectRatio := float64(bounds.Dx()) / float64(bounds.Dy())
	width := uint(float64(height) * aspectRatio)
	resized := resize.Resize(width, height, img, resize.Lanczos3)

	switch strings.ToLower(format) {
	case "jpeg", "jpg":
		return "jpeg", jpeg.Encode(w, resized, nil)
	case "png", "gif":
		return "png", png.Encode(w, resized)
	default:
		return "", ErrUnsupportedFormat
	}
}

// decode reads at most MaxBytes from r and checks the declared dimensions
// before the bitmap is allocated.
func decode(r io.Reader) (image.Image, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}
	if len(data) > MaxBytes {
		return nil, "", ErrTooLarge
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, "", fmt.Errorf("decode image header: empty image")
	}
	if cfg.Width > MaxDimension || cfg.Height > MaxDimension {
		return nil, "", ErrTooLarge
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}
