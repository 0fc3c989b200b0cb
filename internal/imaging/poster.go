// Package imaging normalizes uploaded film posters.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// Poster bounds. Posters are fitted inside this box keeping their aspect
// ratio, never upscaled.
const (
	PosterWidth  = 500
	PosterHeight = 750
)

// MaxUploadBytes caps the size of an uploaded poster.
const MaxUploadBytes = 8 << 20

// JPEGQuality is the output compression quality.
const JPEGQuality = 85

// ErrUnsupportedFormat is returned for anything but JPEG and PNG.
var ErrUnsupportedFormat = errors.New("unsupported image format (only JPEG and PNG accepted)")

// Poster is a processed poster ready to be stored.
type Poster struct {
	Data   []byte
	MIME   string
	Width  int
	Height int
}

// ProcessPoster sniffs, decodes, fits and re-encodes an uploaded poster as
// JPEG. Transparent areas of PNG uploads become white.
func ProcessPoster(r io.Reader) (*Poster, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading poster: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, fmt.Errorf("poster exceeds %d bytes", MaxUploadBytes)
	}

	var decode func(io.Reader) (image.Image, error)
	switch http.DetectContentType(data) {
	case "image/jpeg":
		decode = jpeg.Decode
	case "image/png":
		decode = png.Decode
	default:
		return nil, ErrUnsupportedFormat
	}

	src, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding poster: %w", err)
	}

	w, h := fit(src.Bounds().Dx(), src.Bounds().Dy(), PosterWidth, PosterHeight)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding poster: %w", err)
	}

	return &Poster{Data: buf.Bytes(), MIME: "image/jpeg", Width: w, Height: h}, nil
}

// fit scales w x h down to fit inside maxW x maxH.
func fit(w, h, maxW, maxH int) (int, int) {
	if w <= maxW && h <= maxH {
		return w, h
	}
	scale := min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	return max(int(float64(w)*scale), 1), max(int(float64(h)*scale), 1)
}
