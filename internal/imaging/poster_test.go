package imaging

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func encodeJPEG(img image.Image) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func encodePNG(img image.Image) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestProcessPosterFitsBox(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"tall", 1000, 1500, 500, 750},
		{"taller than 2:3", 400, 1500, 200, 750},
		{"wide", 2000, 1000, 500, 250},
		{"small", 120, 180, 120, 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ProcessPoster(bytes.NewReader(encodeJPEG(solid(tt.w, tt.h, color.RGBA{200, 0, 0, 255}))))
			if err != nil {
				t.Fatalf("ProcessPoster: %v", err)
			}
			if p.Width != tt.wantW || p.Height != tt.wantH {
				t.Errorf("expected %dx%d, got %dx%d", tt.wantW, tt.wantH, p.Width, p.Height)
			}

			img, err := jpeg.Decode(bytes.NewReader(p.Data))
			if err != nil {
				t.Fatalf("decoding result: %v", err)
			}
			if img.Bounds().Dx() != tt.wantW || img.Bounds().Dy() != tt.wantH {
				t.Errorf("encoded size %v", img.Bounds())
			}
		})
	}
}

func TestProcessPosterPNGTransparency(t *testing.T) {
	p, err := ProcessPoster(bytes.NewReader(encodePNG(solid(20, 30, color.RGBA{}))))
	if err != nil {
		t.Fatalf("ProcessPoster PNG: %v", err)
	}
	if p.MIME != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", p.MIME)
	}

	img, _ := jpeg.Decode(bytes.NewReader(p.Data))
	r, g, b, _ := img.At(10, 15).RGBA()
	if r>>8 < 240 || g>>8 < 240 || b>>8 < 240 {
		t.Errorf("transparent pixel should be white, got %d %d %d", r>>8, g>>8, b>>8)
	}
}

func TestProcessPosterRejectsOtherFormats(t *testing.T) {
	for _, data := range [][]byte{[]byte("not an image"), []byte("GIF89a...")} {
		_, err := ProcessPoster(bytes.NewReader(data))
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("expected ErrUnsupportedFormat for %q, got %v", data, err)
		}
	}
}

func TestProcessPosterTooLarge(t *testing.T) {
	data := append([]byte("\xff\xd8\xff"), make([]byte, MaxUploadBytes)...)
	if _, err := ProcessPoster(bytes.NewReader(data)); err == nil {
		t.Error("expected error for oversized upload")
	}
}

func TestFit(t *testing.T) {
	if w, h := fit(1, 10000, 500, 750); w != 1 || h != 750 {
		t.Errorf("fit kept a minimum width of 1, got %dx%d", w, h)
	}
}
