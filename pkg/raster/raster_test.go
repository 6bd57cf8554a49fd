package raster

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestSampleDownsamples(t *testing.T) {
	src := solid(1280, 720, color.RGBA{R: 200, A: 255})
	out := Sample(src)

	if out.Bounds().Dx() != SampleWidth || out.Bounds().Dy() != SampleHeight {
		t.Fatalf("Expected %dx%d, got %v", SampleWidth, SampleHeight, out.Bounds())
	}
	r, _, _, _ := out.At(160, 120).RGBA()
	if r>>8 < 190 {
		t.Errorf("Expected scaled color to be preserved, got red=%d", r>>8)
	}
}

func TestNativeSizes(t *testing.T) {
	src := solid(100, 50, color.White)

	tests := []struct {
		name         string
		w, h         int
		src          image.Image
		wantW, wantH int
	}{
		{"explicit", 200, 100, src, 200, 100},
		{"from bounds", 0, 0, src, 100, 50},
		{"fallback", 0, 0, nil, FallbackWidth, FallbackHeight},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Native(tt.src, tt.w, tt.h)
			if out.Bounds().Dx() != tt.wantW || out.Bounds().Dy() != tt.wantH {
				t.Errorf("Expected %dx%d, got %v", tt.wantW, tt.wantH, out.Bounds())
			}
		})
	}
}

func TestSamplePayloadIsBareJPEG(t *testing.T) {
	payload, err := SamplePayload(solid(640, 480, color.Black))
	if err != nil {
		t.Fatalf("SamplePayload failed: %v", err)
	}
	if strings.HasPrefix(payload, "data:") || strings.Contains(payload, ",") {
		t.Errorf("Expected payload without data URL header, got prefix %q", payload[:20])
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("Payload is not base64: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Payload is not a JPEG: %v", err)
	}
	if img.Bounds().Dx() != SampleWidth {
		t.Errorf("Expected width %d, got %d", SampleWidth, img.Bounds().Dx())
	}
}

func TestEncodePNG(t *testing.T) {
	data, err := EncodePNG(solid(8, 8, color.White))
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}
	if _, err := png.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("Expected valid PNG: %v", err)
	}
}

func TestDataURL(t *testing.T) {
	url := DataURL("image/png", []byte{1, 2, 3})
	if url != "data:image/png;base64,AQID" {
		t.Errorf("Unexpected data URL: %s", url)
	}
}
