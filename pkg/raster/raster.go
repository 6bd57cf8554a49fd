// Package raster draws camera frames onto offscreen surfaces and encodes
// them for classification and capture.
package raster

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

// Surface sizes and encoder settings.
const (
	// SampleWidth and SampleHeight are the classifier input size.
	SampleWidth  = 320
	SampleHeight = 240

	// SampleQuality keeps classification payloads small.
	SampleQuality = 50

	// FallbackWidth and FallbackHeight apply when a frame reports no size.
	FallbackWidth  = 640
	FallbackHeight = 480
)

// Draw renders src scaled to a w x h surface.
func Draw(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	if src == nil {
		return dst
	}
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Sample downsamples a frame to the classifier input size.
func Sample(src image.Image) *image.RGBA {
	return Draw(src, SampleWidth, SampleHeight)
}

// Native renders a frame at the stream's native size. Zero dimensions fall
// back to the frame bounds, then to 640x480.
func Native(src image.Image, w, h int) *image.RGBA {
	if w <= 0 || h <= 0 {
		if src != nil {
			w, h = src.Bounds().Dx(), src.Bounds().Dy()
		}
	}
	if w <= 0 || h <= 0 {
		w, h = FallbackWidth, FallbackHeight
	}
	return Draw(src, w, h)
}

// EncodeJPEG compresses img at the given quality (1-100).
func EncodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodePNG losslessly encodes img.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Payload returns the bare base64 text of data, with no data-URL header.
func Payload(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DataURL wraps data in a data URL of the given MIME type.
func DataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + Payload(data)
}

// SamplePayload downsamples a frame and returns the base64 JPEG payload sent
// to the classifier.
func SamplePayload(src image.Image) (string, error) {
	data, err := EncodeJPEG(Sample(src), SampleQuality)
	if err != nil {
		return "", err
	}
	return Payload(data), nil
}
