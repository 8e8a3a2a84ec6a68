// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package imaging converts uploaded clinic photos for web delivery.
// Each upload produces a WebP display image capped at MaxWidth and a JPEG
// thumbnail for the admin media grid. Images wider than the cap are
// downscaled with Catmull-Rom resampling; smaller images are re-encoded at
// their original size, never upscaled.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	_ "image/gif"
	_ "image/png"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
)

const (
	// MaxWidth is the widest display image stored, in pixels.
	MaxWidth = 1600

	// ThumbWidth is the admin grid thumbnail width, in pixels.
	ThumbWidth = 400

	// MaxPixels rejects decompression bombs before any resampling work.
	MaxPixels = 40_000_000

	webpQuality = 82
	jpegQuality = 80
)

// Error describes a rejected upload. Field names the part of the upload at
// fault ("file") and Reason is safe to show to the admin.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("imaging: %s: %s", e.Field, e.Reason)
}

// Result holds the processed outputs of one upload.
type Result struct {
	// Display is the WebP image served on the public site.
	Display     []byte
	Width       int
	Height      int
	ContentType string // always "image/webp"

	// Thumb is the JPEG thumbnail for the admin media grid.
	Thumb []byte
}

// Process decodes an uploaded image and produces the display and thumbnail
// encodings. Unsupported or corrupt files return an *Error suitable for
// display in the upload form.
func Process(original []byte) (*Result, error) {
	src, _, err := image.Decode(bytes.NewReader(original))
	if err != nil {
		return nil, &Error{Field: "file", Reason: "not a supported image (JPEG, PNG, GIF or WebP)"}
	}

	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w == 0 || h == 0 {
		return nil, &Error{Field: "file", Reason: "image has no pixels"}
	}
	if w*h > MaxPixels {
		return nil, &Error{Field: "file", Reason: "image is too large"}
	}

	display := resizeToWidth(src, MaxWidth)
	var buf bytes.Buffer
	if err := webp.Encode(&buf, display, &webp.Options{Quality: webpQuality}); err != nil {
		return nil, fmt.Errorf("imaging: webp encode: %w", err)
	}

	thumb := resizeToWidth(src, ThumbWidth)
	var thumbBuf bytes.Buffer
	if err := jpeg.Encode(&thumbBuf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("imaging: jpeg encode: %w", err)
	}

	db := display.Bounds()
	return &Result{
		Display:     buf.Bytes(),
		Width:       db.Dx(),
		Height:      db.Dy(),
		ContentType: "image/webp",
		Thumb:       thumbBuf.Bytes(),
	}, nil
}

// resizeToWidth scales src down to the target width preserving aspect
// ratio. Images at or below the target width are returned as RGBA without
// resampling.
func resizeToWidth(src image.Image, width int) image.Image {
	bounds := src.Bounds()
	if bounds.Dx() <= width {
		// Re-draw into RGBA so encoders see a uniform pixel format.
		out := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Copy(out, image.Point{}, src, bounds, draw.Src, nil)
		return out
	}

	height := bounds.Dy() * width / bounds.Dx()
	if height < 1 {
		height = 1
	}
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(out, out.Bounds(), src, bounds, draw.Src, nil)
	return out
}
