// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package images

import (
	"bytes"
	"image"
	_ "image/gif" // register gif
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

const jpegQuality = 85

// downscale shrinks a PNG or JPEG so its longest edge is at most maxSize,
// keeping the aspect ratio and format. Other data is returned unchanged.
func downscale(data []byte, maxSize int) ([]byte, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || (format != "png" && format != "jpeg") {
		return data, nil
	}
	if cfg.Width <= maxSize && cfg.Height <= maxSize {
		return data, nil
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	width, height := fit(cfg.Width, cfg.Height, maxSize)
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if format == "png" {
		err = png.Encode(&buf, dst)
	} else {
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	}
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fit scales width and height so the longer one equals maxSize.
func fit(width, height, maxSize int) (int, int) {
	if width >= height {
		return maxSize, max(1, height*maxSize/width)
	}
	return max(1, width*maxSize/height), maxSize
}
