package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/draw"
)

const jpegQuality = 85

// MaxPixels bounds the decoded size of an image, checked from the header
// before anything is decoded.
const MaxPixels = 50_000_000

var ErrImageTooLarge = errors.New("image dimensions too large")

// Downscale shrinks a JPEG or PNG so that neither side exceeds maxDim,
// keeping the aspect ratio and the original format. It reports false and
// returns data untouched when no resize is needed or maxDim is 0.
func Downscale(data []byte, maxDim int) ([]byte, bool, error) {
	if maxDim <= 0 {
		return data, false, nil
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("failed to read image header: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, false, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	if cfg.Width <= maxDim && cfg.Height <= maxDim {
		return data, false, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("failed to decode image: %w", err)
	}

	newWidth, newHeight := cfg.Width, cfg.Height
	if newWidth >= newHeight {
		newHeight = max(1, newHeight*maxDim/newWidth)
		newWidth = maxDim
	} else {
		newWidth = max(1, newWidth*maxDim/newHeight)
		newHeight = maxDim
	}

	dst := image.NewRGBA(image.Rect(0, 0, newWidth, newHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	switch format {
	case "jpeg":
		err = jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality})
	case "png":
		err = png.Encode(&buf, dst)
	default:
		return data, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), true, nil
}
