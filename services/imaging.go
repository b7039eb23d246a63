package services

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	// Register the webp decoder; jpeg/png/gif register through the encoder imports.
	_ "golang.org/x/image/webp"

	"golang.org/x/image/draw"
)

// ThumbSize is the edge length of the square cover-fit thumbnail.
const ThumbSize = 200

// Dimensions derives the intrinsic pixel width and height from raw image
// bytes without decoding the full pixel data.
func Dimensions(r io.Reader) (width, height int, err error) {
	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, fmt.Errorf("decoding image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// CoverThumbnail produces a size x size crop-to-fill derivative: the largest
// centered square of the source is cropped and scaled to fill the target
// exactly, never letterboxed.
func CoverThumbnail(src image.Image, size int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	side := w
	if h < side {
		side = h
	}
	x0 := bounds.Min.X + (w-side)/2
	y0 := bounds.Min.Y + (h-side)/2
	crop := image.Rect(x0, y0, x0+side, y0+side)

	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, crop, draw.Src, nil)
	return dst
}

// EncodeImage writes img in the format matching the file extension. WebP and
// unknown extensions fall back to JPEG; there is no webp encoder in the
// toolchain and thumbnails do not need one.
func EncodeImage(w io.Writer, img image.Image, ext string) error {
	switch ext {
	case ".png":
		return png.Encode(w, img)
	case ".gif":
		return gif.Encode(w, img, nil)
	default:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 85})
	}
}
