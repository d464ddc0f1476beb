package gfx

import (
	"fmt"
	"image"
	"image/draw"
	"io/fs"

	// Registered decoders for FSImageLoader.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// Pixels is a decoded, tightly packed pixel buffer.
type Pixels struct {
	Width, Height int
	Format        PixelFormat
	Data          []byte
}

// ImageLoader produces pixel buffers for named images. The caller declares
// whether the alpha channel is wanted; it is not detected from the file.
type ImageLoader interface {
	LoadImage(path string, alpha bool) (Pixels, error)
}

// FSImageLoader decodes PNG, JPEG, GIF, BMP and WebP files from a file system.
type FSImageLoader struct {
	FS fs.FS
}

// LoadImage implements ImageLoader.
func (l FSImageLoader) LoadImage(path string, alpha bool) (Pixels, error) {
	f, err := l.FS.Open(path)
	if err != nil {
		return Pixels{}, fmt.Errorf("load image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return Pixels{}, fmt.Errorf("decode image %s: %w", path, err)
	}
	return PixelsFromImage(img, alpha), nil
}

// PixelsFromImage converts img to straight-alpha RGBA, or to RGB with the
// alpha channel dropped when alpha is false.
func PixelsFromImage(img image.Image, alpha bool) Pixels {
	b := img.Bounds()
	nrgba, ok := img.(*image.NRGBA)
	if !ok || nrgba.Rect.Min != (image.Point{}) || nrgba.Stride != 4*b.Dx() {
		nrgba = image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}

	w, h := b.Dx(), b.Dy()
	if alpha {
		return Pixels{Width: w, Height: h, Format: FormatRGBA, Data: nrgba.Pix[:4*w*h]}
	}

	rgb := make([]byte, 3*w*h)
	for i, j := 0, 0; j < len(rgb); i, j = i+4, j+3 {
		rgb[j] = nrgba.Pix[i]
		rgb[j+1] = nrgba.Pix[i+1]
		rgb[j+2] = nrgba.Pix[i+2]
	}
	return Pixels{Width: w, Height: h, Format: FormatRGB, Data: rgb}
}
