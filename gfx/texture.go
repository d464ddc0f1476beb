package gfx

import "fmt"

// Texture owns one device texture handle and its sampling configuration.
//
// The handle is allocated by NewTexture; Generate fills it exactly once per
// upload. A Texture is owned by whoever created it (normally a
// ResourceCache) and is shared by pointer. Copying the struct would copy the
// handle, not the texture.
type Texture struct {
	dev Device

	ID             TextureID
	Width, Height  int
	InternalFormat PixelFormat // format of the texture object
	ImageFormat    PixelFormat // format of the uploaded pixels
	WrapS, WrapT   Wrap
	FilterMin      Filter // used when texels are smaller than screen pixels
	FilterMag      Filter // used when texels are larger than screen pixels

	deleted bool
}

// NewTexture allocates a texture handle on dev with RGB format, repeat
// wrapping and linear filtering.
func NewTexture(dev Device) *Texture {
	return &Texture{
		dev:            dev,
		ID:             dev.CreateTexture(),
		InternalFormat: FormatRGB,
		ImageFormat:    FormatRGB,
		WrapS:          WrapRepeat,
		WrapT:          WrapRepeat,
		FilterMin:      FilterLinear,
		FilterMag:      FilterLinear,
	}
}

// SetAlpha switches both formats to RGBA (or back to RGB). Call it before
// Generate.
func (t *Texture) SetAlpha(alpha bool) {
	f := FormatRGB
	if alpha {
		f = FormatRGBA
	}
	t.InternalFormat = f
	t.ImageFormat = f
}

// Generate uploads width*height pixels laid out in ImageFormat, builds the
// mip chain and applies the wrap and filter modes.
func (t *Texture) Generate(width, height int, pixels []byte) error {
	if t.deleted {
		return fmt.Errorf("generate texture %d: %w", t.ID, ErrDeleted)
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("generate texture %d: size %dx%d: %w", t.ID, width, height, ErrInvalidPixels)
	}
	if pixels == nil {
		return fmt.Errorf("generate texture %d: nil pixels: %w", t.ID, ErrInvalidPixels)
	}
	if need := width * height * t.ImageFormat.BytesPerPixel(); len(pixels) < need {
		return fmt.Errorf("generate texture %d: got %d bytes, need %d for %dx%d %s: %w",
			t.ID, len(pixels), need, width, height, t.ImageFormat, ErrInvalidPixels)
	}

	err := t.dev.TexImage2D(t.ID, TextureImage{
		Width:          width,
		Height:         height,
		InternalFormat: t.InternalFormat,
		Format:         t.ImageFormat,
		Pixels:         pixels,
	})
	if err != nil {
		return fmt.Errorf("generate texture %d: %w", t.ID, err)
	}
	t.dev.GenerateMipmap(t.ID)
	t.dev.TexParameters(t.ID, t.params())
	t.Width = width
	t.Height = height
	return nil
}

// Bind binds the texture to the device's active texture unit.
func (t *Texture) Bind() {
	t.dev.BindTexture(t.ID)
}

// Delete releases the device texture. Further calls are no-ops.
func (t *Texture) Delete() {
	if t.deleted {
		return
	}
	t.dev.DeleteTexture(t.ID)
	t.deleted = true
}

// Deleted reports whether Delete has been called.
func (t *Texture) Deleted() bool {
	return t.deleted
}

func (t *Texture) params() SamplerParams {
	return SamplerParams{
		WrapS:     t.WrapS,
		WrapT:     t.WrapT,
		MinFilter: t.FilterMin,
		MagFilter: t.FilterMag,
	}
}

// adopt moves the handle and contents of src into t and releases t's old
// handle. src must not be used afterwards.
func (t *Texture) adopt(src *Texture) {
	if !t.deleted && t.ID != src.ID {
		t.dev.DeleteTexture(t.ID)
	}
	*t = *src
	src.deleted = true
}
