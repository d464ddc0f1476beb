package gfx

import (
	"fmt"
	"io/fs"
)

// ResourceCache loads shaders and textures and stores them by name.
//
// The cache owns everything it stores: the returned pointers are borrowed
// and stay valid until Clear. Loading a name that already exists replaces
// the GPU object inside the existing pointer, so holders of the old pointer
// see the new resource and nothing leaks.
type ResourceCache struct {
	dev    Device
	fsys   fs.FS
	loader ImageLoader

	shaders  map[string]*Shader
	textures map[string]*Texture
}

// NewResourceCache creates an empty cache reading shader sources from fsys.
// A nil loader decodes images from fsys with FSImageLoader.
func NewResourceCache(dev Device, fsys fs.FS, loader ImageLoader) *ResourceCache {
	if loader == nil {
		loader = FSImageLoader{FS: fsys}
	}
	return &ResourceCache{
		dev:      dev,
		fsys:     fsys,
		loader:   loader,
		shaders:  make(map[string]*Shader),
		textures: make(map[string]*Texture),
	}
}

// Device returns the device resources are created on.
func (c *ResourceCache) Device() Device {
	return c.dev
}

// LoadShader reads vertex, fragment and (when geometryPath is non-empty)
// geometry source files, compiles them and stores the program under name.
// Nothing is stored when reading or compiling fails.
func (c *ResourceCache) LoadShader(vertexPath, fragmentPath, geometryPath, name string) (*Shader, error) {
	vertexSrc, err := c.readSource(vertexPath)
	if err != nil {
		return nil, fmt.Errorf("load shader %q: %w", name, err)
	}
	fragmentSrc, err := c.readSource(fragmentPath)
	if err != nil {
		return nil, fmt.Errorf("load shader %q: %w", name, err)
	}
	var geometrySrc string
	if geometryPath != "" {
		if geometrySrc, err = c.readSource(geometryPath); err != nil {
			return nil, fmt.Errorf("load shader %q: %w", name, err)
		}
	}

	sh := NewShader(c.dev)
	if err := sh.Compile(vertexSrc, fragmentSrc, geometrySrc); err != nil {
		return nil, fmt.Errorf("load shader %q: %w", name, err)
	}

	if old, ok := c.shaders[name]; ok {
		old.adopt(sh)
		return old, nil
	}
	c.shaders[name] = sh
	return sh, nil
}

// LoadTexture decodes the image at path, uploads it and stores the texture
// under name. alpha selects RGBA over RGB.
func (c *ResourceCache) LoadTexture(path string, alpha bool, name string) (*Texture, error) {
	px, err := c.loader.LoadImage(path, alpha)
	if err != nil {
		return nil, fmt.Errorf("load texture %q: %w", name, err)
	}

	tex := NewTexture(c.dev)
	tex.SetAlpha(alpha)
	if px.Format != tex.ImageFormat {
		tex.Delete()
		return nil, fmt.Errorf("load texture %q: loader returned %s pixels for %s texture: %w",
			name, px.Format, tex.ImageFormat, ErrInvalidPixels)
	}
	err = tex.Generate(px.Width, px.Height, px.Data)
	px.Data = nil
	if err != nil {
		tex.Delete()
		return nil, fmt.Errorf("load texture %q: %w", name, err)
	}

	if old, ok := c.textures[name]; ok {
		old.adopt(tex)
		return old, nil
	}
	c.textures[name] = tex
	return tex, nil
}

// GetShader returns the shader stored under name.
func (c *ResourceCache) GetShader(name string) (*Shader, error) {
	if sh, ok := c.shaders[name]; ok {
		return sh, nil
	}
	return nil, fmt.Errorf("shader %q: %w", name, ErrNotFound)
}

// GetTexture returns the texture stored under name.
func (c *ResourceCache) GetTexture(name string) (*Texture, error) {
	if tex, ok := c.textures[name]; ok {
		return tex, nil
	}
	return nil, fmt.Errorf("texture %q: %w", name, ErrNotFound)
}

// HasShader reports whether a shader is stored under name.
func (c *ResourceCache) HasShader(name string) bool {
	_, ok := c.shaders[name]
	return ok
}

// HasTexture reports whether a texture is stored under name.
func (c *ResourceCache) HasTexture(name string) bool {
	_, ok := c.textures[name]
	return ok
}

// IsPresent reports whether name is used by a shader or a texture.
func (c *ResourceCache) IsPresent(name string) bool {
	return c.HasShader(name) || c.HasTexture(name)
}

// Len returns the number of stored shaders and textures.
func (c *ResourceCache) Len() (shaders, textures int) {
	return len(c.shaders), len(c.textures)
}

// Clear deletes every stored program and texture and forgets their names.
func (c *ResourceCache) Clear() {
	for name, sh := range c.shaders {
		sh.Delete()
		delete(c.shaders, name)
	}
	for name, tex := range c.textures {
		tex.Delete()
		delete(c.textures, name)
	}
}

func (c *ResourceCache) readSource(path string) (string, error) {
	b, err := fs.ReadFile(c.fsys, path)
	if err != nil {
		return "", fmt.Errorf("read shader source: %w", err)
	}
	return string(b), nil
}
