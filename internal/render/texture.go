// Package render defines the renderer-facing resources produced from tracker
// model payloads: meshes, textures, materials and transforms.
package render

import "fmt"

// BytesPerPixel is the size of one RGBA8 pixel.
const BytesPerPixel = 4

// FallbackTextureName names the flat white texture used when a submodel
// carries no texture.
const FallbackTextureName = "fallback_white"

// TextureData is an uploaded-as-is RGBA8 pixel payload.
type TextureData struct {
	Name   string
	Width  uint32
	Height uint32
	Pixels []byte
}

// FallbackTexture returns a fully opaque 1x1 white texture. White is the
// identity for material tinting.
func FallbackTexture() TextureData {
	return TextureData{
		Name:   FallbackTextureName,
		Width:  1,
		Height: 1,
		Pixels: []byte{0xff, 0xff, 0xff, 0xff},
	}
}

// Texture is a resolved texture resource.
type Texture struct {
	Name            string
	Width           uint32
	Height          uint32
	ChannelCount    uint8
	HasTransparency bool
	Pixels          []byte
}

// ProcessTexture validates a payload and builds the Texture resource.
func ProcessTexture(data TextureData) (Texture, error) {
	if data.Width == 0 || data.Height == 0 {
		return Texture{}, fmt.Errorf("texture %q: zero dimension %dx%d", data.Name, data.Width, data.Height)
	}
	want := int(data.Width) * int(data.Height) * BytesPerPixel
	if len(data.Pixels) != want {
		return Texture{}, fmt.Errorf("texture %q: %d bytes for %dx%d RGBA, want %d",
			data.Name, len(data.Pixels), data.Width, data.Height, want)
	}

	transparent := false
	for i := BytesPerPixel - 1; i < len(data.Pixels); i += BytesPerPixel {
		if data.Pixels[i] < 0xff {
			transparent = true
			break
		}
	}

	return Texture{
		Name:            data.Name,
		Width:           data.Width,
		Height:          data.Height,
		ChannelCount:    BytesPerPixel,
		HasTransparency: transparent,
		Pixels:          data.Pixels,
	}, nil
}
