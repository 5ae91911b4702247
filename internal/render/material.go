package render

import (
	"github.com/go-gl/mathgl/mgl32"

	"xrmodels/internal/assets"
)

// Material describes how a surface is shaded.
type Material struct {
	Albedo      assets.Handle[Texture]
	AlbedoColor mgl32.Vec4
	Emission    mgl32.Vec4
	Metallic    float32
	Roughness   float32
	AlphaCutoff float32
	DoubleSided bool
}

// MaterialConfig holds the configurable parameters of the default material.
type MaterialConfig struct {
	AlbedoColor [4]float32 `yaml:"albedo_color"`
	Emission    [4]float32 `yaml:"emission"`
	Metallic    float32    `yaml:"metallic"`
	Roughness   float32    `yaml:"roughness"`
	AlphaCutoff float32    `yaml:"alpha_cutoff"`
	DoubleSided bool       `yaml:"double_sided"`
}

// DefaultMaterialConfig returns an untinted, non metallic, mid rough material.
func DefaultMaterialConfig() MaterialConfig {
	return MaterialConfig{
		AlbedoColor: [4]float32{1, 1, 1, 1},
		Roughness:   0.5,
		AlphaCutoff: 0.01,
	}
}

// MaterialDefaults is the template every spawned material derives from.
type MaterialDefaults struct {
	Material Material
}

// NewMaterialDefaults builds the template with albedo as its default texture.
func NewMaterialDefaults(cfg MaterialConfig, albedo assets.Handle[Texture]) MaterialDefaults {
	return MaterialDefaults{Material: Material{
		Albedo:      albedo,
		AlbedoColor: mgl32.Vec4(cfg.AlbedoColor),
		Emission:    mgl32.Vec4(cfg.Emission),
		Metallic:    cfg.Metallic,
		Roughness:   cfg.Roughness,
		AlphaCutoff: cfg.AlphaCutoff,
		DoubleSided: cfg.DoubleSided,
	}}
}

// WithAlbedo copies the template, overriding only the albedo texture.
func (d MaterialDefaults) WithAlbedo(albedo assets.Handle[Texture]) Material {
	m := d.Material
	m.Albedo = albedo
	return m
}
