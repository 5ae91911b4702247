package render

import (
	"sync"

	"xrmodels/internal/assets"
	"xrmodels/internal/geometry"
)

// Resources is the resource loader adapter: it owns the mesh and texture
// tables and submits payloads to the asset loader.
type Resources struct {
	Meshes   *assets.Storage[Mesh]
	Textures *assets.Storage[Texture]

	loader       *assets.Loader
	fallbackOnce sync.Once
	fallback     assets.Handle[Texture]
}

// NewResources creates empty mesh and texture tables loaded through loader.
func NewResources(loader *assets.Loader) *Resources {
	return &Resources{
		Meshes:   assets.NewStorage[Mesh]("meshes"),
		Textures: assets.NewStorage[Texture]("textures"),
		loader:   loader,
	}
}

// LoadMesh submits mesh data and returns its handle immediately.
func (r *Resources) LoadMesh(data geometry.MeshData) assets.Handle[Mesh] {
	return assets.LoadFromData(r.loader, data, ProcessMesh, r.Meshes)
}

// LoadTexture submits texture data as-is and returns its handle immediately.
func (r *Resources) LoadTexture(data TextureData) assets.Handle[Texture] {
	return assets.LoadFromData(r.loader, data, ProcessTexture, r.Textures)
}

// FallbackTexture returns a new reference to the shared flat white texture,
// loading it on first use.
func (r *Resources) FallbackTexture() assets.Handle[Texture] {
	r.fallbackOnce.Do(func() {
		r.fallback = r.LoadTexture(FallbackTexture())
	})
	return r.fallback.Clone()
}

// Wait blocks until all submitted resources have been processed.
func (r *Resources) Wait() {
	r.loader.Wait()
}
