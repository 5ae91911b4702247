package loader

import (
	"xrmodels/internal/loader/schema"
)

type Loader interface {
	Load() error
	GetManifest() schema.Manifest
}

func NewLoader(loaderType string, filename string) Loader {
	switch loaderType {
	case "yaml":
		return NewYamlLoader(filename)
	default:
		return NewYamlLoader(filename)
	}
}
