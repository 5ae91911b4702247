package loader

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"xrmodels/internal/loader/schema"
)

func writeManifest(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "devices.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing manifest: %v", err)
	}
	return path
}

func TestYamlLoaderLoad(t *testing.T) {
	path := writeManifest(t, `
devices:
  - id: 9
    submodels:
      - vertices:
          - position: [0, 0, 0]
        indices: [0]
`)
	l := NewLoader("yaml", path)
	if err := l.Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	m := l.GetManifest()
	if len(m.Devices) != 1 || m.Devices[0].ID != 9 {
		t.Fatalf("unexpected manifest %+v", m)
	}
}

func TestYamlLoaderTypeError(t *testing.T) {
	path := writeManifest(t, `
devices:
  - id: not-a-number
`)
	err := NewYamlLoader(path).Load()
	if !errors.Is(err, schema.ErrInvalidManifest) {
		t.Fatalf("expected ErrInvalidManifest, got %v", err)
	}
}

func TestYamlLoaderMissingFile(t *testing.T) {
	if err := NewYamlLoader(filepath.Join(t.TempDir(), "absent.yaml")).Load(); err == nil {
		t.Fatal("expected error for missing file")
	}
}
