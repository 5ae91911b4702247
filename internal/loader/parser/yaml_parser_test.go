package parser

import (
	"errors"
	"strings"
	"testing"

	"xrmodels/internal/loader/schema"
)

const validManifest = `
devices:
  - id: 1
    name: left-controller
    available_after: 2
    submodels:
      - name: body
        vertices:
          - position: [0, 0, 0]
            normal: [0, 0, 1]
          - position: [1, 0, 0]
          - position: [0, 1, 0]
        indices: [0, 1, 2]
        texture:
          width: 2
          height: 2
          fill: [200, 200, 200, 255]
      - vertices:
          - position: [0, 0, 0]
        indices: [0, 0, 0]
  - id: 2
    enabled: false
`

func TestParseValidManifest(t *testing.T) {
	m, err := NewYamlParser().Parse(strings.NewReader(validManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(m.Devices) != 2 {
		t.Fatalf("expected 2 devices, got %d", len(m.Devices))
	}

	left := m.Devices[0]
	if left.ID != 1 || left.AvailableAfter != 2 || !left.IsEnabled() {
		t.Errorf("unexpected device: %+v", left)
	}
	if len(left.Submodels) != 2 {
		t.Fatalf("expected 2 submodels, got %d", len(left.Submodels))
	}
	body := left.Submodels[0]
	if body.Name == nil || *body.Name != "body" {
		t.Errorf("unexpected submodel name %v", body.Name)
	}
	if body.Vertices[0].Normal != (schema.Vec3{0, 0, 1}) {
		t.Errorf("unexpected normal %v", body.Vertices[0].Normal)
	}
	if left.Submodels[1].Name != nil {
		t.Error("unnamed submodel should decode with a nil name")
	}
	if m.Devices[1].IsEnabled() {
		t.Error("device 2 should be disabled")
	}
}

func TestParseRejectsBadManifests(t *testing.T) {
	cases := map[string]string{
		"unknown top level": "trackers: []\n",
		"unknown device field": `
devices:
  - id: 1
    colour: red
`,
		"missing id": `
devices:
  - name: nobody
`,
		"missing indices": `
devices:
  - id: 4
    submodels:
      - vertices:
          - position: [0, 0, 0]
`,
		"duplicate id": `
devices:
  - id: 3
  - id: 3
`,
		"bad texture": `
devices:
  - id: 5
    submodels:
      - vertices:
          - position: [0, 0, 0]
        indices: [0]
        texture:
          width: 1
          height: 1
          fill: [1, 2]
`,
	}

	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewYamlParser().Parse(strings.NewReader(doc))
			if !errors.Is(err, schema.ErrInvalidManifest) {
				t.Fatalf("expected ErrInvalidManifest, got %v", err)
			}
		})
	}
}
