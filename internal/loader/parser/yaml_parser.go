package parser

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"xrmodels/internal/loader/schema"
)

type FieldType struct {
	Required bool
}

var (
	DeviceFields = map[string]FieldType{
		"id":              {Required: true},
		"name":            {Required: false},
		"enabled":         {Required: false},
		"available_after": {Required: false},
		"fail":            {Required: false},
		"submodels":       {Required: false},
	}
	SubmodelFields = map[string]FieldType{
		"name":     {Required: false},
		"vertices": {Required: true},
		"indices":  {Required: true},
		"texture":  {Required: false},
	}
	VertexFields = map[string]FieldType{
		"position": {Required: true},
		"normal":   {Required: false},
		"tangent":  {Required: false},
		"texcoord": {Required: false},
	}
	TextureFields = map[string]FieldType{
		"width":  {Required: true},
		"height": {Required: true},
		"fill":   {Required: false},
		"pixels": {Required: false},
	}
)

type YamlParser struct{}

func NewYamlParser() *YamlParser {
	return &YamlParser{}
}

// Parse reads a device manifest, rejecting unknown or missing fields with
// their line numbers and duplicate device ids.
func (p *YamlParser) Parse(r io.Reader) (schema.Manifest, error) {
	var manifest schema.Manifest
	decoder := yaml.NewDecoder(r)

	for {
		var doc map[string]yaml.Node
		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return schema.Manifest{}, err
		}

		for key, value := range doc {
			if key != "devices" {
				return schema.Manifest{}, &fieldError{reason: ErrUnknownField, parentKey: "manifest", field: key, line: value.Line}
			}
			if value.Kind != yaml.SequenceNode {
				return schema.Manifest{}, &fieldError{reason: ErrInvalidValue, parentKey: "manifest", field: key, line: value.Line}
			}

			seen := map[uint32]struct{}{}
			for _, node := range value.Content {
				dev, err := p.parseDevice(node)
				if err != nil {
					return schema.Manifest{}, err
				}
				if _, exists := seen[dev.ID]; exists {
					return schema.Manifest{}, &duplicateDeviceError{id: dev.ID, line: node.Line}
				}
				seen[dev.ID] = struct{}{}
				manifest.Devices = append(manifest.Devices, dev)
			}
		}
	}
	return manifest, nil
}

func (p *YamlParser) parseDevice(node *yaml.Node) (schema.Device, error) {
	if err := checkFields(node, DeviceFields, "devices", 0); err != nil {
		return schema.Device{}, err
	}
	var dev schema.Device
	if err := node.Decode(&dev); err != nil {
		return schema.Device{}, err
	}
	if dev.ID == 0 {
		return schema.Device{}, &fieldError{reason: ErrInvalidValue, parentKey: "devices", field: "id", line: node.Line}
	}
	if dev.AvailableAfter < 0 {
		return schema.Device{}, &fieldError{reason: ErrInvalidValue, device: dev.ID, parentKey: "devices", field: "available_after", line: node.Line}
	}

	submodels := childNode(node, "submodels")
	if submodels == nil {
		return dev, nil
	}
	for _, sm := range submodels.Content {
		if err := checkFields(sm, SubmodelFields, "submodels", dev.ID); err != nil {
			return schema.Device{}, err
		}
		if verts := childNode(sm, "vertices"); verts != nil {
			for _, v := range verts.Content {
				if err := checkFields(v, VertexFields, "vertices", dev.ID); err != nil {
					return schema.Device{}, err
				}
			}
		}
		if tex := childNode(sm, "texture"); tex != nil {
			if err := checkFields(tex, TextureFields, "texture", dev.ID); err != nil {
				return schema.Device{}, err
			}
		}
	}

	for i, sm := range dev.Submodels {
		if sm.Texture == nil {
			continue
		}
		if sm.Texture.Width == 0 || sm.Texture.Height == 0 {
			return schema.Device{}, &fieldError{reason: ErrInvalidValue, device: dev.ID, parentKey: "texture", field: "width/height", line: submodels.Content[i].Line}
		}
		if _, err := sm.Texture.Bytes(); err != nil {
			return schema.Device{}, fmt.Errorf("device %d submodel %d: %w", dev.ID, i, err)
		}
	}
	return dev, nil
}

// checkFields validates the keys of a mapping node against fields.
func checkFields(node *yaml.Node, fields map[string]FieldType, parentKey string, device uint32) error {
	if node.Kind != yaml.MappingNode {
		return &fieldError{reason: ErrInvalidValue, device: device, parentKey: parentKey, field: node.Value, line: node.Line}
	}
	present := map[string]struct{}{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if _, ok := fields[key.Value]; !ok {
			return &fieldError{reason: ErrUnknownField, device: device, parentKey: parentKey, field: key.Value, line: key.Line}
		}
		present[key.Value] = struct{}{}
	}
	for name, ft := range fields {
		if _, ok := present[name]; ft.Required && !ok {
			return &fieldError{reason: ErrRequiredField, device: device, parentKey: parentKey, field: name, line: node.Line}
		}
	}
	return nil
}

func childNode(node *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}
