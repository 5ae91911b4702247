package parser

import (
	"io"

	"xrmodels/internal/loader/schema"
)

type Parser interface {
	Parse(r io.Reader) (schema.Manifest, error)
}

func NewParser() Parser {
	return NewYamlParser()
}
