package loader

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"xrmodels/internal/loader/parser"
	"xrmodels/internal/loader/schema"
)

type YamlLoader struct {
	File     string
	Manifest schema.Manifest
}

func NewYamlLoader(fileName string) *YamlLoader {
	return &YamlLoader{File: fileName}
}

func (l *YamlLoader) Load() error {
	file, err := os.Open(l.File)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	reader := bufio.NewReaderSize(file, 64*1024)
	manifest, err := parser.NewYamlParser().Parse(reader)
	if err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			for _, msg := range typeErr.Errors {
				if strings.HasPrefix(msg, "line") {
					return fmt.Errorf("%w: %s", schema.ErrInvalidManifest, msg)
				}
			}
		}
		return fmt.Errorf("loading %s: %w", l.File, err)
	}
	l.Manifest = manifest
	return nil
}

func (l *YamlLoader) GetManifest() schema.Manifest {
	return l.Manifest
}
