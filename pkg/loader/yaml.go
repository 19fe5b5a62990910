package loader

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/coursemap/pkg/model"
)

// parseYAML accepts the same shapes as parseJSON: a course sequence or a
// catalog mapping.
func parseYAML(r io.Reader) (model.CatalogFile, error) {
	var doc yaml.Node
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return model.CatalogFile{}, errors.New("catalog is empty")
		}
		return model.CatalogFile{}, fmt.Errorf("parsing catalog yaml: %w", err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return model.CatalogFile{}, errors.New("catalog is empty")
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var courses []model.Course
		if err := root.Decode(&courses); err != nil {
			return model.CatalogFile{}, fmt.Errorf("decoding course list: %w", err)
		}
		return model.CatalogFile{Courses: courses}, nil
	case yaml.MappingNode:
		var cf model.CatalogFile
		if err := root.Decode(&cf); err != nil {
			return model.CatalogFile{}, fmt.Errorf("decoding catalog: %w", err)
		}
		return cf, nil
	}
	return model.CatalogFile{}, fmt.Errorf("unexpected yaml root at line %d", root.Line)
}
