package loader

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/Carmen-Shannon/oxy-chase/engine/model"
	"gopkg.in/yaml.v3"
)

// loaderBackend decodes one mesh file format into the universal ImportedMesh form.
type loaderBackend interface {
	// Decode reads a complete mesh document from r.
	//
	// Parameters:
	//   - r: the reader providing the file contents
	//
	// Returns:
	//   - *model.ImportedMesh: the decoded mesh
	//   - error: error if the document is malformed or carries unknown fields
	Decode(r io.Reader) (*model.ImportedMesh, error)
}

type yamlLoaderBackend struct{}

var _ loaderBackend = yamlLoaderBackend{}

func (yamlLoaderBackend) Decode(r io.Reader) (*model.ImportedMesh, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var im model.ImportedMesh
	if err := dec.Decode(&im); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("yaml: empty document: %w", model.ErrEmptyMesh)
		}
		return nil, fmt.Errorf("yaml: %w", err)
	}
	return &im, nil
}

type jsonLoaderBackend struct{}

var _ loaderBackend = jsonLoaderBackend{}

func (jsonLoaderBackend) Decode(r io.Reader) (*model.ImportedMesh, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var im model.ImportedMesh
	if err := dec.Decode(&im); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return &im, nil
}
