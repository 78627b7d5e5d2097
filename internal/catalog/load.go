package catalog

import (
	"fmt"
	"io/fs"

	"github.com/liftlab/liftplan/internal/models"
	"gopkg.in/yaml.v3"
)

type exerciseFile struct {
	Exercises []models.Exercise `yaml:"exercises"`
}

type protocolFile struct {
	Protocols []models.ProtocolConfig `yaml:"protocols"`
}

// LoadExercises parses an exercise catalog YAML file from fsys.
func LoadExercises(fsys fs.FS, path string) (*Exercises, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading exercise catalog: %w", err)
	}
	var file exerciseFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing exercise catalog: %w", err)
	}
	for _, e := range file.Exercises {
		if e.ID == "" {
			return nil, fmt.Errorf("exercise catalog entry %q missing id", e.Name)
		}
		if e.Classification == "" {
			return nil, fmt.Errorf("exercise %s missing classification", e.ID)
		}
	}
	return NewExercises(file.Exercises), nil
}

// LoadProtocols parses a protocol catalog YAML file from fsys.
func LoadProtocols(fsys fs.FS, path string) (*Protocols, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("reading protocol catalog: %w", err)
	}
	var file protocolFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing protocol catalog: %w", err)
	}
	for _, p := range file.Protocols {
		if p.ID == "" {
			return nil, fmt.Errorf("protocol catalog entry %q missing id", p.Name)
		}
		if len(p.Reps) == 0 && p.Family != models.FamilyCardio {
			return nil, fmt.Errorf("protocol %s has no rep scheme", p.ID)
		}
	}
	return NewProtocols(file.Protocols), nil
}
