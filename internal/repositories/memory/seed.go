package memory

import (
	"fmt"
	"os"

	"github.com/asakaida/dirschema/internal/entities"
	"gopkg.in/yaml.v3"
)

// DefaultUserAttributes returns the built-in user attributes every directory has
func DefaultUserAttributes() []*entities.AttributeSchema {
	builtin := func(name string, typ entities.AttributeType, editable bool) *entities.AttributeSchema {
		return &entities.AttributeSchema{
			Name:        name,
			Type:        typ,
			IsEditable:  editable,
			IsVisible:   true,
			IsHardcoded: true,
		}
	}
	return []*entities.AttributeSchema{
		builtin("avatar", entities.AttributeTypeJpegPhoto, true),
		builtin("creation_date", entities.AttributeTypeDateTime, false),
		builtin("display_name", entities.AttributeTypeString, true),
		builtin("first_name", entities.AttributeTypeString, true),
		builtin("last_name", entities.AttributeTypeString, true),
		builtin("mail", entities.AttributeTypeString, true),
		builtin("user_id", entities.AttributeTypeString, false),
		builtin("uuid", entities.AttributeTypeString, false),
	}
}

// seedFile is the YAML layout of a seed file
//
//	attributes:
//	  - name: lucky_numbers
//	    type: INTEGER
//	    list: true
//	    editable: true
//	    visible: true
type seedFile struct {
	Attributes []seedAttribute `yaml:"attributes"`
}

type seedAttribute struct {
	Name     string `yaml:"name"`
	Type     string `yaml:"type"`
	List     bool   `yaml:"list"`
	Editable bool   `yaml:"editable"`
	Visible  bool   `yaml:"visible"`
}

// ParseSeed decodes custom attributes from YAML. Seeded attributes are never hardcoded.
func ParseSeed(data []byte) ([]*entities.AttributeSchema, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	attrs := make([]*entities.AttributeSchema, 0, len(f.Attributes))
	for _, a := range f.Attributes {
		attrs = append(attrs, &entities.AttributeSchema{
			Name:       a.Name,
			Type:       entities.ParseAttributeType(a.Type),
			IsList:     a.List,
			IsEditable: a.Editable,
			IsVisible:  a.Visible,
		})
	}
	return attrs, nil
}

// LoadSeedFile reads custom attributes from a YAML file
func LoadSeedFile(path string) ([]*entities.AttributeSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return ParseSeed(data)
}

// NewSeededSchemaRepository creates a repository with the built-in attributes followed
// by the custom attributes of seedPath. An empty seedPath seeds only the built-ins.
func NewSeededSchemaRepository(seedPath string) (*SchemaRepository, error) {
	attrs := DefaultUserAttributes()
	if seedPath != "" {
		custom, err := LoadSeedFile(seedPath)
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, custom...)
	}
	return NewSchemaRepository(attrs)
}
