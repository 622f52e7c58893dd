package entities

import "fmt"

// UserSchema represents the user attribute schema of a directory
type UserSchema struct {
	Attributes []*AttributeSchema // Attribute definitions in server order
}

// GetAttribute returns the attribute definition by name
func (s *UserSchema) GetAttribute(name string) *AttributeSchema {
	for _, a := range s.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// Validate checks that every attribute is valid and that names are unique
func (s *UserSchema) Validate() error {
	seen := make(map[string]struct{}, len(s.Attributes))
	for i, a := range s.Attributes {
		if a == nil {
			return fmt.Errorf("attribute at index %d is nil", i)
		}
		if err := a.Validate(); err != nil {
			return fmt.Errorf("invalid attribute at index %d: %w", i, err)
		}
		if _, ok := seen[a.Name]; ok {
			return fmt.Errorf("duplicate attribute name: %s", a.Name)
		}
		seen[a.Name] = struct{}{}
	}
	return nil
}

// Clone returns a deep copy of the schema
func (s *UserSchema) Clone() *UserSchema {
	attrs := make([]*AttributeSchema, len(s.Attributes))
	for i, a := range s.Attributes {
		attrs[i] = a.Clone()
	}
	return &UserSchema{Attributes: attrs}
}
