// Package memory provides an in-memory SchemaRepository.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/asakaida/dirschema/internal/entities"
	"github.com/asakaida/dirschema/internal/repositories"
)

// SchemaRepository keeps user attribute definitions in insertion order
type SchemaRepository struct {
	mu    sync.RWMutex
	attrs []*entities.AttributeSchema
}

// NewSchemaRepository creates a repository holding a copy of attrs.
// Attribute names must be unique.
func NewSchemaRepository(attrs []*entities.AttributeSchema) (*SchemaRepository, error) {
	schema := &entities.UserSchema{Attributes: attrs}
	if err := schema.Validate(); err != nil {
		return nil, fmt.Errorf("invalid seed schema: %w", err)
	}
	return &SchemaRepository{attrs: schema.Clone().Attributes}, nil
}

// ListUserAttributes returns copies of all attribute definitions
func (r *SchemaRepository) ListUserAttributes(ctx context.Context) ([]*entities.AttributeSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entities.AttributeSchema, len(r.attrs))
	for i, a := range r.attrs {
		out[i] = a.Clone()
	}
	return out, nil
}

// GetUserAttribute retrieves a copy of the named attribute definition
func (r *SchemaRepository) GetUserAttribute(ctx context.Context, name string) (*entities.AttributeSchema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.attrs {
		if a.Name == name {
			return a.Clone(), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", repositories.ErrAttributeNotFound, name)
}

// DeleteUserAttribute removes the named attribute definition
func (r *SchemaRepository) DeleteUserAttribute(ctx context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, a := range r.attrs {
		if a.Name == name {
			r.attrs = append(r.attrs[:i:i], r.attrs[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", repositories.ErrAttributeNotFound, name)
}
