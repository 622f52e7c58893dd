package repositories

import (
	"context"
	"errors"

	"github.com/asakaida/dirschema/internal/entities"
)

// ErrAttributeNotFound is returned when no attribute has the requested name
var ErrAttributeNotFound = errors.New("attribute not found")

// SchemaRepository defines the interface for user attribute schema access
type SchemaRepository interface {
	// ListUserAttributes returns every user attribute definition in a stable order
	ListUserAttributes(ctx context.Context) ([]*entities.AttributeSchema, error)

	// GetUserAttribute retrieves an attribute definition by name
	// Returns ErrAttributeNotFound if it does not exist
	GetUserAttribute(ctx context.Context, name string) (*entities.AttributeSchema, error)

	// DeleteUserAttribute removes an attribute definition
	// Returns ErrAttributeNotFound if it does not exist
	DeleteUserAttribute(ctx context.Context, name string) error
}
