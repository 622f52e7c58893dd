package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/asakaida/dirschema/internal/entities"
	"github.com/asakaida/dirschema/internal/repositories"
)

var (
	// ErrInvalidArgument is returned for malformed requests
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrHardcodedAttribute is returned when deleting a built-in attribute
	ErrHardcodedAttribute = errors.New("hardcoded attribute cannot be deleted")
)

// SchemaServiceInterface defines the interface for user schema operations
type SchemaServiceInterface interface {
	ReadUserSchema(ctx context.Context) (*entities.UserSchema, error)
	DeleteUserAttribute(ctx context.Context, name string) error
}

// SchemaService handles user schema operations
type SchemaService struct {
	schemaRepo repositories.SchemaRepository
}

// NewSchemaService creates a new SchemaService
func NewSchemaService(schemaRepo repositories.SchemaRepository) *SchemaService {
	return &SchemaService{
		schemaRepo: schemaRepo,
	}
}

// ReadUserSchema returns the user attribute schema in repository order
func (s *SchemaService) ReadUserSchema(ctx context.Context) (*entities.UserSchema, error) {
	attrs, err := s.schemaRepo.ListUserAttributes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list user attributes: %w", err)
	}
	return &entities.UserSchema{Attributes: attrs}, nil
}

// DeleteUserAttribute deletes a custom user attribute
func (s *SchemaService) DeleteUserAttribute(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("%w: attribute name is required", ErrInvalidArgument)
	}

	attr, err := s.schemaRepo.GetUserAttribute(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to get attribute: %w", err)
	}
	if attr.IsHardcoded {
		return fmt.Errorf("%w: %s", ErrHardcodedAttribute, name)
	}

	if err := s.schemaRepo.DeleteUserAttribute(ctx, name); err != nil {
		return fmt.Errorf("failed to delete attribute: %w", err)
	}
	return nil
}
