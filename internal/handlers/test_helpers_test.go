package handlers

import (
	"context"

	"github.com/asakaida/dirschema/internal/entities"
)

// Mock SchemaService
type mockSchemaService struct {
	readUserSchemaFunc      func(ctx context.Context) (*entities.UserSchema, error)
	deleteUserAttributeFunc func(ctx context.Context, name string) error
}

func (m *mockSchemaService) ReadUserSchema(ctx context.Context) (*entities.UserSchema, error) {
	if m.readUserSchemaFunc != nil {
		return m.readUserSchemaFunc(ctx)
	}
	return &entities.UserSchema{}, nil
}

func (m *mockSchemaService) DeleteUserAttribute(ctx context.Context, name string) error {
	if m.deleteUserAttributeFunc != nil {
		return m.deleteUserAttributeFunc(ctx, name)
	}
	return nil
}
