package services

import (
	"context"
	"errors"
	"testing"

	"github.com/asakaida/dirschema/internal/entities"
	"github.com/asakaida/dirschema/internal/repositories"
)

// Mock SchemaRepository
type mockSchemaRepository struct {
	attrs     []*entities.AttributeSchema
	listErr   error
	deleteErr error
	deleted   []string
}

func (m *mockSchemaRepository) ListUserAttributes(ctx context.Context) ([]*entities.AttributeSchema, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.attrs, nil
}

func (m *mockSchemaRepository) GetUserAttribute(ctx context.Context, name string) (*entities.AttributeSchema, error) {
	for _, a := range m.attrs {
		if a.Name == name {
			return a, nil
		}
	}
	return nil, repositories.ErrAttributeNotFound
}

func (m *mockSchemaRepository) DeleteUserAttribute(ctx context.Context, name string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, name)
	return nil
}

func newMockSchemaRepository() *mockSchemaRepository {
	return &mockSchemaRepository{
		attrs: []*entities.AttributeSchema{
			{Name: "mail", Type: entities.AttributeTypeString, IsHardcoded: true},
			{Name: "nickname", Type: entities.AttributeTypeString},
		},
	}
}

func TestSchemaService_ReadUserSchema(t *testing.T) {
	repo := newMockSchemaRepository()
	service := NewSchemaService(repo)

	schema, err := service.ReadUserSchema(context.Background())
	if err != nil {
		t.Fatalf("ReadUserSchema() error = %v", err)
	}
	if len(schema.Attributes) != 2 || schema.Attributes[0].Name != "mail" {
		t.Errorf("ReadUserSchema() attributes = %v", schema.Attributes)
	}

	repo.listErr = errors.New("storage offline")
	if _, err := service.ReadUserSchema(context.Background()); err == nil {
		t.Error("ReadUserSchema() expected error")
	}
}

func TestSchemaService_DeleteUserAttribute(t *testing.T) {
	tests := []struct {
		name      string
		attrName  string
		deleteErr error
		wantErr   error
		wantDel   bool
	}{
		{name: "custom attribute", attrName: "nickname", wantDel: true},
		{name: "empty name", attrName: "", wantErr: ErrInvalidArgument},
		{name: "hardcoded attribute", attrName: "mail", wantErr: ErrHardcodedAttribute},
		{name: "unknown attribute", attrName: "ghost", wantErr: repositories.ErrAttributeNotFound},
		{name: "repository failure", attrName: "nickname", deleteErr: repositories.ErrAttributeNotFound, wantErr: repositories.ErrAttributeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockSchemaRepository()
			repo.deleteErr = tt.deleteErr
			service := NewSchemaService(repo)

			err := service.DeleteUserAttribute(context.Background(), tt.attrName)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("DeleteUserAttribute() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Errorf("DeleteUserAttribute() unexpected error = %v", err)
			}

			if deleted := len(repo.deleted) == 1; deleted != tt.wantDel {
				t.Errorf("DeleteUserAttribute() deleted = %v, want %v", repo.deleted, tt.wantDel)
			}
		})
	}
}
