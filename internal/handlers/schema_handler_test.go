package handlers

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/asakaida/dirschema/internal/entities"
	"github.com/asakaida/dirschema/internal/repositories"
	"github.com/asakaida/dirschema/internal/schemaapi"
	"github.com/asakaida/dirschema/internal/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

func TestSchemaHandler_GetUserAttributesSchema_Success(t *testing.T) {
	mockService := &mockSchemaService{
		readUserSchemaFunc: func(ctx context.Context) (*entities.UserSchema, error) {
			return &entities.UserSchema{Attributes: []*entities.AttributeSchema{
				{Name: "mail", Type: entities.AttributeTypeString, IsVisible: true, IsHardcoded: true},
				{Name: "tags", Type: entities.AttributeTypeString, IsList: true, IsEditable: true},
			}}, nil
		},
	}
	handler := NewSchemaHandler(mockService)

	resp, err := handler.GetUserAttributesSchema(context.Background(), &structpb.Struct{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	schema, err := schemaapi.DecodeUserSchema(resp)
	if err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(schema.Attributes) != 2 {
		t.Fatalf("expected 2 attributes, got %d", len(schema.Attributes))
	}
	if schema.Attributes[0].Name != "mail" || !schema.Attributes[0].IsHardcoded {
		t.Errorf("unexpected first attribute: %+v", schema.Attributes[0])
	}
	if schema.Attributes[1].Name != "tags" || !schema.Attributes[1].IsList {
		t.Errorf("unexpected second attribute: %+v", schema.Attributes[1])
	}
}

func TestSchemaHandler_GetUserAttributesSchema_ServiceError(t *testing.T) {
	mockService := &mockSchemaService{
		readUserSchemaFunc: func(ctx context.Context) (*entities.UserSchema, error) {
			return nil, fmt.Errorf("database error")
		},
	}
	handler := NewSchemaHandler(mockService)

	_, err := handler.GetUserAttributesSchema(context.Background(), &structpb.Struct{})
	if status.Code(err) != codes.Internal {
		t.Errorf("expected Internal error, got %v", err)
	}
}

func TestSchemaHandler_DeleteUserAttribute_Success(t *testing.T) {
	var deleted string
	mockService := &mockSchemaService{
		deleteUserAttributeFunc: func(ctx context.Context, name string) error {
			deleted = name
			return nil
		},
	}
	handler := NewSchemaHandler(mockService)

	if _, err := handler.DeleteUserAttribute(context.Background(), schemaapi.EncodeDeleteRequest("nickname")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != "nickname" {
		t.Errorf("expected nickname to be deleted, got %q", deleted)
	}
}

func TestSchemaHandler_DeleteUserAttribute_Errors(t *testing.T) {
	tests := []struct {
		name       string
		req        *structpb.Struct
		serviceErr error
		wantCode   codes.Code
	}{
		{
			name:     "missing name",
			req:      &structpb.Struct{},
			wantCode: codes.InvalidArgument,
		},
		{
			name:     "empty name",
			req:      schemaapi.EncodeDeleteRequest(""),
			wantCode: codes.InvalidArgument,
		},
		{
			name:       "not found",
			req:        schemaapi.EncodeDeleteRequest("ghost"),
			serviceErr: fmt.Errorf("failed to get attribute: %w", repositories.ErrAttributeNotFound),
			wantCode:   codes.NotFound,
		},
		{
			name:       "hardcoded",
			req:        schemaapi.EncodeDeleteRequest("mail"),
			serviceErr: fmt.Errorf("%w: mail", services.ErrHardcodedAttribute),
			wantCode:   codes.FailedPrecondition,
		},
		{
			name:       "invalid argument from service",
			req:        schemaapi.EncodeDeleteRequest("x"),
			serviceErr: services.ErrInvalidArgument,
			wantCode:   codes.InvalidArgument,
		},
		{
			name:       "unexpected failure",
			req:        schemaapi.EncodeDeleteRequest("nickname"),
			serviceErr: errors.New("disk full"),
			wantCode:   codes.Internal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mockSchemaService{
				deleteUserAttributeFunc: func(ctx context.Context, name string) error {
					return tt.serviceErr
				},
			}
			handler := NewSchemaHandler(mockService)

			_, err := handler.DeleteUserAttribute(context.Background(), tt.req)
			if status.Code(err) != tt.wantCode {
				t.Errorf("expected code %v, got %v (%v)", tt.wantCode, status.Code(err), err)
			}
		})
	}
}
