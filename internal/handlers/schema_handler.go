package handlers

import (
	"context"
	"errors"

	"github.com/asakaida/dirschema/internal/repositories"
	"github.com/asakaida/dirschema/internal/schemaapi"
	"github.com/asakaida/dirschema/internal/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// SchemaHandler handles SchemaService gRPC requests
type SchemaHandler struct {
	schemaService services.SchemaServiceInterface
}

var _ schemaapi.SchemaServiceServer = (*SchemaHandler)(nil)

// NewSchemaHandler creates a new SchemaHandler
func NewSchemaHandler(schemaService services.SchemaServiceInterface) *SchemaHandler {
	return &SchemaHandler{
		schemaService: schemaService,
	}
}

// GetUserAttributesSchema handles the GetUserAttributesSchema RPC
func (h *SchemaHandler) GetUserAttributesSchema(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	schema, err := h.schemaService.ReadUserSchema(ctx)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to read user schema: %v", err)
	}

	resp, err := schemaapi.EncodeUserSchema(schema)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode user schema: %v", err)
	}
	return resp, nil
}

// DeleteUserAttribute handles the DeleteUserAttribute RPC
func (h *SchemaHandler) DeleteUserAttribute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	name, err := schemaapi.DecodeDeleteRequest(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}
	if name == "" {
		return nil, status.Error(codes.InvalidArgument, "name is required")
	}

	if err := h.schemaService.DeleteUserAttribute(ctx, name); err != nil {
		return nil, handleDeleteAttributeError(err)
	}

	return &structpb.Struct{}, nil
}

func handleDeleteAttributeError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrAttributeNotFound):
		return status.Errorf(codes.NotFound, "%v", err)
	case errors.Is(err, services.ErrHardcodedAttribute):
		return status.Errorf(codes.FailedPrecondition, "%v", err)
	case errors.Is(err, services.ErrInvalidArgument):
		return status.Errorf(codes.InvalidArgument, "%v", err)
	default:
		return status.Errorf(codes.Internal, "failed to delete attribute: %v", err)
	}
}
