// Package schemaclient is the remote query client used by the admin panel.
package schemaclient

import (
	"context"
	"fmt"

	"github.com/asakaida/dirschema/internal/entities"
	"github.com/asakaida/dirschema/internal/infrastructure/logger"
	"github.com/asakaida/dirschema/internal/infrastructure/metrics"
	"github.com/asakaida/dirschema/internal/schemaapi"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client executes queries against the directory schema endpoint
type Client interface {
	// GetUserAttributesSchema returns the user attribute schema in server order
	GetUserAttributesSchema(ctx context.Context) (*entities.UserSchema, error)

	// DeleteUserAttribute deletes a non-hardcoded user attribute
	DeleteUserAttribute(ctx context.Context, name string) error
}

// GRPCClient implements Client over the schema gRPC service
type GRPCClient struct {
	api  schemaapi.SchemaServiceClient
	conn *grpc.ClientConn
}

// NewGRPCClient creates a client bound to an existing connection
func NewGRPCClient(cc grpc.ClientConnInterface) *GRPCClient {
	return &GRPCClient{api: schemaapi.NewSchemaServiceClient(cc)}
}

// Dial creates a client connection to endpoint with metrics and request ID propagation.
// Additional dial options are appended, e.g. a context dialer in tests.
func Dial(endpoint string, collector *metrics.Collector, log *logger.Logger, opts ...grpc.DialOption) (*GRPCClient, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(metrics.UnaryClientInterceptor(collector, log)),
	}
	dialOpts = append(dialOpts, opts...)

	conn, err := grpc.NewClient(endpoint, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client connection to %s: %w", endpoint, err)
	}

	c := NewGRPCClient(conn)
	c.conn = conn
	return c, nil
}

// Close closes the underlying connection when the client owns it
func (c *GRPCClient) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// GetUserAttributesSchema queries and decodes the user attribute schema
func (c *GRPCClient) GetUserAttributesSchema(ctx context.Context) (*entities.UserSchema, error) {
	resp, err := c.api.GetUserAttributesSchema(ctx, &structpb.Struct{})
	if err != nil {
		return nil, fmt.Errorf("GetUserAttributesSchema failed: %w", err)
	}

	schema, err := schemaapi.DecodeUserSchema(resp)
	if err != nil {
		return nil, fmt.Errorf("failed to decode user schema: %w", err)
	}
	return schema, nil
}

// DeleteUserAttribute deletes the named attribute
func (c *GRPCClient) DeleteUserAttribute(ctx context.Context, name string) error {
	if _, err := c.api.DeleteUserAttribute(ctx, schemaapi.EncodeDeleteRequest(name)); err != nil {
		return fmt.Errorf("DeleteUserAttribute %s failed: %w", name, err)
	}
	return nil
}
