// Package schemaapi defines the gRPC contract of the directory schema service.
//
// Payloads are google.protobuf.Struct messages so that the service needs no
// generated code. The user attribute schema is nested under
// schema.userSchema.attributes in the GetUserAttributesSchema response.
package schemaapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified gRPC service name
	ServiceName = "dirschema.v1.SchemaService"

	GetUserAttributesSchemaMethod = "/" + ServiceName + "/GetUserAttributesSchema"
	DeleteUserAttributeMethod     = "/" + ServiceName + "/DeleteUserAttribute"
)

// SchemaServiceServer is the server API for the schema service
type SchemaServiceServer interface {
	GetUserAttributesSchema(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	DeleteUserAttribute(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// SchemaServiceClient is the client API for the schema service
type SchemaServiceClient interface {
	GetUserAttributesSchema(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	DeleteUserAttribute(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type schemaServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewSchemaServiceClient creates a client bound to cc
func NewSchemaServiceClient(cc grpc.ClientConnInterface) SchemaServiceClient {
	return &schemaServiceClient{cc: cc}
}

func (c *schemaServiceClient) GetUserAttributesSchema(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetUserAttributesSchemaMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *schemaServiceClient) DeleteUserAttribute(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, DeleteUserAttributeMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterSchemaServiceServer registers srv on s
func RegisterSchemaServiceServer(s grpc.ServiceRegistrar, srv SchemaServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc is the grpc.ServiceDesc of the schema service
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SchemaServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetUserAttributesSchema",
			Handler:    getUserAttributesSchemaHandler,
		},
		{
			MethodName: "DeleteUserAttribute",
			Handler:    deleteUserAttributeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "dirschema/v1/schema.proto",
}

func getUserAttributesSchemaHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SchemaServiceServer).GetUserAttributesSchema(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: GetUserAttributesSchemaMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SchemaServiceServer).GetUserAttributesSchema(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func deleteUserAttributeHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SchemaServiceServer).DeleteUserAttribute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: DeleteUserAttributeMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(SchemaServiceServer).DeleteUserAttribute(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
