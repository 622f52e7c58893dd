package metrics

import (
	"context"
	"time"

	"github.com/asakaida/dirschema/internal/infrastructure/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

// RequestIDHeader is the metadata key carrying the request ID between client and server
const RequestIDHeader = "x-request-id"

// UnaryServerInterceptor returns a gRPC interceptor that records metrics for each request.
// log may be nil.
func UnaryServerInterceptor(collector *Collector, log *logger.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		start := time.Now()
		method := info.FullMethod

		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(RequestIDHeader); len(ids) > 0 {
				ctx = logger.WithRequestID(ctx, ids[0])
			}
		}

		collector.RecordRequest(method)

		resp, err := handler(ctx, req)

		duration := time.Since(start)
		collector.RecordDuration(method, duration.Seconds())
		if err != nil {
			collector.RecordError(method)
		}
		if log != nil {
			log.LogGrpcRequest(ctx, method, duration, err)
		}

		return resp, err
	}
}

// UnaryClientInterceptor returns a gRPC interceptor that records metrics for each outgoing call
// and forwards the request ID carried by the context. log may be nil.
func UnaryClientInterceptor(collector *Collector, log *logger.Logger) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply interface{},
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		start := time.Now()

		if id := logger.RequestID(ctx); id != "" {
			ctx = metadata.AppendToOutgoingContext(ctx, RequestIDHeader, id)
		}

		collector.RecordRequest(method)

		err := invoker(ctx, method, req, reply, cc, opts...)

		duration := time.Since(start)
		collector.RecordDuration(method, duration.Seconds())
		if err != nil {
			collector.RecordError(method)
		}
		if log != nil {
			log.LogGrpcRequest(ctx, method, duration, err)
		}

		return err
	}
}
