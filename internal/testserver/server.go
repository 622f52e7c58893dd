// Package testserver runs an in-memory schema service over bufconn for tests.
package testserver

import (
	"context"
	"net"
	"testing"

	"github.com/asakaida/dirschema/internal/entities"
	"github.com/asakaida/dirschema/internal/handlers"
	"github.com/asakaida/dirschema/internal/infrastructure/metrics"
	"github.com/asakaida/dirschema/internal/repositories/memory"
	"github.com/asakaida/dirschema/internal/schemaapi"
	"github.com/asakaida/dirschema/internal/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1024 * 1024

// Target is the dial target to combine with DialOption
const Target = "passthrough://bufconn"

// Server is an in-memory schema service
type Server struct {
	Server    *grpc.Server
	Repo      *memory.SchemaRepository
	Collector *metrics.Collector
	Listener  *bufconn.Listener
}

// Start serves attrs over bufconn until the test ends.
// A nil attrs slice seeds the built-in attributes.
func Start(t *testing.T, attrs []*entities.AttributeSchema) *Server {
	t.Helper()

	if attrs == nil {
		attrs = memory.DefaultUserAttributes()
	}
	repo, err := memory.NewSchemaRepository(attrs)
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}

	collector := metrics.NewCollector()
	listener := bufconn.Listen(bufSize)
	server := grpc.NewServer(
		grpc.UnaryInterceptor(metrics.UnaryServerInterceptor(collector, nil)),
	)
	schemaapi.RegisterSchemaServiceServer(server, handlers.NewSchemaHandler(services.NewSchemaService(repo)))

	go func() {
		if err := server.Serve(listener); err != nil {
			t.Logf("server error: %v", err)
		}
	}()

	s := &Server{
		Server:    server,
		Repo:      repo,
		Collector: collector,
		Listener:  listener,
	}
	t.Cleanup(s.Stop)
	return s
}

// DialOption returns the dialer that connects to the in-memory listener
func (s *Server) DialOption() grpc.DialOption {
	return grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
		return s.Listener.Dial()
	})
}

// Stop stops the server and closes the listener
func (s *Server) Stop() {
	s.Server.Stop()
	s.Listener.Close()
}
