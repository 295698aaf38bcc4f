// Package grpc implements the gRPC transport for voxlist.
//
// The transport exposes the unary service voxlist.v1.Voxlist/Dispatch. Messages
// travel as JSON (content-subtype "json"), so clients need no generated stubs:
// any gRPC client that can set the content subtype can call it. The standard
// gRPC health service is registered alongside.
package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/nadzzz/voxlist/internal/message"
	"github.com/nadzzz/voxlist/internal/transport"
)

const (
	// ServiceName is the fully qualified gRPC service name.
	ServiceName = "voxlist.v1.Voxlist"

	// DispatchMethod is the full method name of Dispatch.
	DispatchMethod = "/" + ServiceName + "/Dispatch"
)

// Transport implements transport.Transport over gRPC.
type Transport struct {
	port   int
	server *grpc.Server
	health *health.Server
}

// New creates a new gRPC transport on the given port.
func New(port int) *Transport {
	return &Transport{port: port}
}

// Name returns the transport identifier.
func (t *Transport) Name() string { return "grpc" }

// Listen starts the gRPC server and routes incoming requests to the handler.
func (t *Transport) Listen(ctx context.Context, handler transport.Handler) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", t.port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}
	return t.Serve(ctx, lis, handler)
}

// Serve accepts connections on lis until ctx is cancelled.
func (t *Transport) Serve(ctx context.Context, lis net.Listener, handler transport.Handler) error {
	t.server = grpc.NewServer()
	t.server.RegisterService(&serviceDesc, &service{handler: handler})

	t.health = health.NewServer()
	t.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(t.server, t.health)

	slog.Info("grpc transport listening", "addr", lis.Addr().String())

	go func() {
		<-ctx.Done()
		slog.Info("grpc transport shutting down")
		t.health.Shutdown()
		t.server.GracefulStop()
	}()

	if err := t.server.Serve(lis); err != nil && err != grpc.ErrServerStopped {
		return fmt.Errorf("grpc serve: %w", err)
	}
	return nil
}

// Close gracefully stops the gRPC server.
func (t *Transport) Close() error {
	if t.server != nil {
		t.server.GracefulStop()
	}
	return nil
}

// dispatchServer is the server API of voxlist.v1.Voxlist.
type dispatchServer interface {
	Dispatch(ctx context.Context, msg *message.Message) (*message.TurnResult, error)
}

type service struct {
	handler transport.Handler
}

func (s *service) Dispatch(ctx context.Context, msg *message.Message) (*message.TurnResult, error) {
	res, err := s.handler(ctx, msg)
	if err != nil {
		slog.Error("dispatch failed", "error", err)
		return nil, status.Error(codes.Internal, err.Error())
	}
	return res, nil
}

func dispatchHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(message.Message)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(dispatchServer).Dispatch(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DispatchMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(dispatchServer).Dispatch(ctx, req.(*message.Message))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*dispatchServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Dispatch", Handler: dispatchHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "voxlist/v1/voxlist.proto",
}

// Dispatch calls voxlist.v1.Voxlist/Dispatch on cc.
func Dispatch(ctx context.Context, cc grpc.ClientConnInterface, msg *message.Message, opts ...grpc.CallOption) (*message.TurnResult, error) {
	out := new(message.TurnResult)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codecName)}, opts...)
	if err := cc.Invoke(ctx, DispatchMethod, msg, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
