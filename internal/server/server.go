// Package server implements the txkv gRPC session service
package server

import (
	"context"
	"errors"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/nainya/txkv/internal/logger"
	"github.com/nainya/txkv/internal/metrics"
	"github.com/nainya/txkv/pkg/command"
	"github.com/nainya/txkv/pkg/storage"
)

// Full method names of the txkv.Session service
const (
	ServiceName   = "txkv.Session"
	ExecuteMethod = "/txkv.Session/Execute"
	DepthMethod   = "/txkv.Session/Depth"
)

// SessionServer is the server API for the txkv.Session service
type SessionServer interface {
	// Execute runs one command line and returns its output
	Execute(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	// Depth returns the number of open nested transactions
	Depth(context.Context, *emptypb.Empty) (*wrapperspb.Int32Value, error)
}

// RegisterSessionServer registers srv with s
func RegisterSessionServer(s grpc.ServiceRegistrar, srv SessionServer) {
	s.RegisterService(&sessionServiceDesc, srv)
}

var sessionServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SessionServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Execute", Handler: executeHandler},
		{MethodName: "Depth", Handler: depthHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "txkv/session",
}

func executeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).Execute(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ExecuteMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SessionServer).Execute(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func depthHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(SessionServer).Depth(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: DepthMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(SessionServer).Depth(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// Server implements SessionServer over a single store. The store is not
// safe for concurrent use, so every call holds mu for its whole duration.
type Server struct {
	mu    sync.Mutex
	store *storage.Manager[string]

	log     *logger.Logger
	metrics *metrics.Metrics
}

// NewServer creates a session server owning store
func NewServer(store *storage.Manager[string], log *logger.Logger, m *metrics.Metrics) *Server {
	return &Server{
		store:   store,
		log:     log.Component("session"),
		metrics: m,
	}
}

// Execute runs one command line against the store
func (s *Server) Execute(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	line := req.GetValue()
	if command.IsExit(line) {
		return nil, status.Error(codes.InvalidArgument, "EXIT is only supported on the terminal")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	cmd, res, err := command.Run(s.store, line)
	duration := time.Since(start)

	name := "INVALID"
	if cmd != nil {
		name = command.Name(cmd)
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	s.metrics.RecordCommand(name, result, duration)
	s.metrics.UpdateStoreStats(s.store.Depth(), s.store.Len())
	s.log.LogCommand(name, s.store.Depth(), duration, err)

	if err != nil {
		return nil, toStatus(err)
	}
	return wrapperspb.String(res.Output), nil
}

// Depth returns the current transaction nesting depth
func (s *Server) Depth(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.Int32Value, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return wrapperspb.Int32(int32(s.store.Depth())), nil
}

// toStatus maps a command error to a gRPC status carrying the user-facing text
func toStatus(err error) error {
	msg := command.Message(err)
	switch {
	case errors.Is(err, storage.ErrKeyNotFound), errors.Is(err, storage.ErrKeyNotDeletable):
		return status.Error(codes.NotFound, msg)
	case errors.Is(err, storage.ErrNoActiveTransaction):
		return status.Error(codes.FailedPrecondition, msg)
	case errors.Is(err, command.ErrEmptyInput),
		errors.Is(err, command.ErrUnsupportedCommand),
		errors.Is(err, command.ErrInvalidArgumentCount):
		return status.Error(codes.InvalidArgument, msg)
	default:
		return status.Error(codes.Internal, msg)
	}
}
