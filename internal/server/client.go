package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client calls the txkv.Session service
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a session client over cc
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Execute sends one command line and returns its output
func (c *Client) Execute(ctx context.Context, line string, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, ExecuteMethod, wrapperspb.String(line), out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

// Depth returns the remote store's transaction nesting depth
func (c *Client) Depth(ctx context.Context, opts ...grpc.CallOption) (int, error) {
	out := new(wrapperspb.Int32Value)
	if err := c.cc.Invoke(ctx, DepthMethod, &emptypb.Empty{}, out, opts...); err != nil {
		return 0, err
	}
	return int(out.GetValue()), nil
}
