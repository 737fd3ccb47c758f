package board

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The board service speaks only protobuf well-known types, so its contract
// is declared here rather than generated from a .proto file.
const (
	ServiceName = "board.v1.BoardService"

	BoardService_CalculatePosition_FullMethodName = "/board.v1.BoardService/CalculatePosition"
	BoardService_TraceReplay_FullMethodName       = "/board.v1.BoardService/TraceReplay"
	BoardService_ClearCaches_FullMethodName       = "/board.v1.BoardService/ClearCaches"
)

// BoardServiceServer is the server API for the board service.
type BoardServiceServer interface {
	// CalculatePosition returns the runabout square at the given time.
	CalculatePosition(context.Context, *timestamppb.Timestamp) (*wrapperspb.Int32Value, error)
	// TraceReplay returns every replay step up to the given time.
	TraceReplay(context.Context, *timestamppb.Timestamp) (*structpb.ListValue, error)
	// ClearCaches drops memoized positions.
	ClearCaches(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
}

// BoardServiceClient is the client API for the board service.
type BoardServiceClient interface {
	CalculatePosition(ctx context.Context, in *timestamppb.Timestamp, opts ...grpc.CallOption) (*wrapperspb.Int32Value, error)
	TraceReplay(ctx context.Context, in *timestamppb.Timestamp, opts ...grpc.CallOption) (*structpb.ListValue, error)
	ClearCaches(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error)
}

type boardServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewBoardServiceClient creates a board service client on cc.
func NewBoardServiceClient(cc grpc.ClientConnInterface) BoardServiceClient {
	return &boardServiceClient{cc: cc}
}

func (c *boardServiceClient) CalculatePosition(ctx context.Context, in *timestamppb.Timestamp, opts ...grpc.CallOption) (*wrapperspb.Int32Value, error) {
	out := new(wrapperspb.Int32Value)
	if err := c.cc.Invoke(ctx, BoardService_CalculatePosition_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boardServiceClient) TraceReplay(ctx context.Context, in *timestamppb.Timestamp, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, BoardService_TraceReplay_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *boardServiceClient) ClearCaches(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, BoardService_ClearCaches_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterBoardServiceServer registers srv on s.
func RegisterBoardServiceServer(s grpc.ServiceRegistrar, srv BoardServiceServer) {
	s.RegisterService(&BoardService_ServiceDesc, srv)
}

func calculatePositionHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(timestamppb.Timestamp)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoardServiceServer).CalculatePosition(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoardService_CalculatePosition_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoardServiceServer).CalculatePosition(ctx, req.(*timestamppb.Timestamp))
	}
	return interceptor(ctx, in, info, handler)
}

func traceReplayHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(timestamppb.Timestamp)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoardServiceServer).TraceReplay(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoardService_TraceReplay_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoardServiceServer).TraceReplay(ctx, req.(*timestamppb.Timestamp))
	}
	return interceptor(ctx, in, info, handler)
}

func clearCachesHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BoardServiceServer).ClearCaches(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: BoardService_ClearCaches_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BoardServiceServer).ClearCaches(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// BoardService_ServiceDesc is the grpc.ServiceDesc for the board service.
var BoardService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BoardServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CalculatePosition", Handler: calculatePositionHandler},
		{MethodName: "TraceReplay", Handler: traceReplayHandler},
		{MethodName: "ClearCaches", Handler: clearCachesHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "board/v1/board.proto",
}
