// Package matching holds the gRPC contract of amigo.matching.v1.MatchingService.
//
// Requests and responses are google.protobuf.Struct messages. User ids travel as
// decimal strings, timestamps as RFC 3339 strings. matching.proto declares the
// service and documents the fields of every message.
package matching

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "amigo.matching.v1.MatchingService"

const (
	MatchingService_RegisterProfile_FullMethodName    = "/" + ServiceName + "/RegisterProfile"
	MatchingService_GetProfile_FullMethodName         = "/" + ServiceName + "/GetProfile"
	MatchingService_ListCandidates_FullMethodName     = "/" + ServiceName + "/ListCandidates"
	MatchingService_Like_FullMethodName               = "/" + ServiceName + "/Like"
	MatchingService_ListMatches_FullMethodName        = "/" + ServiceName + "/ListMatches"
	MatchingService_ConfirmPayment_FullMethodName     = "/" + ServiceName + "/ConfirmPayment"
	MatchingService_ListLikesReceived_FullMethodName  = "/" + ServiceName + "/ListLikesReceived"
	MatchingService_CountLikesReceived_FullMethodName = "/" + ServiceName + "/CountLikesReceived"
)

// MatchingServiceClient is the client API for MatchingService.
type MatchingServiceClient interface {
	RegisterProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListCandidates(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	Like(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListMatches(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ConfirmPayment(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListLikesReceived(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CountLikesReceived(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type matchingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMatchingServiceClient(cc grpc.ClientConnInterface) MatchingServiceClient {
	return &matchingServiceClient{cc}
}

func (c *matchingServiceClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts []grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *matchingServiceClient) RegisterProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MatchingService_RegisterProfile_FullMethodName, in, opts)
}

func (c *matchingServiceClient) GetProfile(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MatchingService_GetProfile_FullMethodName, in, opts)
}

func (c *matchingServiceClient) ListCandidates(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MatchingService_ListCandidates_FullMethodName, in, opts)
}

func (c *matchingServiceClient) Like(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MatchingService_Like_FullMethodName, in, opts)
}

func (c *matchingServiceClient) ListMatches(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MatchingService_ListMatches_FullMethodName, in, opts)
}

func (c *matchingServiceClient) ConfirmPayment(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MatchingService_ConfirmPayment_FullMethodName, in, opts)
}

func (c *matchingServiceClient) ListLikesReceived(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MatchingService_ListLikesReceived_FullMethodName, in, opts)
}

func (c *matchingServiceClient) CountLikesReceived(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MatchingService_CountLikesReceived_FullMethodName, in, opts)
}

// MatchingServiceServer is the server API for MatchingService.
// All implementations must embed UnimplementedMatchingServiceServer
// for forward compatibility.
type MatchingServiceServer interface {
	RegisterProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCandidates(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Like(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListMatches(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ConfirmPayment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListLikesReceived(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CountLikesReceived(context.Context, *structpb.Struct) (*structpb.Struct, error)
	mustEmbedUnimplementedMatchingServiceServer()
}

// UnimplementedMatchingServiceServer must be embedded to have forward compatible implementations.
type UnimplementedMatchingServiceServer struct{}

func (UnimplementedMatchingServiceServer) RegisterProfile(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RegisterProfile not implemented")
}
func (UnimplementedMatchingServiceServer) GetProfile(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetProfile not implemented")
}
func (UnimplementedMatchingServiceServer) ListCandidates(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListCandidates not implemented")
}
func (UnimplementedMatchingServiceServer) Like(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Like not implemented")
}
func (UnimplementedMatchingServiceServer) ListMatches(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListMatches not implemented")
}
func (UnimplementedMatchingServiceServer) ConfirmPayment(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ConfirmPayment not implemented")
}
func (UnimplementedMatchingServiceServer) ListLikesReceived(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListLikesReceived not implemented")
}
func (UnimplementedMatchingServiceServer) CountLikesReceived(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CountLikesReceived not implemented")
}
func (UnimplementedMatchingServiceServer) mustEmbedUnimplementedMatchingServiceServer() {}

func RegisterMatchingServiceServer(s grpc.ServiceRegistrar, srv MatchingServiceServer) {
	s.RegisterService(&MatchingService_ServiceDesc, srv)
}

type unaryMethod func(srv MatchingServiceServer, ctx context.Context, in *structpb.Struct) (*structpb.Struct, error)

// unaryHandler adapts one server method to grpc.MethodHandler, honouring interceptors.
func unaryHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MatchingServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MatchingServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// MatchingService_ServiceDesc is the grpc.ServiceDesc for MatchingService service.
var MatchingService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*MatchingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "RegisterProfile",
			Handler:    unaryHandler(MatchingService_RegisterProfile_FullMethodName, MatchingServiceServer.RegisterProfile),
		},
		{
			MethodName: "GetProfile",
			Handler:    unaryHandler(MatchingService_GetProfile_FullMethodName, MatchingServiceServer.GetProfile),
		},
		{
			MethodName: "ListCandidates",
			Handler:    unaryHandler(MatchingService_ListCandidates_FullMethodName, MatchingServiceServer.ListCandidates),
		},
		{
			MethodName: "Like",
			Handler:    unaryHandler(MatchingService_Like_FullMethodName, MatchingServiceServer.Like),
		},
		{
			MethodName: "ListMatches",
			Handler:    unaryHandler(MatchingService_ListMatches_FullMethodName, MatchingServiceServer.ListMatches),
		},
		{
			MethodName: "ConfirmPayment",
			Handler:    unaryHandler(MatchingService_ConfirmPayment_FullMethodName, MatchingServiceServer.ConfirmPayment),
		},
		{
			MethodName: "ListLikesReceived",
			Handler:    unaryHandler(MatchingService_ListLikesReceived_FullMethodName, MatchingServiceServer.ListLikesReceived),
		},
		{
			MethodName: "CountLikesReceived",
			Handler:    unaryHandler(MatchingService_CountLikesReceived_FullMethodName, MatchingServiceServer.CountLikesReceived),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "matching.proto",
}
