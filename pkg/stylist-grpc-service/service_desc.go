package stylist_grpc_service

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "stylist.v1.StylistService"

// StylistServiceServer is the server API. Requests and responses are
// google.protobuf.Struct values.
type StylistServiceServer interface {
	AddGarment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RemoveGarment(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Clear(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Generate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Navigate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	State(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(StylistServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(StylistServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(StylistServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// StylistServiceDesc describes the service for grpc.ServiceRegistrar.
var StylistServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*StylistServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("AddGarment", StylistServiceServer.AddGarment),
		unaryHandler("RemoveGarment", StylistServiceServer.RemoveGarment),
		unaryHandler("Clear", StylistServiceServer.Clear),
		unaryHandler("Generate", StylistServiceServer.Generate),
		unaryHandler("Navigate", StylistServiceServer.Navigate),
		unaryHandler("State", StylistServiceServer.State),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stylist/v1/stylist.proto",
}

func RegisterStylistServiceServer(s grpc.ServiceRegistrar, srv StylistServiceServer) {
	s.RegisterService(&StylistServiceDesc, srv)
}

// StylistServiceClient calls a remote StylistService.
type StylistServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewStylistServiceClient(cc grpc.ClientConnInterface) *StylistServiceClient {
	return &StylistServiceClient{cc: cc}
}

// Call invokes method with req. A nil req sends an empty struct.
func (c *StylistServiceClient) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
