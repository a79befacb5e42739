/*
	rpc package exposes look-ups over gRPC. The service is declared by hand
	and exchanges google.protobuf.Struct messages, so no generated code is
	required on either side.
*/

package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName is the fully qualified name of the look-up service.
	ServiceName = "ulookup.LookUp"

	lookUpMethod = "/" + ServiceName + "/LookUp"
)

// LookUpServer is the server API of the look-up service.
//
// Requests carry the fields "uri" and, optionally, "priority" ("low",
// "normal" or "high"). Responses carry "uri", "outcome", "error",
// "queue_time_ms", "exec_time_ms", "dereferenced", "successful", "failed"
// and "max_steps_reached".
type LookUpServer interface {
	LookUp(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterLookUpServer registers srv with s.
func RegisterLookUpServer(s grpc.ServiceRegistrar, srv LookUpServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LookUpServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "LookUp",
			Handler:    lookUpHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ulookup.proto",
}

func lookUpHandler(
	srv interface{},
	ctx context.Context,
	dec func(interface{}) error,
	interceptor grpc.UnaryServerInterceptor,
) (interface{}, error) {

	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(LookUpServer).LookUp(ctx, in)
	}

	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: lookUpMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(LookUpServer).LookUp(ctx, req.(*structpb.Struct))
	}

	return interceptor(ctx, in, info, handler)
}
