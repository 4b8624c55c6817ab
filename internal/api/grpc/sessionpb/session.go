// Package sessionpb describes the signpath.v1.Session gRPC service.
// Messages are well-known protobuf types so no generated code is needed; the
// file descriptor is built by hand and registered for server reflection.
package sessionpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "signpath.v1.Session"

const (
	LoginMethod   = "/" + ServiceName + "/Login"
	SignupMethod  = "/" + ServiceName + "/Signup"
	SetRoleMethod = "/" + ServiceName + "/SetRole"
	LogoutMethod  = "/" + ServiceName + "/Logout"
	CurrentMethod = "/" + ServiceName + "/Current"
)

// SessionServer is the server API for the Session service.
type SessionServer interface {
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Signup(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetRole(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Logout(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	Current(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterSessionServer registers srv on s.
func RegisterSessionServer(s grpc.ServiceRegistrar, srv SessionServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc is the grpc.ServiceDesc for the Session service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*SessionServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Login", LoginMethod, SessionServer.Login),
		unary("Signup", SignupMethod, SessionServer.Signup),
		unary("SetRole", SetRoleMethod, SessionServer.SetRole),
		unary("Logout", LogoutMethod, SessionServer.Logout),
		unary("Current", CurrentMethod, SessionServer.Current),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: FileName,
}

func unary[Req, Resp any](name, fullMethod string, call func(SessionServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(SessionServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(SessionServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// SessionClient is the client API for the Session service.
type SessionClient struct {
	cc grpc.ClientConnInterface
}

// NewSessionClient creates a client over cc.
func NewSessionClient(cc grpc.ClientConnInterface) *SessionClient {
	return &SessionClient{cc: cc}
}

func (c *SessionClient) Login(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, LoginMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionClient) Signup(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SignupMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionClient) SetRole(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SetRoleMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionClient) Logout(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, LogoutMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionClient) Current(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, CurrentMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
