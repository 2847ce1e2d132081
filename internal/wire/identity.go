package wire

import (
	"context"

	"google.golang.org/grpc"
)

// Full method names of the identity service.
const (
	IdentityRegisterUserMethod = "/finledger.Identity/RegisterUser"
	IdentityLoginMethod        = "/finledger.Identity/Login"
	IdentityGetUserMethod      = "/finledger.Identity/GetUser"
)

// IdentityServer is the server contract of the identity service.
type IdentityServer interface {
	RegisterUser(ctx context.Context, req *RegisterUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error)
	GetUser(ctx context.Context, req *GetUserRequest) (*UserResponse, error)
}

func identityRegisterUserHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RegisterUserRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdentityServer).RegisterUser(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: IdentityRegisterUserMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(IdentityServer).RegisterUser(ctx, req.(*RegisterUserRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func identityLoginHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(LoginRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdentityServer).Login(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: IdentityLoginMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(IdentityServer).Login(ctx, req.(*LoginRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func identityGetUserHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetUserRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(IdentityServer).GetUser(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: IdentityGetUserMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(IdentityServer).GetUser(ctx, req.(*GetUserRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// IdentityServiceDesc describes the identity service to gRPC.
var IdentityServiceDesc = grpc.ServiceDesc{
	ServiceName: "finledger.Identity",
	HandlerType: (*IdentityServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "RegisterUser", Handler: identityRegisterUserHandler},
		{MethodName: "Login", Handler: identityLoginHandler},
		{MethodName: "GetUser", Handler: identityGetUserHandler},
	},
}

// RegisterIdentityServer registers an IdentityServer implementation.
func RegisterIdentityServer(s grpc.ServiceRegistrar, srv IdentityServer) {
	s.RegisterService(&IdentityServiceDesc, srv)
}

// IdentityClient calls the identity service over a client connection.
type IdentityClient struct {
	cc grpc.ClientConnInterface
}

// NewIdentityClient wraps an established connection.
func NewIdentityClient(cc grpc.ClientConnInterface) *IdentityClient {
	return &IdentityClient{cc: cc}
}

func (c *IdentityClient) RegisterUser(ctx context.Context, req *RegisterUserRequest) (*UserResponse, error) {
	out := new(UserResponse)
	if err := c.cc.Invoke(ctx, IdentityRegisterUserMethod, req, out, grpc.CallContentSubtype(CodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *IdentityClient) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	out := new(LoginResponse)
	if err := c.cc.Invoke(ctx, IdentityLoginMethod, req, out, grpc.CallContentSubtype(CodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *IdentityClient) GetUser(ctx context.Context, req *GetUserRequest) (*UserResponse, error) {
	out := new(UserResponse)
	if err := c.cc.Invoke(ctx, IdentityGetUserMethod, req, out, grpc.CallContentSubtype(CodecName)); err != nil {
		return nil, err
	}
	return out, nil
}
