package grpc

// Hand-written service descriptor for claimwatch.v1.ClaimService. Messages
// are plain Go structs carried by JSONCodec.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mythribanda/ClaimWatch/internal/application/dto"
)

// ClaimServiceName is the fully qualified gRPC service name.
const ClaimServiceName = "claimwatch.v1.ClaimService"

// Full method names, as used by clients and interceptors.
const (
	SubmitClaimMethod = "/" + ClaimServiceName + "/SubmitClaim"
	ListClaimsMethod  = "/" + ClaimServiceName + "/ListClaims"
)

// SubmitClaimRequest carries one raw claim form.
type SubmitClaimRequest struct {
	Claim map[string]any `json:"claim"`
}

// SubmitClaimResponse carries the defaulted verdict.
type SubmitClaimResponse struct {
	Verdict *dto.VerdictResponse `json:"verdict"`
}

// ListClaimsRequest has no fields; the history is not paginated.
type ListClaimsRequest struct{}

// ListClaimsResponse carries the whole history, newest first.
type ListClaimsResponse struct {
	Claims []dto.ClaimResponse `json:"claims"`
}

// ClaimServiceServer is the server API for ClaimService.
type ClaimServiceServer interface {
	SubmitClaim(context.Context, *SubmitClaimRequest) (*SubmitClaimResponse, error)
	ListClaims(context.Context, *ListClaimsRequest) (*ListClaimsResponse, error)
	mustEmbedUnimplementedClaimServiceServer()
}

// UnimplementedClaimServiceServer provides forward-compatible default implementations.
type UnimplementedClaimServiceServer struct{}

func (UnimplementedClaimServiceServer) SubmitClaim(context.Context, *SubmitClaimRequest) (*SubmitClaimResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SubmitClaim not implemented")
}
func (UnimplementedClaimServiceServer) ListClaims(context.Context, *ListClaimsRequest) (*ListClaimsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListClaims not implemented")
}
func (UnimplementedClaimServiceServer) mustEmbedUnimplementedClaimServiceServer() {}

// RegisterClaimServiceServer registers the ClaimServiceServer with the gRPC server.
func RegisterClaimServiceServer(s grpclib.ServiceRegistrar, srv ClaimServiceServer) {
	s.RegisterService(&claimServiceDesc, srv)
}

var claimServiceDesc = grpclib.ServiceDesc{
	ServiceName: ClaimServiceName,
	HandlerType: (*ClaimServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "SubmitClaim", Handler: submitClaimHandler},
		{MethodName: "ListClaims", Handler: listClaimsHandler},
	},
	Streams: []grpclib.StreamDesc{},
}

func submitClaimHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(SubmitClaimRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClaimServiceServer).SubmitClaim(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: SubmitClaimMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClaimServiceServer).SubmitClaim(ctx, req.(*SubmitClaimRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func listClaimsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	req := new(ListClaimsRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ClaimServiceServer).ListClaims(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: ListClaimsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ClaimServiceServer).ListClaims(ctx, req.(*ListClaimsRequest))
	}
	return interceptor(ctx, req, info, handler)
}
