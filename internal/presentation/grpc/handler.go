package grpc

import (
	"context"
	"errors"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/mythribanda/ClaimWatch/internal/application/dto"
	"github.com/mythribanda/ClaimWatch/internal/application/usecase"
	"github.com/mythribanda/ClaimWatch/internal/domain/model"
)

// Compile-time assertion that ClaimServiceHandler implements ClaimServiceServer.
var _ ClaimServiceServer = (*ClaimServiceHandler)(nil)

// ClaimServiceHandler implements the gRPC ClaimServiceServer interface.
type ClaimServiceHandler struct {
	UnimplementedClaimServiceServer
	submitClaim *usecase.SubmitClaim
	listClaims  *usecase.ListClaims
	logger      *slog.Logger
}

// NewClaimServiceHandler creates a new gRPC handler.
func NewClaimServiceHandler(
	submitClaim *usecase.SubmitClaim,
	listClaims *usecase.ListClaims,
	logger *slog.Logger,
) *ClaimServiceHandler {
	return &ClaimServiceHandler{
		submitClaim: submitClaim,
		listClaims:  listClaims,
		logger:      logger,
	}
}

// SubmitClaim runs one claim through the intake pipeline.
func (h *ClaimServiceHandler) SubmitClaim(ctx context.Context, req *SubmitClaimRequest) (*SubmitClaimResponse, error) {
	if req == nil || req.Claim == nil {
		return nil, status.Error(codes.InvalidArgument, "claim is required")
	}

	verdict, err := h.submitClaim.Execute(ctx, dto.SubmitClaimRequest{Claim: model.ClaimRequest(req.Claim)})
	if err != nil {
		if st := validationStatus(err); st != nil {
			return nil, st.Err()
		}
		h.logger.ErrorContext(ctx, "failed to submit claim",
			slog.Any("policy_number", req.Claim["policy_number"]),
			slog.String("error", err.Error()),
		)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return &SubmitClaimResponse{Verdict: &verdict}, nil
}

// ListClaims returns the stored history, newest first.
func (h *ClaimServiceHandler) ListClaims(ctx context.Context, _ *ListClaimsRequest) (*ListClaimsResponse, error) {
	claims, err := h.listClaims.Execute(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list claims", slog.String("error", err.Error()))
		return nil, status.Error(codes.Internal, "internal error")
	}
	return &ListClaimsResponse{Claims: claims}, nil
}

// validationStatus maps caller input defects to InvalidArgument, or returns
// nil for anything else.
func validationStatus(err error) *status.Status {
	if !model.IsValidationError(err) {
		return nil
	}
	// The outermost typed error carries the caller-facing message.
	for e := err; e != nil; e = errors.Unwrap(e) {
		switch e.(type) {
		case *model.MissingFieldError, *model.NotANumberError, *model.InvalidDateError, *model.InvalidFieldError:
			return status.New(codes.InvalidArgument, e.Error())
		}
	}
	return status.New(codes.InvalidArgument, err.Error())
}
