package usecase

import (
	"context"
	"fmt"

	"github.com/mythribanda/ClaimWatch/internal/application/dto"
	"github.com/mythribanda/ClaimWatch/internal/domain/port"
)

// ListClaims is the use case for reading the stored claim history.
type ListClaims struct {
	repo port.ClaimRepository
}

// NewListClaims creates a new ListClaims use case.
func NewListClaims(repo port.ClaimRepository) *ListClaims {
	return &ListClaims{repo: repo}
}

// Execute returns every stored claim, newest first.
func (uc *ListClaims) Execute(ctx context.Context) ([]dto.ClaimResponse, error) {
	claims, err := uc.repo.FindAllByRecency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	return dto.FromModels(claims), nil
}
