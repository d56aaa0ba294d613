package repositories

import (
	"context"
	"fmt"

	"discount-system/vitrina/internal/constants"
	"discount-system/vitrina/internal/models/dtos"

	"github.com/jmoiron/sqlx"
)

// DiscountMatrixRepo is the sqlx read model behind the discount export
type DiscountMatrixRepo struct {
	db *sqlx.DB
}

func NewDiscountMatrixRepo(db *sqlx.DB) *DiscountMatrixRepo {
	return &DiscountMatrixRepo{db}
}

// List returns every discount row with its names, ordered by complex, type, payment type
func (r *DiscountMatrixRepo) List(ctx context.Context) ([]dtos.DiscountMatrixRow, error) {
	rows := []dtos.DiscountMatrixRow{}
	if err := r.db.SelectContext(ctx, &rows, constants.ListDiscountMatrix); err != nil {
		return nil, fmt.Errorf("failed to list discount matrix: %w", err)
	}
	return rows, nil
}

// ListForComplex narrows the matrix to one complex
func (r *DiscountMatrixRepo) ListForComplex(ctx context.Context, complexID uint) ([]dtos.DiscountMatrixRow, error) {
	rows := []dtos.DiscountMatrixRow{}
	query := r.db.Rebind(constants.ListDiscountMatrixForComplex)
	if err := r.db.SelectContext(ctx, &rows, query, complexID); err != nil {
		return nil, fmt.Errorf("failed to list discounts for complex %d: %w", complexID, err)
	}
	return rows, nil
}

// Ping checks the read connection
func (r *DiscountMatrixRepo) Ping(ctx context.Context) error {
	var one int
	return r.db.GetContext(ctx, &one, constants.PingQuery)
}
