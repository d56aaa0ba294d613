package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "discount-system/vitrina/internal/models/gorm"

	"gorm.io/gorm"
)

// DiscountKey is the (complex, property type, payment type) triple identifying one discount row
type DiscountKey struct {
	ComplexID     uint
	TypeID        uint
	PaymentTypeID uint
}

// DiscountRepo handles discount_objects table operations
type DiscountRepo struct {
	db *gorm.DB
}

// NewDiscountRepo creates a new discount repository
func NewDiscountRepo(db *gorm.DB) *DiscountRepo {
	return &DiscountRepo{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *DiscountRepo) WithTx(tx *gorm.DB) *DiscountRepo {
	return &DiscountRepo{db: tx}
}

// FindByKey returns the discount row for the triple, or nil when there is none
func (r *DiscountRepo) FindByKey(ctx context.Context, key DiscountKey) (*gormModels.DiscountObject, error) {
	var discount gormModels.DiscountObject

	err := r.db.WithContext(ctx).
		Where("complex_id = ? AND type_id = ? AND payment_type_id = ?", key.ComplexID, key.TypeID, key.PaymentTypeID).
		Order("id ASC").
		First(&discount).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch discount: %w", err)
	}

	return &discount, nil
}

// Upsert overwrites mpp/opt on the row for key, or creates it with kd left at its default.
// Reports whether a new row was created.
func (r *DiscountRepo) Upsert(ctx context.Context, key DiscountKey, mpp, opt float64) (bool, error) {
	existing, err := r.FindByKey(ctx, key)
	if err != nil {
		return false, err
	}

	if existing != nil {
		// A map so that zero values are written too
		err := r.db.WithContext(ctx).
			Model(existing).
			Updates(map[string]interface{}{
				"mpp_discount": mpp,
				"opt_discount": opt,
			}).Error
		if err != nil {
			return false, fmt.Errorf("failed to update discount %d: %w", existing.ID, err)
		}
		return false, nil
	}

	discount := gormModels.DiscountObject{
		ComplexID:     key.ComplexID,
		TypeID:        key.TypeID,
		PaymentTypeID: key.PaymentTypeID,
		MppDiscount:   mpp,
		OptDiscount:   opt,
	}
	if err := r.db.WithContext(ctx).Omit("Complex", "PropertyType", "PaymentType").Create(&discount).Error; err != nil {
		return false, fmt.Errorf("failed to create discount: %w", err)
	}
	return true, nil
}

// CountByKey returns how many rows exist for the triple; used to verify the one-row-per-triple rule
func (r *DiscountRepo) CountByKey(ctx context.Context, key DiscountKey) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&gormModels.DiscountObject{}).
		Where("complex_id = ? AND type_id = ? AND payment_type_id = ?", key.ComplexID, key.TypeID, key.PaymentTypeID).
		Count(&n).Error
	return n, err
}

// Count returns the total number of discount rows
func (r *DiscountRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&gormModels.DiscountObject{}).Count(&n).Error
	return n, err
}
