package repositories

import (
	"context"
	"fmt"

	"discount-system/vitrina/internal/models/dtos"
	gormModels "discount-system/vitrina/internal/models/gorm"

	"gorm.io/gorm"
)

// EntityKind names one of the three lookup tables a discount row points at
type EntityKind string

const (
	KindComplex      EntityKind = "complex"
	KindPropertyType EntityKind = "property_type"
	KindPaymentType  EntityKind = "payment_type"
)

func (k EntityKind) String() string { return string(k) }

// tableName resolves the kind to the table its model maps to
func (k EntityKind) tableName() (string, error) {
	switch k {
	case KindComplex:
		return gormModels.Complex{}.TableName(), nil
	case KindPropertyType:
		return gormModels.PropertyType{}.TableName(), nil
	case KindPaymentType:
		return gormModels.PaymentType{}.TableName(), nil
	default:
		return "", fmt.Errorf("unknown entity kind %q", string(k))
	}
}

// catalogRow is the shape shared by all three lookup tables
type catalogRow struct {
	ID   uint   `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name"`
}

// CatalogRepo reads and creates complexes, property types and payment types by name
type CatalogRepo struct {
	db *gorm.DB
}

// NewCatalogRepo creates a new catalog repository
func NewCatalogRepo(db *gorm.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *CatalogRepo) WithTx(tx *gorm.DB) *CatalogRepo {
	return &CatalogRepo{db: tx}
}

// FindByNames returns name -> id for every existing row whose name is in names (exact match)
func (r *CatalogRepo) FindByNames(ctx context.Context, kind EntityKind, names []string) (map[string]uint, error) {
	result := make(map[string]uint, len(names))
	if len(names) == 0 {
		return result, nil
	}

	table, err := kind.tableName()
	if err != nil {
		return nil, err
	}

	var rows []catalogRow
	err = r.db.WithContext(ctx).
		Table(table).
		Where("name IN ?", names).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up %s names: %w", kind, err)
	}

	for _, row := range rows {
		result[row.Name] = row.ID
	}
	return result, nil
}

// Create inserts a new row with the given name and returns its id
func (r *CatalogRepo) Create(ctx context.Context, kind EntityKind, name string) (uint, error) {
	table, err := kind.tableName()
	if err != nil {
		return 0, err
	}

	row := catalogRow{Name: name}
	if err := r.db.WithContext(ctx).Table(table).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("failed to create %s %q: %w", kind, name, err)
	}
	return row.ID, nil
}

// List returns every row of the kind in creation order
func (r *CatalogRepo) List(ctx context.Context, kind EntityKind) ([]dtos.CatalogEntry, error) {
	table, err := kind.tableName()
	if err != nil {
		return nil, err
	}

	var rows []catalogRow
	err = r.db.WithContext(ctx).
		Table(table).
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", kind, err)
	}

	entries := make([]dtos.CatalogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, dtos.CatalogEntry{ID: row.ID, Name: row.Name})
	}
	return entries, nil
}

// Count returns the number of rows of the kind
func (r *CatalogRepo) Count(ctx context.Context, kind EntityKind) (int64, error) {
	table, err := kind.tableName()
	if err != nil {
		return 0, err
	}

	var n int64
	if err := r.db.WithContext(ctx).Table(table).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
