package gorm

// DiscountObject holds the discount rates for one (complex, property type, payment type) triple.
// The triple is a natural key kept unique by the sync upsert, not by a constraint.
type DiscountObject struct {
	ID            uint    `gorm:"column:id;primaryKey"`
	ComplexID     uint    `gorm:"column:complex_id;not null;index:idx_discount_triple"`
	TypeID        uint    `gorm:"column:type_id;not null;index:idx_discount_triple"`
	PaymentTypeID uint    `gorm:"column:payment_type_id;not null;index:idx_discount_triple"`
	MppDiscount   float64 `gorm:"column:mpp_discount;default:0"`
	OptDiscount   float64 `gorm:"column:opt_discount;default:0"`
	KdDiscount    float64 `gorm:"column:kd_discount;default:0"`

	// Relationships
	Complex      Complex      `gorm:"foreignKey:ComplexID"`
	PropertyType PropertyType `gorm:"foreignKey:TypeID"`
	PaymentType  PaymentType  `gorm:"foreignKey:PaymentTypeID"`
}

// TableName specifies the table name for GORM
func (DiscountObject) TableName() string {
	return "discount_objects"
}
