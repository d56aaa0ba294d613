package dtos

// DiscountValues is the discount triple returned for one (complex, type, payment type) key.
type DiscountValues struct {
	MppDiscount float64 `json:"mpp_discount"`
	OptDiscount float64 `json:"opt_discount"`
	KdDiscount  float64 `json:"kd_discount"`
}

// DiscountMatrixRow is one discount row joined with its lookup names
type DiscountMatrixRow struct {
	ID              uint    `db:"id" json:"id"`
	ComplexID       uint    `db:"complex_id" json:"complex_id"`
	ComplexName     string  `db:"complex_name" json:"complex_name"`
	TypeID          uint    `db:"type_id" json:"type_id"`
	TypeName        string  `db:"type_name" json:"type_name"`
	PaymentTypeID   uint    `db:"payment_type_id" json:"payment_type_id"`
	PaymentTypeName string  `db:"payment_type_name" json:"payment_type_name"`
	MppDiscount     float64 `db:"mpp_discount" json:"mpp_discount"`
	OptDiscount     float64 `db:"opt_discount" json:"opt_discount"`
	KdDiscount      float64 `db:"kd_discount" json:"kd_discount"`
}

// CatalogEntry is a lookup entity (complex, property type or payment type).
type CatalogEntry struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}
