package gorm

// Complex is a named real-estate project.
type Complex struct {
	ID   uint   `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;type:varchar(120);not null;uniqueIndex"`
}

// TableName specifies the table name for GORM
func (Complex) TableName() string {
	return "complexes"
}

// PropertyType is a category of unit inside a complex.
type PropertyType struct {
	ID   uint   `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;type:varchar(120);not null;uniqueIndex"`
}

// TableName specifies the table name for GORM
func (PropertyType) TableName() string {
	return "property_types"
}

// PaymentType is a payment plan or method.
type PaymentType struct {
	ID   uint   `gorm:"column:id;primaryKey"`
	Name string `gorm:"column:name;type:varchar(120);not null;uniqueIndex"`
}

// TableName specifies the table name for GORM
func (PaymentType) TableName() string {
	return "payment_types"
}
