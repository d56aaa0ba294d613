package gorm

import "discount-system/vitrina/internal/constants"

// User is a gateway-authenticated person, refreshed from request headers.
type User struct {
	ID       uint           `gorm:"column:id;primaryKey"`
	Login    string         `gorm:"column:login;type:varchar(80);not null;uniqueIndex"`
	Email    string         `gorm:"column:email;type:varchar(120);default:''"`
	FullName string         `gorm:"column:full_name;type:varchar(120);not null"`
	Role     constants.Role `gorm:"column:role;type:varchar(50);not null;default:user"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
