package gorm

import "time"

// Comment is an admin note shown on the dashboard; only the newest one is displayed.
type Comment struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	Text      string    `gorm:"column:text;type:varchar(2000);not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Comment) TableName() string {
	return "comments"
}
