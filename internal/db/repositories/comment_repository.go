package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "discount-system/vitrina/internal/models/gorm"

	"gorm.io/gorm"
)

// CommentRepo handles dashboard comments
type CommentRepo struct {
	db *gorm.DB
}

// NewCommentRepo creates a new comment repository
func NewCommentRepo(db *gorm.DB) *CommentRepo {
	return &CommentRepo{db: db}
}

func (r *CommentRepo) Create(ctx context.Context, text string) (*gormModels.Comment, error) {
	comment := gormModels.Comment{Text: text}
	if err := r.db.WithContext(ctx).Create(&comment).Error; err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	return &comment, nil
}

// Latest returns the newest comment, or nil when none exist
func (r *CommentRepo) Latest(ctx context.Context) (*gormModels.Comment, error) {
	var comment gormModels.Comment

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		First(&comment).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &comment, nil
}
