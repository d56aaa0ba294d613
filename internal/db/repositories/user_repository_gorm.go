package repositories

import (
	"context"
	"errors"
	"fmt"

	gormModels "discount-system/vitrina/internal/models/gorm"

	"gorm.io/gorm"
)

type UserRepositoryGORM struct {
	db *gorm.DB
}

// NewUserRepositoryGORM creates a new GORM-based user repository
func NewUserRepositoryGORM(db *gorm.DB) *UserRepositoryGORM {
	return &UserRepositoryGORM{db: db}
}

// GetUserByLogin retrieves a user by gateway login, or nil when unknown
func (r *UserRepositoryGORM) GetUserByLogin(ctx context.Context, login string) (*gormModels.User, error) {
	var user gormModels.User

	err := r.db.WithContext(ctx).
		Where("login = ?", login).
		First(&user).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	return &user, nil
}

// Save creates the user if the login is new, otherwise refreshes full name and role.
// Returns the stored row.
func (r *UserRepositoryGORM) Save(ctx context.Context, user *gormModels.User) (*gormModels.User, error) {
	var stored gormModels.User

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("login = ?", user.Login).
			Attrs(gormModels.User{FullName: user.FullName, Role: user.Role, Email: user.Email}).
			FirstOrCreate(&stored).Error
		if err != nil {
			return err
		}

		if stored.FullName == user.FullName && stored.Role == user.Role {
			return nil
		}

		stored.FullName = user.FullName
		stored.Role = user.Role
		return tx.Model(&stored).
			Updates(map[string]interface{}{
				"full_name": user.FullName,
				"role":      user.Role,
			}).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to save user %q: %w", user.Login, err)
	}

	return &stored, nil
}
