package services

import (
	"context"
	"fmt"

	"discount-system/vitrina/internal/auth"
	"discount-system/vitrina/internal/db/repositories"
	gormModels "discount-system/vitrina/internal/models/gorm"
)

// UserService keeps the users table in step with gateway identities
type UserService struct {
	userRepoGorm *repositories.UserRepositoryGORM
}

func NewUserService(repoGorm *repositories.UserRepositoryGORM) *UserService {
	return &UserService{
		userRepoGorm: repoGorm,
	}
}

// Sync creates the user on first sight and refreshes name and role afterwards
func (s *UserService) Sync(ctx context.Context, identity *auth.Identity) (*gormModels.User, error) {
	if identity == nil || identity.Login == "" {
		return nil, fmt.Errorf("identity without login")
	}

	role := identity.Role
	user, err := s.userRepoGorm.Save(ctx, &gormModels.User{
		Login:    identity.Login,
		FullName: identity.FullName,
		Role:     role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sync user: %w", err)
	}
	return user, nil
}

// GetUser returns the stored user for login, or nil
func (s *UserService) GetUser(ctx context.Context, login string) (*gormModels.User, error) {
	return s.userRepoGorm.GetUserByLogin(ctx, login)
}
