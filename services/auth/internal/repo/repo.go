package repo

import (
	"context"
	"errors"

	"github.com/Skotchmaster/bookstore/services/auth/internal/models"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrUserAlreadyExist = errors.New("user already exist")
	ErrRefreshNotFound  = errors.New("refresh token not found")
	ErrRefreshUnusable  = errors.New("refresh token expired or revoked")
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(&models.User{}, &models.RefreshToken{})
}
