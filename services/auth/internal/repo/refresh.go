package repo

import (
	"context"
	"errors"
	"time"

	"github.com/Skotchmaster/bookstore/services/auth/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) AddRefresh(ctx context.Context, token *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(token).Error
}

func (r *GormRepo) FindRefreshByID(ctx context.Context, jti string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.DB.WithContext(ctx).Where("jti = ?", jti).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRefreshNotFound
		}
		return nil, err
	}
	return &token, nil
}

// RotateRefreshToken revokes the presented token and stores its successor.
// The revoke is conditional on the token still being live, so a token can be
// rotated at most once.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI, oldHash string, next *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.RefreshToken
		if err := tx.Where("jti = ?", oldJTI).First(&current).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRefreshNotFound
			}
			return err
		}
		if current.Token != oldHash || current.UserID != next.UserID {
			return ErrRefreshNotFound
		}

		res := tx.Model(&models.RefreshToken{}).
			Where("jti = ? AND revoked = ? AND expires_at >= ?", oldJTI, false, time.Now().Unix()).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrRefreshUnusable
		}

		return tx.Create(next).Error
	})
}

func (r *GormRepo) RevokeRefresh(ctx context.Context, tokenHash string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", tokenHash).
		Update("revoked", true).Error
}
