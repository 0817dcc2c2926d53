package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Skotchmaster/bookstore/services/store/internal/domain"
	"github.com/Skotchmaster/bookstore/services/store/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AddWishlist is idempotent: adding an existing pair is a no-op.
func (r *GormRepo) AddWishlist(ctx context.Context, userID, bookID uint) error {
	item := models.WishlistItem{UserID: userID, BookID: bookID}
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&item).Error
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fmt.Errorf("%w: book %d", domain.ErrNotFound, bookID)
	}
	return err
}

func (r *GormRepo) RemoveWishlist(ctx context.Context, userID, bookID uint) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND book_id = ?", userID, bookID).
		Delete(&models.WishlistItem{}).Error
}

func (r *GormRepo) ListWishlist(ctx context.Context, userID uint) ([]models.WishlistItem, error) {
	items := make([]models.WishlistItem, 0)
	err := r.DB.WithContext(ctx).
		Preload("Book").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}
