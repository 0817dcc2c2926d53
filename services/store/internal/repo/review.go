package repo

import (
	"context"

	"github.com/Skotchmaster/bookstore/services/store/internal/models"
	"gorm.io/gorm"
)

func (r *GormRepo) AddReview(ctx context.Context, rv *models.Review) error {
	return r.DB.WithContext(ctx).Create(rv).Error
}

// RecomputeRating sets the book rating to the mean of its reviews in a
// single statement and returns the new value.
func (r *GormRepo) RecomputeRating(ctx context.Context, bookID uint) (float64, error) {
	res := r.DB.WithContext(ctx).Model(&models.Book{}).
		Where("id = ?", bookID).
		UpdateColumn("rating", gorm.Expr("(SELECT AVG(rating) FROM reviews WHERE reviews.book_id = ?)", bookID))
	if res.Error != nil {
		return 0, res.Error
	}

	b, err := r.GetBook(ctx, bookID)
	if err != nil {
		return 0, err
	}
	return b.Rating, nil
}

func (r *GormRepo) ListReviews(ctx context.Context, bookID uint) ([]ReviewView, error) {
	out := make([]ReviewView, 0)
	err := r.DB.WithContext(ctx).
		Table("reviews").
		Select("reviews.id, reviews.user_id, reviews.book_id, reviews.rating, reviews.comment, reviews.created_at, users.name AS user_name").
		Joins("LEFT JOIN users ON users.id = reviews.user_id").
		Where("reviews.book_id = ?", bookID).
		Order("reviews.created_at DESC, reviews.id DESC").
		Scan(&out).Error
	return out, err
}
