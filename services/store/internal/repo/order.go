package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/bookstore/services/store/internal/domain"
	"github.com/Skotchmaster/bookstore/services/store/internal/models"
)

// CreateOrder inserts the header and its items.
func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Create(o).Error
}

func (r *GormRepo) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).Preload("Items.Book").First(&o, id).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("order %d", id))
	}
	return &o, nil
}

func (r *GormRepo) ListOrdersByUser(ctx context.Context, userID uint, offset, limit int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	orders := make([]models.Order, 0, limit)
	if err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

// CompareAndSetStatus moves the order from one status to another only if it
// is still in the expected status. fields are written in the same statement.
func (r *GormRepo) CompareAndSetStatus(ctx context.Context, id uint, from, to domain.OrderStatus, fields map[string]any) error {
	updates := map[string]any{"status": to}
	for k, v := range fields {
		updates[k] = v
	}

	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: order %d is no longer %s", domain.ErrInvalidTransition, id, from)
	}
	return nil
}
