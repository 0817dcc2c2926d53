package repo

import (
	"context"

	"github.com/Skotchmaster/bookstore/services/store/internal/models"
)

func (r *GormRepo) CreatePurchase(ctx context.Context, p *models.Purchase) error {
	return r.DB.WithContext(ctx).Create(p).Error
}

func (r *GormRepo) ListPurchases(ctx context.Context, offset, limit int) (int64, []models.Purchase, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Purchase{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Purchase, 0, limit)
	if err := r.DB.WithContext(ctx).
		Preload("Items").
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}
