package repo

import (
	"context"

	"github.com/Skotchmaster/bookstore/services/store/internal/domain"
	"github.com/Skotchmaster/bookstore/services/store/internal/models"
	"gorm.io/gorm"
)

const orderViewColumns = "orders.id, orders.user_id, orders.total_amount, orders.status, orders.payment_method, " +
	"orders.shipping_method, orders.shipping_address, orders.created_at, " +
	"users.name AS customer_name, users.email AS customer_email"

func (r *GormRepo) orderViews(ctx context.Context) *gorm.DB {
	return r.DB.WithContext(ctx).
		Table("orders").
		Joins("LEFT JOIN users ON users.id = orders.user_id")
}

func (r *GormRepo) Stats(ctx context.Context) (Stats, error) {
	var s Stats
	db := r.DB.WithContext(ctx)

	if err := db.Model(&models.Order{}).
		Where("status IN ?", domain.SettledStatuses).
		Select("COALESCE(SUM(total_amount), 0)").
		Scan(&s.TotalSales).Error; err != nil {
		return Stats{}, err
	}
	if err := db.Model(&models.Order{}).Count(&s.TotalOrders).Error; err != nil {
		return Stats{}, err
	}
	if err := db.Model(&models.Book{}).Count(&s.TotalBooks).Error; err != nil {
		return Stats{}, err
	}
	if err := db.Model(&models.Customer{}).Where("role = ?", "user").Count(&s.TotalUsers).Error; err != nil {
		return Stats{}, err
	}
	return s, nil
}

func (r *GormRepo) RecentOrders(ctx context.Context, limit int) ([]OrderView, error) {
	out := make([]OrderView, 0, limit)
	err := r.orderViews(ctx).
		Select(orderViewColumns).
		Order("orders.created_at DESC, orders.id DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}

func (r *GormRepo) ListAllOrders(ctx context.Context, offset, limit int) (int64, []OrderView, error) {
	return r.pagedOrderViews(ctx, nil, offset, limit)
}

func (r *GormRepo) Invoices(ctx context.Context, offset, limit int) (int64, []OrderView, error) {
	return r.pagedOrderViews(ctx, domain.SettledStatuses, offset, limit)
}

func (r *GormRepo) pagedOrderViews(ctx context.Context, statuses []domain.OrderStatus, offset, limit int) (int64, []OrderView, error) {
	count := r.DB.WithContext(ctx).Model(&models.Order{})
	if len(statuses) > 0 {
		count = count.Where("status IN ?", statuses)
	}
	var total int64
	if err := count.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	q := r.orderViews(ctx).Select(orderViewColumns)
	if len(statuses) > 0 {
		q = q.Where("orders.status IN ?", statuses)
	}
	out := make([]OrderView, 0, limit)
	if err := q.Order("orders.created_at DESC, orders.id DESC").Offset(offset).Limit(limit).Scan(&out).Error; err != nil {
		return 0, nil, err
	}
	return total, out, nil
}
