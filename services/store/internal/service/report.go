package service

import (
	"context"

	"github.com/Skotchmaster/bookstore/pkg/policy"
	"github.com/Skotchmaster/bookstore/services/store/internal/repo"
)

const recentOrdersLimit = 5

// ReportService serves the admin dashboard. All reads require the admin role.
type ReportService struct {
	Store repo.Store
}

func (s *ReportService) Stats(ctx context.Context, p policy.Principal) (repo.Stats, error) {
	if err := policy.Authorize(p, policy.Admin, 0); err != nil {
		return repo.Stats{}, err
	}
	return s.Store.Stats(ctx)
}

func (s *ReportService) RecentOrders(ctx context.Context, p policy.Principal) ([]repo.OrderView, error) {
	if err := policy.Authorize(p, policy.Admin, 0); err != nil {
		return nil, err
	}
	return s.Store.RecentOrders(ctx, recentOrdersLimit)
}

func (s *ReportService) ListOrders(ctx context.Context, p policy.Principal, offset, limit int) (int64, []repo.OrderView, error) {
	if err := policy.Authorize(p, policy.Admin, 0); err != nil {
		return 0, nil, err
	}
	return s.Store.ListAllOrders(ctx, offset, limit)
}

func (s *ReportService) Invoices(ctx context.Context, p policy.Principal, offset, limit int) (int64, []repo.OrderView, error) {
	if err := policy.Authorize(p, policy.Admin, 0); err != nil {
		return 0, nil, err
	}
	return s.Store.Invoices(ctx, offset, limit)
}
