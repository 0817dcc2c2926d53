package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/bookstore/pkg/events"
	"github.com/Skotchmaster/bookstore/pkg/policy"
	"github.com/Skotchmaster/bookstore/services/store/internal/messages"
	"github.com/Skotchmaster/bookstore/services/store/internal/models"
	"github.com/Skotchmaster/bookstore/services/store/internal/repo"
	"github.com/Skotchmaster/bookstore/services/store/internal/transport"
)

type RestockService struct {
	base
}

func NewRestockService(store repo.Store, pub events.Publisher) *RestockService {
	return &RestockService{base: base{Store: store, Events: pub}}
}

// RecordPurchase writes the purchase, its items and one relative stock
// increment per item in a single transaction.
func (s *RestockService) RecordPurchase(ctx context.Context, p policy.Principal, req transport.PurchaseRequest) (*models.Purchase, error) {
	if err := policy.Authorize(p, policy.Admin, 0); err != nil {
		return nil, err
	}

	supplier := strings.TrimSpace(req.SupplierName)
	if supplier == "" {
		return nil, fmt.Errorf("%w: supplier_name required", ErrValidation)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: items required", ErrValidation)
	}

	purchase := &models.Purchase{SupplierName: supplier}
	for _, it := range req.Items {
		if it.BookID == 0 {
			return nil, fmt.Errorf("%w: book_id required", ErrValidation)
		}
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
		if it.CostPrice < 0 {
			return nil, fmt.Errorf("%w: cost_price must be >= 0", ErrValidation)
		}
		purchase.TotalItems += it.Quantity
		purchase.TotalCost += int64(it.Quantity) * it.CostPrice
		purchase.Items = append(purchase.Items, models.PurchaseItem{
			BookID:    it.BookID,
			Quantity:  it.Quantity,
			CostPrice: it.CostPrice,
		})
	}

	err := s.Store.InTx(ctx, func(tx repo.Store) error {
		if err := tx.CreatePurchase(ctx, purchase); err != nil {
			return err
		}
		for _, it := range purchase.Items {
			if err := tx.AdjustStock(ctx, it.BookID, it.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.TopicPurchases, messages.Key(purchase.ID), messages.PurchaseEvent{
		Type:       messages.PurchaseRecorded,
		PurchaseID: purchase.ID,
		Supplier:   purchase.SupplierName,
		TotalItems: purchase.TotalItems,
		TotalCost:  purchase.TotalCost,
	})
	return purchase, nil
}

func (s *RestockService) ListPurchases(ctx context.Context, p policy.Principal, offset, limit int) (int64, []models.Purchase, error) {
	if err := policy.Authorize(p, policy.Admin, 0); err != nil {
		return 0, nil, err
	}
	return s.Store.ListPurchases(ctx, offset, limit)
}
