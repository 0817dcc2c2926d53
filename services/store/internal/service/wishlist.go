package service

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/bookstore/pkg/policy"
	"github.com/Skotchmaster/bookstore/services/store/internal/models"
	"github.com/Skotchmaster/bookstore/services/store/internal/repo"
)

type WishlistService struct {
	Store repo.Store
}

func (s *WishlistService) Add(ctx context.Context, p policy.Principal, bookID uint) error {
	if err := policy.Authorize(p, policy.User, 0); err != nil {
		return err
	}
	if bookID == 0 {
		return fmt.Errorf("%w: book_id required", ErrValidation)
	}
	if _, err := s.Store.GetBook(ctx, bookID); err != nil {
		return err
	}
	return s.Store.AddWishlist(ctx, p.UserID, bookID)
}

func (s *WishlistService) Remove(ctx context.Context, p policy.Principal, bookID uint) error {
	if err := policy.Authorize(p, policy.User, 0); err != nil {
		return err
	}
	return s.Store.RemoveWishlist(ctx, p.UserID, bookID)
}

func (s *WishlistService) List(ctx context.Context, p policy.Principal) ([]models.WishlistItem, error) {
	if err := policy.Authorize(p, policy.User, 0); err != nil {
		return nil, err
	}
	return s.Store.ListWishlist(ctx, p.UserID)
}
