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

type ReviewService struct {
	base
}

func NewReviewService(store repo.Store, pub events.Publisher) *ReviewService {
	return &ReviewService{base: base{Store: store, Events: pub}}
}

// AddReview stores the review and sets the book rating to the mean of all
// its reviews in the same transaction.
func (s *ReviewService) AddReview(ctx context.Context, p policy.Principal, req transport.ReviewRequest) (*models.Review, *models.Book, error) {
	if err := policy.Authorize(p, policy.User, 0); err != nil {
		return nil, nil, err
	}
	if req.BookID == 0 {
		return nil, nil, fmt.Errorf("%w: book_id required", ErrValidation)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
	}

	review := &models.Review{
		UserID:  p.UserID,
		BookID:  req.BookID,
		Rating:  req.Rating,
		Comment: strings.TrimSpace(req.Comment),
	}

	var book *models.Book
	err := s.Store.InTx(ctx, func(tx repo.Store) error {
		if _, err := tx.GetBook(ctx, req.BookID); err != nil {
			return err
		}
		if err := tx.AddReview(ctx, review); err != nil {
			return err
		}
		if _, err := tx.RecomputeRating(ctx, req.BookID); err != nil {
			return err
		}
		var err error
		book, err = tx.GetBook(ctx, req.BookID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.TopicReviews, messages.Key(review.ID), messages.ReviewEvent{
		Type:     messages.ReviewAdded,
		ReviewID: review.ID,
		BookID:   review.BookID,
		UserID:   review.UserID,
		Rating:   review.Rating,
		NewMean:  book.Rating,
	})
	s.publish(ctx, events.TopicBooks, messages.Key(book.ID), messages.BookEvent{Type: messages.BookRatingChanged, BookID: book.ID, Book: book})
	return review, book, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, bookID uint) ([]repo.ReviewView, error) {
	if _, err := s.Store.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.Store.ListReviews(ctx, bookID)
}
