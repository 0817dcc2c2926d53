package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/bookstore/pkg/events"
	"github.com/Skotchmaster/bookstore/pkg/logging"
	"github.com/Skotchmaster/bookstore/pkg/policy"
	"github.com/Skotchmaster/bookstore/services/store/internal/messages"
	"github.com/Skotchmaster/bookstore/services/store/internal/models"
	"github.com/Skotchmaster/bookstore/services/store/internal/repo"
	"github.com/Skotchmaster/bookstore/services/store/internal/search"
	"github.com/Skotchmaster/bookstore/services/store/internal/transport"
)

const (
	DefaultStock  = 50
	DefaultRating = 4.5
)

// Searcher returns matching book ids in rank order.
type Searcher interface {
	Search(ctx context.Context, q string, from, size int) (int64, []uint, error)
}

type CatalogService struct {
	base
	Search Searcher
}

func NewCatalogService(store repo.Store, pub events.Publisher, search Searcher) *CatalogService {
	return &CatalogService{base: base{Store: store, Events: pub}, Search: search}
}

func validateBook(req transport.BookRequest) error {
	if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Author) == "" {
		return fmt.Errorf("%w: title and author are required", ErrValidation)
	}
	if req.Price < 0 {
		return fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if req.Discount < 0 || req.Discount > 100 {
		return fmt.Errorf("%w: discount must be between 0 and 100", ErrValidation)
	}
	return nil
}

func bookFromRequest(req transport.BookRequest) models.Book {
	return models.Book{
		Title:       strings.TrimSpace(req.Title),
		Author:      strings.TrimSpace(req.Author),
		Price:       req.Price,
		Category:    strings.TrimSpace(req.Category),
		Image:       req.Image,
		Description: req.Description,
		Discount:    req.Discount,
	}
}

func (s *CatalogService) CreateBook(ctx context.Context, p policy.Principal, req transport.BookRequest) (*models.Book, error) {
	if err := policy.Authorize(p, policy.Admin, 0); err != nil {
		return nil, err
	}
	if err := validateBook(req); err != nil {
		return nil, err
	}

	book := bookFromRequest(req)
	book.Stock = DefaultStock
	if req.Stock != nil {
		if *req.Stock < 0 {
			return nil, fmt.Errorf("%w: stock must be >= 0", ErrValidation)
		}
		book.Stock = *req.Stock
	}
	book.Rating = DefaultRating
	if req.Rating != nil {
		if *req.Rating < 0 || *req.Rating > 5 {
			return nil, fmt.Errorf("%w: rating must be between 0 and 5", ErrValidation)
		}
		book.Rating = *req.Rating
	}

	if err := s.Store.CreateBook(ctx, &book); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TopicBooks, messages.Key(book.ID), messages.BookEvent{Type: messages.BookCreated, BookID: book.ID, Book: &book})
	return &book, nil
}

func (s *CatalogService) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	return s.Store.GetBook(ctx, id)
}

func (s *CatalogService) ListBooks(ctx context.Context, f repo.BookFilter, offset, limit int) (int64, []models.Book, error) {
	return s.Store.ListBooks(ctx, f, offset, limit)
}

// UpdateBook overwrites the editable fields; stock and rating in the
// request are ignored.
func (s *CatalogService) UpdateBook(ctx context.Context, p policy.Principal, id uint, req transport.BookRequest) (*models.Book, error) {
	if err := policy.Authorize(p, policy.Admin, 0); err != nil {
		return nil, err
	}
	if err := validateBook(req); err != nil {
		return nil, err
	}

	book := bookFromRequest(req)
	book.ID = id
	if err := s.Store.UpdateBook(ctx, &book); err != nil {
		return nil, err
	}

	s.publish(ctx, events.TopicBooks, messages.Key(book.ID), messages.BookEvent{Type: messages.BookUpdated, BookID: book.ID, Book: &book})
	return &book, nil
}

func (s *CatalogService) DeleteBook(ctx context.Context, p policy.Principal, id uint) error {
	if err := policy.Authorize(p, policy.Admin, 0); err != nil {
		return err
	}
	if err := s.Store.DeleteBook(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, events.TopicBooks, messages.Key(id), messages.BookEvent{Type: messages.BookDeleted, BookID: id})
	return nil
}

// SearchBooks queries the search index and loads the hits from the
// database. Without an index, or when it fails, it falls back to a LIKE
// listing.
func (s *CatalogService) SearchBooks(ctx context.Context, q string, offset, limit int) (int64, []models.Book, error) {
	l := logging.FromContext(ctx).With("svc", "catalog.search")

	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, fmt.Errorf("%w: query is required", ErrValidation)
	}

	if s.Search != nil {
		total, ids, err := s.Search.Search(ctx, q, offset, limit)
		if err == nil {
			books, err := s.booksInOrder(ctx, ids)
			if err != nil {
				return 0, nil, err
			}
			return total, books, nil
		}
		l.Warn("search_index_error", "reason", "falling back to database", "error", err)
	}

	return s.Store.ListBooks(ctx, repo.BookFilter{Query: q}, offset, limit)
}

func (s *CatalogService) booksInOrder(ctx context.Context, ids []uint) ([]models.Book, error) {
	byID, err := s.Store.BooksByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]models.Book, 0, len(ids))
	for _, id := range ids {
		// the index can briefly lag behind deletes
		if b, ok := byID[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

// Reindex pushes every book to idx in batches.
func (s *CatalogService) Reindex(ctx context.Context, idx search.BookIndex) (int, error) {
	n := 0
	err := s.Store.EachBookBatch(ctx, 200, func(books []models.Book) error {
		for _, b := range books {
			if err := idx.Upsert(ctx, b); err != nil {
				return fmt.Errorf("book %d: %w", b.ID, err)
			}
			n++
		}
		return nil
	})
	return n, err
}
