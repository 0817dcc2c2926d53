// Package repo is the storage layer of the store service. Services depend on
// the interfaces declared here; GormRepo is the relational implementation.
package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/bookstore/services/store/internal/domain"
	"github.com/Skotchmaster/bookstore/services/store/internal/models"
	"gorm.io/gorm"
)

type BookFilter struct {
	Category string
	Query    string
	Sort     string
}

// Catalog is the book repository. Stock is only ever changed through
// AdjustStock, which is a single relative update.
type Catalog interface {
	CreateBook(ctx context.Context, b *models.Book) error
	GetBook(ctx context.Context, id uint) (*models.Book, error)
	BooksByIDs(ctx context.Context, ids []uint) (map[uint]models.Book, error)
	ListBooks(ctx context.Context, f BookFilter, offset, limit int) (int64, []models.Book, error)
	EachBookBatch(ctx context.Context, size int, fn func([]models.Book) error) error
	UpdateBook(ctx context.Context, b *models.Book) error
	DeleteBook(ctx context.Context, id uint) error
	AdjustStock(ctx context.Context, id uint, delta int) error
}

type Orders interface {
	CreateOrder(ctx context.Context, o *models.Order) error
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uint, offset, limit int) (int64, []models.Order, error)
	CompareAndSetStatus(ctx context.Context, id uint, from, to domain.OrderStatus, fields map[string]any) error
}

type Purchases interface {
	CreatePurchase(ctx context.Context, p *models.Purchase) error
	ListPurchases(ctx context.Context, offset, limit int) (int64, []models.Purchase, error)
}

type Reviews interface {
	AddReview(ctx context.Context, r *models.Review) error
	RecomputeRating(ctx context.Context, bookID uint) (float64, error)
	ListReviews(ctx context.Context, bookID uint) ([]ReviewView, error)
}

type Wishlist interface {
	AddWishlist(ctx context.Context, userID, bookID uint) error
	RemoveWishlist(ctx context.Context, userID, bookID uint) error
	ListWishlist(ctx context.Context, userID uint) ([]models.WishlistItem, error)
}

type Reports interface {
	Stats(ctx context.Context) (Stats, error)
	RecentOrders(ctx context.Context, limit int) ([]OrderView, error)
	ListAllOrders(ctx context.Context, offset, limit int) (int64, []OrderView, error)
	Invoices(ctx context.Context, offset, limit int) (int64, []OrderView, error)
}

// Store is the unit of work: every repository plus a transactional scope.
// Inside InTx the callback must use the Store it is given.
type Store interface {
	Catalog
	Orders
	Purchases
	Reviews
	Wishlist
	Reports
	InTx(ctx context.Context, fn func(tx Store) error) error
}

type ReviewView struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	BookID    uint      `json:"book_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UserName  string    `json:"user_name"`
}

type OrderView struct {
	ID              uint                  `json:"id"`
	UserID          uint                  `json:"user_id"`
	TotalAmount     int64                 `json:"total_amount"`
	Status          domain.OrderStatus    `json:"status"`
	PaymentMethod   domain.PaymentMethod  `json:"payment_method"`
	ShippingMethod  domain.ShippingMethod `json:"shipping_method"`
	ShippingAddress string                `json:"shipping_address"`
	CreatedAt       time.Time             `json:"created_at"`
	CustomerName    string                `json:"customer_name"`
	CustomerEmail   string                `json:"customer_email"`
}

type Stats struct {
	TotalSales  int64 `json:"total_sales"`
	TotalOrders int64 `json:"total_orders"`
	TotalBooks  int64 `json:"total_books"`
	TotalUsers  int64 `json:"total_users"`
}

type GormRepo struct {
	DB *gorm.DB
}

var _ Store = (*GormRepo)(nil)

func (r *GormRepo) InTx(ctx context.Context, fn func(tx Store) error) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepo{DB: tx})
	})
}

// Migrate creates the tables owned by the store service.
func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(models.Migrated()...)
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, what)
	}
	return err
}
