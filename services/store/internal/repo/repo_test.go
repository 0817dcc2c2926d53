package repo

import (
	"context"
	"testing"
	"time"

	pkgdb "github.com/Skotchmaster/bookstore/pkg/db"
	"github.com/Skotchmaster/bookstore/services/store/internal/domain"
	"github.com/Skotchmaster/bookstore/services/store/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepo(t *testing.T) *GormRepo {
	t.Helper()
	ctx := context.Background()

	db, err := pkgdb.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	r := &GormRepo{DB: db}
	require.NoError(t, r.Migrate(ctx))
	return r
}

func seedBook(t *testing.T, r *GormRepo, stock int) *models.Book {
	t.Helper()
	b := &models.Book{Title: "Ledger", Author: "A. Writer", Price: 10000, Stock: stock, Rating: 4.5}
	require.NoError(t, r.CreateBook(context.Background(), b))
	return b
}

func TestAdjustStock_AppliesToCurrentRow(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	book := seedBook(t, r, 7)

	stale, err := r.GetBook(ctx, book.ID)
	require.NoError(t, err)

	require.NoError(t, r.AdjustStock(ctx, book.ID, 5))
	require.NoError(t, r.AdjustStock(ctx, book.ID, 3))

	current, err := r.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, current.Stock)
	assert.NotEqual(t, stale.Stock+3, current.Stock, "increment must not be computed from an earlier read")

	require.NoError(t, r.InTx(ctx, func(tx Store) error {
		return tx.AdjustStock(ctx, book.ID, -stale.Stock)
	}))
	current, err = r.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, current.Stock)
}

func TestAdjustStock_GuardsNegativeStock(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()
	book := seedBook(t, r, 2)

	err := r.AdjustStock(ctx, book.ID, -3)
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	b, err := r.GetBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, b.Stock)

	err = r.AdjustStock(ctx, 999, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompareAndSetStatus_RejectsStaleFrom(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	order := &models.Order{
		UserID:          2,
		TotalAmount:     26100,
		Status:          domain.StatusPending,
		PaymentMethod:   domain.PaymentBank,
		ShippingMethod:  domain.ShippingRegular,
		ShippingAddress: "Jl. Merdeka 1",
	}
	require.NoError(t, r.CreateOrder(ctx, order))

	// both callers read pending; the first write wins
	require.NoError(t, r.CompareAndSetStatus(ctx, order.ID, domain.StatusPending, domain.StatusCancelled, nil))

	err := r.CompareAndSetStatus(ctx, order.ID, domain.StatusPending, domain.StatusPaid, map[string]any{
		"payment_reference": "TRX",
	})
	require.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Contains(t, err.Error(), "no longer pending")

	got, err := r.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	assert.Empty(t, got.PaymentReference)
}

func TestUpdateBook_TouchesUpdatedAt(t *testing.T) {
	r := newTestRepo(t)
	ctx := context.Background()

	old := time.Now().UTC().Add(-time.Hour)
	book := &models.Book{Title: "Before", Author: "A", Price: 1000, Stock: 4, Rating: 4.5, CreatedAt: old, UpdatedAt: old}
	require.NoError(t, r.CreateBook(ctx, book))

	edit := &models.Book{ID: book.ID, Title: "After", Author: "A", Price: 1200, Stock: 99, Rating: 1}
	require.NoError(t, r.UpdateBook(ctx, edit))

	assert.Equal(t, "After", edit.Title)
	assert.EqualValues(t, 1200, edit.Price)
	assert.Equal(t, 4, edit.Stock)
	assert.Equal(t, 4.5, edit.Rating)
	assert.True(t, edit.UpdatedAt.After(old.Add(time.Minute)), "updated_at must move on edit")
}
