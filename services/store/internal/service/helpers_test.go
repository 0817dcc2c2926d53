package service

import (
	"context"
	"encoding/json"
	"testing"

	pkgdb "github.com/Skotchmaster/bookstore/pkg/db"
	"github.com/Skotchmaster/bookstore/pkg/events"
	"github.com/Skotchmaster/bookstore/pkg/policy"
	"github.com/Skotchmaster/bookstore/services/store/internal/models"
	"github.com/Skotchmaster/bookstore/services/store/internal/repo"
	"github.com/stretchr/testify/require"
)

var (
	admin = policy.Principal{UserID: 1, Role: policy.RoleAdmin}
	alice = policy.Principal{UserID: 2, Role: policy.RoleUser}
	bob   = policy.Principal{UserID: 3, Role: policy.RoleUser}
)

func newStore(t *testing.T) *repo.GormRepo {
	t.Helper()
	ctx := context.Background()

	db, err := pkgdb.OpenMemory(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pkgdb.Close(db) })

	r := &repo.GormRepo{DB: db}
	require.NoError(t, r.Migrate(ctx))
	// users belong to the auth service; the view is enough for joins
	require.NoError(t, db.AutoMigrate(&models.Customer{}))
	require.NoError(t, db.Create(&[]models.Customer{
		{ID: admin.UserID, Username: "admin", Name: "Admin", Role: string(policy.RoleAdmin)},
		{ID: alice.UserID, Username: "alice", Email: "alice@example.com", Name: "Alice", Role: string(policy.RoleUser)},
		{ID: bob.UserID, Username: "bob", Email: "bob@example.com", Name: "Bob", Role: string(policy.RoleUser)},
	}).Error)
	return r
}

func seedBook(t *testing.T, r *repo.GormRepo, title string, price int64, stock int) *models.Book {
	t.Helper()
	b := &models.Book{Title: title, Author: "Author of " + title, Price: price, Stock: stock, Rating: 4.5, Category: "fiction"}
	require.NoError(t, r.CreateBook(context.Background(), b))
	return b
}

func stockOf(t *testing.T, r *repo.GormRepo, id uint) int {
	t.Helper()
	b, err := r.GetBook(context.Background(), id)
	require.NoError(t, err)
	return b.Stock
}

func countRows(t *testing.T, r *repo.GormRepo, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, r.DB.Model(model).Count(&n).Error)
	return n
}

func eventTypes(t *testing.T, m *events.Memory, topic string) []string {
	t.Helper()
	var out []string
	for _, msg := range m.Messages(topic) {
		var ev struct {
			Type string `json:"type"`
		}
		require.NoError(t, json.Unmarshal(msg.Value, &ev))
		out = append(out, ev.Type)
	}
	return out
}

func ptr[T any](v T) *T { return &v }
