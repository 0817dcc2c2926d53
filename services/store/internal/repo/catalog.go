package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Skotchmaster/bookstore/services/store/internal/domain"
	"github.com/Skotchmaster/bookstore/services/store/internal/models"
	"gorm.io/gorm"
)

var bookSorts = map[string]string{
	"":           "id ASC",
	"newest":     "created_at DESC, id DESC",
	"price_asc":  "price ASC, id ASC",
	"price_desc": "price DESC, id ASC",
	"rating":     "rating DESC, id ASC",
	"title":      "title ASC, id ASC",
}

func (r *GormRepo) CreateBook(ctx context.Context, b *models.Book) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *GormRepo) GetBook(ctx context.Context, id uint) (*models.Book, error) {
	var b models.Book
	if err := r.DB.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, notFound(err, fmt.Sprintf("book %d", id))
	}
	return &b, nil
}

func (r *GormRepo) BooksByIDs(ctx context.Context, ids []uint) (map[uint]models.Book, error) {
	out := make(map[uint]models.Book, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var books []models.Book
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&books).Error; err != nil {
		return nil, err
	}
	for _, b := range books {
		out[b.ID] = b
	}
	return out, nil
}

func (r *GormRepo) filtered(ctx context.Context, f BookFilter) *gorm.DB {
	q := r.DB.WithContext(ctx).Model(&models.Book{})
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if s := strings.TrimSpace(f.Query); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(author) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}
	return q
}

func (r *GormRepo) ListBooks(ctx context.Context, f BookFilter, offset, limit int) (int64, []models.Book, error) {
	order, ok := bookSorts[f.Sort]
	if !ok {
		return 0, nil, fmt.Errorf("%w: unknown sort %q", domain.ErrValidation, f.Sort)
	}

	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	items := make([]models.Book, 0, limit)
	if err := r.filtered(ctx, f).Order(order).Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) EachBookBatch(ctx context.Context, size int, fn func([]models.Book) error) error {
	var batch []models.Book
	return r.DB.WithContext(ctx).Order("id ASC").FindInBatches(&batch, size, func(_ *gorm.DB, _ int) error {
		return fn(batch)
	}).Error
}

// UpdateBook overwrites the editable fields. Stock and rating are owned by
// the restock ledger, orders and reviews, and are left untouched.
func (r *GormRepo) UpdateBook(ctx context.Context, b *models.Book) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Book
		if err := tx.First(&current, b.ID).Error; err != nil {
			return notFound(err, fmt.Sprintf("book %d", b.ID))
		}
		if err := tx.Model(&current).
			Select("title", "author", "price", "category", "image", "description", "discount", "updated_at").
			Updates(b).Error; err != nil {
			return err
		}
		return tx.First(b, b.ID).Error
	})
}

func (r *GormRepo) DeleteBook(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&models.OrderItem{}).Where("book_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return domain.ErrBookInUse
		}

		res := tx.Delete(&models.Book{}, id)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrForeignKeyViolated) {
				return domain.ErrBookInUse
			}
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: book %d", domain.ErrNotFound, id)
		}
		return nil
	})
}

// AdjustStock applies stock = stock + delta in one statement. Negative
// deltas only apply while enough stock remains.
func (r *GormRepo) AdjustStock(ctx context.Context, id uint, delta int) error {
	if delta == 0 {
		_, err := r.GetBook(ctx, id)
		return err
	}

	q := r.DB.WithContext(ctx).Model(&models.Book{}).Where("id = ?", id)
	if delta < 0 {
		q = q.Where("stock >= ?", -delta)
	}
	res := q.UpdateColumn("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetBook(ctx, id); err != nil {
			return err
		}
		return fmt.Errorf("%w: book %d", domain.ErrInsufficientStock, id)
	}
	return nil
}
