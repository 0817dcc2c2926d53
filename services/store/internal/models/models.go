package models

import (
	"time"

	"github.com/Skotchmaster/bookstore/services/store/internal/domain"
)

type Book struct {
	ID          uint      `gorm:"primaryKey"                                                   json:"id"`
	Title       string    `gorm:"size:255;not null"                                            json:"title"`
	Author      string    `gorm:"size:255;not null"                                            json:"author"`
	Price       int64     `gorm:"not null;check:chk_books_price,price >= 0"                    json:"price"`
	Category    string    `gorm:"size:100;index"                                               json:"category"`
	Image       string    `gorm:"size:1024"                                                    json:"image"`
	Description string    `gorm:"type:text"                                                    json:"description"`
	Rating      float64   `gorm:"not null"                                                     json:"rating"`
	Discount    int       `gorm:"not null;check:chk_books_discount,discount BETWEEN 0 AND 100" json:"discount"`
	Stock       int       `gorm:"not null;check:chk_books_stock,stock >= 0"                    json:"stock"`
	CreatedAt   time.Time `                                                                    json:"created_at"`
	UpdatedAt   time.Time `                                                                    json:"updated_at"`
}

type Order struct {
	ID               uint                  `gorm:"primaryKey"             json:"id"`
	UserID           uint                  `gorm:"index;not null"         json:"user_id"`
	TotalAmount      int64                 `gorm:"not null"               json:"total_amount"`
	Status           domain.OrderStatus    `gorm:"size:16;not null;index" json:"status"`
	PaymentMethod    domain.PaymentMethod  `gorm:"size:16;not null"       json:"payment_method"`
	ShippingMethod   domain.ShippingMethod `gorm:"size:16;not null"      json:"shipping_method"`
	ShippingAddress  string                `gorm:"type:text;not null"     json:"shipping_address"`
	PaymentReference string                `gorm:"size:128"               json:"payment_reference,omitempty"`
	PaidAt           *time.Time            `                              json:"paid_at,omitempty"`
	CreatedAt        time.Time             `gorm:"<-:create"              json:"created_at"`
	UpdatedAt        time.Time             `                              json:"updated_at"`
	Items            []OrderItem           `gorm:"foreignKey:OrderID"     json:"items,omitempty"`
}

// OrderItem is keyed by (order_id, book_id). Price is the unit price at checkout.
type OrderItem struct {
	OrderID  uint  `gorm:"primaryKey;autoIncrement:false"                          json:"order_id"`
	BookID   uint  `gorm:"primaryKey;autoIncrement:false;index"                    json:"book_id"`
	Quantity int   `gorm:"not null;check:chk_order_items_quantity,quantity > 0"    json:"quantity"`
	Price    int64 `gorm:"not null;check:chk_order_items_price,price >= 0"         json:"price"`
	Book     *Book `gorm:"foreignKey:BookID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"book,omitempty"`
}

type Purchase struct {
	ID           uint           `gorm:"primaryKey"           json:"id"`
	SupplierName string         `gorm:"size:255;not null"    json:"supplier_name"`
	TotalItems   int            `gorm:"not null"             json:"total_items"`
	TotalCost    int64          `gorm:"not null"             json:"total_cost"`
	CreatedAt    time.Time      `                            json:"created_at"`
	Items        []PurchaseItem `gorm:"foreignKey:PurchaseID" json:"items,omitempty"`
}

// PurchaseItem keeps a plain book id so the ledger survives book deletion.
type PurchaseItem struct {
	ID         uint  `gorm:"primaryKey"                                                json:"id"`
	PurchaseID uint  `gorm:"index;not null"                                            json:"purchase_id"`
	BookID     uint  `gorm:"index;not null"                                            json:"book_id"`
	Quantity   int   `gorm:"not null;check:chk_purchase_items_quantity,quantity > 0"   json:"quantity"`
	CostPrice  int64 `gorm:"not null;check:chk_purchase_items_cost,cost_price >= 0"    json:"cost_price"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey"                                           json:"id"`
	UserID    uint      `gorm:"index;not null"                                       json:"user_id"`
	BookID    uint      `gorm:"index;not null"                                       json:"book_id"`
	Rating    int       `gorm:"not null;check:chk_reviews_rating,rating BETWEEN 1 AND 5" json:"rating"`
	Comment   string    `gorm:"type:text"                                            json:"comment"`
	CreatedAt time.Time `                                                            json:"created_at"`
	Book      *Book     `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE"        json:"-"`
}

type WishlistItem struct {
	UserID    uint      `gorm:"primaryKey;autoIncrement:false"                json:"user_id"`
	BookID    uint      `gorm:"primaryKey;autoIncrement:false"                json:"book_id"`
	CreatedAt time.Time `                                                     json:"created_at"`
	Book      *Book     `gorm:"foreignKey:BookID;constraint:OnDelete:CASCADE" json:"book,omitempty"`
}

func (WishlistItem) TableName() string { return "wishlist" }

// Customer is a read-only view of the users table owned by the auth service.
type Customer struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:64"    json:"username"`
	Email    string `gorm:"size:255"   json:"email"`
	Name     string `gorm:"size:255"   json:"name"`
	Role     string `gorm:"size:16"    json:"role"`
}

func (Customer) TableName() string { return "users" }

// Migrated lists the tables owned by the store service.
func Migrated() []any {
	return []any{&Book{}, &Order{}, &OrderItem{}, &Purchase{}, &PurchaseItem{}, &Review{}, &WishlistItem{}}
}
