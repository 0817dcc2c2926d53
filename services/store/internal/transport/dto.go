package transport

type BookRequest struct {
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Price       int64    `json:"price"`
	Category    string   `json:"category"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Discount    int      `json:"discount"`
	Stock       *int     `json:"stock"`
	Rating      *float64 `json:"rating"`
}

// OrderItemRequest carries the price the client saw. Zero means "use the
// current price"; anything else must match it.
type OrderItemRequest struct {
	BookID   uint  `json:"book_id"`
	Quantity int   `json:"quantity"`
	Price    int64 `json:"price"`
}

type CreateOrderRequest struct {
	Items           []OrderItemRequest `json:"items"`
	TotalAmount     *int64             `json:"total_amount"`
	ShippingAddress string             `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
	ShippingMethod  string             `json:"shipping_method"`
}

type QuoteRequest struct {
	Items          []OrderItemRequest `json:"items"`
	ShippingMethod string             `json:"shipping_method"`
}

type ConfirmPaymentRequest struct {
	Reference string `json:"reference"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type PurchaseItemRequest struct {
	BookID    uint  `json:"book_id"`
	Quantity  int   `json:"quantity"`
	CostPrice int64 `json:"cost_price"`
}

type PurchaseRequest struct {
	SupplierName string                `json:"supplier_name"`
	Items        []PurchaseItemRequest `json:"items"`
}

type ReviewRequest struct {
	BookID  uint   `json:"book_id"`
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type WishlistRequest struct {
	BookID uint `json:"book_id"`
}
