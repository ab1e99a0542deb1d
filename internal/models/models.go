package models

import (
	"time"
)

// Supplier - Who we buy stock from
type Supplier struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Phone     string    `gorm:"size:64;not null" json:"phone"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

// Customer - Who we sell to
type Customer struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Phone     string    `gorm:"size:64;not null" json:"phone"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

// Seller - The staff member ringing up the sale
type Seller struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;not null" json:"email"`
	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
}

// Product - The Inventory
type Product struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	StockCode    string    `gorm:"size:64;uniqueIndex;not null" json:"stockCode"`
	Name         string    `gorm:"size:255;not null" json:"name"`
	Category     string    `gorm:"size:128;not null;index" json:"category"`
	BuyingPrice  Money     `gorm:"type:decimal(10,2);not null" json:"buyingPrice"`
	SellingPrice Money     `gorm:"type:decimal(10,2);not null" json:"sellingPrice"`
	Quantity     int       `gorm:"not null;default:0" json:"quantity"`
	SupplierID   *string   `gorm:"size:36;index" json:"supplierId"`
	CreatedAt    time.Time `gorm:"not null;index" json:"createdAt"`
}

// Sale - The Transaction Header
type Sale struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	ReceiptNumber string    `gorm:"size:32;uniqueIndex;not null" json:"receiptNumber"`
	CustomerID    string    `gorm:"size:36;not null;index" json:"customerId"`
	SellerID      string    `gorm:"size:36;not null;index" json:"sellerId"`
	Subtotal      Money     `gorm:"type:decimal(10,2);not null" json:"subtotal"`
	Discount      Money     `gorm:"type:decimal(10,2);not null" json:"discount"`
	DiscountType  string    `gorm:"size:16;not null" json:"discountType"` // 'percentage', 'fixed'
	Total         Money     `gorm:"type:decimal(10,2);not null" json:"total"`
	PaymentMethod string    `gorm:"size:16;not null" json:"paymentMethod"` // 'cash', 'card', 'mobile', 'due'
	CreatedAt     time.Time `gorm:"not null;index" json:"createdAt"`
}

// SaleItem - One cart line. Name, code and buying price are copied from the
// product when the sale is recorded.
type SaleItem struct {
	ID          string `gorm:"primaryKey;size:36" json:"id"`
	SaleID      string `gorm:"size:36;not null;index" json:"saleId"`
	ProductID   string `gorm:"size:36;not null;index" json:"productId"`
	ProductName string `gorm:"size:255;not null" json:"productName"`
	StockCode   string `gorm:"size:64;not null" json:"stockCode"`
	Quantity    int    `gorm:"not null" json:"quantity"`
	UnitPrice   Money  `gorm:"type:decimal(10,2);not null" json:"unitPrice"`
	BuyingPrice Money  `gorm:"type:decimal(10,2);not null" json:"buyingPrice"`
	Subtotal    Money  `gorm:"type:decimal(10,2);not null" json:"subtotal"`
}

// SaleWithItems is a sale header plus its lines.
type SaleWithItems struct {
	Sale  Sale       `json:"sale"`
	Items []SaleItem `json:"items"`
}

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentMobile = "mobile"
	PaymentDue    = "due"
)
