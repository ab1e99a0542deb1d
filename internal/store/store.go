// Package store defines the repository surface shared by the relational and
// the file-backed backends.
package store

import (
	"context"

	"go-pos-inventory/internal/models"
)

// SearchLimit caps SearchProducts results.
const SearchLimit = 20

type SupplierInput struct {
	Name  string
	Phone string
	Email string
}

// SupplierPatch changes only its non-nil fields.
type SupplierPatch struct {
	Name  *string
	Phone *string
	Email *string
}

type CustomerInput struct {
	Name  string
	Phone string
	Email string
}

type CustomerPatch struct {
	Name  *string
	Phone *string
	Email *string
}

type SellerInput struct {
	Name  string
	Email string
}

type SellerPatch struct {
	Name  *string
	Email *string
}

type ProductInput struct {
	StockCode    string
	Name         string
	Category     string
	BuyingPrice  models.Money
	SellingPrice models.Money
	Quantity     int
	SupplierID   *string
}

// ProductPatch changes only its non-nil fields. A SupplierID pointing at an
// empty string detaches the product from its supplier.
type ProductPatch struct {
	StockCode    *string
	Name         *string
	Category     *string
	BuyingPrice  *models.Money
	SellingPrice *models.Money
	Quantity     *int
	SupplierID   *string
}

// NewSale is a validated sale with totals already computed.
type NewSale struct {
	CustomerID    string
	SellerID      string
	Subtotal      models.Money
	Discount      models.Money
	DiscountType  string
	Total         models.Money
	PaymentMethod string
	Items         []NewSaleItem
}

type NewSaleItem struct {
	ProductID string
	Quantity  int
	UnitPrice models.Money
	Subtotal  models.Money
}

type SupplierRepository interface {
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	GetSupplier(ctx context.Context, id string) (models.Supplier, error)
	CreateSupplier(ctx context.Context, in SupplierInput) (models.Supplier, error)
	UpdateSupplier(ctx context.Context, id string, patch SupplierPatch) (models.Supplier, error)
	DeleteSupplier(ctx context.Context, id string) (bool, error)
}

type CustomerRepository interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	GetCustomer(ctx context.Context, id string) (models.Customer, error)
	CreateCustomer(ctx context.Context, in CustomerInput) (models.Customer, error)
	UpdateCustomer(ctx context.Context, id string, patch CustomerPatch) (models.Customer, error)
	DeleteCustomer(ctx context.Context, id string) (bool, error)
}

type SellerRepository interface {
	ListSellers(ctx context.Context) ([]models.Seller, error)
	GetSeller(ctx context.Context, id string) (models.Seller, error)
	CreateSeller(ctx context.Context, in SellerInput) (models.Seller, error)
	UpdateSeller(ctx context.Context, id string, patch SellerPatch) (models.Seller, error)
	DeleteSeller(ctx context.Context, id string) (bool, error)
}

type ProductRepository interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	FindProductByStockCode(ctx context.Context, code string) (models.Product, error)
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	CreateProduct(ctx context.Context, in ProductInput) (models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (models.Product, error)
	DeleteProduct(ctx context.Context, id string) (bool, error)
}

type SaleRepository interface {
	ListSales(ctx context.Context) ([]models.Sale, error)
	GetSale(ctx context.Context, id string) (models.Sale, error)
	GetSaleWithItems(ctx context.Context, id string) (models.SaleWithItems, error)
	RecentSales(ctx context.Context, limit int) ([]models.RecentSale, error)
	// RecordSale writes the sale, its items and the stock decrements as one
	// unit. Nothing is persisted when any step fails.
	RecordSale(ctx context.Context, sale NewSale) (models.SaleWithItems, error)
}

type ReportRepository interface {
	DashboardStats(ctx context.Context, lowStockThreshold int) (models.DashboardStats, error)
	LowStockProducts(ctx context.Context, threshold int) ([]models.Product, error)
	CustomerStats(ctx context.Context, customerID string) (models.CustomerStats, error)
	SellerStats(ctx context.Context, sellerID string) (models.SellerStats, error)
	StockByCategory(ctx context.Context, lowStockThreshold int) ([]models.CategoryStock, error)
	SalesByPeriod(ctx context.Context, period string) (models.PeriodSummary, error)
	TopCustomers(ctx context.Context, limit int) ([]models.TopCustomer, error)
}

// Store is everything the API layer needs from a backend.
type Store interface {
	SupplierRepository
	CustomerRepository
	SellerRepository
	ProductRepository
	SaleRepository
	ReportRepository

	// Kind names the backend ("sql" or "file").
	Kind() string
	Close() error
}
