package filestore

import (
	"context"
	"slices"
	"strings"
	"time"

	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/store"

	"github.com/google/uuid"
)

// newestFirst returns a copy of items ordered by creation time, latest first.
// Ties keep reverse insertion order.
func newestFirst[T any](items []T, created func(T) time.Time) []T {
	out := make([]T, len(items))
	for i, v := range items {
		out[len(items)-1-i] = v
	}
	slices.SortStableFunc(out, func(a, b T) int {
		return created(b).Compare(created(a))
	})
	return out
}

func indexByID[T any](items []T, id string, idOf func(T) string) int {
	return slices.IndexFunc(items, func(v T) bool { return idOf(v) == id })
}

func supplierID(v models.Supplier) string { return v.ID }
func customerID(v models.Customer) string { return v.ID }
func sellerID(v models.Seller) string     { return v.ID }
func productID(v models.Product) string   { return v.ID }

func copyProduct(p models.Product) models.Product {
	if p.SupplierID != nil {
		id := *p.SupplierID
		p.SupplierID = &id
	}
	return p
}

// --- Suppliers ---

func (s *Store) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	var out []models.Supplier
	s.read(func(d *document) {
		out = newestFirst(d.Suppliers, func(v models.Supplier) time.Time { return v.CreatedAt })
	})
	return out, nil
}

func (s *Store) GetSupplier(ctx context.Context, id string) (models.Supplier, error) {
	var (
		out   models.Supplier
		found bool
	)
	s.read(func(d *document) {
		if i := indexByID(d.Suppliers, id, supplierID); i >= 0 {
			out, found = d.Suppliers[i], true
		}
	})
	if !found {
		return models.Supplier{}, store.NotFoundf("supplier %s", id)
	}
	return out, nil
}

func (s *Store) CreateSupplier(ctx context.Context, in store.SupplierInput) (models.Supplier, error) {
	sup := models.Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		CreatedAt: store.Now(),
	}
	err := s.mutate("create supplier", func(d *document) error {
		d.Suppliers = append(d.Suppliers, sup)
		return nil
	})
	return sup, err
}

func (s *Store) UpdateSupplier(ctx context.Context, id string, patch store.SupplierPatch) (models.Supplier, error) {
	var out models.Supplier
	err := s.mutate("update supplier", func(d *document) error {
		i := indexByID(d.Suppliers, id, supplierID)
		if i < 0 {
			return store.NotFoundf("supplier %s", id)
		}
		sup := &d.Suppliers[i]
		if patch.Name != nil {
			sup.Name = *patch.Name
		}
		if patch.Phone != nil {
			sup.Phone = *patch.Phone
		}
		if patch.Email != nil {
			sup.Email = *patch.Email
		}
		out = *sup
		return nil
	})
	return out, err
}

// DeleteSupplier detaches the supplier's products in the same write.
func (s *Store) DeleteSupplier(ctx context.Context, id string) (bool, error) {
	var existed bool
	err := s.mutate("delete supplier", func(d *document) error {
		i := indexByID(d.Suppliers, id, supplierID)
		if i < 0 {
			return nil
		}
		existed = true
		d.Suppliers = slices.Delete(d.Suppliers, i, i+1)
		for j := range d.Products {
			if d.Products[j].SupplierID != nil && *d.Products[j].SupplierID == id {
				d.Products[j].SupplierID = nil
			}
		}
		return nil
	})
	if err != nil || !existed {
		return false, err
	}
	return true, nil
}

// --- Customers ---

func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	var out []models.Customer
	s.read(func(d *document) {
		out = newestFirst(d.Customers, func(v models.Customer) time.Time { return v.CreatedAt })
	})
	return out, nil
}

func (s *Store) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	var (
		out   models.Customer
		found bool
	)
	s.read(func(d *document) {
		if i := indexByID(d.Customers, id, customerID); i >= 0 {
			out, found = d.Customers[i], true
		}
	})
	if !found {
		return models.Customer{}, store.NotFoundf("customer %s", id)
	}
	return out, nil
}

func (s *Store) CreateCustomer(ctx context.Context, in store.CustomerInput) (models.Customer, error) {
	c := models.Customer{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		CreatedAt: store.Now(),
	}
	err := s.mutate("create customer", func(d *document) error {
		d.Customers = append(d.Customers, c)
		return nil
	})
	return c, err
}

func (s *Store) UpdateCustomer(ctx context.Context, id string, patch store.CustomerPatch) (models.Customer, error) {
	var out models.Customer
	err := s.mutate("update customer", func(d *document) error {
		i := indexByID(d.Customers, id, customerID)
		if i < 0 {
			return store.NotFoundf("customer %s", id)
		}
		c := &d.Customers[i]
		if patch.Name != nil {
			c.Name = *patch.Name
		}
		if patch.Phone != nil {
			c.Phone = *patch.Phone
		}
		if patch.Email != nil {
			c.Email = *patch.Email
		}
		out = *c
		return nil
	})
	return out, err
}

func (s *Store) DeleteCustomer(ctx context.Context, id string) (bool, error) {
	var existed bool
	err := s.mutate("delete customer", func(d *document) error {
		i := indexByID(d.Customers, id, customerID)
		if i < 0 {
			return nil
		}
		if slices.ContainsFunc(d.Sales, func(v models.Sale) bool { return v.CustomerID == id }) {
			return store.Conflictf("customer %s has recorded sales", id)
		}
		existed = true
		d.Customers = slices.Delete(d.Customers, i, i+1)
		return nil
	})
	if err != nil || !existed {
		return false, err
	}
	return true, nil
}

// --- Sellers ---

func (s *Store) ListSellers(ctx context.Context) ([]models.Seller, error) {
	var out []models.Seller
	s.read(func(d *document) {
		out = newestFirst(d.Sellers, func(v models.Seller) time.Time { return v.CreatedAt })
	})
	return out, nil
}

func (s *Store) GetSeller(ctx context.Context, id string) (models.Seller, error) {
	var (
		out   models.Seller
		found bool
	)
	s.read(func(d *document) {
		if i := indexByID(d.Sellers, id, sellerID); i >= 0 {
			out, found = d.Sellers[i], true
		}
	})
	if !found {
		return models.Seller{}, store.NotFoundf("seller %s", id)
	}
	return out, nil
}

func (s *Store) CreateSeller(ctx context.Context, in store.SellerInput) (models.Seller, error) {
	sl := models.Seller{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		CreatedAt: store.Now(),
	}
	err := s.mutate("create seller", func(d *document) error {
		d.Sellers = append(d.Sellers, sl)
		return nil
	})
	return sl, err
}

func (s *Store) UpdateSeller(ctx context.Context, id string, patch store.SellerPatch) (models.Seller, error) {
	var out models.Seller
	err := s.mutate("update seller", func(d *document) error {
		i := indexByID(d.Sellers, id, sellerID)
		if i < 0 {
			return store.NotFoundf("seller %s", id)
		}
		sl := &d.Sellers[i]
		if patch.Name != nil {
			sl.Name = *patch.Name
		}
		if patch.Email != nil {
			sl.Email = *patch.Email
		}
		out = *sl
		return nil
	})
	return out, err
}

func (s *Store) DeleteSeller(ctx context.Context, id string) (bool, error) {
	var existed bool
	err := s.mutate("delete seller", func(d *document) error {
		i := indexByID(d.Sellers, id, sellerID)
		if i < 0 {
			return nil
		}
		if slices.ContainsFunc(d.Sales, func(v models.Sale) bool { return v.SellerID == id }) {
			return store.Conflictf("seller %s has recorded sales", id)
		}
		existed = true
		d.Sellers = slices.Delete(d.Sellers, i, i+1)
		return nil
	})
	if err != nil || !existed {
		return false, err
	}
	return true, nil
}

// --- Products ---

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	s.read(func(d *document) {
		out = newestFirst(d.Products, func(v models.Product) time.Time { return v.CreatedAt })
	})
	for i := range out {
		out[i] = copyProduct(out[i])
	}
	return out, nil
}

func (s *Store) GetProduct(ctx context.Context, id string) (models.Product, error) {
	var (
		out   models.Product
		found bool
	)
	s.read(func(d *document) {
		if i := indexByID(d.Products, id, productID); i >= 0 {
			out, found = copyProduct(d.Products[i]), true
		}
	})
	if !found {
		return models.Product{}, store.NotFoundf("product %s", id)
	}
	return out, nil
}

func (s *Store) FindProductByStockCode(ctx context.Context, code string) (models.Product, error) {
	var (
		out   models.Product
		found bool
	)
	s.read(func(d *document) {
		i := slices.IndexFunc(d.Products, func(p models.Product) bool { return p.StockCode == code })
		if i >= 0 {
			out, found = copyProduct(d.Products[i]), true
		}
	})
	if !found {
		return models.Product{}, store.NotFoundf("product with stock code %s", code)
	}
	return out, nil
}

// SearchProducts matches name, stock code and category case-insensitively.
func (s *Store) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	q := strings.ToLower(query)
	out := []models.Product{}
	s.read(func(d *document) {
		for _, p := range d.Products {
			if len(out) == store.SearchLimit {
				return
			}
			if strings.Contains(strings.ToLower(p.Name), q) ||
				strings.Contains(strings.ToLower(p.StockCode), q) ||
				strings.Contains(strings.ToLower(p.Category), q) {
				out = append(out, copyProduct(p))
			}
		}
	})
	return out, nil
}

func (s *Store) CreateProduct(ctx context.Context, in store.ProductInput) (models.Product, error) {
	p := models.Product{
		ID:           uuid.New().String(),
		StockCode:    in.StockCode,
		Name:         in.Name,
		Category:     in.Category,
		BuyingPrice:  in.BuyingPrice,
		SellingPrice: in.SellingPrice,
		Quantity:     in.Quantity,
		CreatedAt:    store.Now(),
	}
	if in.SupplierID != nil && *in.SupplierID != "" {
		id := *in.SupplierID
		p.SupplierID = &id
	}
	err := s.mutate("create product", func(d *document) error {
		if err := checkStockCode(d, p.StockCode, ""); err != nil {
			return err
		}
		if p.SupplierID != nil && indexByID(d.Suppliers, *p.SupplierID, supplierID) < 0 {
			return store.NotFoundf("supplier %s", *p.SupplierID)
		}
		d.Products = append(d.Products, p)
		return nil
	})
	if err != nil {
		return models.Product{}, err
	}
	return copyProduct(p), nil
}

func (s *Store) UpdateProduct(ctx context.Context, id string, patch store.ProductPatch) (models.Product, error) {
	var out models.Product
	err := s.mutate("update product", func(d *document) error {
		i := indexByID(d.Products, id, productID)
		if i < 0 {
			return store.NotFoundf("product %s", id)
		}
		p := &d.Products[i]
		if patch.StockCode != nil {
			if err := checkStockCode(d, *patch.StockCode, id); err != nil {
				return err
			}
			p.StockCode = *patch.StockCode
		}
		if patch.Name != nil {
			p.Name = *patch.Name
		}
		if patch.Category != nil {
			p.Category = *patch.Category
		}
		if patch.BuyingPrice != nil {
			p.BuyingPrice = *patch.BuyingPrice
		}
		if patch.SellingPrice != nil {
			p.SellingPrice = *patch.SellingPrice
		}
		if patch.Quantity != nil {
			p.Quantity = *patch.Quantity
		}
		if patch.SupplierID != nil {
			if *patch.SupplierID == "" {
				p.SupplierID = nil
			} else {
				if indexByID(d.Suppliers, *patch.SupplierID, supplierID) < 0 {
					return store.NotFoundf("supplier %s", *patch.SupplierID)
				}
				sid := *patch.SupplierID
				p.SupplierID = &sid
			}
		}
		out = copyProduct(*p)
		return nil
	})
	return out, err
}

func (s *Store) DeleteProduct(ctx context.Context, id string) (bool, error) {
	var existed bool
	err := s.mutate("delete product", func(d *document) error {
		i := indexByID(d.Products, id, productID)
		if i < 0 {
			return nil
		}
		if slices.ContainsFunc(d.SaleItems, func(v models.SaleItem) bool { return v.ProductID == id }) {
			return store.Conflictf("product %s appears on recorded sales", id)
		}
		existed = true
		d.Products = slices.Delete(d.Products, i, i+1)
		return nil
	})
	if err != nil || !existed {
		return false, err
	}
	return true, nil
}

func checkStockCode(d *document, code, selfID string) error {
	for _, p := range d.Products {
		if p.StockCode == code && p.ID != selfID {
			return store.Conflictf("stock code %s is already in use", code)
		}
	}
	return nil
}
