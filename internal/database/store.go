package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-pos-inventory/internal/config"
	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store is the relational backend. Row operations go through gorm; the
// report aggregates run as plain SQL through sqlx on the same pool.
type Store struct {
	db  *gorm.DB
	rdb *sqlx.DB
	log *zap.Logger
}

var _ store.Store = (*Store)(nil)

// Open connects, migrates and wraps the database named by cfg.
func Open(cfg config.DatabaseConfig, log *zap.Logger) (*Store, error) {
	db, err := Connect(cfg, log)
	if err != nil {
		return nil, err
	}
	return NewStore(db, cfg.Driver, log)
}

// NewStore wraps an already migrated connection.
func NewStore(db *gorm.DB, driver string, log *zap.Logger) (*Store, error) {
	if log == nil {
		log = zap.NewNop()
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	return &Store{
		db:  db,
		rdb: sqlx.NewDb(sqlDB, sqlxDriverName(driver)),
		log: log,
	}, nil
}

func (s *Store) Kind() string { return "sql" }

func (s *Store) Close() error { return s.rdb.Close() }

// classify passes store sentinels through and turns driver errors into
// store errors.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrInvalid),
		errors.Is(err, store.ErrConflict),
		errors.Is(err, store.ErrInsufficientStock):
		return err
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return store.Conflictf("%s: duplicate key", op)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.NotFoundf("%s", op)
	}
	return store.Storage(op, err)
}

func getByID[T any](ctx context.Context, db *gorm.DB, kind, id string) (T, error) {
	var v T
	res := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&v)
	if res.Error != nil {
		return v, store.Storage("get "+kind, res.Error)
	}
	if res.RowsAffected == 0 {
		return v, store.NotFoundf("%s %s", kind, id)
	}
	return v, nil
}

func listNewest[T any](ctx context.Context, db *gorm.DB, kind string) ([]T, error) {
	out := []T{}
	if err := db.WithContext(ctx).Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, store.Storage("list "+kind, err)
	}
	return out, nil
}

func exists[T any](tx *gorm.DB, column, value string) (bool, error) {
	var n int64
	if err := tx.Model(new(T)).Where(column+" = ?", value).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// patchRow applies a column map to one row and reloads it.
func patchRow[T any](ctx context.Context, db *gorm.DB, kind, id string, changes map[string]interface{}, check func(tx *gorm.DB) error) (T, error) {
	var out T
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists[T](tx, "id", id)
		if err != nil {
			return err
		}
		if !found {
			return store.NotFoundf("%s %s", kind, id)
		}
		if check != nil {
			if err := check(tx); err != nil {
				return err
			}
		}
		if len(changes) > 0 {
			if err := tx.Model(new(T)).Where("id = ?", id).Updates(changes).Error; err != nil {
				return err
			}
		}
		return tx.Where("id = ?", id).Take(&out).Error
	})
	return out, classify("update "+kind, err)
}

func deleteRow[T any](ctx context.Context, db *gorm.DB, kind, id string, guard func(tx *gorm.DB) error) (bool, error) {
	var existed bool
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := exists[T](tx, "id", id)
		if err != nil || !found {
			return err
		}
		if guard != nil {
			if err := guard(tx); err != nil {
				return err
			}
		}
		res := tx.Where("id = ?", id).Delete(new(T))
		existed = res.RowsAffected > 0
		return res.Error
	})
	if err != nil {
		return false, classify("delete "+kind, err)
	}
	return existed, nil
}

// refusedIfReferenced returns a guard that fails with Conflict while any row
// of R still points at id through column.
func refusedIfReferenced[R any](column, id, msg string) func(tx *gorm.DB) error {
	return func(tx *gorm.DB) error {
		used, err := exists[R](tx, column, id)
		if err != nil {
			return err
		}
		if used {
			return store.Conflictf("%s", msg)
		}
		return nil
	}
}

// --- Suppliers ---

func (s *Store) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return listNewest[models.Supplier](ctx, s.db, "suppliers")
}

func (s *Store) GetSupplier(ctx context.Context, id string) (models.Supplier, error) {
	return getByID[models.Supplier](ctx, s.db, "supplier", id)
}

func (s *Store) CreateSupplier(ctx context.Context, in store.SupplierInput) (models.Supplier, error) {
	sup := models.Supplier{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		CreatedAt: store.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&sup).Error; err != nil {
		return models.Supplier{}, classify("create supplier", err)
	}
	return sup, nil
}

func (s *Store) UpdateSupplier(ctx context.Context, id string, patch store.SupplierPatch) (models.Supplier, error) {
	changes := map[string]interface{}{}
	setIf(changes, "name", patch.Name)
	setIf(changes, "phone", patch.Phone)
	setIf(changes, "email", patch.Email)
	return patchRow[models.Supplier](ctx, s.db, "supplier", id, changes, nil)
}

// DeleteSupplier detaches the supplier's products in the same transaction.
func (s *Store) DeleteSupplier(ctx context.Context, id string) (bool, error) {
	return deleteRow[models.Supplier](ctx, s.db, "supplier", id, func(tx *gorm.DB) error {
		return tx.Model(&models.Product{}).Where("supplier_id = ?", id).Update("supplier_id", nil).Error
	})
}

// --- Customers ---

func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return listNewest[models.Customer](ctx, s.db, "customers")
}

func (s *Store) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	return getByID[models.Customer](ctx, s.db, "customer", id)
}

func (s *Store) CreateCustomer(ctx context.Context, in store.CustomerInput) (models.Customer, error) {
	c := models.Customer{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Phone:     in.Phone,
		Email:     in.Email,
		CreatedAt: store.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return models.Customer{}, classify("create customer", err)
	}
	return c, nil
}

func (s *Store) UpdateCustomer(ctx context.Context, id string, patch store.CustomerPatch) (models.Customer, error) {
	changes := map[string]interface{}{}
	setIf(changes, "name", patch.Name)
	setIf(changes, "phone", patch.Phone)
	setIf(changes, "email", patch.Email)
	return patchRow[models.Customer](ctx, s.db, "customer", id, changes, nil)
}

func (s *Store) DeleteCustomer(ctx context.Context, id string) (bool, error) {
	return deleteRow[models.Customer](ctx, s.db, "customer", id,
		refusedIfReferenced[models.Sale]("customer_id", id, fmt.Sprintf("customer %s has recorded sales", id)))
}

// --- Sellers ---

func (s *Store) ListSellers(ctx context.Context) ([]models.Seller, error) {
	return listNewest[models.Seller](ctx, s.db, "sellers")
}

func (s *Store) GetSeller(ctx context.Context, id string) (models.Seller, error) {
	return getByID[models.Seller](ctx, s.db, "seller", id)
}

func (s *Store) CreateSeller(ctx context.Context, in store.SellerInput) (models.Seller, error) {
	sl := models.Seller{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		CreatedAt: store.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&sl).Error; err != nil {
		return models.Seller{}, classify("create seller", err)
	}
	return sl, nil
}

func (s *Store) UpdateSeller(ctx context.Context, id string, patch store.SellerPatch) (models.Seller, error) {
	changes := map[string]interface{}{}
	setIf(changes, "name", patch.Name)
	setIf(changes, "email", patch.Email)
	return patchRow[models.Seller](ctx, s.db, "seller", id, changes, nil)
}

func (s *Store) DeleteSeller(ctx context.Context, id string) (bool, error) {
	return deleteRow[models.Seller](ctx, s.db, "seller", id,
		refusedIfReferenced[models.Sale]("seller_id", id, fmt.Sprintf("seller %s has recorded sales", id)))
}

// --- Products ---

func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	return listNewest[models.Product](ctx, s.db, "products")
}

func (s *Store) GetProduct(ctx context.Context, id string) (models.Product, error) {
	return getByID[models.Product](ctx, s.db, "product", id)
}

func (s *Store) FindProductByStockCode(ctx context.Context, code string) (models.Product, error) {
	var p models.Product
	res := s.db.WithContext(ctx).Where("stock_code = ?", code).Limit(1).Find(&p)
	if res.Error != nil {
		return models.Product{}, store.Storage("find product by stock code", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.Product{}, store.NotFoundf("product with stock code %s", code)
	}
	return p, nil
}

// likeEscaper escapes LIKE wildcards with '!', which every supported dialect
// accepts as an ESCAPE character.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func (s *Store) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	pattern := "%" + likeEscaper.Replace(strings.ToLower(query)) + "%"
	out := []models.Product{}
	err := s.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? ESCAPE '!' OR LOWER(stock_code) LIKE ? ESCAPE '!' OR LOWER(category) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern).
		Limit(store.SearchLimit).
		Find(&out).Error
	if err != nil {
		return nil, store.Storage("search products", err)
	}
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

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := stockCodeFree(tx, p.StockCode, ""); err != nil {
			return err
		}
		if p.SupplierID != nil {
			if err := supplierExists(tx, *p.SupplierID); err != nil {
				return err
			}
		}
		return tx.Create(&p).Error
	})
	if err != nil {
		return models.Product{}, classify("create product", err)
	}
	return p, nil
}

func (s *Store) UpdateProduct(ctx context.Context, id string, patch store.ProductPatch) (models.Product, error) {
	changes := map[string]interface{}{}
	setIf(changes, "stock_code", patch.StockCode)
	setIf(changes, "name", patch.Name)
	setIf(changes, "category", patch.Category)
	setIf(changes, "buying_price", patch.BuyingPrice)
	setIf(changes, "selling_price", patch.SellingPrice)
	setIf(changes, "quantity", patch.Quantity)
	if patch.SupplierID != nil {
		if *patch.SupplierID == "" {
			changes["supplier_id"] = nil
		} else {
			changes["supplier_id"] = *patch.SupplierID
		}
	}

	return patchRow[models.Product](ctx, s.db, "product", id, changes, func(tx *gorm.DB) error {
		if patch.StockCode != nil {
			if err := stockCodeFree(tx, *patch.StockCode, id); err != nil {
				return err
			}
		}
		if patch.SupplierID != nil && *patch.SupplierID != "" {
			return supplierExists(tx, *patch.SupplierID)
		}
		return nil
	})
}

func (s *Store) DeleteProduct(ctx context.Context, id string) (bool, error) {
	return deleteRow[models.Product](ctx, s.db, "product", id,
		refusedIfReferenced[models.SaleItem]("product_id", id, fmt.Sprintf("product %s appears on recorded sales", id)))
}

func stockCodeFree(tx *gorm.DB, code, selfID string) error {
	var n int64
	q := tx.Model(&models.Product{}).Where("stock_code = ?", code)
	if selfID != "" {
		q = q.Where("id <> ?", selfID)
	}
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return store.Conflictf("stock code %s is already in use", code)
	}
	return nil
}

func supplierExists(tx *gorm.DB, id string) error {
	found, err := exists[models.Supplier](tx, "id", id)
	if err != nil {
		return err
	}
	if !found {
		return store.NotFoundf("supplier %s", id)
	}
	return nil
}

func setIf[T any](changes map[string]interface{}, column string, v *T) {
	if v != nil {
		changes[column] = *v
	}
}
