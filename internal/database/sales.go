package database

import (
	"context"

	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func (s *Store) ListSales(ctx context.Context) ([]models.Sale, error) {
	return listNewest[models.Sale](ctx, s.db, "sales")
}

func (s *Store) GetSale(ctx context.Context, id string) (models.Sale, error) {
	return getByID[models.Sale](ctx, s.db, "sale", id)
}

func (s *Store) GetSaleWithItems(ctx context.Context, id string) (models.SaleWithItems, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return models.SaleWithItems{}, err
	}
	items := []models.SaleItem{}
	if err := s.db.WithContext(ctx).Where("sale_id = ?", id).Find(&items).Error; err != nil {
		return models.SaleWithItems{}, store.Storage("get sale items", err)
	}
	return models.SaleWithItems{Sale: sale, Items: items}, nil
}

func (s *Store) RecentSales(ctx context.Context, limit int) ([]models.RecentSale, error) {
	out := []models.RecentSale{}
	q := s.db.WithContext(ctx).
		Table("sales").
		Select("sales.*, COALESCE(customers.name, '') AS customer_name, COALESCE(sellers.name, '') AS seller_name").
		Joins("LEFT JOIN customers ON customers.id = sales.customer_id").
		Joins("LEFT JOIN sellers ON sellers.id = sales.seller_id").
		Order("sales.created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(&out).Error; err != nil {
		return nil, store.Storage("recent sales", err)
	}
	return out, nil
}

// RecordSale runs the whole checkout in one transaction. Stock is taken with
// a conditional decrement, so a racing sale can never push quantity below
// zero: the loser sees zero rows affected and the transaction rolls back.
func (s *Store) RecordSale(ctx context.Context, in store.NewSale) (models.SaleWithItems, error) {
	var out models.SaleWithItems

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. Both parties must exist
		if ok, err := exists[models.Customer](tx, "id", in.CustomerID); err != nil {
			return err
		} else if !ok {
			return store.NotFoundf("customer %s", in.CustomerID)
		}
		if ok, err := exists[models.Seller](tx, "id", in.SellerID); err != nil {
			return err
		} else if !ok {
			return store.NotFoundf("seller %s", in.SellerID)
		}

		// 2. Receipt number from this year's sale count
		now := store.Now()
		var count int64
		if err := tx.Model(&models.Sale{}).Where("created_at >= ?", store.StartOfYear(now)).Count(&count).Error; err != nil {
			return err
		}

		sale := models.Sale{
			ID:            uuid.New().String(),
			ReceiptNumber: store.ReceiptNumber(now.Year(), int(count)+1),
			CustomerID:    in.CustomerID,
			SellerID:      in.SellerID,
			Subtotal:      in.Subtotal,
			Discount:      in.Discount,
			DiscountType:  in.DiscountType,
			Total:         in.Total,
			PaymentMethod: in.PaymentMethod,
			CreatedAt:     now,
		}
		if err := tx.Create(&sale).Error; err != nil {
			return err
		}

		// 3. Lines: snapshot the product, take the stock
		items := make([]models.SaleItem, 0, len(in.Items))
		for _, line := range in.Items {
			var product models.Product
			res := tx.Where("id = ?", line.ProductID).Limit(1).Find(&product)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return store.NotFoundf("product %s", line.ProductID)
			}

			res = tx.Model(&models.Product{}).
				Where("id = ? AND quantity >= ?", product.ID, line.Quantity).
				Update("quantity", gorm.Expr("quantity - ?", line.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return store.InsufficientStockf("%s: %d in stock, %d requested", product.Name, product.Quantity, line.Quantity)
			}

			item := models.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      sale.ID,
				ProductID:   product.ID,
				ProductName: product.Name,
				StockCode:   product.StockCode,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				BuyingPrice: product.BuyingPrice,
				Subtotal:    line.Subtotal,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			items = append(items, item)
		}

		out = models.SaleWithItems{Sale: sale, Items: items}
		return nil
	})
	if err != nil {
		return models.SaleWithItems{}, classify("record sale", err)
	}

	s.log.Debug("Sale recorded",
		zap.String("receipt", out.Sale.ReceiptNumber),
		zap.Int("items", len(out.Items)),
	)
	return out, nil
}
