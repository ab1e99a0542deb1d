package filestore

import (
	"context"
	"slices"
	"time"

	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func saleCreated(v models.Sale) time.Time { return v.CreatedAt }

func (s *Store) ListSales(ctx context.Context) ([]models.Sale, error) {
	var out []models.Sale
	s.read(func(d *document) {
		out = newestFirst(d.Sales, saleCreated)
	})
	return out, nil
}

func (s *Store) GetSale(ctx context.Context, id string) (models.Sale, error) {
	var (
		out   models.Sale
		found bool
	)
	s.read(func(d *document) {
		if i := slices.IndexFunc(d.Sales, func(v models.Sale) bool { return v.ID == id }); i >= 0 {
			out, found = d.Sales[i], true
		}
	})
	if !found {
		return models.Sale{}, store.NotFoundf("sale %s", id)
	}
	return out, nil
}

func (s *Store) GetSaleWithItems(ctx context.Context, id string) (models.SaleWithItems, error) {
	var (
		out   models.SaleWithItems
		found bool
	)
	s.read(func(d *document) {
		i := slices.IndexFunc(d.Sales, func(v models.Sale) bool { return v.ID == id })
		if i < 0 {
			return
		}
		found = true
		out.Sale = d.Sales[i]
		out.Items = []models.SaleItem{}
		for _, item := range d.SaleItems {
			if item.SaleID == id {
				out.Items = append(out.Items, item)
			}
		}
	})
	if !found {
		return models.SaleWithItems{}, store.NotFoundf("sale %s", id)
	}
	return out, nil
}

func (s *Store) RecentSales(ctx context.Context, limit int) ([]models.RecentSale, error) {
	var out []models.RecentSale
	s.read(func(d *document) {
		sorted := newestFirst(d.Sales, saleCreated)
		if limit > 0 && len(sorted) > limit {
			sorted = sorted[:limit]
		}
		customers := make(map[string]string, len(d.Customers))
		for _, c := range d.Customers {
			customers[c.ID] = c.Name
		}
		sellers := make(map[string]string, len(d.Sellers))
		for _, sl := range d.Sellers {
			sellers[sl.ID] = sl.Name
		}
		out = make([]models.RecentSale, 0, len(sorted))
		for _, sale := range sorted {
			out = append(out, models.RecentSale{
				Sale:         sale,
				CustomerName: customers[sale.CustomerID],
				SellerName:   sellers[sale.SellerID],
			})
		}
	})
	return out, nil
}

// RecordSale stages the whole sale on one snapshot copy, so a failure at any
// line leaves neither the sale nor any stock change behind.
func (s *Store) RecordSale(ctx context.Context, in store.NewSale) (models.SaleWithItems, error) {
	var out models.SaleWithItems
	err := s.mutate("record sale", func(d *document) error {
		if indexByID(d.Customers, in.CustomerID, customerID) < 0 {
			return store.NotFoundf("customer %s", in.CustomerID)
		}
		if indexByID(d.Sellers, in.SellerID, sellerID) < 0 {
			return store.NotFoundf("seller %s", in.SellerID)
		}

		now := store.Now()
		yearStart := store.StartOfYear(now)
		seq := 1
		for _, sale := range d.Sales {
			if !sale.CreatedAt.Before(yearStart) {
				seq++
			}
		}

		sale := models.Sale{
			ID:            uuid.New().String(),
			ReceiptNumber: store.ReceiptNumber(now.Year(), seq),
			CustomerID:    in.CustomerID,
			SellerID:      in.SellerID,
			Subtotal:      in.Subtotal,
			Discount:      in.Discount,
			DiscountType:  in.DiscountType,
			Total:         in.Total,
			PaymentMethod: in.PaymentMethod,
			CreatedAt:     now,
		}

		items := make([]models.SaleItem, 0, len(in.Items))
		for _, line := range in.Items {
			i := indexByID(d.Products, line.ProductID, productID)
			if i < 0 {
				return store.NotFoundf("product %s", line.ProductID)
			}
			p := &d.Products[i]
			if p.Quantity < line.Quantity {
				return store.InsufficientStockf("%s: %d in stock, %d requested", p.Name, p.Quantity, line.Quantity)
			}
			p.Quantity -= line.Quantity
			items = append(items, models.SaleItem{
				ID:          uuid.New().String(),
				SaleID:      sale.ID,
				ProductID:   p.ID,
				ProductName: p.Name,
				StockCode:   p.StockCode,
				Quantity:    line.Quantity,
				UnitPrice:   line.UnitPrice,
				BuyingPrice: p.BuyingPrice,
				Subtotal:    line.Subtotal,
			})
		}

		d.Sales = append(d.Sales, sale)
		d.SaleItems = append(d.SaleItems, items...)
		out = models.SaleWithItems{Sale: sale, Items: items}
		return nil
	})
	if err != nil {
		return models.SaleWithItems{}, err
	}
	s.log.Debug("Sale recorded",
		zap.String("receipt", out.Sale.ReceiptNumber),
		zap.Int("items", len(out.Items)),
	)
	return out, nil
}
