package filestore

import (
	"context"
	"slices"
	"strings"

	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/store"
)

// itemProfit is (unitPrice - buyingPrice) * quantity summed over items of the
// sales accepted by keep.
func itemProfit(d *document, keep func(models.Sale) bool) models.Money {
	kept := make(map[string]bool)
	for _, sale := range d.Sales {
		if keep(sale) {
			kept[sale.ID] = true
		}
	}
	var profit models.Money
	for _, item := range d.SaleItems {
		if kept[item.SaleID] {
			profit = profit.Plus(item.UnitPrice.Minus(item.BuyingPrice).MulInt(item.Quantity))
		}
	}
	return profit
}

func (s *Store) DashboardStats(ctx context.Context, lowStockThreshold int) (models.DashboardStats, error) {
	var out models.DashboardStats
	midnight := store.StartOfDay(store.Now())
	today := func(v models.Sale) bool { return !v.CreatedAt.Before(midnight) }

	s.read(func(d *document) {
		out.TotalProducts = int64(len(d.Products))
		for _, p := range d.Products {
			if p.Quantity < lowStockThreshold {
				out.LowStockCount++
			}
		}
		for _, sale := range d.Sales {
			if today(sale) {
				out.TodaysSales = out.TodaysSales.Plus(sale.Total)
			}
		}
		out.TodaysProfit = itemProfit(d, today)
	})
	return out, nil
}

func (s *Store) LowStockProducts(ctx context.Context, threshold int) ([]models.Product, error) {
	out := []models.Product{}
	s.read(func(d *document) {
		for _, p := range d.Products {
			if p.Quantity < threshold {
				out = append(out, copyProduct(p))
			}
		}
	})
	slices.SortStableFunc(out, func(a, b models.Product) int { return a.Quantity - b.Quantity })
	return out, nil
}

func (s *Store) CustomerStats(ctx context.Context, id string) (models.CustomerStats, error) {
	var out models.CustomerStats
	s.read(func(d *document) {
		for _, sale := range d.Sales {
			if sale.CustomerID == id {
				out.TotalPurchases++
				out.TotalSpent = out.TotalSpent.Plus(sale.Total)
			}
		}
	})
	return out, nil
}

func (s *Store) SellerStats(ctx context.Context, id string) (models.SellerStats, error) {
	var out models.SellerStats
	s.read(func(d *document) {
		for _, sale := range d.Sales {
			if sale.SellerID == id {
				out.TotalSales++
				out.TotalRevenue = out.TotalRevenue.Plus(sale.Total)
			}
		}
	})
	return out, nil
}

func (s *Store) StockByCategory(ctx context.Context, lowStockThreshold int) ([]models.CategoryStock, error) {
	byCategory := make(map[string]*models.CategoryStock)
	s.read(func(d *document) {
		for _, p := range d.Products {
			row, ok := byCategory[p.Category]
			if !ok {
				row = &models.CategoryStock{Category: p.Category, Status: models.StockHealthy}
				byCategory[p.Category] = row
			}
			row.Products++
			row.Value = row.Value.Plus(p.SellingPrice.MulInt(p.Quantity))
			if p.Quantity < lowStockThreshold {
				row.Status = models.StockLow
			}
		}
	})

	out := make([]models.CategoryStock, 0, len(byCategory))
	for _, row := range byCategory {
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b models.CategoryStock) int { return strings.Compare(a.Category, b.Category) })
	return out, nil
}

func (s *Store) SalesByPeriod(ctx context.Context, period string) (models.PeriodSummary, error) {
	start, bounded, err := store.PeriodStart(period, store.Now())
	if err != nil {
		return models.PeriodSummary{}, err
	}
	inPeriod := func(v models.Sale) bool { return !bounded || !v.CreatedAt.Before(start) }

	out := models.PeriodSummary{Period: store.NormalizePeriod(period)}
	s.read(func(d *document) {
		for _, sale := range d.Sales {
			if inPeriod(sale) {
				out.Transactions++
				out.Revenue = out.Revenue.Plus(sale.Total)
			}
		}
		out.Profit = itemProfit(d, inPeriod)
	})
	return out, nil
}

func (s *Store) TopCustomers(ctx context.Context, limit int) ([]models.TopCustomer, error) {
	var out []models.TopCustomer
	s.read(func(d *document) {
		byID := make(map[string]*models.TopCustomer)
		for _, sale := range d.Sales {
			row, ok := byID[sale.CustomerID]
			if !ok {
				row = &models.TopCustomer{CustomerID: sale.CustomerID}
				byID[sale.CustomerID] = row
			}
			row.Purchases++
			row.Spent = row.Spent.Plus(sale.Total)
		}
		out = make([]models.TopCustomer, 0, len(byID))
		for _, c := range d.Customers {
			if row, ok := byID[c.ID]; ok {
				row.Name = c.Name
				out = append(out, *row)
			}
		}
	})
	slices.SortStableFunc(out, func(a, b models.TopCustomer) int { return b.Spent.Cmp(a.Spent.Decimal) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
