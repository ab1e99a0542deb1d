package database

import (
	"context"
	"slices"
	"strings"

	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/store"
)

// Aggregates are computed with plain SQL. COALESCE turns the NULL of an empty
// SUM into zero.

const (
	profitSinceSQL = `
		SELECT COALESCE(SUM((si.unit_price - si.buying_price) * si.quantity), 0)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		WHERE s.created_at >= ?`

	profitAllSQL = `
		SELECT COALESCE(SUM((si.unit_price - si.buying_price) * si.quantity), 0)
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id`
)

type totalsRow struct {
	Count int64        `db:"cnt"`
	Sum   models.Money `db:"total"`
}

type categoryRow struct {
	Category string       `db:"category"`
	Products int64        `db:"products"`
	Value    models.Money `db:"value"`
	LowCount int64        `db:"low_count"`
}

type topCustomerRow struct {
	CustomerID string       `db:"customer_id"`
	Name       string       `db:"name"`
	Purchases  int64        `db:"purchases"`
	Spent      models.Money `db:"spent"`
}

func (s *Store) get(ctx context.Context, op string, dest interface{}, query string, args ...interface{}) error {
	if err := s.rdb.GetContext(ctx, dest, s.rdb.Rebind(query), args...); err != nil {
		return store.Storage(op, err)
	}
	return nil
}

func (s *Store) DashboardStats(ctx context.Context, lowStockThreshold int) (models.DashboardStats, error) {
	var out models.DashboardStats
	midnight := store.StartOfDay(store.Now())

	if err := s.get(ctx, "count products", &out.TotalProducts, `SELECT COUNT(*) FROM products`); err != nil {
		return out, err
	}
	if err := s.get(ctx, "count low stock", &out.LowStockCount,
		`SELECT COUNT(*) FROM products WHERE quantity < ?`, lowStockThreshold); err != nil {
		return out, err
	}
	if err := s.get(ctx, "todays sales", &out.TodaysSales,
		`SELECT COALESCE(SUM(total), 0) FROM sales WHERE created_at >= ?`, midnight); err != nil {
		return out, err
	}
	if err := s.get(ctx, "todays profit", &out.TodaysProfit, profitSinceSQL, midnight); err != nil {
		return out, err
	}
	return out, nil
}

func (s *Store) LowStockProducts(ctx context.Context, threshold int) ([]models.Product, error) {
	out := []models.Product{}
	err := s.db.WithContext(ctx).
		Where("quantity < ?", threshold).
		Order("quantity ASC").
		Find(&out).Error
	if err != nil {
		return nil, store.Storage("low stock products", err)
	}
	return out, nil
}

func (s *Store) CustomerStats(ctx context.Context, id string) (models.CustomerStats, error) {
	var row totalsRow
	err := s.get(ctx, "customer stats", &row,
		`SELECT COUNT(*) AS cnt, COALESCE(SUM(total), 0) AS total FROM sales WHERE customer_id = ?`, id)
	return models.CustomerStats{TotalPurchases: row.Count, TotalSpent: row.Sum}, err
}

func (s *Store) SellerStats(ctx context.Context, id string) (models.SellerStats, error) {
	var row totalsRow
	err := s.get(ctx, "seller stats", &row,
		`SELECT COUNT(*) AS cnt, COALESCE(SUM(total), 0) AS total FROM sales WHERE seller_id = ?`, id)
	return models.SellerStats{TotalSales: row.Count, TotalRevenue: row.Sum}, err
}

func (s *Store) StockByCategory(ctx context.Context, lowStockThreshold int) ([]models.CategoryStock, error) {
	var rows []categoryRow
	err := s.rdb.SelectContext(ctx, &rows, s.rdb.Rebind(`
		SELECT category,
		       COUNT(*) AS products,
		       COALESCE(SUM(quantity * selling_price), 0) AS value,
		       SUM(CASE WHEN quantity < ? THEN 1 ELSE 0 END) AS low_count
		FROM products
		GROUP BY category`), lowStockThreshold)
	if err != nil {
		return nil, store.Storage("stock by category", err)
	}

	out := make([]models.CategoryStock, 0, len(rows))
	for _, r := range rows {
		status := models.StockHealthy
		if r.LowCount > 0 {
			status = models.StockLow
		}
		out = append(out, models.CategoryStock{
			Category: r.Category,
			Products: r.Products,
			Value:    r.Value,
			Status:   status,
		})
	}
	// Byte order, independent of the database collation.
	slices.SortFunc(out, func(a, b models.CategoryStock) int { return strings.Compare(a.Category, b.Category) })
	return out, nil
}

func (s *Store) SalesByPeriod(ctx context.Context, period string) (models.PeriodSummary, error) {
	start, bounded, err := store.PeriodStart(period, store.Now())
	if err != nil {
		return models.PeriodSummary{}, err
	}
	out := models.PeriodSummary{Period: store.NormalizePeriod(period)}

	var row totalsRow
	if bounded {
		err = s.get(ctx, "sales by period", &row,
			`SELECT COUNT(*) AS cnt, COALESCE(SUM(total), 0) AS total FROM sales WHERE created_at >= ?`, start)
		if err == nil {
			err = s.get(ctx, "profit by period", &out.Profit, profitSinceSQL, start)
		}
	} else {
		err = s.get(ctx, "sales by period", &row,
			`SELECT COUNT(*) AS cnt, COALESCE(SUM(total), 0) AS total FROM sales`)
		if err == nil {
			err = s.get(ctx, "profit by period", &out.Profit, profitAllSQL)
		}
	}
	if err != nil {
		return models.PeriodSummary{}, err
	}
	out.Transactions = row.Count
	out.Revenue = row.Sum
	return out, nil
}

func (s *Store) TopCustomers(ctx context.Context, limit int) ([]models.TopCustomer, error) {
	query := `
		SELECT c.id AS customer_id,
		       c.name AS name,
		       COUNT(s.id) AS purchases,
		       COALESCE(SUM(s.total), 0) AS spent
		FROM sales s
		JOIN customers c ON c.id = s.customer_id
		GROUP BY c.id, c.name
		ORDER BY spent DESC`
	args := []interface{}{}
	// limit <= 0 means no cap.
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var rows []topCustomerRow
	if err := s.rdb.SelectContext(ctx, &rows, s.rdb.Rebind(query), args...); err != nil {
		return nil, store.Storage("top customers", err)
	}

	out := make([]models.TopCustomer, 0, len(rows))
	for _, r := range rows {
		out = append(out, models.TopCustomer(r))
	}
	return out, nil
}
