package models

// --- DATA STRUCTURES FOR DASHBOARD AND REPORTS ---

type DashboardStats struct {
	TotalProducts int64 `json:"totalProducts"`
	TodaysSales   Money `json:"todaysSales"`
	LowStockCount int64 `json:"lowStockCount"`
	TodaysProfit  Money `json:"todaysProfit"`
}

type CustomerStats struct {
	TotalPurchases int64 `json:"totalPurchases"`
	TotalSpent     Money `json:"totalSpent"`
}

type SellerStats struct {
	TotalSales   int64 `json:"totalSales"`
	TotalRevenue Money `json:"totalRevenue"`
}

// CustomerWithStats is what GET /api/customers returns per row.
type CustomerWithStats struct {
	Customer
	CustomerStats
}

type SellerWithStats struct {
	Seller
	SellerStats
}

// RecentSale is a sale joined with the display names of its parties.
type RecentSale struct {
	Sale
	CustomerName string `json:"customerName"`
	SellerName   string `json:"sellerName"`
}

const (
	StockHealthy = "healthy"
	StockLow     = "low"
)

// CategoryStock is one row of the stock report. Value is priced at selling price.
type CategoryStock struct {
	Category string `json:"category"`
	Products int64  `json:"products"`
	Value    Money  `json:"value"`
	Status   string `json:"status"`
}

type PeriodSummary struct {
	Period       string `json:"period"`
	Transactions int64  `json:"transactions"`
	Revenue      Money  `json:"revenue"`
	Profit       Money  `json:"profit"`
}

type TopCustomer struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
	Purchases  int64  `json:"purchases"`
	Spent      Money  `json:"spent"`
}
