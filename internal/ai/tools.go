package ai

import (
	"context"
	"fmt"
	"strings"

	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/store"

	"github.com/google/generative-ai-go/genai"
)

const (
	toolCheckInventory = "check_inventory"
	toolLowStock       = "get_low_stock"
	toolSalesReport    = "get_sales_report"
	toolDashboard      = "get_dashboard_stats"
	toolUpdatePrice    = "update_product_price"
)

// toolDeclarations describes what the model may call.
func toolDeclarations() []*genai.Tool {
	return []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        toolCheckInventory,
					Description: "List products with stock code, price, cost and stock. Pass a query to search by name, stock code or category.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"query": {Type: genai.TypeString, Description: "Optional search text"},
						},
					},
				},
				{
					Name:        toolLowStock,
					Description: "List products whose quantity is below a threshold, lowest first.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"threshold": {Type: genai.TypeInteger, Description: "Optional quantity threshold"},
						},
					},
				},
				{
					Name:        toolSalesReport,
					Description: "Get transactions, revenue and profit for a period.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"period": {
								Type: genai.TypeString,
								Enum: []string{store.PeriodToday, store.PeriodWeek, store.PeriodMonth, store.PeriodYear, store.PeriodAll},
							},
						},
						Required: []string{"period"},
					},
				},
				{
					Name:        toolDashboard,
					Description: "Get product count, today's sales, today's profit and the number of low stock products.",
				},
				{
					Name:        toolUpdatePrice,
					Description: "Change the selling price of a product identified by its stock code.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"stock_code": {Type: genai.TypeString, Description: "Stock code of the product"},
							"new_price":  {Type: genai.TypeString, Description: "New selling price, e.g. \"12.50\""},
						},
						Required: []string{"stock_code", "new_price"},
					},
				},
			},
		},
	}
}

// Toolbox executes function calls against the store.
type Toolbox struct {
	store             store.Store
	lowStockThreshold int
}

func NewToolbox(s store.Store, lowStockThreshold int) *Toolbox {
	return &Toolbox{store: s, lowStockThreshold: lowStockThreshold}
}

// viewProducts flattens products into plain maps; function responses only
// carry JSON-like values.
func viewProducts(products []models.Product) []any {
	out := make([]any, 0, len(products))
	for _, p := range products {
		out = append(out, map[string]any{
			"stockCode":    p.StockCode,
			"name":         p.Name,
			"category":     p.Category,
			"quantity":     p.Quantity,
			"sellingPrice": p.SellingPrice.String(),
			"buyingPrice":  p.BuyingPrice.String(),
		})
	}
	return out
}

// Run executes one call. Failures are reported to the model as an "error"
// field rather than aborting the conversation.
func (t *Toolbox) Run(ctx context.Context, call genai.FunctionCall) genai.FunctionResponse {
	result, err := t.run(ctx, call)
	if err != nil {
		result = map[string]any{"error": err.Error()}
	}
	return genai.FunctionResponse{Name: call.Name, Response: result}
}

func (t *Toolbox) run(ctx context.Context, call genai.FunctionCall) (map[string]any, error) {
	switch call.Name {
	case toolCheckInventory:
		var (
			products []models.Product
			err      error
		)
		if q := strings.TrimSpace(argString(call.Args, "query")); q != "" {
			products, err = t.store.SearchProducts(ctx, q)
		} else {
			products, err = t.store.ListProducts(ctx)
		}
		if err != nil {
			return nil, err
		}
		return map[string]any{"products": viewProducts(products)}, nil

	case toolLowStock:
		threshold := argInt(call.Args, "threshold", t.lowStockThreshold)
		products, err := t.store.LowStockProducts(ctx, threshold)
		if err != nil {
			return nil, err
		}
		return map[string]any{"threshold": threshold, "products": viewProducts(products)}, nil

	case toolSalesReport:
		summary, err := t.store.SalesByPeriod(ctx, argString(call.Args, "period"))
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"period":       summary.Period,
			"transactions": summary.Transactions,
			"revenue":      summary.Revenue.String(),
			"profit":       summary.Profit.String(),
		}, nil

	case toolDashboard:
		stats, err := t.store.DashboardStats(ctx, t.lowStockThreshold)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"totalProducts": stats.TotalProducts,
			"todaysSales":   stats.TodaysSales.String(),
			"todaysProfit":  stats.TodaysProfit.String(),
			"lowStockCount": stats.LowStockCount,
		}, nil

	case toolUpdatePrice:
		product, err := t.store.FindProductByStockCode(ctx, argString(call.Args, "stock_code"))
		if err != nil {
			return nil, err
		}
		price, err := models.ParseMoney(argString(call.Args, "new_price"))
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("new_price must be a non-negative decimal")
		}
		updated, err := t.store.UpdateProduct(ctx, product.ID, store.ProductPatch{SellingPrice: &price})
		if err != nil {
			return nil, err
		}
		return map[string]any{"status": "updated", "stockCode": updated.StockCode, "sellingPrice": updated.SellingPrice.String()}, nil
	}
	return nil, fmt.Errorf("unknown tool %q", call.Name)
}

func argString(args map[string]any, key string) string {
	switch v := args[key].(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%v", v)
	}
	return ""
}

// argInt reads a numeric argument; JSON numbers arrive as float64.
func argInt(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}
