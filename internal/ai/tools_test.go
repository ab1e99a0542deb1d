package ai

import (
	"context"
	"path/filepath"
	"testing"

	"go-pos-inventory/internal/filestore"
	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/store"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newToolbox(t *testing.T) (*Toolbox, store.Store) {
	t.Helper()
	s, err := filestore.Open(filepath.Join(t.TempDir(), "db.json"), zap.NewNop())
	require.NoError(t, err)

	for _, p := range []struct {
		code, name string
		qty        int
	}{{"MILK-1", "Milk", 3}, {"BREAD-1", "Bread", 40}} {
		price, err := models.ParseMoney("2.50")
		require.NoError(t, err)
		_, err = s.CreateProduct(context.Background(), store.ProductInput{
			StockCode: p.code, Name: p.name, Category: "Grocery",
			BuyingPrice: price, SellingPrice: price, Quantity: p.qty,
		})
		require.NoError(t, err)
	}
	return NewToolbox(s, 20), s
}

func TestCheckInventoryWithQuery(t *testing.T) {
	tools, _ := newToolbox(t)

	resp := tools.Run(context.Background(), genai.FunctionCall{Name: toolCheckInventory, Args: map[string]any{"query": "milk"}})

	require.Equal(t, toolCheckInventory, resp.Name)
	products, ok := resp.Response["products"].([]any)
	require.True(t, ok)
	require.Len(t, products, 1)
	milk := products[0].(map[string]any)
	assert.Equal(t, "MILK-1", milk["stockCode"])
	assert.Equal(t, "2.50", milk["sellingPrice"])
}

func TestLowStockUsesDefaultThreshold(t *testing.T) {
	tools, _ := newToolbox(t)

	resp := tools.Run(context.Background(), genai.FunctionCall{Name: toolLowStock})

	assert.Equal(t, 20, resp.Response["threshold"])
	products := resp.Response["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "Milk", products[0].(map[string]any)["name"])

	resp = tools.Run(context.Background(), genai.FunctionCall{Name: toolLowStock, Args: map[string]any{"threshold": float64(50)}})
	assert.Len(t, resp.Response["products"], 2)
}

func TestSalesReportRejectsUnknownPeriod(t *testing.T) {
	tools, _ := newToolbox(t)

	resp := tools.Run(context.Background(), genai.FunctionCall{Name: toolSalesReport, Args: map[string]any{"period": "decade"}})
	assert.Contains(t, resp.Response, "error")

	resp = tools.Run(context.Background(), genai.FunctionCall{Name: toolSalesReport, Args: map[string]any{"period": "all"}})
	assert.Equal(t, "0.00", resp.Response["revenue"])
}

func TestUpdatePriceByStockCode(t *testing.T) {
	tools, s := newToolbox(t)
	ctx := context.Background()

	resp := tools.Run(ctx, genai.FunctionCall{Name: toolUpdatePrice, Args: map[string]any{"stock_code": "BREAD-1", "new_price": "3.10"}})
	require.Equal(t, "updated", resp.Response["status"])

	p, err := s.FindProductByStockCode(ctx, "BREAD-1")
	require.NoError(t, err)
	assert.Equal(t, "3.10", p.SellingPrice.String())

	resp = tools.Run(ctx, genai.FunctionCall{Name: toolUpdatePrice, Args: map[string]any{"stock_code": "NOPE", "new_price": "1"}})
	assert.Contains(t, resp.Response, "error")
}

func TestUnknownToolReportsError(t *testing.T) {
	tools, _ := newToolbox(t)

	resp := tools.Run(context.Background(), genai.FunctionCall{Name: "drop_tables"})
	assert.Equal(t, `unknown tool "drop_tables"`, resp.Response["error"])
}

func TestReplyTextJoinsParts(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
		Content: &genai.Content{Parts: []genai.Part{genai.Text("Milk is "), genai.Text("low.")}},
	}}}
	assert.Equal(t, "Milk is low.", replyText(resp))
	assert.Empty(t, functionCalls(resp))
	assert.Equal(t, "I completed the action.", replyText(&genai.GenerateContentResponse{}))
}
