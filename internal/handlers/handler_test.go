package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go-pos-inventory/internal/filestore"
	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setup(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()
	s, err := filestore.Open(filepath.Join(t.TempDir(), "db.json"), zap.NewNop())
	require.NoError(t, err)

	h := New(s, zap.NewNop(), 20)
	r := gin.New()
	r.GET("/suppliers/:id", h.GetSupplier)
	r.POST("/suppliers", h.CreateSupplier)
	r.DELETE("/suppliers/:id", h.DeleteSupplier)
	r.GET("/customers", h.ListCustomers)
	r.POST("/customers", h.CreateCustomer)
	r.PATCH("/customers/:id", h.UpdateCustomer)
	r.POST("/sellers", h.CreateSeller)
	r.GET("/products", h.GetProducts)
	r.POST("/products", h.AddProduct)
	r.PATCH("/products/:id", h.UpdateProduct)
	r.DELETE("/products/:id", h.DeleteProduct)
	r.GET("/products/code/:stockCode", h.ScanProduct)
	r.GET("/sales/recent", h.RecentSales)
	r.GET("/sales/:id", h.GetSale)
	r.POST("/sales", h.ProcessSale)
	r.GET("/dashboard/stats", h.GetDashboardStats)
	r.GET("/dashboard/low-stock", h.GetLowStock)
	r.GET("/reports/sales", h.GetSalesReport)
	r.GET("/reports/customers", h.GetCustomerReport)
	return r, s
}

func call(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			_ = json.NewEncoder(&buf).Encode(body)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func createProduct(t *testing.T, r http.Handler, code string, qty int) models.Product {
	t.Helper()
	w := call(r, http.MethodPost, "/products", gin.H{
		"stockCode": code, "name": "Item " + code, "category": "General",
		"buyingPrice": "6.00", "sellingPrice": "10.00", "quantity": qty,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Product](t, w)
}

func createParties(t *testing.T, r http.Handler) (models.Customer, models.Seller) {
	t.Helper()
	w := call(r, http.MethodPost, "/customers", gin.H{"name": "Ana", "phone": "555", "email": "ana@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	customer := decode[models.Customer](t, w)

	w = call(r, http.MethodPost, "/sellers", gin.H{"name": "Sam", "email": "sam@example.com"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return customer, decode[models.Seller](t, w)
}

func TestCreateProductValidation(t *testing.T) {
	r, _ := setup(t)

	w := call(r, http.MethodPost, "/products", gin.H{"name": "No code"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodPost, "/products", gin.H{
		"stockCode": "X1", "name": "Bad price", "category": "General",
		"buyingPrice": "abc", "sellingPrice": "1.00", "quantity": 1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "buyingPrice")

	w = call(r, http.MethodPost, "/products", `{"stockCode":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProductDuplicateStockCode(t *testing.T) {
	r, _ := setup(t)
	created := createProduct(t, r, "DUP-1", 5)
	assert.Equal(t, "10.00", created.SellingPrice.String())

	w := call(r, http.MethodPost, "/products", gin.H{
		"stockCode": "DUP-1", "name": "Again", "category": "General",
		"buyingPrice": "1.00", "sellingPrice": "2.00", "quantity": 0,
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestProductPatchAndSupplierDetach(t *testing.T) {
	r, _ := setup(t)
	w := call(r, http.MethodPost, "/suppliers", gin.H{"name": "Acme", "phone": "1", "email": "acme@example.com"})
	require.Equal(t, http.StatusCreated, w.Code)
	supplier := decode[models.Supplier](t, w)
	p := createProduct(t, r, "P-1", 5)

	w = call(r, http.MethodPatch, "/products/"+p.ID, gin.H{"supplierId": supplier.ID, "sellingPrice": "11.50"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	patched := decode[models.Product](t, w)
	require.NotNil(t, patched.SupplierID)
	assert.Equal(t, supplier.ID, *patched.SupplierID)
	assert.Equal(t, "11.50", patched.SellingPrice.String())
	assert.Equal(t, p.Name, patched.Name)

	w = call(r, http.MethodPatch, "/products/"+p.ID, `{"supplierId":null}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Nil(t, decode[models.Product](t, w).SupplierID)

	w = call(r, http.MethodPatch, "/products/missing", gin.H{"name": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScanAndSearch(t *testing.T) {
	r, _ := setup(t)
	createProduct(t, r, "SCAN-100", 1)
	createProduct(t, r, "OTHER-1", 1)

	w := call(r, http.MethodGet, "/products/code/SCAN-100", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "SCAN-100", decode[models.Product](t, w).StockCode)

	w = call(r, http.MethodGet, "/products/code/NOPE", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Product not found"}`, w.Body.String())

	w = call(r, http.MethodGet, "/products?search=scan", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Product](t, w), 1)
}

func TestProcessSaleFlow(t *testing.T) {
	r, s := setup(t)
	p := createProduct(t, r, "SALE-1", 5)
	customer, seller := createParties(t, r)

	w := call(r, http.MethodPost, "/sales", gin.H{
		"customerId": customer.ID, "sellerId": seller.ID,
		"discount": "10", "discountType": "percentage", "paymentMethod": "cash",
		"items": []gin.H{{"productId": p.ID, "quantity": 2, "unitPrice": "10.00"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	sale := decode[models.SaleWithItems](t, w)
	assert.Equal(t, "20.00", sale.Sale.Subtotal.String())
	assert.Equal(t, "18.00", sale.Sale.Total.String())
	require.Len(t, sale.Items, 1)

	stock, err := s.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stock.Quantity)

	w = call(r, http.MethodGet, "/sales/"+sale.Sale.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, sale.Sale.ReceiptNumber, decode[models.SaleWithItems](t, w).Sale.ReceiptNumber)

	w = call(r, http.MethodGet, "/sales/recent?limit=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	recent := decode[[]models.RecentSale](t, w)
	require.Len(t, recent, 1)
	assert.Equal(t, "Ana", recent[0].CustomerName)

	w = call(r, http.MethodGet, "/customers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"totalPurchases":1`)
	assert.Contains(t, w.Body.String(), `"totalSpent":"18.00"`)
}

func TestProcessSaleRejections(t *testing.T) {
	r, s := setup(t)
	p := createProduct(t, r, "LOW-1", 1)
	customer, seller := createParties(t, r)

	base := func(qty int) gin.H {
		return gin.H{
			"customerId": customer.ID, "sellerId": seller.ID, "paymentMethod": "card",
			"items": []gin.H{{"productId": p.ID, "quantity": qty, "unitPrice": "10.00"}},
		}
	}

	w := call(r, http.MethodPost, "/sales", base(2))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient stock")

	body := base(1)
	body["total"] = "99.00"
	w = call(r, http.MethodPost, "/sales", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body = base(1)
	body["customerId"] = "ghost"
	w = call(r, http.MethodPost, "/sales", body)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = call(r, http.MethodPost, "/sales", gin.H{"customerId": customer.ID, "sellerId": seller.ID, "paymentMethod": "cash", "items": []gin.H{}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	list, err := s.ListSales(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDeletePolicy(t *testing.T) {
	r, _ := setup(t)
	p := createProduct(t, r, "DEL-1", 5)
	customer, seller := createParties(t, r)
	w := call(r, http.MethodPost, "/sales", gin.H{
		"customerId": customer.ID, "sellerId": seller.ID, "paymentMethod": "cash",
		"items": []gin.H{{"productId": p.ID, "quantity": 1, "unitPrice": "10.00"}},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	assert.Equal(t, http.StatusConflict, call(r, http.MethodDelete, "/products/"+p.ID, nil).Code)

	other := createProduct(t, r, "DEL-2", 1)
	assert.Equal(t, http.StatusNoContent, call(r, http.MethodDelete, "/products/"+other.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodDelete, "/products/"+other.ID, nil).Code)
	assert.Equal(t, http.StatusNotFound, call(r, http.MethodGet, "/suppliers/nope", nil).Code)
}

func TestDashboardAndReports(t *testing.T) {
	r, _ := setup(t)
	createProduct(t, r, "D-1", 5)
	createProduct(t, r, "D-2", 50)

	w := call(r, http.MethodGet, "/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[models.DashboardStats](t, w)
	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(1), stats.LowStockCount)
	assert.Equal(t, "0.00", stats.TodaysSales.String())

	w = call(r, http.MethodGet, "/dashboard/low-stock?threshold=100", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Product](t, w), 2)

	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodGet, "/dashboard/low-stock?threshold=-1", nil).Code)

	w = call(r, http.MethodGet, "/reports/sales", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, store.PeriodToday, decode[models.PeriodSummary](t, w).Period)

	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodGet, "/reports/sales?period=decade", nil).Code)
	assert.Equal(t, http.StatusOK, call(r, http.MethodGet, "/reports/customers?limit=5", nil).Code)
}

func TestPatchRejectsEmptyName(t *testing.T) {
	r, _ := setup(t)
	customer, _ := createParties(t, r)

	w := call(r, http.MethodPatch, "/customers/"+customer.ID, gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = call(r, http.MethodPatch, "/customers/"+customer.ID, gin.H{"phone": "999"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "999", decode[models.Customer](t, w).Phone)
}

type stubStore struct {
	store.Store
}

func (stubStore) GetSupplier(context.Context, string) (models.Supplier, error) {
	return models.Supplier{}, store.Storage("get supplier", errors.New("disk on fire"))
}

func TestStorageFailureIsGeneric500(t *testing.T) {
	h := New(stubStore{}, zap.NewNop(), 0)
	r := gin.New()
	r.GET("/suppliers/:id", h.GetSupplier)

	w := call(r, http.MethodGet, "/suppliers/x", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Storage failure, please retry"}`, w.Body.String())
}

type fakeAsker struct {
	reply string
	err   error
}

func (f fakeAsker) Ask(context.Context, string) (string, error) { return f.reply, f.err }

func TestAssistantHandler(t *testing.T) {
	r := gin.New()
	r.POST("/off", NewAssistantHandler(nil, nil).Ask)
	r.POST("/on", NewAssistantHandler(fakeAsker{reply: "Milk is low."}, nil).Ask)
	r.POST("/broken", NewAssistantHandler(fakeAsker{err: errors.New("quota")}, nil).Ask)

	assert.Equal(t, http.StatusServiceUnavailable, call(r, http.MethodPost, "/off", gin.H{"message": "hi"}).Code)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/on", gin.H{}).Code)

	w := call(r, http.MethodPost, "/on", gin.H{"message": "what is low?"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"reply":"Milk is low."}`, w.Body.String())

	assert.Equal(t, http.StatusBadGateway, call(r, http.MethodPost, "/broken", gin.H{"message": "hi"}).Code)
}
