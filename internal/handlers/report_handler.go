package handlers

import (
	"net/http"

	"go-pos-inventory/internal/store"

	"github.com/gin-gonic/gin"
)

const defaultTopCustomers = 10

// --- GET: /api/dashboard/stats ---
func (h *Handler) GetDashboardStats(c *gin.Context) {
	stats, err := h.store.DashboardStats(c.Request.Context(), h.lowStockThreshold)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// --- GET: /api/dashboard/low-stock?threshold= ---
func (h *Handler) GetLowStock(c *gin.Context) {
	threshold, ok := queryInt(c, "threshold", h.lowStockThreshold)
	if !ok {
		return
	}
	products, err := h.store.LowStockProducts(c.Request.Context(), threshold)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- GET: /api/reports/stock ---
// Inventory value per category, priced at selling price.
func (h *Handler) GetStockReport(c *gin.Context) {
	rows, err := h.store.StockByCategory(c.Request.Context(), h.lowStockThreshold)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// --- GET: /api/reports/sales?period=today|week|month|year|all ---
func (h *Handler) GetSalesReport(c *gin.Context) {
	summary, err := h.store.SalesByPeriod(c.Request.Context(), c.DefaultQuery("period", store.PeriodToday))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// --- GET: /api/reports/customers?limit= ---
func (h *Handler) GetCustomerReport(c *gin.Context) {
	limit, ok := queryInt(c, "limit", defaultTopCustomers)
	if !ok {
		return
	}
	rows, err := h.store.TopCustomers(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}
