package handlers

import (
	"errors"
	"net/http"

	"go-pos-inventory/internal/sales"
	"go-pos-inventory/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultRecentSales = 10

func (h *Handler) ListSales(c *gin.Context) {
	list, err := h.store.ListSales(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// RecentSales serves the dashboard feed. ?limit= defaults to 10.
func (h *Handler) RecentSales(c *gin.Context) {
	limit, ok := queryInt(c, "limit", defaultRecentSales)
	if !ok {
		return
	}
	list, err := h.store.RecentSales(c.Request.Context(), limit)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GetSale returns the sale header together with its lines.
func (h *Handler) GetSale(c *gin.Context) {
	sale, err := h.store.GetSaleWithItems(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "Sale")
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// --- POST: Checkout ---
func (h *Handler) ProcessSale(c *gin.Context) {
	var req sales.Request
	if !bindJSON(c, &req) {
		return
	}

	// 1. Validate and compute totals
	prepared, err := sales.Prepare(req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	// 2. Record header, lines and stock changes as one unit
	result, err := h.store.RecordSale(c.Request.Context(), prepared)
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info("Sale completed",
		zap.String("receipt", result.Sale.ReceiptNumber),
		zap.String("total", result.Sale.Total.String()),
		zap.String("payment", result.Sale.PaymentMethod),
	)
	c.JSON(http.StatusCreated, result)
}
