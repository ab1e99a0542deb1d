package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the catalog, sales, dashboard and report routes.
type Handler struct {
	store             store.Store
	log               *zap.Logger
	lowStockThreshold int
}

func New(s store.Store, log *zap.Logger, lowStockThreshold int) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	if lowStockThreshold <= 0 {
		lowStockThreshold = 20
	}
	return &Handler{store: s, log: log, lowStockThreshold: lowStockThreshold}
}

// respondError maps store errors to status codes. Storage failures are
// logged and answered with a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	var storageErr *store.StorageError
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalid), errors.Is(err, store.ErrInsufficientStock):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &storageErr):
		h.log.Error("Storage failure",
			zap.String("op", storageErr.Op),
			zap.String("path", c.FullPath()),
			zap.Error(storageErr.Err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage failure, please retry"})
	default:
		h.log.Error("Unexpected error", zap.String("path", c.FullPath()), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
	_ = c.Error(err)
}

// respondNotFound answers 404 with the entity's display name.
func respondNotFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}

// bindJSON decodes and validates the body, answering 400 on failure.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}

// queryInt reads a non-negative integer query parameter.
func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a non-negative integer"})
		return 0, false
	}
	return n, true
}

// parsePrice validates a decimal money string from a request body.
func parsePrice(field, raw string) (models.Money, error) {
	m, err := models.ParseMoney(raw)
	if err != nil {
		return models.Money{}, store.Invalidf("%s: %v", field, err)
	}
	if m.IsNegative() {
		return models.Money{}, store.Invalidf("%s cannot be negative", field)
	}
	return m, nil
}
