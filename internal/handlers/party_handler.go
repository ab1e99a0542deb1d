package handlers

import (
	"context"
	"errors"
	"net/http"

	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/store"

	"github.com/gin-gonic/gin"
)

type supplierRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email" binding:"required"`
}

type supplierPatchRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Phone *string `json:"phone" binding:"omitempty,min=1"`
	Email *string `json:"email" binding:"omitempty,min=1"`
}

type customerRequest = supplierRequest
type customerPatchRequest = supplierPatchRequest

type sellerRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required"`
}

type sellerPatchRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Email *string `json:"email" binding:"omitempty,min=1"`
}

// --- Suppliers ---

func (h *Handler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.store.ListSuppliers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

func (h *Handler) GetSupplier(c *gin.Context) {
	supplier, err := h.store.GetSupplier(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "Supplier")
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *Handler) CreateSupplier(c *gin.Context) {
	var req supplierRequest
	if !bindJSON(c, &req) {
		return
	}
	supplier, err := h.store.CreateSupplier(c.Request.Context(), store.SupplierInput(req))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

func (h *Handler) UpdateSupplier(c *gin.Context) {
	var req supplierPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	supplier, err := h.store.UpdateSupplier(c.Request.Context(), c.Param("id"), store.SupplierPatch(req))
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "Supplier")
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, supplier)
}

func (h *Handler) DeleteSupplier(c *gin.Context) {
	h.delete(c, "Supplier", h.store.DeleteSupplier)
}

// --- Customers ---

// ListCustomers returns every customer with lifetime purchase stats.
func (h *Handler) ListCustomers(c *gin.Context) {
	ctx := c.Request.Context()
	customers, err := h.store.ListCustomers(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]models.CustomerWithStats, 0, len(customers))
	for _, customer := range customers {
		stats, err := h.store.CustomerStats(ctx, customer.ID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		out = append(out, models.CustomerWithStats{Customer: customer, CustomerStats: stats})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetCustomer(c *gin.Context) {
	ctx := c.Request.Context()
	customer, err := h.store.GetCustomer(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "Customer")
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	stats, err := h.store.CustomerStats(ctx, customer.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.CustomerWithStats{Customer: customer, CustomerStats: stats})
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var req customerRequest
	if !bindJSON(c, &req) {
		return
	}
	customer, err := h.store.CreateCustomer(c.Request.Context(), store.CustomerInput(req))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	var req customerPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	customer, err := h.store.UpdateCustomer(c.Request.Context(), c.Param("id"), store.CustomerPatch(req))
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "Customer")
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) DeleteCustomer(c *gin.Context) {
	h.delete(c, "Customer", h.store.DeleteCustomer)
}

// --- Sellers ---

func (h *Handler) ListSellers(c *gin.Context) {
	ctx := c.Request.Context()
	sellers, err := h.store.ListSellers(ctx)
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]models.SellerWithStats, 0, len(sellers))
	for _, seller := range sellers {
		stats, err := h.store.SellerStats(ctx, seller.ID)
		if err != nil {
			h.respondError(c, err)
			return
		}
		out = append(out, models.SellerWithStats{Seller: seller, SellerStats: stats})
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) GetSeller(c *gin.Context) {
	ctx := c.Request.Context()
	seller, err := h.store.GetSeller(ctx, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "Seller")
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	stats, err := h.store.SellerStats(ctx, seller.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SellerWithStats{Seller: seller, SellerStats: stats})
}

func (h *Handler) CreateSeller(c *gin.Context) {
	var req sellerRequest
	if !bindJSON(c, &req) {
		return
	}
	seller, err := h.store.CreateSeller(c.Request.Context(), store.SellerInput(req))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, seller)
}

func (h *Handler) UpdateSeller(c *gin.Context) {
	var req sellerPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	seller, err := h.store.UpdateSeller(c.Request.Context(), c.Param("id"), store.SellerPatch(req))
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "Seller")
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, seller)
}

func (h *Handler) DeleteSeller(c *gin.Context) {
	h.delete(c, "Seller", h.store.DeleteSeller)
}

// delete answers 204 when a row was removed and 404 when there was none.
func (h *Handler) delete(c *gin.Context, what string, del func(ctx context.Context, id string) (bool, error)) {
	removed, err := del(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !removed {
		respondNotFound(c, what)
		return
	}
	c.Status(http.StatusNoContent)
}
