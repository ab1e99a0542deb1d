package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/store"

	"github.com/gin-gonic/gin"
)

// nullableID tells an absent field apart from an explicit null.
type nullableID struct {
	Set   bool
	Value *string
}

func (n *nullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

type productRequest struct {
	StockCode    string  `json:"stockCode" binding:"required"`
	Name         string  `json:"name" binding:"required"`
	Category     string  `json:"category" binding:"required"`
	BuyingPrice  string  `json:"buyingPrice" binding:"required"`
	SellingPrice string  `json:"sellingPrice" binding:"required"`
	Quantity     *int    `json:"quantity" binding:"required,min=0"`
	SupplierID   *string `json:"supplierId"`
}

type productPatchRequest struct {
	StockCode    *string    `json:"stockCode" binding:"omitempty,min=1"`
	Name         *string    `json:"name" binding:"omitempty,min=1"`
	Category     *string    `json:"category" binding:"omitempty,min=1"`
	BuyingPrice  *string    `json:"buyingPrice"`
	SellingPrice *string    `json:"sellingPrice"`
	Quantity     *int       `json:"quantity" binding:"omitempty,min=0"`
	SupplierID   nullableID `json:"supplierId"`
}

func (r productRequest) toInput() (store.ProductInput, error) {
	buying, err := parsePrice("buyingPrice", r.BuyingPrice)
	if err != nil {
		return store.ProductInput{}, err
	}
	selling, err := parsePrice("sellingPrice", r.SellingPrice)
	if err != nil {
		return store.ProductInput{}, err
	}
	return store.ProductInput{
		StockCode:    strings.TrimSpace(r.StockCode),
		Name:         r.Name,
		Category:     r.Category,
		BuyingPrice:  buying,
		SellingPrice: selling,
		Quantity:     *r.Quantity,
		SupplierID:   r.SupplierID,
	}, nil
}

func (r productPatchRequest) toPatch() (store.ProductPatch, error) {
	patch := store.ProductPatch{
		Name:     r.Name,
		Category: r.Category,
		Quantity: r.Quantity,
	}
	if r.StockCode != nil {
		code := strings.TrimSpace(*r.StockCode)
		patch.StockCode = &code
	}
	if r.BuyingPrice != nil {
		m, err := parsePrice("buyingPrice", *r.BuyingPrice)
		if err != nil {
			return store.ProductPatch{}, err
		}
		patch.BuyingPrice = &m
	}
	if r.SellingPrice != nil {
		m, err := parsePrice("sellingPrice", *r.SellingPrice)
		if err != nil {
			return store.ProductPatch{}, err
		}
		patch.SellingPrice = &m
	}
	if r.SupplierID.Set {
		detach := ""
		patch.SupplierID = &detach
		if r.SupplierID.Value != nil {
			patch.SupplierID = r.SupplierID.Value
		}
	}
	return patch, nil
}

// --- GET: List all products, or search with ?search= ---
func (h *Handler) GetProducts(c *gin.Context) {
	var (
		products []models.Product
		err      error
	)
	if q := strings.TrimSpace(c.Query("search")); q != "" {
		products, err = h.store.SearchProducts(c.Request.Context(), q)
	} else {
		products, err = h.store.ListProducts(c.Request.Context())
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.store.GetProduct(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "Product")
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// --- GET: Barcode scanner lookup by stock code ---
func (h *Handler) ScanProduct(c *gin.Context) {
	product, err := h.store.FindProductByStockCode(c.Request.Context(), c.Param("stockCode"))
	if errors.Is(err, store.ErrNotFound) {
		respondNotFound(c, "Product")
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// --- POST: Add a new product ---
func (h *Handler) AddProduct(c *gin.Context) {
	var req productRequest
	if !bindJSON(c, &req) {
		return
	}
	in, err := req.toInput()
	if err != nil {
		h.respondError(c, err)
		return
	}

	product, err := h.store.CreateProduct(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// --- PATCH: Update only the fields that were sent ---
func (h *Handler) UpdateProduct(c *gin.Context) {
	var req productPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	patch, err := req.toPatch()
	if err != nil {
		h.respondError(c, err)
		return
	}

	product, err := h.store.UpdateProduct(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// --- DELETE: Remove a product that has never been sold ---
func (h *Handler) DeleteProduct(c *gin.Context) {
	h.delete(c, "Product", h.store.DeleteProduct)
}
