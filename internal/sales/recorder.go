// Package sales validates checkout requests and computes their totals before
// a store records them.
package sales

import (
	"strings"

	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/store"

	"github.com/shopspring/decimal"
)

// ItemRequest is one cart line as sent by the till.
type ItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	UnitPrice string `json:"unitPrice" binding:"required"`
}

// Request is the body of POST /api/sales. Money travels as decimal strings.
// Subtotal and Total are optional; when present they must agree with the
// totals computed from the items.
type Request struct {
	CustomerID    string        `json:"customerId" binding:"required"`
	SellerID      string        `json:"sellerId" binding:"required"`
	Discount      string        `json:"discount"`
	DiscountType  string        `json:"discountType"`
	PaymentMethod string        `json:"paymentMethod" binding:"required"`
	Subtotal      *string       `json:"subtotal"`
	Total         *string       `json:"total"`
	Items         []ItemRequest `json:"items" binding:"required,min=1,dive"`
}

var hundred = decimal.NewFromInt(100)

// Prepare checks a request and returns the sale to record.
func Prepare(req Request) (store.NewSale, error) {
	if strings.TrimSpace(req.CustomerID) == "" {
		return store.NewSale{}, store.Invalidf("customerId is required")
	}
	if strings.TrimSpace(req.SellerID) == "" {
		return store.NewSale{}, store.Invalidf("sellerId is required")
	}
	if !validPayment(req.PaymentMethod) {
		return store.NewSale{}, store.Invalidf("paymentMethod must be one of cash, card, mobile, due")
	}
	if len(req.Items) == 0 {
		return store.NewSale{}, store.Invalidf("a sale needs at least one item")
	}

	discountType := req.DiscountType
	if discountType == "" {
		discountType = models.DiscountPercentage
	}
	if discountType != models.DiscountPercentage && discountType != models.DiscountFixed {
		return store.NewSale{}, store.Invalidf("discountType must be percentage or fixed")
	}

	discount := models.Money{}
	if strings.TrimSpace(req.Discount) != "" {
		d, err := parseAmount("discount", req.Discount)
		if err != nil {
			return store.NewSale{}, err
		}
		discount = d
	}
	if discountType == models.DiscountPercentage && discount.GreaterThan(hundred) {
		return store.NewSale{}, store.Invalidf("percentage discount cannot exceed 100")
	}

	out := store.NewSale{
		CustomerID:    req.CustomerID,
		SellerID:      req.SellerID,
		Discount:      discount,
		DiscountType:  discountType,
		PaymentMethod: req.PaymentMethod,
		Items:         make([]store.NewSaleItem, 0, len(req.Items)),
	}

	for i, item := range req.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return store.NewSale{}, store.Invalidf("item %d: productId is required", i+1)
		}
		if item.Quantity < 1 {
			return store.NewSale{}, store.Invalidf("item %d: quantity must be at least 1", i+1)
		}
		price, err := parseAmount("unitPrice", item.UnitPrice)
		if err != nil {
			return store.NewSale{}, err
		}
		line := price.MulInt(item.Quantity)
		out.Items = append(out.Items, store.NewSaleItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			UnitPrice: price,
			Subtotal:  line,
		})
		out.Subtotal = out.Subtotal.Plus(line)
	}

	out.Total = Total(out.Subtotal, discount, discountType)

	if req.Subtotal != nil {
		sent, err := parseAmount("subtotal", *req.Subtotal)
		if err != nil {
			return store.NewSale{}, err
		}
		if !sent.Equal(out.Subtotal) {
			return store.NewSale{}, store.Invalidf("subtotal %s does not match items (%s)", sent, out.Subtotal)
		}
	}
	if req.Total != nil {
		sent, err := parseAmount("total", *req.Total)
		if err != nil {
			return store.NewSale{}, err
		}
		if !sent.Equal(out.Total) {
			return store.NewSale{}, store.Invalidf("total %s does not match computed total (%s)", sent, out.Total)
		}
	}

	return out, nil
}

// Total applies a discount to a subtotal. The result never drops below zero.
func Total(subtotal, discount models.Money, discountType string) models.Money {
	effective := discount.Decimal
	if discountType == models.DiscountPercentage {
		effective = subtotal.Decimal.Mul(discount.Decimal).Div(hundred)
	}
	total := subtotal.Decimal.Sub(effective)
	if total.IsNegative() {
		return models.Money{Decimal: decimal.Zero}
	}
	return models.NewMoney(total)
}

func parseAmount(field, s string) (models.Money, error) {
	m, err := models.ParseMoney(s)
	if err != nil {
		return models.Money{}, store.Invalidf("%s: %v", field, err)
	}
	if m.IsNegative() {
		return models.Money{}, store.Invalidf("%s cannot be negative", field)
	}
	return m, nil
}

func validPayment(method string) bool {
	switch method {
	case models.PaymentCash, models.PaymentCard, models.PaymentMobile, models.PaymentDue:
		return true
	}
	return false
}
