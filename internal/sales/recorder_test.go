package sales

import (
	"errors"
	"testing"

	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(t *testing.T, s string) models.Money {
	t.Helper()
	m, err := models.ParseMoney(s)
	require.NoError(t, err)
	return m
}

func strPtr(s string) *string { return &s }

func baseRequest() Request {
	return Request{
		CustomerID:    "c1",
		SellerID:      "s1",
		PaymentMethod: models.PaymentCash,
		Items:         []ItemRequest{{ProductID: "p1", Quantity: 2, UnitPrice: "10.00"}},
	}
}

func TestTotal(t *testing.T) {
	tests := []struct {
		name         string
		subtotal     string
		discount     string
		discountType string
		want         string
	}{
		{"percentage", "100", "10", models.DiscountPercentage, "90.00"},
		{"fixed", "100", "10", models.DiscountFixed, "90.00"},
		{"fixed clamps at zero", "50", "60", models.DiscountFixed, "0.00"},
		{"no discount", "42.50", "0", models.DiscountPercentage, "42.50"},
		{"percentage rounds", "33.33", "15", models.DiscountPercentage, "28.33"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Total(money(t, tt.subtotal), money(t, tt.discount), tt.discountType)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestPrepareComputesLineAndSaleTotals(t *testing.T) {
	req := baseRequest()
	req.Items = append(req.Items, ItemRequest{ProductID: "p2", Quantity: 1, UnitPrice: "5.5"})
	req.Discount = "10"

	sale, err := Prepare(req)
	require.NoError(t, err)

	require.Len(t, sale.Items, 2)
	assert.Equal(t, "20.00", sale.Items[0].Subtotal.String())
	assert.Equal(t, "5.50", sale.Items[1].Subtotal.String())
	assert.Equal(t, "25.50", sale.Subtotal.String())
	assert.Equal(t, models.DiscountPercentage, sale.DiscountType)
	assert.Equal(t, "22.95", sale.Total.String())
}

func TestPrepareAcceptsMatchingCallerTotals(t *testing.T) {
	req := baseRequest()
	req.DiscountType = models.DiscountFixed
	req.Discount = "5"
	req.Subtotal = strPtr("20.00")
	req.Total = strPtr("15")

	sale, err := Prepare(req)
	require.NoError(t, err)
	assert.Equal(t, "15.00", sale.Total.String())
}

func TestPrepareRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
	}{
		{"no items", func(r *Request) { r.Items = nil }},
		{"zero quantity", func(r *Request) { r.Items[0].Quantity = 0 }},
		{"bad unit price", func(r *Request) { r.Items[0].UnitPrice = "ten" }},
		{"negative unit price", func(r *Request) { r.Items[0].UnitPrice = "-1" }},
		{"missing product", func(r *Request) { r.Items[0].ProductID = " " }},
		{"missing customer", func(r *Request) { r.CustomerID = "" }},
		{"missing seller", func(r *Request) { r.SellerID = "" }},
		{"unknown payment", func(r *Request) { r.PaymentMethod = "barter" }},
		{"unknown discount type", func(r *Request) { r.DiscountType = "bogo" }},
		{"negative discount", func(r *Request) { r.Discount = "-3" }},
		{"percentage above 100", func(r *Request) { r.Discount = "101" }},
		{"subtotal mismatch", func(r *Request) { r.Subtotal = strPtr("19.99") }},
		{"total mismatch", func(r *Request) { r.Total = strPtr("25.00") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			tt.mutate(&req)
			_, err := Prepare(req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, store.ErrInvalid), "got %v", err)
		})
	}
}
