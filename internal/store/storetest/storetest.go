// Package storetest is the behavioural suite every store.Store backend runs.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"
	"time"

	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/sales"
	"go-pos-inventory/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory returns an empty store. It is called once per subtest.
type Factory func(t *testing.T) store.Store

// Run executes the suite against the backend produced by newStore.
func Run(t *testing.T, newStore Factory) {
	cases := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"SupplierRoundTrip", testSupplierRoundTrip},
		{"CustomerRoundTrip", testCustomerRoundTrip},
		{"SellerRoundTrip", testSellerRoundTrip},
		{"ProductRoundTrip", testProductRoundTrip},
		{"ListNewestFirst", testListNewestFirst},
		{"UpdateChangesOnlyPatchedFields", testUpdateChangesOnlyPatchedFields},
		{"UpdateMissing", testUpdateMissing},
		{"DeleteThenGet", testDeleteThenGet},
		{"StockCodeUnique", testStockCodeUnique},
		{"ProductSupplierMustExist", testProductSupplierMustExist},
		{"SupplierDeleteDetachesProducts", testSupplierDeleteDetachesProducts},
		{"ReferencedDeletesConflict", testReferencedDeletesConflict},
		{"Search", testSearch},
		{"FindByStockCode", testFindByStockCode},
		{"RecordSaleDecrementsStock", testRecordSaleDecrementsStock},
		{"RecordSaleInsufficientStock", testRecordSaleInsufficientStock},
		{"RecordSaleUnknownReferences", testRecordSaleUnknownReferences},
		{"RecordSaleDiscounts", testRecordSaleDiscounts},
		{"ReceiptNumbers", testReceiptNumbers},
		{"ConcurrentSalesKeepStockNonNegative", testConcurrentSales},
		{"RecentSales", testRecentSales},
		{"DashboardStats", testDashboardStats},
		{"LowStockProducts", testLowStockProducts},
		{"PartyStats", testPartyStats},
		{"StockByCategory", testStockByCategory},
		{"StockByCategoryByteOrder", testStockByCategoryByteOrder},
		{"ReportsFollowStoreClock", testReportsFollowStoreClock},
		{"SalesByPeriod", testSalesByPeriod},
		{"TopCustomers", testTopCustomers},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			restore := useTickingClock()
			defer restore()
			s := newStore(t)
			t.Cleanup(func() { _ = s.Close() })
			tc.fn(t, s)
		})
	}
}

// useTickingClock makes every creation timestamp one millisecond later than
// the previous one so "newest first" orderings are deterministic.
func useTickingClock() func() {
	prev := store.Now
	var mu sync.Mutex
	next := time.Now().Truncate(time.Millisecond)
	store.Now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		next = next.Add(time.Millisecond)
		return next
	}
	return func() { store.Now = prev }
}

var ctx = context.Background()

func ptr[T any](v T) *T { return &v }

func money(t *testing.T, s string) models.Money {
	t.Helper()
	m, err := models.ParseMoney(s)
	require.NoError(t, err)
	return m
}

func newSupplier(t *testing.T, s store.Store, name string) models.Supplier {
	t.Helper()
	sup, err := s.CreateSupplier(ctx, store.SupplierInput{Name: name, Phone: "555-0100", Email: name + "@supply.test"})
	require.NoError(t, err)
	return sup
}

func newCustomer(t *testing.T, s store.Store, name string) models.Customer {
	t.Helper()
	c, err := s.CreateCustomer(ctx, store.CustomerInput{Name: name, Phone: "555-0101", Email: name + "@shop.test"})
	require.NoError(t, err)
	return c
}

func newSeller(t *testing.T, s store.Store, name string) models.Seller {
	t.Helper()
	sl, err := s.CreateSeller(ctx, store.SellerInput{Name: name, Email: name + "@staff.test"})
	require.NoError(t, err)
	return sl
}

func newProduct(t *testing.T, s store.Store, code, category, buying, selling string, qty int) models.Product {
	t.Helper()
	p, err := s.CreateProduct(ctx, store.ProductInput{
		StockCode:    code,
		Name:         "Item " + code,
		Category:     category,
		BuyingPrice:  money(t, buying),
		SellingPrice: money(t, selling),
		Quantity:     qty,
	})
	require.NoError(t, err)
	return p
}

type line struct {
	product models.Product
	qty     int
	price   string
}

func recordSale(t *testing.T, s store.Store, c models.Customer, sl models.Seller, lines ...line) models.SaleWithItems {
	t.Helper()
	out, err := trySale(s, c.ID, sl.ID, "0", models.DiscountPercentage, lines...)
	require.NoError(t, err)
	return out
}

func trySale(s store.Store, customerID, sellerID, discount, discountType string, lines ...line) (models.SaleWithItems, error) {
	req := sales.Request{
		CustomerID:    customerID,
		SellerID:      sellerID,
		Discount:      discount,
		DiscountType:  discountType,
		PaymentMethod: models.PaymentCash,
	}
	for _, l := range lines {
		req.Items = append(req.Items, sales.ItemRequest{ProductID: l.product.ID, Quantity: l.qty, UnitPrice: l.price})
	}
	prepared, err := sales.Prepare(req)
	if err != nil {
		return models.SaleWithItems{}, err
	}
	return s.RecordSale(ctx, prepared)
}

func assertMoney(t *testing.T, want string, got models.Money, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, want, got.String(), msgAndArgs...)
}

func assertSameProduct(t *testing.T, want, got models.Product) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.StockCode, got.StockCode)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Category, got.Category)
	assert.True(t, want.BuyingPrice.Equal(got.BuyingPrice), "buyingPrice %s != %s", want.BuyingPrice, got.BuyingPrice)
	assert.True(t, want.SellingPrice.Equal(got.SellingPrice), "sellingPrice %s != %s", want.SellingPrice, got.SellingPrice)
	assert.Equal(t, want.Quantity, got.Quantity)
	assert.Equal(t, want.SupplierID, got.SupplierID)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt), "createdAt %s != %s", want.CreatedAt, got.CreatedAt)
}

func testSupplierRoundTrip(t *testing.T, s store.Store) {
	created := newSupplier(t, s, "acme")
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())

	got, err := s.GetSupplier(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Phone, got.Phone)
	assert.Equal(t, created.Email, got.Email)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func testCustomerRoundTrip(t *testing.T, s store.Store) {
	created := newCustomer(t, s, "alice")
	got, err := s.GetCustomer(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Phone, got.Phone)
	assert.Equal(t, created.Email, got.Email)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func testSellerRoundTrip(t *testing.T, s store.Store) {
	created := newSeller(t, s, "bob")
	got, err := s.GetSeller(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, created.Name, got.Name)
	assert.Equal(t, created.Email, got.Email)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
}

func testProductRoundTrip(t *testing.T, s store.Store) {
	sup := newSupplier(t, s, "acme")
	created, err := s.CreateProduct(ctx, store.ProductInput{
		StockCode:    "USB-001",
		Name:         "USB Cable",
		Category:     "Cables",
		BuyingPrice:  money(t, "3.25"),
		SellingPrice: money(t, "7.99"),
		Quantity:     40,
		SupplierID:   &sup.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, created.SupplierID)

	got, err := s.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assertSameProduct(t, created, got)
	assertMoney(t, "7.99", got.SellingPrice)
}

func testListNewestFirst(t *testing.T, s store.Store) {
	first := newCustomer(t, s, "first")
	second := newCustomer(t, s, "second")
	third := newCustomer(t, s, "third")

	list, err := s.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{list[0].ID, list[1].ID, list[2].ID})

	p1 := newProduct(t, s, "A", "x", "1", "2", 1)
	p2 := newProduct(t, s, "B", "x", "1", "2", 1)
	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, p2.ID, products[0].ID)
	assert.Equal(t, p1.ID, products[1].ID)
}

func testUpdateChangesOnlyPatchedFields(t *testing.T, s store.Store) {
	before := newProduct(t, s, "KB-1", "Keyboards", "20.00", "35.00", 12)

	after, err := s.UpdateProduct(ctx, before.ID, store.ProductPatch{SellingPrice: ptr(money(t, "39.50"))})
	require.NoError(t, err)
	assertMoney(t, "39.50", after.SellingPrice)

	want := before
	want.SellingPrice = money(t, "39.50")
	assertSameProduct(t, want, after)

	got, err := s.GetProduct(ctx, before.ID)
	require.NoError(t, err)
	assertSameProduct(t, want, got)

	c := newCustomer(t, s, "carol")
	updated, err := s.UpdateCustomer(ctx, c.ID, store.CustomerPatch{Phone: ptr("555-9999")})
	require.NoError(t, err)
	assert.Equal(t, "555-9999", updated.Phone)
	assert.Equal(t, c.Name, updated.Name)
	assert.Equal(t, c.Email, updated.Email)
	assert.True(t, c.CreatedAt.Equal(updated.CreatedAt))

	sl := newSeller(t, s, "dave")
	updatedSeller, err := s.UpdateSeller(ctx, sl.ID, store.SellerPatch{Name: ptr("David")})
	require.NoError(t, err)
	assert.Equal(t, "David", updatedSeller.Name)
	assert.Equal(t, sl.Email, updatedSeller.Email)

	sup := newSupplier(t, s, "globex")
	updatedSup, err := s.UpdateSupplier(ctx, sup.ID, store.SupplierPatch{Email: ptr("sales@globex.test")})
	require.NoError(t, err)
	assert.Equal(t, "sales@globex.test", updatedSup.Email)
	assert.Equal(t, sup.Name, updatedSup.Name)
	assert.Equal(t, sup.Phone, updatedSup.Phone)

	// Attaching and detaching a supplier.
	attached, err := s.UpdateProduct(ctx, before.ID, store.ProductPatch{SupplierID: &sup.ID})
	require.NoError(t, err)
	require.NotNil(t, attached.SupplierID)
	assert.Equal(t, sup.ID, *attached.SupplierID)

	detached, err := s.UpdateProduct(ctx, before.ID, store.ProductPatch{SupplierID: ptr("")})
	require.NoError(t, err)
	assert.Nil(t, detached.SupplierID)
}

func testUpdateMissing(t *testing.T, s store.Store) {
	_, err := s.UpdateProduct(ctx, "missing", store.ProductPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.UpdateSupplier(ctx, "missing", store.SupplierPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.UpdateCustomer(ctx, "missing", store.CustomerPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.UpdateSeller(ctx, "missing", store.SellerPatch{Name: ptr("x")})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testDeleteThenGet(t *testing.T, s store.Store) {
	p := newProduct(t, s, "DEL-1", "misc", "1", "2", 3)
	ok, err := s.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	ok, err = s.DeleteProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	sup := newSupplier(t, s, "gone")
	ok, err = s.DeleteSupplier(ctx, sup.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = s.GetSupplier(ctx, sup.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	c := newCustomer(t, s, "gone")
	ok, err = s.DeleteCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = s.DeleteCustomer(ctx, c.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	sl := newSeller(t, s, "gone")
	ok, err = s.DeleteSeller(ctx, sl.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	_, err = s.GetSeller(ctx, sl.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testStockCodeUnique(t *testing.T, s store.Store) {
	newProduct(t, s, "DUP", "misc", "1", "2", 1)
	_, err := s.CreateProduct(ctx, store.ProductInput{StockCode: "DUP", Name: "again", Category: "misc"})
	assert.ErrorIs(t, err, store.ErrConflict)

	other := newProduct(t, s, "OTHER", "misc", "1", "2", 1)
	_, err = s.UpdateProduct(ctx, other.ID, store.ProductPatch{StockCode: ptr("DUP")})
	assert.ErrorIs(t, err, store.ErrConflict)

	// Re-saving a product's own code is not a conflict.
	_, err = s.UpdateProduct(ctx, other.ID, store.ProductPatch{StockCode: ptr("OTHER")})
	assert.NoError(t, err)
}

func testProductSupplierMustExist(t *testing.T, s store.Store) {
	_, err := s.CreateProduct(ctx, store.ProductInput{StockCode: "X", Name: "x", Category: "c", SupplierID: ptr("nope")})
	assert.ErrorIs(t, err, store.ErrNotFound)

	p := newProduct(t, s, "Y", "c", "1", "2", 1)
	_, err = s.UpdateProduct(ctx, p.ID, store.ProductPatch{SupplierID: ptr("nope")})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testSupplierDeleteDetachesProducts(t *testing.T, s store.Store) {
	sup := newSupplier(t, s, "initech")
	p, err := s.CreateProduct(ctx, store.ProductInput{StockCode: "TPS-1", Name: "TPS cover", Category: "paper", SupplierID: &sup.ID, Quantity: 5})
	require.NoError(t, err)

	ok, err := s.DeleteSupplier(ctx, sup.ID)
	require.NoError(t, err)
	require.True(t, ok)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Nil(t, got.SupplierID)
}

func testReferencedDeletesConflict(t *testing.T, s store.Store) {
	c := newCustomer(t, s, "erin")
	sl := newSeller(t, s, "frank")
	p := newProduct(t, s, "REF-1", "misc", "1.00", "2.00", 10)
	recordSale(t, s, c, sl, line{p, 1, "2.00"})

	_, err := s.DeleteCustomer(ctx, c.ID)
	assert.ErrorIs(t, err, store.ErrConflict)
	_, err = s.DeleteSeller(ctx, sl.ID)
	assert.ErrorIs(t, err, store.ErrConflict)
	_, err = s.DeleteProduct(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrConflict)

	_, err = s.GetCustomer(ctx, c.ID)
	assert.NoError(t, err)
	_, err = s.GetProduct(ctx, p.ID)
	assert.NoError(t, err)
}

func testSearch(t *testing.T, s store.Store) {
	for i := 0; i < 15; i++ {
		newProduct(t, s, fmt.Sprintf("USB-%02d", i), "Cables", "1", "2", 1)
	}
	for i := 0; i < 10; i++ {
		_, err := s.CreateProduct(ctx, store.ProductInput{
			StockCode: fmt.Sprintf("HUB-%02d", i),
			Name:      "Hub",
			Category:  "Usb Accessories",
		})
		require.NoError(t, err)
	}
	_, err := s.CreateProduct(ctx, store.ProductInput{StockCode: "MS-1", Name: "Mouse with usB receiver", Category: "Input"})
	require.NoError(t, err)
	newProduct(t, s, "KB-9", "Keyboards", "1", "2", 1)

	got, err := s.SearchProducts(ctx, "usb")
	require.NoError(t, err)
	assert.Len(t, got, store.SearchLimit)
	for _, p := range got {
		assert.NotEqual(t, "KB-9", p.StockCode)
	}

	got, err = s.SearchProducts(ctx, "RECEIVER")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "MS-1", got[0].StockCode)

	got, err = s.SearchProducts(ctx, "kb-9")
	require.NoError(t, err)
	require.Len(t, got, 1)

	got, err = s.SearchProducts(ctx, "nothing-like-this")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func testFindByStockCode(t *testing.T, s store.Store) {
	p := newProduct(t, s, "SCAN-42", "misc", "1", "2", 1)
	got, err := s.FindProductByStockCode(ctx, "SCAN-42")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	_, err = s.FindProductByStockCode(ctx, "SCAN-43")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testRecordSaleDecrementsStock(t *testing.T, s store.Store) {
	c := newCustomer(t, s, "gina")
	sl := newSeller(t, s, "hank")
	p := newProduct(t, s, "P-5", "misc", "6.00", "10.00", 5)

	out := recordSale(t, s, c, sl, line{p, 2, "10.00"})

	require.Len(t, out.Items, 1)
	item := out.Items[0]
	assertMoney(t, "20.00", item.Subtotal)
	assertMoney(t, "10.00", item.UnitPrice)
	assertMoney(t, "6.00", item.BuyingPrice)
	assert.Equal(t, p.Name, item.ProductName)
	assert.Equal(t, p.StockCode, item.StockCode)
	assert.Equal(t, out.Sale.ID, item.SaleID)
	assertMoney(t, "20.00", out.Sale.Total)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity)

	// Later product edits do not rewrite history.
	_, err = s.UpdateProduct(ctx, p.ID, store.ProductPatch{Name: ptr("Renamed"), BuyingPrice: ptr(money(t, "9.00"))})
	require.NoError(t, err)

	stored, err := s.GetSaleWithItems(ctx, out.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Sale.ReceiptNumber, stored.Sale.ReceiptNumber)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, p.Name, stored.Items[0].ProductName)
	assertMoney(t, "6.00", stored.Items[0].BuyingPrice)

	sale, err := s.GetSale(ctx, out.Sale.ID)
	require.NoError(t, err)
	assert.Equal(t, out.Sale.CustomerID, sale.CustomerID)

	_, err = s.GetSaleWithItems(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testRecordSaleInsufficientStock(t *testing.T, s store.Store) {
	c := newCustomer(t, s, "ivy")
	sl := newSeller(t, s, "jack")
	plenty := newProduct(t, s, "PL-1", "misc", "1", "2", 50)
	scarce := newProduct(t, s, "SC-1", "misc", "1", "2", 1)

	_, err := trySale(s, c.ID, sl.ID, "0", models.DiscountPercentage, line{plenty, 3, "2.00"}, line{scarce, 2, "2.00"})
	assert.ErrorIs(t, err, store.ErrInsufficientStock)

	// Nothing from the rejected sale is persisted.
	got, err := s.GetProduct(ctx, plenty.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Quantity)
	got, err = s.GetProduct(ctx, scarce.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Quantity)
	list, err := s.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Selling the exact remaining stock is allowed and leaves zero.
	recordSale(t, s, c, sl, line{scarce, 1, "2.00"})
	got, err = s.GetProduct(ctx, scarce.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Quantity)
}

func testRecordSaleUnknownReferences(t *testing.T, s store.Store) {
	c := newCustomer(t, s, "kim")
	sl := newSeller(t, s, "lee")
	p := newProduct(t, s, "UR-1", "misc", "1", "2", 5)

	_, err := trySale(s, "nobody", sl.ID, "0", "", line{p, 1, "2"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = trySale(s, c.ID, "nobody", "0", "", line{p, 1, "2"})
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = trySale(s, c.ID, sl.ID, "0", "", line{p, 1, "2"}, line{models.Product{ID: "ghost"}, 1, "2"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)
	list, err := s.ListSales(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func testRecordSaleDiscounts(t *testing.T, s store.Store) {
	c := newCustomer(t, s, "mia")
	sl := newSeller(t, s, "ned")
	hundred := newProduct(t, s, "H-1", "misc", "50", "100", 10)
	fifty := newProduct(t, s, "F-1", "misc", "25", "50", 10)

	out, err := trySale(s, c.ID, sl.ID, "10", models.DiscountPercentage, line{hundred, 1, "100"})
	require.NoError(t, err)
	assertMoney(t, "90.00", out.Sale.Total)
	assertMoney(t, "100.00", out.Sale.Subtotal)

	out, err = trySale(s, c.ID, sl.ID, "10", models.DiscountFixed, line{hundred, 1, "100"})
	require.NoError(t, err)
	assertMoney(t, "90.00", out.Sale.Total)
	assert.Equal(t, models.DiscountFixed, out.Sale.DiscountType)

	out, err = trySale(s, c.ID, sl.ID, "60", models.DiscountFixed, line{fifty, 1, "50"})
	require.NoError(t, err)
	assertMoney(t, "0.00", out.Sale.Total)

	stored, err := s.GetSale(ctx, out.Sale.ID)
	require.NoError(t, err)
	assertMoney(t, "0.00", stored.Total)
	assertMoney(t, "60.00", stored.Discount)
}

var receiptPattern = regexp.MustCompile(`^RCP-(\d{4})-(\d{6})$`)

func testReceiptNumbers(t *testing.T, s store.Store) {
	c := newCustomer(t, s, "ola")
	sl := newSeller(t, s, "pat")
	p := newProduct(t, s, "R-1", "misc", "1", "2", 100)

	seen := map[string]bool{}
	year := fmt.Sprint(store.Now().Year())
	for i := 1; i <= 5; i++ {
		out := recordSale(t, s, c, sl, line{p, 1, "2"})
		m := receiptPattern.FindStringSubmatch(out.Sale.ReceiptNumber)
		require.NotNil(t, m, out.Sale.ReceiptNumber)
		assert.Equal(t, year, m[1])
		assert.Equal(t, fmt.Sprintf("%06d", i), m[2])
		assert.False(t, seen[out.Sale.ReceiptNumber], "duplicate %s", out.Sale.ReceiptNumber)
		seen[out.Sale.ReceiptNumber] = true
	}
}

func testConcurrentSales(t *testing.T, s store.Store) {
	c := newCustomer(t, s, "quinn")
	sl := newSeller(t, s, "rory")
	p := newProduct(t, s, "CC-1", "misc", "1", "2", 5)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := trySale(s, c.ID, sl.ID, "0", "", line{p, 1, "2"})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			// Backends that serialize writers may still report a busy
			// storage layer; anything else is a contract violation.
			var se *store.StorageError
			if !errors.Is(err, store.ErrInsufficientStock) && !errors.As(err, &se) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, got.Quantity, 0)
	assert.Equal(t, 5-succeeded, got.Quantity)
}

func testRecentSales(t *testing.T, s store.Store) {
	c := newCustomer(t, s, "sam")
	sl := newSeller(t, s, "tess")
	p := newProduct(t, s, "RS-1", "misc", "1", "2", 100)

	var ids []string
	for i := 0; i < 4; i++ {
		ids = append(ids, recordSale(t, s, c, sl, line{p, 1, "2"}).Sale.ID)
	}

	recent, err := s.RecentSales(ctx, 3)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, ids[3], recent[0].ID)
	assert.Equal(t, ids[2], recent[1].ID)
	assert.Equal(t, "sam", recent[0].CustomerName)
	assert.Equal(t, "tess", recent[0].SellerName)

	all, err := s.ListSales(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, ids[3], all[0].ID)
}

func testDashboardStats(t *testing.T, s store.Store) {
	c := newCustomer(t, s, "uma")
	sl := newSeller(t, s, "vic")
	a := newProduct(t, s, "D-A", "misc", "6", "10", 30)
	b := newProduct(t, s, "D-B", "misc", "15", "20", 25)
	newProduct(t, s, "D-C", "misc", "1", "2", 3)

	recordSale(t, s, c, sl, line{a, 2, "10"})
	recordSale(t, s, c, sl, line{b, 1, "20"})

	stats, err := s.DashboardStats(ctx, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalProducts)
	assertMoney(t, "40.00", stats.TodaysSales)
	assertMoney(t, "13.00", stats.TodaysProfit)
	// D-C only: D-A is at 28, D-B at 24.
	assert.EqualValues(t, 1, stats.LowStockCount)

	stats, err = s.DashboardStats(ctx, 25)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.LowStockCount)
}

func testLowStockProducts(t *testing.T, s store.Store) {
	newProduct(t, s, "L-10", "misc", "1", "2", 10)
	newProduct(t, s, "L-2", "misc", "1", "2", 2)
	newProduct(t, s, "L-50", "misc", "1", "2", 50)
	newProduct(t, s, "L-0", "misc", "1", "2", 0)

	low, err := s.LowStockProducts(ctx, 20)
	require.NoError(t, err)
	require.Len(t, low, 3)
	assert.Equal(t, []int{0, 2, 10}, []int{low[0].Quantity, low[1].Quantity, low[2].Quantity})

	low, err = s.LowStockProducts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "L-0", low[0].StockCode)
}

func testPartyStats(t *testing.T, s store.Store) {
	c := newCustomer(t, s, "wes")
	idle := newCustomer(t, s, "xena")
	sl := newSeller(t, s, "yuri")
	p := newProduct(t, s, "PS-1", "misc", "1", "12.50", 100)

	recordSale(t, s, c, sl, line{p, 2, "12.50"})
	recordSale(t, s, c, sl, line{p, 1, "12.50"})

	cs, err := s.CustomerStats(ctx, c.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cs.TotalPurchases)
	assertMoney(t, "37.50", cs.TotalSpent)

	cs, err = s.CustomerStats(ctx, idle.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, cs.TotalPurchases)
	assertMoney(t, "0.00", cs.TotalSpent)

	ss, err := s.SellerStats(ctx, sl.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, ss.TotalSales)
	assertMoney(t, "37.50", ss.TotalRevenue)
}

func testStockByCategory(t *testing.T, s store.Store) {
	newProduct(t, s, "S-1", "Drinks", "1", "2.50", 40)
	newProduct(t, s, "S-2", "Drinks", "1", "1.00", 5)
	newProduct(t, s, "S-3", "Bakery", "1", "3.00", 30)

	rows, err := s.StockByCategory(ctx, 20)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Bakery", rows[0].Category)
	assert.EqualValues(t, 1, rows[0].Products)
	assertMoney(t, "90.00", rows[0].Value)
	assert.Equal(t, models.StockHealthy, rows[0].Status)

	assert.Equal(t, "Drinks", rows[1].Category)
	assert.EqualValues(t, 2, rows[1].Products)
	assertMoney(t, "105.00", rows[1].Value)
	assert.Equal(t, models.StockLow, rows[1].Status)
}

func testSalesByPeriod(t *testing.T, s store.Store) {
	c := newCustomer(t, s, "zed")
	sl := newSeller(t, s, "amy")
	a := newProduct(t, s, "SP-A", "misc", "6", "10", 30)
	b := newProduct(t, s, "SP-B", "misc", "15", "20", 30)

	recordSale(t, s, c, sl, line{a, 2, "10"})
	recordSale(t, s, c, sl, line{b, 1, "20"})

	for _, period := range []string{"", store.PeriodToday, store.PeriodWeek, store.PeriodMonth, store.PeriodYear, store.PeriodAll} {
		got, err := s.SalesByPeriod(ctx, period)
		require.NoError(t, err, period)
		assert.Equal(t, store.NormalizePeriod(period), got.Period)
		assert.EqualValues(t, 2, got.Transactions, period)
		assertMoney(t, "40.00", got.Revenue, period)
		assertMoney(t, "13.00", got.Profit, period)
	}

	_, err := s.SalesByPeriod(ctx, "decade")
	assert.ErrorIs(t, err, store.ErrInvalid)
}

func testTopCustomers(t *testing.T, s store.Store) {
	small := newCustomer(t, s, "small")
	big := newCustomer(t, s, "big")
	newCustomer(t, s, "none")
	sl := newSeller(t, s, "ben")
	p := newProduct(t, s, "TC-1", "misc", "1", "5", 100)

	recordSale(t, s, small, sl, line{p, 1, "5"})
	recordSale(t, s, small, sl, line{p, 1, "5"})
	recordSale(t, s, big, sl, line{p, 10, "5"})

	top, err := s.TopCustomers(ctx, 5)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, big.ID, top[0].CustomerID)
	assert.Equal(t, "big", top[0].Name)
	assert.EqualValues(t, 1, top[0].Purchases)
	assertMoney(t, "50.00", top[0].Spent)
	assert.Equal(t, small.ID, top[1].CustomerID)
	assert.EqualValues(t, 2, top[1].Purchases)
	assertMoney(t, "10.00", top[1].Spent)

	top, err = s.TopCustomers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, top, 1)

	top, err = s.TopCustomers(ctx, 0)
	require.NoError(t, err)
	require.Len(t, top, 2, "a zero limit means no cap")
	assert.Equal(t, big.ID, top[0].CustomerID)
}

func testStockByCategoryByteOrder(t *testing.T, s store.Store) {
	newProduct(t, s, "BO-1", "apples", "1", "1", 1)
	newProduct(t, s, "BO-2", "Zucchini", "1", "1", 1)
	newProduct(t, s, "BO-3", "Bread", "1", "1", 1)

	rows, err := s.StockByCategory(ctx, 20)
	require.NoError(t, err)
	got := make([]string, 0, len(rows))
	for _, r := range rows {
		got = append(got, r.Category)
	}
	assert.Equal(t, []string{"Bread", "Zucchini", "apples"}, got)
}

func testReportsFollowStoreClock(t *testing.T, s store.Store) {
	c := newCustomer(t, s, "early")
	sl := newSeller(t, s, "bird")
	p := newProduct(t, s, "CLK-1", "misc", "1", "4", 10)
	recordSale(t, s, c, sl, line{p, 1, "4"})

	// Two days later yesterday's sale is no longer "today".
	prev := store.Now
	later := prev().Add(48 * time.Hour)
	store.Now = func() time.Time { return later }
	defer func() { store.Now = prev }()

	stats, err := s.DashboardStats(ctx, 20)
	require.NoError(t, err)
	assertMoney(t, "0.00", stats.TodaysSales)

	today, err := s.SalesByPeriod(ctx, store.PeriodToday)
	require.NoError(t, err)
	assert.EqualValues(t, 0, today.Transactions)

	week, err := s.SalesByPeriod(ctx, store.PeriodWeek)
	require.NoError(t, err)
	assert.EqualValues(t, 1, week.Transactions)
}
