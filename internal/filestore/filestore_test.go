package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/store"
	"go-pos-inventory/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Open(filepath.Join(t.TempDir(), "db.json"), zap.NewNop())
		require.NoError(t, err)
		return s
	})
}

func TestOpenCreatesEmptyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "db.json")

	_, err := Open(path, nil)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	for _, key := range []string{"suppliers", "customers", "sellers", "products", "sales", "saleItems"} {
		assert.Contains(t, doc, key)
	}
}

func TestDataSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "db.json")

	s, err := Open(path, nil)
	require.NoError(t, err)
	price, err := models.ParseMoney("12.30")
	require.NoError(t, err)
	p, err := s.CreateProduct(ctx, store.ProductInput{StockCode: "PERSIST", Name: "Lamp", Category: "Home", SellingPrice: price, Quantity: 4})
	require.NoError(t, err)

	reopened, err := Open(path, nil)
	require.NoError(t, err)
	got, err := reopened.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", got.Name)
	assert.Equal(t, "12.30", got.SellingPrice.String())
	assert.True(t, p.CreatedAt.Equal(got.CreatedAt))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"sellingPrice": "12.30"`)
}

func TestOpenRejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path, nil)
	var se *store.StorageError
	assert.True(t, errors.As(err, &se))
}

func TestFailedFlushLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "data")
	path := filepath.Join(dir, "db.json")

	s, err := Open(path, nil)
	require.NoError(t, err)
	c, err := s.CreateCustomer(ctx, store.CustomerInput{Name: "Ann", Phone: "1", Email: "ann@x.test"})
	require.NoError(t, err)

	// With the directory gone the temp file cannot be created.
	require.NoError(t, os.RemoveAll(dir))

	_, err = s.CreateCustomer(ctx, store.CustomerInput{Name: "Ben", Phone: "2", Email: "ben@x.test"})
	var se *store.StorageError
	require.True(t, errors.As(err, &se))

	_, err = s.UpdateCustomer(ctx, c.ID, store.CustomerPatch{Name: ptr("Changed")})
	require.True(t, errors.As(err, &se))

	list, err := s.ListCustomers(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ann", list[0].Name)
}

func ptr[T any](v T) *T { return &v }
