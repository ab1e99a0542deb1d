package database

import (
	"context"
	"strings"
	"testing"

	"go-pos-inventory/internal/config"
	"go-pos-inventory/internal/models"
	"go-pos-inventory/internal/store"
	"go-pos-inventory/internal/store/storetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      "file:" + name + "?mode=memory&cache=shared",
		LogLevel: "silent",
	}, zap.NewNop())
	require.NoError(t, err)
	return s
}

func TestStoreContract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		return openTestStore(t)
	})
}

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Driver: "oracle", DSN: "x"}, zap.NewNop())
	assert.ErrorContains(t, err, "unsupported DB_DRIVER")

	_, err = Connect(config.DatabaseConfig{Driver: "sqlite"}, zap.NewNop())
	assert.ErrorContains(t, err, "DB_DSN")
}

func TestSqlxDriverName(t *testing.T) {
	assert.Equal(t, "postgres", sqlxDriverName("postgres"))
	assert.Equal(t, "sqlite3", sqlxDriverName("sqlite"))
	assert.Equal(t, "mysql", sqlxDriverName("mysql"))
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	t.Cleanup(func() { _ = s.Close() })

	_, err := s.CreateProduct(ctx, store.ProductInput{StockCode: "PCT-1", Name: "100% cotton", Category: "Textiles"})
	require.NoError(t, err)
	_, err = s.CreateProduct(ctx, store.ProductInput{StockCode: "PCT-2", Name: "100 cotton buds", Category: "Health"})
	require.NoError(t, err)

	got, err := s.SearchProducts(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "PCT-1", got[0].StockCode)
}

func TestMoneyColumnsKeepTwoDecimals(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	t.Cleanup(func() { _ = s.Close() })

	price, err := models.ParseMoney("19.999")
	require.NoError(t, err)
	p, err := s.CreateProduct(ctx, store.ProductInput{StockCode: "RND", Name: "Rounded", Category: "x", SellingPrice: price})
	require.NoError(t, err)

	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "20.00", got.SellingPrice.String())
}
