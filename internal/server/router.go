package server

import (
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go-pos-inventory/internal/auth"
	"go-pos-inventory/internal/handlers"
	"go-pos-inventory/internal/middleware"
	"go-pos-inventory/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Options carries everything the router needs. Issuer and Accounts are nil
// when auth is disabled; Assistant is nil when no API key is configured.
type Options struct {
	Store             store.Store
	Log               *zap.Logger
	LowStockThreshold int
	AllowedOrigins    []string
	WebDir            string
	Issuer            *auth.TokenIssuer
	Accounts          *auth.Accounts
	Assistant         handlers.Asker
}

func NewRouter(opts Options) *gin.Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(log), middleware.Recovery(log))
	r.Use(cors.New(corsConfig(opts.AllowedOrigins)))

	h := handlers.New(opts.Store, log, opts.LowStockThreshold)
	assistant := handlers.NewAssistantHandler(opts.Assistant, log)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "online", "store": opts.Store.Kind()})
	})

	api := r.Group("/api")
	authEnabled := opts.Issuer != nil
	if authEnabled {
		login := handlers.NewLoginHandler(opts.Issuer, opts.Accounts, log)
		api.POST("/auth/login", login.Login)
	}

	// --- PROTECTED ROUTES ---
	staff := api.Group("")
	admin := api.Group("")
	if authEnabled {
		staff.Use(middleware.AuthMiddleware(opts.Issuer))
		admin.Use(middleware.AuthMiddleware(opts.Issuer), middleware.RequireRole(auth.RoleAdmin))
	}

	// STAFF & ADMIN: reads and checkout
	{
		staff.GET("/suppliers", h.ListSuppliers)
		staff.GET("/suppliers/:id", h.GetSupplier)
		staff.GET("/customers", h.ListCustomers)
		staff.GET("/customers/:id", h.GetCustomer)
		staff.POST("/customers", h.CreateCustomer)
		staff.GET("/sellers", h.ListSellers)
		staff.GET("/sellers/:id", h.GetSeller)

		staff.GET("/products", h.GetProducts)
		staff.GET("/products/:id", h.GetProduct)
		staff.GET("/products/code/:stockCode", h.ScanProduct)

		staff.GET("/sales", h.ListSales)
		staff.GET("/sales/recent", h.RecentSales)
		staff.GET("/sales/:id", h.GetSale)
		staff.POST("/sales", h.ProcessSale)

		staff.GET("/dashboard/stats", h.GetDashboardStats)
		staff.GET("/dashboard/low-stock", h.GetLowStock)
	}

	// ADMIN ONLY: catalog changes, deletes, reports, assistant
	{
		admin.POST("/suppliers", h.CreateSupplier)
		admin.PATCH("/suppliers/:id", h.UpdateSupplier)
		admin.DELETE("/suppliers/:id", h.DeleteSupplier)
		admin.PATCH("/customers/:id", h.UpdateCustomer)
		admin.DELETE("/customers/:id", h.DeleteCustomer)
		admin.POST("/sellers", h.CreateSeller)
		admin.PATCH("/sellers/:id", h.UpdateSeller)
		admin.DELETE("/sellers/:id", h.DeleteSeller)

		admin.POST("/products", h.AddProduct)
		admin.PATCH("/products/:id", h.UpdateProduct)
		admin.DELETE("/products/:id", h.DeleteProduct)

		admin.GET("/reports/stock", h.GetStockReport)
		admin.GET("/reports/sales", h.GetSalesReport)
		admin.GET("/reports/customers", h.GetCustomerReport)

		admin.POST("/assistant", assistant.Ask)
	}

	serveFrontend(r, opts.WebDir)
	return r
}

// corsConfig allows the listed origins with credentials. An empty list or "*"
// opens the API to any origin without credentials.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

// serveFrontend serves a built single-page app from dir. Unknown non-API
// paths fall back to index.html so client-side routing works on refresh.
func serveFrontend(r *gin.Engine, dir string) {
	index := filepath.Join(dir, "index.html")
	hasIndex := false
	if dir != "" {
		if _, err := os.Stat(index); err == nil {
			hasIndex = true
		}
	}

	r.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if !hasIndex || strings.HasPrefix(path, "/api/") || c.Request.Method != http.MethodGet {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
			return
		}
		asset := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+path)))
		if info, err := os.Stat(asset); err == nil && !info.IsDir() {
			c.File(asset)
			return
		}
		c.File(index)
	})
}
