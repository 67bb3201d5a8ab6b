package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"mesacard/config"
	"mesacard/internal/account"
	"mesacard/internal/api"
	"mesacard/internal/menucache"
	"mesacard/internal/session"
	"mesacard/internal/tablestate"
	"mesacard/internal/webclient/handlers"
	"mesacard/internal/webclient/middleware"
)

func main() {
	cfg := config.LoadConfig()

	sessions := session.NewStore()
	clients := api.NewClients(cfg.Backend.BaseURL, sessions)
	releases := tablestate.NewStore()
	coordinator := account.NewCoordinator(clients.Orders, clients.Tables, releases)

	rdb := config.NewRedisClient(cfg.Redis)
	cache := menucache.New(rdb, clients, releases)

	authHandler := handlers.NewAuthHTTPHandler(clients.Auth, sessions)
	orderHandler := handlers.NewOrderHTTPHandler(clients.Orders, coordinator)
	tableHandler := handlers.NewTableHTTPHandler(clients.Tables, cache, releases, coordinator)
	menuHandler := handlers.NewMenuHTTPHandler(cache, clients.Orders, clients.Tables)
	productHandler := handlers.NewProductHTTPHandler(clients.Products, cache)
	categoryHandler := handlers.NewCategoryHTTPHandler(clients.Categories, cache)
	dashboardHandler := handlers.NewDashboardHTTPHandler(clients.Dashboard)

	r := gin.Default()

	r.Use(middleware.CORS())
	r.Use(middleware.RequestID())

	// --- Public API Group (customer menu, rate limited) ---
	public := r.Group("/api/v1")
	public.Use(middleware.RateLimit("60-M"))
	{
		public.POST("/auth/login", authHandler.Login)

		menu := public.Group("/menu")
		{
			menu.GET("/categories", menuHandler.Categories)
			menu.GET("/products", menuHandler.Products)
			menu.GET("/categories/:categoryId/products", menuHandler.ProductsByCategory)
			menu.GET("/tables/:tableId", menuHandler.TableInfo)
			menu.POST("/orders", menuHandler.SubmitOrder)
		}
	}

	// --- Protected API Group (staff) ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.SessionAuth(sessions))
	{
		protected.POST("/auth/logout", authHandler.Logout)
		protected.POST("/auth/register", authHandler.Register)
		protected.GET("/auth/users", authHandler.ListUsers)

		tables := protected.Group("/tables")
		{
			tables.GET("", tableHandler.ListTables)
			tables.POST("", tableHandler.CreateTable)
			tables.GET("/:tableId", tableHandler.GetTable)
			tables.PUT("/:tableId", tableHandler.UpdateTable)
			tables.DELETE("/:tableId", tableHandler.ToggleTable)
			tables.GET("/:tableId/status", tableHandler.TableStatus)
			tables.POST("/:tableId/free", tableHandler.FreeTable)

			tables.GET("/:tableId/account", orderHandler.TableAccount)
			tables.GET("/:tableId/history", orderHandler.TableHistory)
			tables.POST("/:tableId/close", orderHandler.CloseAccount)
			tables.PUT("/:tableId/orders/:orderId/complete", orderHandler.CompleteOrder)
			tables.PUT("/:tableId/orders/:orderId/cancel", orderHandler.CancelOrder)
			tables.PUT("/:tableId/orders/:orderId/pay", orderHandler.PayOrder)
		}

		orders := protected.Group("/orders")
		{
			orders.GET("", orderHandler.ListOrders)
			orders.GET("/:orderId", orderHandler.GetOrder)
		}

		products := protected.Group("/products")
		{
			products.GET("", productHandler.ListAll)
			products.POST("", productHandler.Create)
			products.GET("/:productId", productHandler.Get)
			products.PUT("/:productId", productHandler.Update)
			products.DELETE("/:productId", productHandler.Toggle)
			products.PUT("/:productId/stock", productHandler.UpdateStock)
			products.GET("/:productId/stock-history", productHandler.StockHistory)
		}

		categories := protected.Group("/categories")
		{
			categories.GET("", categoryHandler.ListAll)
			categories.POST("", categoryHandler.Create)
			categories.GET("/:categoryId", categoryHandler.Get)
			categories.PUT("/:categoryId", categoryHandler.Update)
			categories.DELETE("/:categoryId", categoryHandler.Toggle)
		}

		dashboard := protected.Group("/dashboard")
		{
			dashboard.GET("/summary", dashboardHandler.Summary)
			dashboard.GET("/top-products", dashboardHandler.TopProducts)
			dashboard.GET("/sales-report", dashboardHandler.SalesReport)
		}
	}

	addr := cfg.Server.Host + ":" + cfg.Server.Port
	log.Printf("web client listening on %s, backend at %s", addr, cfg.Backend.BaseURL)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
