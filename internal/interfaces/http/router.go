package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mostrador-api/internal/application/analytics"
	"github.com/jhoicas/mostrador-api/internal/application/auth"
	"github.com/jhoicas/mostrador-api/internal/application/documents"
	"github.com/jhoicas/mostrador-api/internal/application/inventory"
	"github.com/jhoicas/mostrador-api/internal/application/sales"
	"github.com/jhoicas/mostrador-api/internal/application/tenant"
	"github.com/jhoicas/mostrador-api/internal/application/usecase"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AppName       string
	AuthUC        *auth.AuthUseCase
	CompanyUC     *usecase.CompanyUseCase
	UserUC        *usecase.UserUseCase
	ClientUC      *usecase.ClientUseCase
	CategoryUC    *usecase.CategoryUseCase
	ProductUC     *usecase.ProductUseCase
	StockUC       *inventory.StockUseCase
	Replenishment *inventory.ReplenishmentUseCase
	SaleUC        *sales.SaleUseCase
	DocumentUC    *documents.DocumentUseCase
	StatsUC       *analytics.StatsUseCase
	Resolver      *tenant.Resolver
	Signer        *jwt.Signer
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.AppName})
	})

	api := app.Group("/api")

	// Middlewares de las rutas con empresa: sesión opcional + resolución de empresa.
	// Sin token solo pasan si el modo demo está activo.
	tenantScoped := []fiber.Handler{OptionalAuth(deps.Signer), TenantMiddleware(deps.Resolver)}
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/dev-login", authHandler.DevLogin)
	authGroup.Get("/me", append(tenantScoped, authHandler.Me)...)

	// Fiscal (público)
	api.Get("/fiscal/cuit/:cuit", CheckCUIT)

	// Company
	company := api.Group("/company", tenantScoped...)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	company.Get("/", companyHandler.Get)
	company.Put("/", adminOnly, companyHandler.Update)

	// Users: escritura solo admin (el propio usuario puede editarse a sí mismo)
	users := api.Group("/users", tenantScoped...)
	userHandler := NewUserHandler(deps.UserUC)
	users.Get("/", userHandler.List)
	users.Post("/", adminOnly, userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Put("/:id", userHandler.Update)
	users.Delete("/:id", adminOnly, userHandler.Delete)

	// Clients
	clients := api.Group("/clients", tenantScoped...)
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Put("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	// Categories
	categories := api.Group("/categories", tenantScoped...)
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Get("/", categoryHandler.List)
	categories.Post("/", categoryHandler.Create)
	categories.Put("/:id", categoryHandler.Update)
	categories.Delete("/:id", categoryHandler.Delete)

	// Products
	products := api.Group("/products", tenantScoped...)
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Stock
	stock := api.Group("/stock", tenantScoped...)
	stockHandler := NewStockHandler(deps.StockUC, deps.Replenishment)
	stock.Get("/", stockHandler.List)
	stock.Post("/", stockHandler.Adjust)
	stock.Get("/replenishment", stockHandler.Replenishment)
	stock.Get("/:productId/movements", stockHandler.Movements)

	// Sales
	salesGroup := api.Group("/sales", tenantScoped...)
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Post("/:id/cancel", saleHandler.Cancel)

	// Documents
	docs := api.Group("/documents", tenantScoped...)
	documentHandler := NewDocumentHandler(deps.DocumentUC)
	docs.Get("/", documentHandler.List)
	docs.Post("/", documentHandler.Create)
	docs.Get("/:id", documentHandler.GetByID)
	docs.Put("/:id", documentHandler.Update)
	docs.Delete("/:id", documentHandler.Delete)
	docs.Post("/:id/authorize", documentHandler.Authorize)

	// Stats
	statsHandler := NewStatsHandler(deps.StatsUC)
	api.Get("/stats", append(tenantScoped, statsHandler.Get)...)
}
