package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	appanalytics "github.com/jhoicas/mostrador-api/internal/application/analytics"
	"github.com/jhoicas/mostrador-api/internal/application/auth"
	"github.com/jhoicas/mostrador-api/internal/application/documents"
	"github.com/jhoicas/mostrador-api/internal/application/idempotency"
	"github.com/jhoicas/mostrador-api/internal/application/inventory"
	"github.com/jhoicas/mostrador-api/internal/application/sales"
	"github.com/jhoicas/mostrador-api/internal/application/tenant"
	"github.com/jhoicas/mostrador-api/internal/application/usecase"
	"github.com/jhoicas/mostrador-api/internal/domain/fiscal"
	"github.com/jhoicas/mostrador-api/internal/infrastructure/cache"
	"github.com/jhoicas/mostrador-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/mostrador-api/internal/interfaces/http"
	"github.com/jhoicas/mostrador-api/pkg/config"
	"github.com/jhoicas/mostrador-api/pkg/jwt"
	"github.com/jhoicas/mostrador-api/pkg/logger"
	"github.com/jhoicas/mostrador-api/pkg/money"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Bool("demo", cfg.App.DemoEnabled()).
		Msg("iniciando aplicación")
	if cfg.App.DemoMode && !cfg.App.DemoEnabled() {
		log.Warn().Msg("APP_DEMO_MODE ignorado en production")
	}

	ctx := context.Background()

	if cfg.DB.AutoMigrate {
		m, err := postgres.NewMigrator(cfg.DB.ConnectionString(), cfg.DB.MigrationsPath, log)
		if err != nil {
			log.Fatal().Err(err).Msg("preparar migraciones")
		}
		if err := m.Up(); err != nil {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		_ = m.Close()
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)

	idemStore := cache.NewStore(ctx, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, log)
	defer idemStore.Close()
	guard := idempotency.NewGuard(idemStore, time.Duration(cfg.Idempotency.TTLMinutes)*time.Minute, log)

	signer := jwt.NewSigner(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.Expiration)*time.Minute)
	authorizer := fiscal.NewAuthorizer(time.Duration(cfg.Fiscal.CAEDelayMillis) * time.Millisecond)
	demo := cfg.App.DemoEnabled()

	deps := httpRouter.RouterDeps{
		AppName:       cfg.App.Name,
		AuthUC:        auth.NewAuthUseCase(txRunner, repos.Users, repos.Companies, signer, demo, log),
		CompanyUC:     usecase.NewCompanyUseCase(repos.Companies),
		UserUC:        usecase.NewUserUseCase(txRunner, repos.Users, log),
		ClientUC:      usecase.NewClientUseCase(repos.Clients),
		CategoryUC:    usecase.NewCategoryUseCase(repos.Categories),
		ProductUC:     usecase.NewProductUseCase(txRunner, repos.Products, repos.Stock, repos.Categories, log),
		StockUC:       inventory.NewStockUseCase(txRunner, repos.Products, repos.Stock, repos.Movements, log),
		Replenishment: inventory.NewReplenishmentUseCase(repos.Stock, repos.Products, repos.Analytics),
		SaleUC:        sales.NewSaleUseCase(txRunner, repos.Sales, repos.Clients, guard, log),
		DocumentUC: documents.NewDocumentUseCase(
			txRunner, repos.Documents, repos.Clients, repos.Companies, authorizer, guard, log,
		),
		StatsUC:  appanalytics.NewStatsUseCase(repos.Analytics, repos.Stock, money.Default()),
		Resolver: tenant.NewResolver(repos.Companies, repos.Users, demo),
		Signer:   signer,
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.NewErrorHandler(),
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
		ExposeHeaders: "X-Request-ID, Idempotent-Replay",
	}))
	app.Use(httpRouter.RequestLogger(log.WithComponent("http")))
	if !cfg.App.IsProduction() {
		app.Use(httpRouter.ExposeErrors())
	}

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Mostrador API",
		}))
	}

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
