package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/mostrador-api/internal/application/auth"
	"github.com/jhoicas/mostrador-api/internal/application/dto"
	"github.com/jhoicas/mostrador-api/internal/application/usecase"
	"github.com/jhoicas/mostrador-api/internal/domain"
	"github.com/jhoicas/mostrador-api/internal/domain/entity"
	"github.com/jhoicas/mostrador-api/internal/infrastructure/postgres"
	"github.com/jhoicas/mostrador-api/pkg/jwt"
)

const (
	demoCUIT     = "20-12345678-6"
	demoEmail    = "admin@demo.com.ar"
	demoPassword = "demo-1234"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Carga datos de ejemplo",
}

var seedDemoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Crea una empresa de demostración con usuario, categorías, productos y clientes",
	Long: fmt.Sprintf(`Registra la empresa CUIT %s con el usuario %s / %s.
Si la empresa ya existe no hace nada.`, demoCUIT, demoEmail, demoPassword),
	Args: cobra.NoArgs,
	RunE: runSeedDemo,
}

func init() {
	seedCmd.AddCommand(seedDemoCmd)
	rootCmd.AddCommand(seedCmd)
}

func runSeedDemo(cmd *cobra.Command, args []string) error {
	e, err := loadEnv(cmd, "seed")
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	pool, err := e.pool(ctx)
	if err != nil {
		return err
	}
	defer pool.Close()

	repos := postgres.NewRepos(pool)
	txRunner := postgres.NewTxRunner(pool)
	signer := jwt.NewSigner(e.cfg.JWT.Secret, e.cfg.JWT.Issuer, time.Duration(e.cfg.JWT.Expiration)*time.Minute)
	authUC := auth.NewAuthUseCase(txRunner, repos.Users, repos.Companies, signer, false, e.log)

	reg, err := authUC.Register(ctx, dto.RegisterRequest{
		CompanyName: "Almacén Demo",
		CUIT:        demoCUIT,
		Address:     "Av. Corrientes 1234, CABA",
		Name:        "Administrador Demo",
		Email:       demoEmail,
		Password:    demoPassword,
	})
	if errors.Is(err, domain.ErrDuplicate) || errors.Is(err, domain.ErrEmailAlreadyExists) {
		fmt.Fprintln(cmd.OutOrStdout(), "la empresa de demostración ya existe")
		return nil
	}
	if err != nil {
		return err
	}
	tc := domain.TenantContext{CompanyID: reg.Company.ID, UserID: reg.User.ID, Role: entity.RoleAdmin}

	categories := usecase.NewCategoryUseCase(repos.Categories)
	products := usecase.NewProductUseCase(txRunner, repos.Products, repos.Stock, repos.Categories, e.log)
	clients := usecase.NewClientUseCase(repos.Clients)

	catIDs := map[string]string{}
	for _, name := range []string{"Almacén", "Bebidas", "Limpieza"} {
		c, err := categories.Create(ctx, tc, dto.CreateCategoryRequest{Name: name})
		if err != nil {
			return err
		}
		catIDs[name] = c.ID
	}

	for _, p := range []struct {
		code, name, category string
		price, cost, stock   int64
	}{
		{"YER-500", "Yerba mate 500 g", "Almacén", 2500, 1600, 40},
		{"AZU-1K", "Azúcar 1 kg", "Almacén", 1200, 800, 25},
		{"GAS-225", "Gaseosa cola 2,25 l", "Bebidas", 2800, 1900, 30},
		{"AGU-15", "Agua mineral 1,5 l", "Bebidas", 900, 500, 3},
		{"LAV-750", "Lavandina 750 ml", "Limpieza", 700, 400, 12},
	} {
		_, err := products.Create(ctx, tc, dto.CreateProductRequest{
			Code:         p.code,
			Name:         p.name,
			CategoryID:   catIDs[p.category],
			Price:        decimal.NewFromInt(p.price),
			Cost:         decimal.NewFromInt(p.cost),
			InitialStock: decimal.NewFromInt(p.stock),
			MinQuantity:  decimal.NewFromInt(5),
			MaxQuantity:  decimal.NewFromInt(60),
		})
		if err != nil {
			return err
		}
	}

	for _, c := range []dto.CreateClientRequest{
		{Name: "Consumidor Final"},
		{Name: "Distribuidora del Sur SA", TaxID: "30-71234567-1", TaxCondition: entity.TaxConditionResponsableInscripto},
		{Name: "Juana Pérez", TaxID: "28123456", TaxCondition: entity.TaxConditionMonotributo},
	} {
		if _, err := clients.Create(ctx, tc, c); err != nil {
			return err
		}
	}

	e.log.Info().Str("company_id", reg.Company.ID).Msg("datos de demostración cargados")
	fmt.Fprintf(cmd.OutOrStdout(), "empresa %s creada; usuario %s / %s\n", reg.Company.ID, demoEmail, demoPassword)
	return nil
}
