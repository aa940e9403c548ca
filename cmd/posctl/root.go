package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/mostrador-api/internal/infrastructure/postgres"
	"github.com/jhoicas/mostrador-api/pkg/config"
	"github.com/jhoicas/mostrador-api/pkg/logger"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "posctl",
	Short: "Herramientas de operación de mostrador-api",
	Long: `posctl administra la base de datos de mostrador-api.

La conexión se toma de las mismas variables que la API (DATABASE_URL o DB_HOST,
DB_PORT, DB_USER, DB_PASSWORD, DB_NAME), leyendo también un .env si existe.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "nivel de log (debug, info, warn, error)")
}

// env configuración y logger compartidos por los subcomandos.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

func loadEnv(cmd *cobra.Command, component string) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	level, _ := cmd.Flags().GetString("log-level")
	log := logger.New(logger.Config{Env: "development", Level: level, Output: cmd.ErrOrStderr()})
	return &env{cfg: cfg, log: log.WithComponent(component)}, nil
}

func (e *env) pool(ctx context.Context) (*pgxpool.Pool, error) {
	pool, err := postgres.NewPool(ctx, e.cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("conectar a PostgreSQL: %w", err)
	}
	return pool, nil
}
