package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/mostrador-api/internal/infrastructure/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Aplica o revierte las migraciones del esquema",
	Long: `Las migraciones van embebidas en el binario. Con MIGRATIONS_PATH se leen
desde ese directorio en su lugar.`,
	Example: `  posctl migrate up
  posctl migrate down --steps 1
  posctl migrate version`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Aplica las migraciones pendientes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(m *postgres.Migrator) error {
			return m.Up()
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revierte migraciones (--steps 0 revierte todas)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		steps, _ := cmd.Flags().GetInt("steps")
		return withMigrator(cmd, func(m *postgres.Migrator) error {
			return m.Down(steps)
		})
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Muestra la versión actual del esquema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(cmd, func(m *postgres.Migrator) error {
			v, dirty, err := m.Version()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "versión %d", v)
			if dirty {
				fmt.Fprint(cmd.OutOrStdout(), " (dirty)")
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		})
	},
}

func init() {
	migrateDownCmd.Flags().Int("steps", 1, "cantidad de migraciones a revertir")
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}

func withMigrator(cmd *cobra.Command, fn func(*postgres.Migrator) error) error {
	e, err := loadEnv(cmd, "migrate")
	if err != nil {
		return err
	}
	m, err := postgres.NewMigrator(e.cfg.DB.ConnectionString(), e.cfg.DB.MigrationsPath, e.log)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}
