package system

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/stgeorge_backend/config"
	"github.com/Alijeyrad/stgeorge_backend/internal/app"
	"github.com/Alijeyrad/stgeorge_backend/pkg/authorize"
)

func NewMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the record store tables and check the policy table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd)
			if err != nil {
				return err
			}

			timeout := time.Duration(cfg.Server.TimeoutSeconds) * time.Second
			if timeout <= 0 {
				timeout = 30 * time.Second
			}
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()

			if cfg.Store.Driver == config.StoreDriverPostgres {
				fmt.Println("Running migrations for the record store.")
				// OpenBackend applies the schema for the postgres driver.
				_, closeStore, err := app.OpenStore(ctx, cfg)
				if err != nil {
					return fmt.Errorf("failed to run migrations: %w", err)
				}
				closeStore()
			} else {
				fmt.Printf("Store driver is %q, no schema to migrate.\n", cfg.Store.Driver)
			}

			// Policies are in memory; this only proves the table loads.
			slog.Info("Checking casbin policies...")
			enforcer, err := authorize.NewEnforcer()
			if err != nil {
				return fmt.Errorf("failed to create enforcer: %w", err)
			}
			auth, err := authorize.NewAuthorization(enforcer, authorize.FromCentralConfig(cfg.Authorization))
			if err != nil {
				return fmt.Errorf("failed to create authorization: %w", err)
			}
			if err := authorize.SeedDefaultPolicies(ctx, auth); err != nil {
				return fmt.Errorf("failed to seed policies: %w", err)
			}

			fmt.Println("Migrations executed successfully.")
			return nil
		},
	}

	return cmd
}
