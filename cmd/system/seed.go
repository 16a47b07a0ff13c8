package system

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/stgeorge_backend/internal/app"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
	"github.com/Alijeyrad/stgeorge_backend/internal/seed"
)

func NewSeedCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load the demo hospital data set into the record store",
		Long: `Load the demo branches, users, doctors, patients, schedules and
appointments. An already populated store is left alone unless --force is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := readConfig(cmd)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()

			s, closeStore, err := app.OpenStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer closeStore()

			seeded, err := seed.Demo(ctx, repository.New(s), time.Now(), force)
			if err != nil {
				return fmt.Errorf("failed to seed: %w", err)
			}
			if !seeded {
				fmt.Println("Store already has users, nothing seeded (use --force to overwrite).")
				return nil
			}
			fmt.Println("Demo data seeded successfully.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing records")

	return cmd
}
