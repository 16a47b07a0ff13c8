package schedule

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Alijeyrad/stgeorge_backend/config"
	"github.com/Alijeyrad/stgeorge_backend/internal/app"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/scheduling"
)

func NewScheduleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Doctor schedule tooling",
	}

	cmd.AddCommand(NewSlotsCommand())

	return cmd
}

func NewSlotsCommand() *cobra.Command {
	var (
		doctorID string
		date     string
		minutes  int
	)

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "Print the free appointment slots of a doctor on a date",
		Example: `  stgeorge schedule slots --doctor doc_card --date 2026-10-19
  stgeorge schedule slots --doctor doc_neuro --date 2026-10-19 --minutes 45`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, err := cmd.Root().PersistentFlags().GetString("config")
			if err != nil {
				return err
			}
			cfg, err := config.ReadConfig(filepath.Dir(cfgPath))
			if err != nil {
				return fmt.Errorf("failed to read config: %w", err)
			}
			if !cmd.Flags().Changed("minutes") {
				minutes = cfg.Booking.DefaultSlotMinutes
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			s, closeStore, err := app.OpenStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer closeStore()

			svc := scheduling.New(repository.New(s), nil)
			slots, err := svc.ComputeAvailableSlots(ctx, doctorID, date, minutes)
			if err != nil {
				return err
			}
			if len(slots) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No free %d-minute slots for %s on %s.\n", minutes, doctorID, date)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(slots, " "))
			return nil
		},
	}

	cmd.Flags().StringVar(&doctorID, "doctor", "", "Doctor id")
	cmd.Flags().StringVar(&date, "date", "", "Date as YYYY-MM-DD")
	cmd.Flags().IntVar(&minutes, "minutes", 30, "Slot length in minutes (default booking.default_slot_minutes)")
	_ = cmd.MarkFlagRequired("doctor")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}
