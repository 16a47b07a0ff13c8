package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/Alijeyrad/stgeorge_backend/cmd/http"
	schedulecmd "github.com/Alijeyrad/stgeorge_backend/cmd/schedule"
	systemcmd "github.com/Alijeyrad/stgeorge_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "stgeorge",
	Short: "St. George hospital management backend.",
	Long: `St. George runs the hospital's patient, doctor and appointment records.
It serves the front desk, the doctors and the patient portal from one HTTP API.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
	rootCmd.AddCommand(schedulecmd.NewScheduleCommand())
}
