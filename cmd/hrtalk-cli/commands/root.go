package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"hrtalk-scraper/lib/telemetry"
	"hrtalk-scraper/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var (
	verbose    *bool
	configName *string
)

var otelTelemetry telemetry.Telemetry

func init() {
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug reports.")
	configName = rootCmd.PersistentFlags().String("config", "hrtalk.json5", "The config file to read defaults from.")
}

var rootCmd = &cobra.Command{
	Use:   "hrtalk-cli",
	Short: "hrtalk-cli walks hyperreal.info/talk topics and extracts their posts.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)

		tel, err := telemetry.SetupFromEnv(cmd.Context(), "hrtalk-cli")
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("telemetry.json5 not found, not exporting telemetry")
		} else if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		otelTelemetry = tel

		if tel.PerfStats {
			telemetry.InstrumentPerfStats(cmd.Context(), time.Second*15)
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		shutdownTelemetry()
	},
}

func shutdownTelemetry() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()
	if err := otelTelemetry.Shutdown(ctx); err != nil {
		slog.Warn("failed to shutdown telemetry", "err", err)
	}
}

// exit flushes telemetry before exiting with status 1, deferred calls do not
// run past os.Exit.
func exit(message string, err error) {
	shutdownTelemetry()
	serviceutil.Fatal(message, err)
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
