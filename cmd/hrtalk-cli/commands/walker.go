package commands

import (
	"hrtalk-scraper/internal/components/telemetry"
	"hrtalk-scraper/lib/scrapers/hrtalk"

	"github.com/spf13/cobra"
)

func createWalker(cmd *cobra.Command, flags *clientFlags) *hrtalk.Walker {
	cfg, err := flags.resolve(cmd)
	if err != nil {
		exit("failed to read config", err)
	}
	opts, err := cfg.clientOptions()
	if err != nil {
		exit("failed to create http dump directory", err)
	}

	tel := telemetry.SlogAPI{}
	client := hrtalk.NewClient(tel, opts)
	return hrtalk.NewWalker(client, tel, hrtalk.WithSkipMalformed(cfg.SkipMalformed))
}
