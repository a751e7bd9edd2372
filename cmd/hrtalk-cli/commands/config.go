package commands

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"hrtalk-scraper/lib/configutil"
	"hrtalk-scraper/lib/restyutil"
	"hrtalk-scraper/lib/scrapers/hrtalk"

	"github.com/spf13/cobra"
)

type Config struct {
	UserAgent      string `json:"user_agent"`
	TimeoutSeconds int    `json:"timeout_seconds"`
	SkipMalformed  bool   `json:"skip_malformed"`
	DumpHttp       string `json:"dump_http"`

	// Timeout is resolved from --timeout or TimeoutSeconds.
	Timeout time.Duration `json:"-"`
}

// readConfig reads the config file named by --config, a missing file leaves
// every value at its default.
func readConfig() (Config, error) {
	cfg, err := configutil.ReadConfig[Config](*configName)
	if errors.Is(err, os.ErrNotExist) {
		slog.Debug("config file not found, using defaults", "name", *configName)
		return Config{}, nil
	}
	return cfg, err
}

type clientFlags struct {
	timeout       *time.Duration
	skipMalformed *bool
	dumpHttp      *string
	userAgent     *string
}

func addClientFlags(cmd *cobra.Command) *clientFlags {
	return &clientFlags{
		timeout:       cmd.Flags().Duration("timeout", hrtalk.DefaultTimeout, "The timeout of each page request."),
		skipMalformed: cmd.Flags().Bool("skip-malformed", false, "Skip posts that fail extraction instead of stopping."),
		dumpHttp:      cmd.Flags().String("dump-http", "", "A directory to write full request/response dumps to."),
		userAgent:     cmd.Flags().String("user-agent", "", "The user agent to send."),
	}
}

// resolve applies the flags the user set on top of the config file.
func (f *clientFlags) resolve(cmd *cobra.Command) (Config, error) {
	cfg, err := readConfig()
	if err != nil {
		return Config{}, err
	}

	flags := cmd.Flags()
	cfg.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	if flags.Changed("timeout") || cfg.Timeout <= 0 {
		cfg.Timeout = *f.timeout
	}
	if flags.Changed("skip-malformed") {
		cfg.SkipMalformed = *f.skipMalformed
	}
	if flags.Changed("dump-http") {
		cfg.DumpHttp = *f.dumpHttp
	}
	if flags.Changed("user-agent") {
		cfg.UserAgent = *f.userAgent
	}
	return cfg, nil
}

func (c Config) clientOptions() (hrtalk.ClientOptions, error) {
	opts := hrtalk.ClientOptions{
		UserAgent: c.UserAgent,
		Timeout:   c.Timeout,
	}
	if c.DumpHttp != "" {
		output, err := restyutil.NewFilesystemOutput(c.DumpHttp)
		if err != nil {
			return hrtalk.ClientOptions{}, err
		}
		opts.HttpDump = output
	}
	return opts, nil
}
