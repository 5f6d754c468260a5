package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/dp-headlines/internal/config"
	"github.com/pfrederiksen/dp-headlines/internal/diag"
	"github.com/pfrederiksen/dp-headlines/internal/fetch"
	"github.com/pfrederiksen/dp-headlines/internal/history"
	"github.com/pfrederiksen/dp-headlines/internal/logger"
	"github.com/pfrederiksen/dp-headlines/internal/monitor"
	"github.com/pfrederiksen/dp-headlines/internal/notifier"
	"github.com/pfrederiksen/dp-headlines/internal/scraper"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

const (
	NotifyNone    = "none"
	NotifyDryRun  = "dry-run"
	NotifyTwitter = "twitter"
)

var (
	flagConfig  string
	flagDataDir string
	flagLogFile string
	flagNotify  string
	flagFormat  string
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dp-headlines",
		Short: "Record today's Daily Pennsylvanian headline",
		Long: `A scheduled scraper that records one value per day for each configured rule.
Each rule's data point is stored in a JSON history file keyed by date.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runScrape,
	}

	cmd.Flags().StringVar(&flagConfig, "config", "", "YAML configuration file (built-in rules when empty)")
	cmd.Flags().StringVar(&flagDataDir, "data-dir", config.DefaultDataDir, "Data directory for history files")
	cmd.Flags().StringVar(&flagLogFile, "log-file", config.DefaultLogFile, "Log file, rotated daily (empty disables)")
	cmd.Flags().StringVar(&flagNotify, "notify", NotifyNone, "Announce new data points: none, dry-run or twitter")
	cmd.Flags().StringVar(&flagFormat, "format", string(FormatText), "Summary format: text or json")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

// runScrape is the main command logic
func runScrape(cmd *cobra.Command, args []string) error {
	format := OutputFormat(strings.ToLower(flagFormat))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
	}

	notify := strings.ToLower(flagNotify)
	if notify != NotifyNone && notify != NotifyDryRun && notify != NotifyTwitter {
		return fmt.Errorf("invalid notify mode: %s (must be 'none', 'dry-run' or 'twitter')", flagNotify)
	}

	envErr := godotenv.Load()

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	level := logger.LevelInfo
	if flagVerbose {
		level = logger.LevelDebug
	}
	var out io.Writer = cmd.ErrOrStderr()
	if cfg.LogFile != "" {
		logFile := logger.NewDailyFile(cfg.LogFile, cfg.LogBackups)
		defer logFile.Close() // nolint:errcheck
		out = io.MultiWriter(out, logFile)
	}
	log := logger.New(level, out)

	if envErr != nil && !errors.Is(envErr, fs.ErrNotExist) {
		log.Warn("Failed to load .env file", logger.Fields{"error": envErr.Error()})
	}

	log.Info("Creating data directory if it does not exist", logger.Fields{"dir": cfg.DataDir})
	store, err := history.New(cfg.DataDir)
	if err != nil {
		log.Error("Failed to create data directory", logger.Fields{"dir": cfg.DataDir}, err)
		return err
	}

	metrics := logger.NewMetrics()
	sc := scraper.New(fetch.New(cfg.UserAgent, cfg.Timeout), log, metrics)

	opts := []monitor.Option{monitor.WithMetrics(metrics)}
	if n := newNotifier(notify, cmd.ErrOrStderr(), log); n != nil {
		opts = append(opts, monitor.WithNotifier(n))
	}

	summary, err := monitor.New(store, sc, log, opts...).Run(cmd.Context(), cfg.Rules)
	if err != nil {
		return fmt.Errorf("running monitor: %w", err)
	}

	if cwd, err := os.Getwd(); err == nil {
		diag.LogTree(log, cwd, cfg.TreeIgnore)
	}
	for _, rule := range cfg.Rules {
		diag.LogFile(log, store.Path(rule.HistoryFile))
	}

	if err := WriteOutput(cmd.OutOrStdout(), summary, format); err != nil {
		log.Warn("Failed to write summary", logger.Fields{"error": err.Error()})
	}

	log.Info("Scrape complete", logger.Fields{"saved": summary.Saved(), "rules": len(summary.Results)})
	log.Info("Exiting", nil)
	return nil
}

// loadConfig resolves the configuration from --config and flag overrides
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = flagDataDir
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = flagLogFile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newNotifier builds the notifier for mode. A Twitter notifier that cannot be
// configured is logged and skipped; it never fails the run.
func newNotifier(mode string, out io.Writer, log *logger.Logger) notifier.Notifier {
	switch mode {
	case NotifyDryRun:
		return notifier.NewDryRunNotifier(out)
	case NotifyTwitter:
		tw, err := notifier.NewTwitterNotifier()
		if err != nil {
			log.Error("Failed to initialize Twitter notifier", nil, err)
			return nil
		}
		return tw
	default:
		return nil
	}
}

// Execute runs the CLI
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(ExitError)
	}
}
