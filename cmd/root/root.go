// Package root contains the root command for the application
package root

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"fjacquet/finledger/internal/config"
	"fjacquet/finledger/internal/container"
	"fjacquet/finledger/internal/dateutils"
	"fjacquet/finledger/internal/fileutils"
	"fjacquet/finledger/internal/logging"

	"github.com/spf13/cobra"
)

var (
	// ConfigFile is an explicit configuration file; empty searches the
	// standard locations.
	ConfigFile string
	// DBPath overrides database.path from the configuration.
	DBPath string

	appConfig    *config.Config
	appContainer *container.Container
	log          = logging.Discard()
	initOnce     sync.Once

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "finledger",
		Short: "A personal finance ledger with rule-based categorization.",
		Long: `finledger imports bank statements into a local double-entry ledger.
It categorizes transactions with user-defined rules, generates balanced postings,
protects closed periods and produces cashflow, category, balance and
reconciliation reports.`,
		SilenceUsage:       true,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
)

// Init registers the persistent flags of the root command. Calling it again
// has no effect.
func Init() {
	initOnce.Do(func() {
		Cmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Config file (default searches $HOME/.finledger, .finledger and .)")
		Cmd.PersistentFlags().StringVar(&DBPath, "db", "", "Ledger database file (overrides database.path)")
	})
}

func setup(cmd *cobra.Command, args []string) error {
	if _, err := config.LoadEnv(); err != nil {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := config.InitializeConfig(ConfigFile)
	if err != nil {
		return err
	}
	if DBPath != "" {
		cfg.Database.Path = DBPath
	}

	appConfig = cfg
	log = cfg.NewLogger().WithField("command", cmd.Name())
	return nil
}

func teardown(cmd *cobra.Command, args []string) error {
	if appContainer == nil {
		return nil
	}
	err := appContainer.Close()
	appContainer = nil
	return err
}

// GetConfig returns the configuration loaded for the running command.
func GetConfig() *config.Config {
	return appConfig
}

// GetLogger returns the logger of the running command.
func GetLogger() logging.Logger {
	return log
}

// GetContainer opens the ledger on first use and returns the wired
// components. The root command closes it when the command finishes.
func GetContainer(ctx context.Context) (*container.Container, error) {
	if appContainer != nil {
		return appContainer, nil
	}
	if appConfig == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c, err := container.NewContainerWithLogger(ctx, appConfig, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	appContainer = c
	return c, nil
}

// ParseDate parses a --from/--to style flag value.
func ParseDate(flag, value string) (time.Time, error) {
	d, err := dateutils.ParseISO(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s: %w", flag, err)
	}
	return d, nil
}

// WithOutput runs fn with the file named by path, or with the command's
// standard output when path is empty or "-".
func WithOutput(cmd *cobra.Command, path string, fn func(w io.Writer) error) error {
	if path == "" || path == fileutils.Stdio {
		return fn(cmd.OutOrStdout())
	}

	out, err := fileutils.CreateOutput(path)
	if err != nil {
		return err
	}
	if err := fn(out); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	log.Info("Output written", logging.F(logging.FieldFile, path))
	return nil
}

// PrintJSON writes v as indented JSON to the command's output.
func PrintJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ParseID parses a positive numeric id argument.
func ParseID(entity, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id: %s", entity, arg)
	}
	return id, nil
}

// ResolveRange turns --month or --from/--to into an inclusive range.
func ResolveRange(month, from, to string) (time.Time, time.Time, error) {
	if month != "" {
		if from != "" || to != "" {
			return time.Time{}, time.Time{}, fmt.Errorf("--month cannot be combined with --from or --to")
		}
		return dateutils.ParseMonth(month)
	}
	if from == "" || to == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("a period is required: use --month or both --from and --to")
	}
	start, err := ParseDate("from", from)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate("to", to)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}
