package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/thumbkit/internal/config"
	"github.com/joshuapare/thumbkit/internal/logger"
	"github.com/joshuapare/thumbkit/pkg/thumbcache"
)

var (
	// Global flags
	verbose    bool
	quiet      bool
	jsonOut    bool
	configPath string

	cfg = config.Default()

	// numbers formats counts with thousands separators.
	numbers = message.NewPrinter(language.English)
)

var rootCmd = &cobra.Command{
	Use:   "thumbctl",
	Short: "Inspect Windows thumbnail cache databases",
	Long: `thumbctl parses Windows thumbnail and icon cache databases
(thumbcache_*.db, iconcache_*.db) from Vista through Windows 11, recovers
entries from damaged files, verifies checksums, extracts the cached images
and maps entries back to file names through the Windows Search index or by
hashing live files.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) { logger.Sync() },
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (.toml, .yaml)")
}

// setup loads the config file and starts logging.
func setup(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	opts := logger.Options{
		Enabled: cfg.Log.Dir != "" || cfg.Log.Console || verbose,
		Dir:     cfg.Log.Dir,
		Level:   cfg.Log.Level,
		Console: cfg.Log.Console || verbose,
		JSON:    cfg.Log.JSON,
	}
	if verbose {
		opts.Level = "debug"
	}
	return logger.Init(opts)
}

func execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// newEngine builds an engine from the loaded config.
func newEngine() *thumbcache.Engine {
	return thumbcache.New(thumbcache.Options{
		MaxFilenameUnits:   cfg.Parse.MaxFilenameUnits,
		NativeDecompressor: cfg.Index.Decompress,
		Logger:             logger.L,
	})
}

// Helper functions for output

// printInfo prints an info message if not in quiet mode
func printInfo(format string, args ...any) {
	if !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printError prints an error message
func printError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format, args...)
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...any) {
	if verbose && !quiet {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printJSON outputs data as JSON
func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// count renders n with thousands separators.
func count(n int) string { return numbers.Sprintf("%d", n) }

// formatSize renders a byte count the way Explorer does.
func formatSize(size int64) string {
	switch {
	case size < 1024:
		return fmt.Sprintf("%d bytes", size)
	case size < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(size)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(1024*1024))
	}
}
