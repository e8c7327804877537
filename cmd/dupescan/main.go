package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fenilsonani/dupescan/internal/config"
	"github.com/fenilsonani/dupescan/internal/reporter"
	"github.com/fenilsonani/dupescan/internal/scanner"
	"github.com/fenilsonani/dupescan/internal/ui"
	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath  string
	excludes    []string
	minSize     string
	workers     int
	prefixSize  string
	digest      string
	outputFmt   string
	outputFile  string
	noProgress  bool
	interactive bool
	verbose     bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "dupescan",
	Short: "Duplicate file scanner",
	Long: `Dupescan finds sets of byte-identical files under a directory tree.
It avoids reading most file contents by bucketing on size first and
confirming candidates with a cheap prefix hash before a full-content hash.

Dupescan never deletes or moves anything; it reports what it finds so
other tools (or you) can act on it.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
}

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Scan a directory tree for duplicate files",
	Long: `Scans the given directory (default: current directory) and reports
groups of files with identical content, most reclaimable space first.

A scan interrupted with Ctrl-C still prints the groups confirmed so far,
marked as a partial result.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		applyFlags(cmd, cfg)

		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		opts, err := cfg.ScannerOptions(root)
		if err != nil {
			return err
		}

		scnr, err := scanner.New(opts)
		if err != nil {
			return err
		}

		if interactive {
			return ui.RunInteractive(scnr)
		}

		if cfg.Format == "" {
			cfg.Format = string(reporter.FormatSummary)
		}
		format, err := reporter.ParseFormat(cfg.Format)
		if err != nil {
			return err
		}

		// Ctrl-C cancels cooperatively; the partial result still reports.
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		stopProgress := func() {}
		if !cfg.NoProgress {
			live := ui.NewLiveProgress()
			updates := scnr.Tracker().Subscribe()
			done := make(chan struct{})
			go func() {
				defer close(done)
				for snap := range updates {
					live.Update(snap)
				}
			}()
			stopProgress = func() {
				scnr.Tracker().Unsubscribe(updates)
				<-done
				live.Finish()
			}
		}

		result, err := scnr.Scan(ctx)
		stopProgress()
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}

		sink := os.Stdout
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			defer f.Close()
			sink = f
		}

		if err := reporter.New(sink, format).Report(result); err != nil {
			// A rendering failure is not a scan failure; say which it was.
			return fmt.Errorf("failed to render report: %w", err)
		}

		if result.Partial {
			fmt.Fprintln(os.Stderr, "note: scan was cancelled; result is partial")
		}

		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage dupescan configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			var err error
			path, err = config.GetConfigPath()
			if err != nil {
				return fmt.Errorf("failed to determine config path: %w", err)
			}
		}

		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s", path)
		}

		if err := config.Save(config.GetDefault(), path); err != nil {
			return err
		}

		fmt.Printf("Wrote default config to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("exclude_patterns: %v\n", cfg.ExcludePatterns)
		fmt.Printf("min_file_size: %s\n", cfg.MinFileSize)
		fmt.Printf("workers: %d\n", cfg.Workers)
		fmt.Printf("prefix_size: %s\n", cfg.PrefixSize)
		fmt.Printf("digest: %s\n", cfg.Digest)
		fmt.Printf("format: %s\n", cfg.Format)
		return nil
	},
}

// loadConfig loads configuration from the configured or default path
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.GetConfigPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// applyFlags overrides loaded config with explicitly set flags
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("exclude") {
		cfg.ExcludePatterns = excludes
	}
	if cmd.Flags().Changed("min-size") {
		cfg.MinFileSize = minSize
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if cmd.Flags().Changed("prefix-size") {
		cfg.PrefixSize = prefixSize
	}
	if cmd.Flags().Changed("digest") {
		cfg.Digest = digest
	}
	if cmd.Flags().Changed("format") {
		cfg.Format = outputFmt
	}
	if cmd.Flags().Changed("no-progress") {
		cfg.NoProgress = noProgress
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	scanCmd.Flags().StringSliceVarP(&excludes, "exclude", "e", nil, "glob patterns to exclude (repeatable)")
	scanCmd.Flags().StringVarP(&minSize, "min-size", "m", "", "minimum file size to consider (e.g. 1k, 10M)")
	scanCmd.Flags().IntVarP(&workers, "workers", "w", 0, "hashing worker count (0 = host parallelism)")
	scanCmd.Flags().StringVar(&prefixSize, "prefix-size", "", "partial-hash prefix size (e.g. 8k, 64k)")
	scanCmd.Flags().StringVar(&digest, "digest", "", "digest algorithm: sha256 or blake2b")
	scanCmd.Flags().StringVarP(&outputFmt, "format", "f", "", "output format: summary, groups, json or yaml")
	scanCmd.Flags().StringVarP(&outputFile, "output", "o", "", "write the report to a file instead of stdout")
	scanCmd.Flags().BoolVar(&noProgress, "no-progress", false, "disable the live progress line")
	scanCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse results in an interactive TUI")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(configCmd)
}
