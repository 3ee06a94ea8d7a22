package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nroyer/docseal/internal/batch"
	"github.com/nroyer/docseal/internal/config"
	"github.com/nroyer/docseal/internal/event"
	"github.com/nroyer/docseal/internal/pdf"
	"github.com/nroyer/docseal/internal/protect"
	"github.com/nroyer/docseal/internal/tui"
)

var protectCmd = &cobra.Command{
	Use:   "protect <input-dir> <output-dir>",
	Short: "Write-protect a tree of PDF documents",
	Long: `Encrypt every matching document under input-dir with a fresh owner
password (empty user password) and write the result to the mirrored
path under output-dir. Already-encrypted inputs are copied through
unchanged and existing outputs are left alone, so an interrupted run
can simply be repeated.`,
	Args: cobra.ExactArgs(2),
	RunE: runProtect,
}

var (
	protectConfig         string
	protectRecursive      bool
	protectWorkers        int
	protectPasswordLength int
	protectDeleteSource   bool
	protectExt            string
	protectExclude        []string
	protectStrategy       string
	protectPermissions    string
	protectPlain          bool
	protectProgress       time.Duration
	protectLogLevel       string
	protectLogFormat      string
)

func init() {
	protectCmd.Flags().StringVar(&protectConfig, "config", "", "Path to YAML config file (defaults to docseal.yaml if present)")
	protectCmd.Flags().BoolVarP(&protectRecursive, "recursive", "r", false, "Include subdirectories")
	protectCmd.Flags().IntVarP(&protectWorkers, "workers", "w", 1, "Number of worker goroutines")
	protectCmd.Flags().IntVar(&protectPasswordLength, "password-length", 20, "Generated owner password length")
	protectCmd.Flags().BoolVar(&protectDeleteSource, "delete-source", false, "Remove each source file once its output is durably written")
	protectCmd.Flags().StringVar(&protectExt, "ext", ".pdf", "File extension to process (case-insensitive)")
	protectCmd.Flags().StringSliceVarP(&protectExclude, "exclude", "e", nil, "Regex patterns to exclude (can be repeated)")
	protectCmd.Flags().StringVar(&protectStrategy, "strategy", "positional", "Filename parsing strategy: positional|pattern")
	protectCmd.Flags().StringVar(&protectPermissions, "permissions", "strict", "Reader permission policy: strict|signing")
	protectCmd.Flags().BoolVar(&protectPlain, "plain", false, "Disable the live dashboard; print one line per file")
	protectCmd.Flags().DurationVar(&protectProgress, "progress-interval", 30*time.Second, "Emit progress lines to stderr at this interval when not a TTY (0 to disable)")
	protectCmd.Flags().StringVar(&protectLogLevel, "log-level", "info", "Log level: debug|info|warn|error")
	protectCmd.Flags().StringVar(&protectLogFormat, "log-format", "text", "Per-file output format in plain mode: text|json")
}

func runProtect(cmd *cobra.Command, args []string) error {
	inputDir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve input path: %w", err)
	}
	outputDir, err := filepath.Abs(args[1])
	if err != nil {
		return fmt.Errorf("failed to resolve output path: %w", err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyProtectFlags(cmd, cfg)

	opts, err := cfg.BatchOptions()
	if err != nil {
		return err
	}

	runID := uuid.New().String()
	logger := event.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format).With("run", runID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nCanceling... (press Ctrl+C again to force)")
		cancel()
		<-sigCh
		os.Exit(130)
	}()

	startTime := time.Now()

	var sum protect.Summary
	var runErr error

	if isTerminal() && !protectPlain {
		model := tui.NewModel(inputDir, outputDir, cancel)
		p := tea.NewProgram(model)
		runner := batch.NewRunner(opts, pdf.Probe{}, pdf.Encryptor{}, tui.Sink{Program: p})

		done := make(chan struct{})
		go func() {
			defer close(done)
			sum, runErr = runner.Run(ctx, inputDir, outputDir)
			p.Send(tui.DoneMsg{Summary: sum, Err: runErr})
		}()

		if _, err := p.Run(); err != nil {
			cancel()
			<-done
			return fmt.Errorf("dashboard error: %w", err)
		}
		// The operator may have quit mid-run; the cancel above stops the
		// workers and Run returns a partial summary.
		<-done
	} else {
		var sink event.Sink
		if cfg.Log.Format == "json" {
			sink = event.SlogSink{L: logger}
		} else {
			sink = event.ConsoleSink{W: os.Stdout}
		}
		runner := batch.NewRunner(opts, pdf.Probe{}, pdf.Encryptor{}, sink)

		progressDone := make(chan struct{})
		if protectProgress > 0 && !isTerminal() {
			go func() {
				ticker := time.NewTicker(protectProgress)
				defer ticker.Stop()
				for {
					select {
					case <-progressDone:
						return
					case <-ticker.C:
						pr := runner.Progress()
						fmt.Fprintf(os.Stderr, "PROGRESS processed=%d protected=%d copied=%d skipped=%d errors=%d elapsed=%s\n",
							pr.Processed, pr.Protected, pr.Copied, pr.Skipped, pr.Errors,
							time.Since(startTime).Round(time.Second))
					}
				}
			}()
		}

		sum, runErr = runner.Run(ctx, inputDir, outputDir)
		close(progressDone)
	}

	if runErr != nil {
		if !errors.Is(runErr, context.Canceled) {
			return fmt.Errorf("protect failed: %w", runErr)
		}
		fmt.Fprintln(os.Stderr, "Run canceled; partial results below. Re-run to resume.")
	}

	if sum.Found == 0 && runErr == nil {
		fmt.Printf("No %s files found under %s\n", config.NormalizeExt(cfg.Protect.Ext), inputDir)
	}
	printSummary(sum, time.Since(startTime))

	// Per-file errors are reported in the summary, not via the exit code.
	if sum.Errors > 0 {
		logger.Warn("run finished with errors", "errors", sum.Errors)
	}
	return nil
}

func applyProtectFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("recursive") {
		cfg.Protect.Recursive = protectRecursive
	}
	if flags.Changed("workers") {
		cfg.Protect.Workers = protectWorkers
	}
	if flags.Changed("password-length") {
		cfg.Protect.PasswordLength = protectPasswordLength
	}
	if flags.Changed("delete-source") {
		cfg.Protect.DeleteSource = protectDeleteSource
	}
	if flags.Changed("ext") {
		cfg.Protect.Ext = protectExt
	}
	if flags.Changed("strategy") {
		cfg.Protect.Strategy = protectStrategy
	}
	if flags.Changed("permissions") {
		cfg.Protect.Policy = protectPermissions
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = protectLogLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = protectLogFormat
	}
	if len(protectExclude) > 0 {
		cfg.Protect.Exclude = append(cfg.Protect.Exclude, protectExclude...)
	}
}

func printSummary(sum protect.Summary, elapsed time.Duration) {
	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Found: %s\n", humanize.Comma(sum.Found))
	fmt.Printf("  Protected: %s\n", humanize.Comma(sum.Protected))
	fmt.Printf("  Copied (already protected): %s\n", humanize.Comma(sum.SkippedAlreadyProtected))
	fmt.Printf("  Skipped (output exists): %s\n", humanize.Comma(sum.SkippedOutputExists))
	if sum.Unreadable > 0 {
		fmt.Printf("  Unreadable: %s\n", humanize.Comma(sum.Unreadable))
	}
	if sum.Warnings > 0 {
		fmt.Printf("  Warnings: %s\n", humanize.Comma(sum.Warnings))
	}
	if sum.Errors > 0 {
		fmt.Printf("  Errors: %s\n", humanize.Comma(sum.Errors))
	}
	fmt.Printf("  Written: %s\n", humanize.Bytes(uint64(sum.BytesWritten)))
	fmt.Printf("Completed in %s\n", elapsed.Round(time.Millisecond))
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		if _, err := os.Stat("docseal.yaml"); err == nil {
			path = "docseal.yaml"
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
