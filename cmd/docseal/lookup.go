package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nroyer/docseal/internal/config"
	"github.com/nroyer/docseal/internal/lookup"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <workbook.xlsx>",
	Short: "Search a spreadsheet column for a value",
	Long: `Search one column of an Excel workbook for an exact match (both
sides trimmed of whitespace) and print the requested result columns for
every matching row.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

var (
	lookupConfig     string
	lookupSearch     string
	lookupColumn     string
	lookupResult     []string
	lookupSheet      string
	lookupListSheets bool
)

func init() {
	lookupCmd.Flags().StringVar(&lookupConfig, "config", "", "Path to YAML config file (defaults to docseal.yaml if present)")
	lookupCmd.Flags().StringVarP(&lookupSearch, "search", "s", "", "Value to search for")
	lookupCmd.Flags().StringVarP(&lookupColumn, "column", "c", "A", "Column to search")
	lookupCmd.Flags().StringSliceVar(&lookupResult, "result", []string{"B"}, "Result columns (can be repeated)")
	lookupCmd.Flags().StringVar(&lookupSheet, "sheet", "", "Sheet to search (default: the active sheet)")
	lookupCmd.Flags().BoolVar(&lookupListSheets, "list-sheets", false, "List the workbook's sheets and exit")
}

func runLookup(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyLookupFlags(cmd, cfg)

	if err := lookup.CheckFileType(path); err != nil {
		return err
	}

	if lookupListSheets {
		names, active, err := lookup.Sheets(path)
		if err != nil {
			return fmt.Errorf("failed to open workbook: %w", err)
		}
		for _, name := range names {
			if name == active {
				fmt.Printf("%s (active)\n", name)
			} else {
				fmt.Println(name)
			}
		}
		return nil
	}

	if lookupSearch == "" {
		return errors.New("--search is required")
	}

	matches, err := lookup.Search(path, lookupSearch, lookup.Options{
		Sheet:         cfg.Lookup.Sheet,
		SearchColumn:  cfg.Lookup.SearchColumn,
		ResultColumns: cfg.Lookup.ResultColumns,
	})
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		fmt.Printf("No match for %q in column %s\n",
			lookupSearch, strings.ToUpper(strings.TrimSpace(cfg.Lookup.SearchColumn)))
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ROW\t%s\n", strings.Join(upperAll(cfg.Lookup.ResultColumns), "\t"))
	for _, m := range matches {
		fmt.Fprintf(w, "%d\t%s\n", m.Row, strings.Join(m.Values, "\t"))
	}
	w.Flush()

	fmt.Printf("\n%s matching row(s)\n", humanize.Comma(int64(len(matches))))
	return nil
}

func applyLookupFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("sheet") {
		cfg.Lookup.Sheet = lookupSheet
	}
	if flags.Changed("column") {
		cfg.Lookup.SearchColumn = lookupColumn
	}
	if flags.Changed("result") {
		cfg.Lookup.ResultColumns = lookupResult
	}
}

func upperAll(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = strings.ToUpper(strings.TrimSpace(c))
	}
	return out
}
