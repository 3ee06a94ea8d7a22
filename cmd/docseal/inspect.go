package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/nroyer/docseal/internal/pdf"
	"github.com/nroyer/docseal/internal/protect"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <path>",
	Short: "Report the protection state of documents without writing",
	Long: `Probe a document or a directory tree and report each file as plain,
encrypted, or unreadable. Nothing is modified.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

var (
	inspectRecursive bool
	inspectExt       string
)

func init() {
	inspectCmd.Flags().BoolVarP(&inspectRecursive, "recursive", "r", false, "Include subdirectories")
	inspectCmd.Flags().StringVar(&inspectExt, "ext", ".pdf", "File extension to inspect (case-insensitive)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("failed to read path: %w", err)
	}

	probe := pdf.Probe{}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STATE\tSIZE\tPATH")

	var plain, encrypted, unreadable int64

	inspectOne := func(path string, size int64) {
		status, _ := probe.Inspect(path)
		var state string
		switch status {
		case protect.StatusEncrypted:
			state = "encrypted"
			encrypted++
		case protect.StatusUnreadable:
			state = "unreadable"
			unreadable++
		default:
			state = "plain"
			plain++
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", state, humanize.Bytes(uint64(size)), path)
	}

	ext := inspectExt
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	if !info.IsDir() {
		inspectOne(root, info.Size())
	} else {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				fmt.Fprintf(os.Stderr, "warning: %s: %v\n", path, walkErr)
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != root && !inspectRecursive {
					return fs.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() || !strings.EqualFold(filepath.Ext(path), ext) {
				return nil
			}
			fi, err := d.Info()
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: %s: %v\n", path, err)
				return nil
			}
			inspectOne(path, fi.Size())
			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to walk %s: %w", root, err)
		}
	}

	w.Flush()

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Plain: %s\n", humanize.Comma(plain))
	fmt.Printf("  Encrypted: %s\n", humanize.Comma(encrypted))
	if unreadable > 0 {
		fmt.Printf("  Unreadable: %s\n", humanize.Comma(unreadable))
	}
	return nil
}
