package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	apperrors "github.com/commitollama/commitollama/internal/pkg/errors"
	"github.com/commitollama/commitollama/internal/pkg/history"
)

const (
	// DefaultHistoryLimit is the default number of history entries to display.
	DefaultHistoryLimit = 20
)

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "View accepted commit messages",
		Long: `View the history of accepted commit messages.

By default, displays the most recent 20 entries. Use --limit to change the number of entries shown.

Examples:
  commitollama history           # Show last 20 entries
  commitollama history --limit 5 # Show last 5 entries
  commitollama history clear     # Clear all history`,
		RunE: runHistoryList,
	}

	historyCmd.Flags().IntP("limit", "l", DefaultHistoryLimit, "Number of entries to display")
	historyCmd.AddCommand(newHistoryClearCmd())

	return historyCmd
}

// runHistoryList displays the history entries.
func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	out := cmd.OutOrStdout()

	cfgMgr, err := newConfigManager(cmd)
	if err != nil {
		return err
	}
	cfg := loadConfig(cfgMgr)

	if !cfg.History.Enabled {
		fmt.Fprintln(out, "History is disabled. Enable it with: commitollama config set history.enabled true")
		return nil
	}

	historyMgr := history.NewFileManager(cfg.History.FilePath, cfg.History.MaxEntries)
	entries, err := historyMgr.List(limit)
	if err != nil {
		return apperrors.NewFileSystemError(err, historyMgr.Path())
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No history entries found.")
		return nil
	}

	fmt.Fprintf(out, "Showing %d most recent entries:\n\n", len(entries))

	// Most recent first
	for i := len(entries) - 1; i >= 0; i-- {
		printHistoryEntry(out, entries[i], len(entries)-i)
	}
	return nil
}

// printHistoryEntry formats and prints a single history entry.
func printHistoryEntry(w io.Writer, entry *history.Entry, index int) {
	status := "not committed"
	if entry.Committed {
		status = "committed"
	}

	fmt.Fprintf(w, "[%d] %s (%s)\n", index, entry.Timestamp.Format(time.RFC3339), status)
	if entry.Repository != "" {
		fmt.Fprintf(w, "    Repository: %s\n", entry.Repository)
	}
	if entry.Model != "" {
		fmt.Fprintf(w, "    Model: %s (%s)\n", entry.Model, entry.Provider)
	}

	fmt.Fprintln(w, "    Message:")
	for _, line := range strings.Split(entry.Message, "\n") {
		fmt.Fprintf(w, "      %s\n", line)
	}

	if len(entry.Summaries) > 0 {
		fmt.Fprintln(w, "    Summaries:")
		for _, s := range entry.Summaries {
			fmt.Fprintf(w, "      - %s\n", s)
		}
	}

	fmt.Fprintln(w)
}

// newHistoryClearCmd creates the 'history clear' subcommand.
func newHistoryClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all history entries",
		Long: `Delete all entries from the history file.

This action cannot be undone.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgMgr, err := newConfigManager(cmd)
			if err != nil {
				return err
			}
			cfg := loadConfig(cfgMgr)

			historyMgr := history.NewFileManager(cfg.History.FilePath, cfg.History.MaxEntries)
			if err := historyMgr.Clear(); err != nil {
				return apperrors.NewFileSystemError(err, historyMgr.Path())
			}

			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
}
