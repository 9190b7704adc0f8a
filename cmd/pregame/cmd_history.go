package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridironlabs/pregame/pkg/history"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List archived analysis runs",
		RunE:  runHistoryList,
	}
	cmd.Flags().IntP("limit", "n", 20, "Maximum runs to show")
	cmd.AddCommand(newHistoryShowCmd())
	return cmd
}

func newHistoryShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Print one archived run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShow,
	}
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	archive, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer archive.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	records, err := archive.List(ctx, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("No archived runs.")
		return nil
	}

	for _, r := range records {
		fmt.Println(formatRunLine(r))
	}
	return nil
}

// formatRunLine renders one archived run for the list view. Run ids are
// truncated for display; rows edited by hand may carry short ones.
func formatRunLine(r history.Record) string {
	return fmt.Sprintf("%s  %.8s  %s vs %s  %.1f%%  (band %.2f)",
		r.CreatedAt.Format("2006-01-02 15:04"), r.RunID,
		r.TeamA, r.TeamB, r.WinProbabilityA*100, r.BandWidth)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	archive, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("opening history: %w", err)
	}
	defer archive.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	record, err := archive.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("loading run %s: %w", args[0], err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(record)
}
