package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/gridironlabs/pregame/pkg/evidence"
	"github.com/gridironlabs/pregame/pkg/vecstore"
)

func newNotesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage the scouting note index",
	}
	cmd.AddCommand(newNotesAddCmd(), newNotesSearchCmd())
	return cmd
}

func newNotesAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Add a scouting note to the index",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runNotesAdd,
	}
	cmd.Flags().StringSlice("teams", nil, "Teams the note concerns")
	return cmd
}

func newNotesSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the note index",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runNotesSearch,
	}
	cmd.Flags().IntP("limit", "n", 5, "Maximum hits to show")
	return cmd
}

func runNotesAdd(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")

	teams, _ := cmd.Flags().GetStringSlice("teams")
	abbrs := make([]string, 0, len(teams))
	for _, t := range teams {
		abbr, err := evidence.TeamAbbreviation(t)
		if err != nil {
			return err
		}
		abbrs = append(abbrs, abbr)
	}

	store := vecstore.NewNoteStore(cfg.Notes.Path)
	if err := store.Load(); err != nil {
		return fmt.Errorf("loading note index: %w", err)
	}

	embedder := vecstore.NewHashEmbedder()
	store.Upsert(vecstore.Note{
		ID:        uuid.New().String(),
		Text:      text,
		Teams:     abbrs,
		Embedding: embedder.Embed(text),
		UpdatedAt: time.Now().UTC(),
	})
	if err := store.Save(); err != nil {
		return fmt.Errorf("saving note index: %w", err)
	}

	fmt.Printf("Indexed. %d notes total.\n", store.Len())
	return nil
}

func runNotesSearch(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store := vecstore.NewNoteStore(cfg.Notes.Path)
	if err := store.Load(); err != nil {
		return fmt.Errorf("loading note index: %w", err)
	}

	embedder := vecstore.NewHashEmbedder()
	hits := store.Search(embedder.Embed(strings.Join(args, " ")), limit, 0)
	if len(hits) == 0 {
		fmt.Println("No matching notes.")
		return nil
	}
	for _, hit := range hits {
		fmt.Printf("%.3f  %s\n", hit.Score, hit.Text)
	}
	return nil
}
