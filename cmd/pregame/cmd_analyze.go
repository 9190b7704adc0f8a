package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gridironlabs/pregame/pkg/agents"
	"github.com/gridironlabs/pregame/pkg/analysis"
	"github.com/gridironlabs/pregame/pkg/bus"
	"github.com/gridironlabs/pregame/pkg/evidence"
	"github.com/gridironlabs/pregame/pkg/history"
	"github.com/gridironlabs/pregame/pkg/logger"
	"github.com/gridironlabs/pregame/pkg/providers"
	"github.com/gridironlabs/pregame/pkg/ratelimit"
	"github.com/gridironlabs/pregame/pkg/vecstore"
)

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze <team-a> <team-b>",
		Short: "Analyze one matchup and print the win probability",
		Args:  cobra.ExactArgs(2),
		RunE:  runAnalyze,
	}
	cmd.Flags().StringP("date", "d", "", "Game date (YYYY-MM-DD, default next Sunday)")
	cmd.Flags().String("fixtures", "", "Evidence fixture file instead of live APIs")
	cmd.Flags().Bool("json", false, "Print the full result as JSON")
	cmd.Flags().StringP("output", "o", "", "Also write the result to this file")
	cmd.Flags().Bool("quiet", false, "Suppress per-task progress output")
	cmd.Flags().StringSlice("require", nil, "Agent kinds that must complete cleanly")
	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	teamA, teamB := args[0], args[1]

	gameDate, err := resolveGameDate(cmd)
	if err != nil {
		return err
	}

	provider, err := buildProvider(cmd)
	if err != nil {
		return err
	}
	reasoner := buildReasoner()

	required, err := resolveRequired(cmd)
	if err != nil {
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	quiet, _ := cmd.Flags().GetBool("quiet")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events := bus.New()
	done := make(chan struct{})
	go func() {
		defer close(done)
		printProgress(ctx, events, quiet || asJSON)
	}()

	result, runErr := analysis.Run(ctx, teamA, teamB, gameDate, provider, reasoner, analysis.Options{
		MaxConcurrency: cfg.Run.MaxConcurrency,
		PerTaskTimeout: time.Duration(cfg.Run.PerTaskTimeoutSecs) * time.Second,
		RequiredAgents: required,
		Events:         events,
	})
	events.Close()
	<-done
	if runErr != nil {
		return runErr
	}

	if cfg.History.Enabled {
		archiveResult(teamA, teamB, gameDate, result)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		renderResult(os.Stdout, teamA, teamB, result)
	}

	if output, _ := cmd.Flags().GetString("output"); output != "" {
		return writeResultFile(output, asJSON, teamA, teamB, result)
	}
	return nil
}

// resolveGameDate parses --date, defaulting to the next Sunday.
func resolveGameDate(cmd *cobra.Command) (time.Time, error) {
	raw, _ := cmd.Flags().GetString("date")
	if raw == "" {
		d := time.Now()
		for d.Weekday() != time.Sunday {
			d = d.AddDate(0, 0, 1)
		}
		return d, nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: want YYYY-MM-DD", raw)
	}
	return d, nil
}

// buildProvider assembles the evidence source mux: fixtures when requested,
// the live API clients otherwise, with note retrieval layered on when the
// scouting index is enabled.
func buildProvider(cmd *cobra.Command) (evidence.Provider, error) {
	var provider evidence.Provider

	if fixtures, _ := cmd.Flags().GetString("fixtures"); fixtures != "" {
		static, err := evidence.LoadStaticFile(fixtures)
		if err != nil {
			return nil, fmt.Errorf("loading fixtures: %w", err)
		}
		provider = static
	} else {
		limiter := ratelimit.NewLimiter(cfg.RateLimit)
		registry := evidence.NewRegistry()
		registry.Register(
			evidence.NewStatsClient(cfg.Stats.BaseURL, cfg.Stats.APIKey, evidence.WithStatsLimiter(limiter)),
			evidence.SourceTeamStats, evidence.SourceInjuries, evidence.SourceVenue,
			evidence.SourceHeadToHead, evidence.SourceRoster, evidence.SourceCoaching,
			evidence.SourceStandings,
		)
		registry.Register(
			evidence.NewWeatherClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, evidence.WithWeatherLimiter(limiter)),
			evidence.SourceWeather,
		)
		provider = registry
	}

	if cfg.Notes.Enabled {
		notes := vecstore.NewNoteStore(cfg.Notes.Path)
		if err := notes.Load(); err != nil {
			logger.WarnCF("cli", "note index unavailable", map[string]any{"error": err.Error()})
		} else {
			provider = vecstore.NewRetriever(provider, notes, vecstore.NewHashEmbedder())
		}
	}
	return provider, nil
}

// buildReasoner picks the heuristic backend, or the model-backed one with a
// heuristic fallback when LLM use is configured.
func buildReasoner() agents.Reasoner {
	heuristic := agents.NewHeuristicReasoner()
	if !cfg.LLM.Enabled {
		return heuristic
	}

	var candidates []providers.Candidate
	if cfg.LLM.AnthropicAPIKey != "" {
		var opts []providers.AnthropicOption
		if cfg.LLM.AnthropicModel != "" {
			opts = append(opts, providers.WithAnthropicModel(cfg.LLM.AnthropicModel))
		}
		candidates = append(candidates, providers.Candidate{
			Name:     "anthropic",
			Provider: providers.NewAnthropic(cfg.LLM.AnthropicAPIKey, cfg.LLM.AnthropicBaseURL, opts...),
		})
	}
	if cfg.LLM.OpenAIAPIKey != "" {
		var opts []providers.OpenAIOption
		if cfg.LLM.OpenAIModel != "" {
			opts = append(opts, providers.WithOpenAIModel(cfg.LLM.OpenAIModel))
		}
		candidates = append(candidates, providers.Candidate{
			Name:     "openai",
			Provider: providers.NewOpenAI(cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIBaseURL, opts...),
		})
	}
	if len(candidates) == 0 {
		logger.WarnC("cli", "llm enabled but no API keys configured, using heuristics")
		return heuristic
	}
	return agents.NewLLMReasoner(providers.NewChain(candidates...), agents.WithHeuristicFallback(heuristic))
}

func resolveRequired(cmd *cobra.Command) ([]agents.Kind, error) {
	names, _ := cmd.Flags().GetStringSlice("require")
	if len(names) == 0 {
		names = cfg.Run.RequiredAgents
	}
	kinds := make([]agents.Kind, 0, len(names))
	for _, name := range names {
		kind, err := agents.ParseKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}

func printProgress(ctx context.Context, events *bus.Bus, quiet bool) {
	for {
		e, ok := events.Next(ctx)
		if !ok {
			return
		}
		if quiet {
			continue
		}
		switch e.Type {
		case bus.EventTaskCompleted:
			fmt.Printf("  ✓ %s\n", e.TaskID)
		case bus.EventTaskDegraded:
			fmt.Printf("  ~ %s (%s)\n", e.TaskID, e.Message)
		case bus.EventTaskFailed:
			fmt.Printf("  ✗ %s (%s)\n", e.TaskID, e.Message)
		case bus.EventTaskBlocked:
			fmt.Printf("  - %s blocked (%s)\n", e.TaskID, e.Message)
		case bus.EventRunStarted:
			fmt.Printf("Analyzing %s\n", e.Message)
		}
	}
}

func renderResult(w io.Writer, teamA, teamB string, result *analysis.SynthesisResult) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s %.1f%%  vs  %s %.1f%%\n",
		teamA, result.WinProbabilityA*100, teamB, result.WinProbabilityB*100)
	fmt.Fprintf(w, "Confidence band: %.1f%% .. %.1f%%\n",
		result.ConfidenceBand.Lower*100, result.ConfidenceBand.Upper*100)

	if len(result.DegradedInputs) > 0 {
		names := make([]string, len(result.DegradedInputs))
		for i, k := range result.DegradedInputs {
			names[i] = string(k)
		}
		fmt.Fprintf(w, "Degraded inputs: %s\n", strings.Join(names, ", "))
	}

	fmt.Fprintln(w, "\nContributions:")
	for _, c := range result.Contributing {
		fmt.Fprintf(w, "  %-14s weight %.2f  score %.2f  %s\n", c.Kind, c.Weight, c.ScoreA, c.Rationale)
	}
}

// writeResultFile saves the rendered result, in whichever format the run
// printed to stdout.
func writeResultFile(path string, asJSON bool, teamA, teamB string, result *analysis.SynthesisResult) error {
	var buf bytes.Buffer
	if asJSON {
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return err
		}
	} else {
		renderResult(&buf, teamA, teamB, result)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// archiveResult saves the run; archive problems never fail the analysis.
func archiveResult(teamA, teamB string, gameDate time.Time, result *analysis.SynthesisResult) {
	archive, err := history.Open(cfg.History.Path)
	if err != nil {
		logger.WarnCF("cli", "history unavailable", map[string]any{"error": err.Error()})
		return
	}
	defer archive.Close()

	m := evidence.Matchup{RunID: result.RunID, TeamA: teamA, TeamB: teamB, GameDate: gameDate}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := archive.SaveResult(ctx, m, result); err != nil {
		logger.WarnCF("cli", "archiving failed", map[string]any{"error": err.Error()})
	}
}
