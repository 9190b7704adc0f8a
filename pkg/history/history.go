// Package history archives completed analysis runs in a local sqlite
// database so past results stay queryable.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gridironlabs/pregame/pkg/analysis"
	"github.com/gridironlabs/pregame/pkg/evidence"
)

// Record is one archived run.
type Record struct {
	RunID           string                    `json:"run_id"`
	TeamA           string                    `json:"team_a"`
	TeamB           string                    `json:"team_b"`
	GameDate        time.Time                 `json:"game_date"`
	WinProbabilityA float64                   `json:"win_probability_a"`
	BandWidth       float64                   `json:"band_width"`
	Result          *analysis.SynthesisResult `json:"result,omitempty"`
	CreatedAt       time.Time                 `json:"created_at"`
}

// Archive stores run records in sqlite.
type Archive struct {
	db *sql.DB
}

// Open creates or opens the archive at dbPath.
func Open(dbPath string) (*Archive, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	a := &Archive{db: db}
	if err := a.init(); err != nil {
		db.Close()
		return nil, err
	}
	return a, nil
}

func (a *Archive) init() error {
	_, err := a.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		team_a TEXT NOT NULL,
		team_b TEXT NOT NULL,
		game_date DATETIME NOT NULL,
		win_probability_a REAL NOT NULL,
		band_width REAL NOT NULL,
		result JSON,
		created_at DATETIME NOT NULL
	)`)
	return err
}

// Close releases the database handle.
func (a *Archive) Close() error {
	return a.db.Close()
}

// SaveResult archives one completed run.
func (a *Archive) SaveResult(ctx context.Context, m evidence.Matchup, result *analysis.SynthesisResult) error {
	blob, err := json.Marshal(result)
	if err != nil {
		return err
	}
	_, err = a.db.ExecContext(ctx,
		"INSERT INTO runs VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		m.RunID, m.TeamA, m.TeamB, m.GameDate,
		result.WinProbabilityA, result.ConfidenceBand.Width, blob, time.Now().UTC())
	return err
}

// List returns the most recent runs, newest first.
func (a *Archive) List(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := a.db.QueryContext(ctx,
		`SELECT run_id, team_a, team_b, game_date, win_probability_a, band_width, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.RunID, &r.TeamA, &r.TeamB, &r.GameDate,
			&r.WinProbabilityA, &r.BandWidth, &r.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Get loads one archived run with its full synthesis result.
func (a *Archive) Get(ctx context.Context, runID string) (*Record, error) {
	row := a.db.QueryRowContext(ctx,
		`SELECT run_id, team_a, team_b, game_date, win_probability_a, band_width, result, created_at
		 FROM runs WHERE run_id = ?`, runID)

	var r Record
	var blob []byte
	if err := row.Scan(&r.RunID, &r.TeamA, &r.TeamB, &r.GameDate,
		&r.WinProbabilityA, &r.BandWidth, &blob, &r.CreatedAt); err != nil {
		return nil, err
	}
	if len(blob) > 0 {
		var result analysis.SynthesisResult
		if err := json.Unmarshal(blob, &result); err == nil {
			r.Result = &result
		}
	}
	return &r, nil
}
