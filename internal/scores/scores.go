// internal/scores/scores.go
//
// Leaderboard persistence.
// A score is written once, when a game is won, and the board shows the fastest
// times for one (difficulty, size) pair. Ties go to the earlier entry.

package scores

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/names"
)

// ErrInvalidScore is returned by Insert for malformed entries.
var ErrInvalidScore = errors.New("invalid score")

// Score is one leaderboard entry.
type Score struct {
	ID            int64           `json:"id"`
	Username      string          `json:"username"`
	TimeInSeconds int             `json:"timeInSeconds"`
	Difficulty    game.Difficulty `json:"difficulty"`
	Size          game.BoardSize  `json:"size"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Store reads and writes the scores table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// Insert validates and records s, returning the new row id.
func (s *Store) Insert(ctx context.Context, sc Score) (int64, error) {
	if !names.Valid(sc.Username) {
		return 0, fmt.Errorf("%w: username %q", ErrInvalidScore, sc.Username)
	}
	if sc.TimeInSeconds < 0 {
		return 0, fmt.Errorf("%w: negative time %d", ErrInvalidScore, sc.TimeInSeconds)
	}
	if _, err := game.ParseSettings(string(sc.Difficulty), string(sc.Size)); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidScore, err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO scores(username, time_in_seconds, difficulty, size) VALUES(?,?,?,?)`,
		sc.Username, sc.TimeInSeconds, string(sc.Difficulty), string(sc.Size),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// Top returns at most limit scores for the board, fastest first.
func (s *Store) Top(ctx context.Context, d game.Difficulty, size game.BoardSize, limit int) ([]Score, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, username, time_in_seconds, difficulty, size, created_at
		 FROM scores
		 WHERE difficulty=? AND size=?
		 ORDER BY time_in_seconds ASC, created_at ASC, id ASC
		 LIMIT ?`, string(d), string(size), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Score{}
	for rows.Next() {
		var (
			sc      Score
			created string
		)
		if err := rows.Scan(&sc.ID, &sc.Username, &sc.TimeInSeconds, &sc.Difficulty, &sc.Size, &created); err != nil {
			return nil, err
		}
		sc.CreatedAt, _ = time.Parse(time.DateTime, created)
		out = append(out, sc)
	}
	return out, rows.Err()
}
