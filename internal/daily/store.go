package daily

import (
	"context"
	"database/sql"
)

// Result is one finished daily board.
type Result struct {
	OwnerID        string `json:"ownerId"`
	Username       string `json:"username"`
	Date           string `json:"date"`
	Won            bool   `json:"won"`
	ElapsedSeconds int    `json:"elapsedSeconds"`
}

// Store persists daily results in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether owner has finished the board for date.
func (s *Store) AlreadyPlayed(ctx context.Context, ownerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM daily_results WHERE owner_id=? AND date=?",
		ownerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records a finished board. A second result for the same owner and
// date is ignored, so only the first attempt counts.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(owner_id, username, date, won, elapsed_seconds)
		 VALUES(?,?,?,?,?)`, r.OwnerID, r.Username, r.Date, r.Won, r.ElapsedSeconds,
	)
	return err
}

// LBRow is one leaderboard line.
type LBRow struct {
	Username       string `json:"username"`
	ElapsedSeconds int    `json:"elapsedSeconds"`
}

// Leaderboard returns the fastest wins for date.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT username, elapsed_seconds
		 FROM daily_results
		 WHERE date=? AND won=1
		 ORDER BY elapsed_seconds ASC, created_at ASC, id ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []LBRow{}
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.Username, &r.ElapsedSeconds); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
