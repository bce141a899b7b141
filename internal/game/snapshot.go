// internal/game/snapshot.go
//
// JSON form of a Minefield for session stores. Decoding checks the grid shape.

package game

import (
	"encoding/json"
	"fmt"
)

// snapshot is the serialized form of a Minefield, used by session stores.
// An injected Source is not part of it; a seed is.
type snapshot struct {
	Rows        int      `json:"rows"`
	Cols        int      `json:"cols"`
	Mines       int      `json:"mines"`
	Cells       [][]Cell `json:"cells"`
	Revealed    int      `json:"revealed"`
	Flagged     int      `json:"flagged"`
	MinesPlaced bool     `json:"minesPlaced"`
	Status      Status   `json:"status"`
	Seed        *uint64  `json:"seed,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (m *Minefield) MarshalJSON() ([]byte, error) {
	s := snapshot{
		Rows:        m.rows,
		Cols:        m.cols,
		Mines:       m.mines,
		Cells:       m.cells,
		Revealed:    m.revealed,
		Flagged:     m.flagged,
		MinesPlaced: m.minesPlaced,
		Status:      m.status,
	}
	if m.seeded {
		seed := m.seed
		s.Seed = &seed
	}
	return json.Marshal(s)
}

// UnmarshalJSON implements json.Unmarshaler. The grid shape is checked against
// the declared dimensions so a corrupt record cannot index out of range later.
func (m *Minefield) UnmarshalJSON(b []byte) error {
	var s snapshot
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s.Rows < 1 || s.Cols < 1 || len(s.Cells) != s.Rows {
		return fmt.Errorf("%w: snapshot grid %dx%d", ErrInvalidLayout, s.Rows, s.Cols)
	}
	for _, row := range s.Cells {
		if len(row) != s.Cols {
			return fmt.Errorf("%w: snapshot row width %d, want %d", ErrInvalidLayout, len(row), s.Cols)
		}
	}
	if s.Status == "" {
		s.Status = StatusPlaying
	}
	*m = Minefield{
		rows:        s.Rows,
		cols:        s.Cols,
		mines:       s.Mines,
		cells:       s.Cells,
		revealed:    s.Revealed,
		flagged:     s.Flagged,
		minesPlaced: s.MinesPlaced,
		status:      s.Status,
	}
	if s.Seed != nil {
		m.seed, m.seeded = *s.Seed, true
	}
	return nil
}
