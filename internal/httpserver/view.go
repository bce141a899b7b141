// internal/httpserver/view.go
//
// JSON view of a game for the client. Mines stay hidden until the board is
// lost; a won board shows its mines as flagged.

package httpserver

import (
	"time"

	"github.com/robalobadob/minesweeper/internal/game"
)

// Cell states as drawn by the client.
const (
	cellHidden   = "hidden"
	cellFlagged  = "flagged"
	cellOpen     = "open"
	cellExploded = "exploded" // a mine the player revealed
	cellMine     = "mine"     // unflagged mine shown after a loss
	cellMisflag  = "misflag"  // flag on a safe cell shown after a loss
)

type cellView struct {
	State    string `json:"state"`
	Adjacent int    `json:"adjacent,omitempty"`
}

// gameView is the client-facing form of a game. Mine positions never leave the
// server while the game is being played.
type gameView struct {
	ID             string          `json:"id"`
	Player         string          `json:"player"`
	Daily          string          `json:"daily,omitempty"`
	Difficulty     game.Difficulty `json:"difficulty"`
	Size           game.BoardSize  `json:"size"`
	Rows           int             `json:"rows"`
	Cols           int             `json:"cols"`
	Mines          int             `json:"mines"`
	RemainingMines int             `json:"remainingMines"`
	Cleared        int             `json:"cleared"`
	ClearTotal     int             `json:"clearTotal"`
	Status         game.Status     `json:"status"`
	Outcome        string          `json:"outcome,omitempty"`
	ElapsedSeconds int             `json:"elapsedSeconds"`
	Cells          [][]cellView    `json:"cells"`
}

func newGameView(g *game.Game, now time.Time) gameView {
	f := g.Field
	status := f.Status()
	v := gameView{
		ID:             g.ID,
		Player:         g.Player,
		Daily:          g.Daily,
		Difficulty:     g.Settings.Difficulty,
		Size:           g.Settings.Size,
		Rows:           f.Rows(),
		Cols:           f.Cols(),
		Mines:          f.Mines(),
		RemainingMines: f.RemainingMines(),
		ClearTotal:     f.SafeCells(),
		Status:         status,
		ElapsedSeconds: seconds(g.Elapsed(now)),
		Cells:          make([][]cellView, f.Rows()),
	}
	if status == game.StatusWon {
		v.RemainingMines = 0
	}

	for r := range f.Rows() {
		row := make([]cellView, f.Cols())
		for c := range f.Cols() {
			cell, _ := f.Cell(game.Position{Row: r, Col: c})
			row[c] = viewCell(cell, status)
			if cell.Revealed && !cell.Mine {
				v.Cleared++
			}
		}
		v.Cells[r] = row
	}
	return v
}

func viewCell(c game.Cell, status game.Status) cellView {
	switch {
	case c.Revealed && c.Mine:
		return cellView{State: cellExploded}
	case c.Revealed:
		return cellView{State: cellOpen, Adjacent: c.Adjacent}
	case status == game.StatusWon:
		// Every hidden cell of a won board is a mine.
		return cellView{State: cellFlagged}
	case status == game.StatusLost && c.Mine && !c.Flagged:
		return cellView{State: cellMine}
	case status == game.StatusLost && !c.Mine && c.Flagged:
		return cellView{State: cellMisflag}
	case c.Flagged:
		return cellView{State: cellFlagged}
	default:
		return cellView{State: cellHidden}
	}
}

// seconds rounds d to whole seconds.
func seconds(d time.Duration) int {
	return int(d.Round(time.Second) / time.Second)
}
