// internal/game/types.go
//
// Core type definitions for the minefield engine.
// Defines:
//   - Position: a (row, column) address inside the grid.
//   - Cell: state of a single square.
//   - Status: lifecycle of a board (playing → won/lost).
//   - Outcome: the signal returned by every board transition.

package game

import (
	"errors"
	"fmt"
)

// Position addresses a cell by row and column, both zero-based.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d, %d)", p.Row, p.Col)
}

// Cell holds the state of a single square.
// Adjacent is only meaningful once mines have been placed.
type Cell struct {
	Mine     bool `json:"mine"`
	Revealed bool `json:"revealed"`
	Flagged  bool `json:"flagged"`
	Adjacent int  `json:"adjacent"` // mines among the up-to-8 neighbours
}

// Status is the board lifecycle. It only ever moves forward:
// playing → won or playing → lost.
type Status string

const (
	StatusPlaying Status = "playing"
	StatusWon     Status = "won"
	StatusLost    Status = "lost"
)

// Terminal reports whether no further action can change the board.
func (s Status) Terminal() bool {
	return s == StatusWon || s == StatusLost
}

// Outcome is returned by Reveal and Chord.
// OutcomeContinue also covers every no-op (flagged target, revealed target,
// terminal board), so OutcomeWon and OutcomeLost are reported exactly once.
type Outcome int

const (
	OutcomeContinue Outcome = iota
	OutcomeWon
	OutcomeLost
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	default:
		return "continue"
	}
}

var (
	// ErrOutOfBounds is returned when an action references a cell outside the grid.
	ErrOutOfBounds = errors.New("position out of bounds")

	// ErrInvalidLayout is returned by NewCustomMinefield for impossible dimensions.
	ErrInvalidLayout = errors.New("invalid board layout")

	ErrUnknownDifficulty = errors.New("unknown difficulty")
	ErrUnknownSize       = errors.New("unknown board size")
	ErrUnknownAction     = errors.New("unknown action")
)
