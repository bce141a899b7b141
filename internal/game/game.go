// internal/game/game.go
//
// Game session wrapper around a Minefield.
// Responsibilities:
//   - Identify a session (uuid) and remember who is playing it.
//   - Dispatch player actions (new game, reveal, flag, chord) to the board.
//   - Measure play time: the clock starts with the first reveal and stops on won/lost.

package game

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Settings is the configuration chosen before a board is built.
type Settings struct {
	Difficulty Difficulty `json:"difficulty"`
	Size       BoardSize  `json:"size"`
}

// ParseSettings validates raw difficulty and size strings.
func ParseSettings(difficulty, size string) (Settings, error) {
	d, err := ParseDifficulty(difficulty)
	if err != nil {
		return Settings{}, err
	}
	s, err := ParseSize(size)
	if err != nil {
		return Settings{}, err
	}
	return Settings{Difficulty: d, Size: s}, nil
}

// ActionKind discriminates Action.
type ActionKind string

const (
	ActionNewGame ActionKind = "new"
	ActionReveal  ActionKind = "reveal"
	ActionFlag    ActionKind = "flag"
	ActionChord   ActionKind = "chord"
)

// Action is a single player input.
// Pos is used by reveal/flag/chord, Settings by new.
type Action struct {
	Kind     ActionKind
	Pos      Position
	Settings Settings
}

// Reveal, ToggleFlag, Chord and NewGame build actions.
func Reveal(row, col int) Action     { return Action{Kind: ActionReveal, Pos: Position{row, col}} }
func ToggleFlag(row, col int) Action { return Action{Kind: ActionFlag, Pos: Position{row, col}} }
func Chord(row, col int) Action      { return Action{Kind: ActionChord, Pos: Position{row, col}} }
func NewGame(s Settings) Action      { return Action{Kind: ActionNewGame, Settings: s} }

// Game holds one player's session.
type Game struct {
	ID         string     `json:"id"`
	Player     string     `json:"player"`          // display name used for the leaderboard
	Owner      string     `json:"owner"`           // user id or anonymous id
	Daily      string     `json:"daily,omitempty"` // YYYY-MM-DD for seeded daily boards
	Settings   Settings   `json:"settings"`
	Field      *Minefield `json:"field"`
	StartedAt  time.Time  `json:"startedAt"`  // zero until the first reveal
	FinishedAt time.Time  `json:"finishedAt"` // zero until won/lost

	opts []Option
}

// New starts a session with a fresh board. opts are applied to this board and
// to any board created later by ActionNewGame.
func New(s Settings, player, owner string, opts ...Option) *Game {
	return &Game{
		ID:       uuid.NewString(),
		Player:   player,
		Owner:    owner,
		Settings: s,
		Field:    NewMinefield(s.Difficulty, s.Size, opts...),
		opts:     opts,
	}
}

// Status is shorthand for g.Field.Status().
func (g *Game) Status() Status { return g.Field.Status() }

// Apply performs a on the session at time now.
// The returned Outcome is OutcomeWon or OutcomeLost only on the action that
// ended the game; errors are limited to out-of-bounds positions and unknown kinds.
func (g *Game) Apply(a Action, now time.Time) (Outcome, error) {
	switch a.Kind {
	case ActionNewGame:
		g.Settings = a.Settings
		g.Field = NewMinefield(a.Settings.Difficulty, a.Settings.Size, g.opts...)
		g.StartedAt, g.FinishedAt = time.Time{}, time.Time{}
		return OutcomeContinue, nil

	case ActionFlag:
		return OutcomeContinue, g.Field.ToggleFlag(a.Pos)

	case ActionReveal, ActionChord:
		var (
			out Outcome
			err error
		)
		if a.Kind == ActionReveal {
			out, err = g.Field.Reveal(a.Pos)
		} else {
			out, err = g.Field.Chord(a.Pos)
		}
		if err != nil {
			return out, err
		}
		if g.StartedAt.IsZero() && g.Field.MinesPlaced() {
			g.StartedAt = now
		}
		if out != OutcomeContinue {
			g.FinishedAt = now
		}
		return out, nil
	}
	return OutcomeContinue, fmt.Errorf("%w: %q", ErrUnknownAction, a.Kind)
}

// Elapsed is the play time so far, or the final time once the game has ended.
func (g *Game) Elapsed(now time.Time) time.Duration {
	switch {
	case g.StartedAt.IsZero():
		return 0
	case !g.FinishedAt.IsZero():
		return g.FinishedAt.Sub(g.StartedAt)
	default:
		return now.Sub(g.StartedAt)
	}
}
