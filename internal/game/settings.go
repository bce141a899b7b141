// internal/game/settings.go
//
// Difficulty and board-size presets.
//   - Difficulty → mine density, BoardSize → (rows, cols).
//   - Resolve turns a pair into a Layout; MineCount rounds and clamps so a
//     3x3 opening always fits.

package game

import (
	"fmt"
	"math"
	"strings"
)

// Difficulty selects the mine density of a board.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Normal Difficulty = "normal"
	Hard   Difficulty = "hard"
)

// BoardSize selects the grid dimensions of a board.
type BoardSize string

const (
	Small  BoardSize = "small"
	Medium BoardSize = "medium"
	Large  BoardSize = "large"
)

// Difficulties and Sizes list the variants in display order.
var (
	Difficulties = []Difficulty{Easy, Normal, Hard}
	Sizes        = []BoardSize{Small, Medium, Large}
)

// Densities are chosen so the classic pairings land on the classic mine counts:
// easy/small = 10, normal/medium = 40, hard/large = 99.
const (
	easyDensity   = 0.123
	normalDensity = 0.156
	hardDensity   = 0.206
)

// safeZoneCells is the size of the 3x3 opening kept free for the first click.
const safeZoneCells = 9

// ParseDifficulty accepts "easy", "normal" or "hard" in any case.
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case Easy, Normal, Hard:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDifficulty, s)
}

// ParseSize accepts "small", "medium" or "large" in any case.
func ParseSize(s string) (BoardSize, error) {
	b := BoardSize(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case Small, Medium, Large:
		return b, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSize, s)
}

// Density returns mines per cell. Unrecognised values map to Easy; callers are
// expected to go through ParseDifficulty first.
func (d Difficulty) Density() float64 {
	switch d {
	case Normal:
		return normalDensity
	case Hard:
		return hardDensity
	default:
		return easyDensity
	}
}

// Dimensions returns (rows, columns). Unrecognised values map to Small.
func (s BoardSize) Dimensions() (rows, cols int) {
	switch s {
	case Medium:
		return 16, 16
	case Large:
		return 16, 30
	default:
		return 9, 9
	}
}

// Layout is the resolved shape of a board.
type Layout struct {
	Rows    int
	Cols    int
	Density float64
}

// Resolve maps a difficulty and size to a concrete layout.
func Resolve(d Difficulty, s BoardSize) Layout {
	rows, cols := s.Dimensions()
	return Layout{Rows: rows, Cols: cols, Density: d.Density()}
}

// MineCount is round(density * cells), clamped to [1, cells-9] so a full 3x3
// opening always fits around the first click.
func (l Layout) MineCount() int {
	cells := l.Rows * l.Cols
	n := int(math.Round(l.Density * float64(cells)))
	upper := cells - safeZoneCells
	if n > upper {
		n = upper
	}
	if n < 1 {
		n = 1
	}
	return n
}
