// internal/game/engine.go
//
// Minefield engine for a single Minesweeper board.
// Responsibilities:
//   - Allocate boards from a difficulty/size pair or an explicit layout.
//   - Place mines lazily on the first reveal, keeping the clicked cell and its
//     neighbours clear.
//   - Reveal cells, cascading through zero-adjacency regions with a worklist.
//   - Toggle flags and chord around satisfied numbers.
//   - Track revealed/flagged counts and the playing → won/lost transition.
//
// Notes:
//   - The engine is synchronous and holds no locks; a Minefield is owned by one session.
//   - Randomness comes from an injected Source so placement is reproducible in tests.

package game

import (
	"fmt"
	"math/rand/v2"
)

// Source supplies the randomness used for mine placement.
// *rand.Rand from math/rand/v2 satisfies it.
type Source interface {
	// Perm returns a pseudo-random permutation of [0, n).
	Perm(n int) []int
}

// globalSource defers to the auto-seeded top-level math/rand/v2 generator.
type globalSource struct{}

func (globalSource) Perm(n int) []int { return rand.Perm(n) }

// Option customises a Minefield at construction.
type Option func(*Minefield)

// WithSource injects the random source used for mine placement.
// The source is not persisted; see WithSeed for boards that travel through a store.
func WithSource(src Source) Option {
	return func(m *Minefield) { m.src = src }
}

// WithSeed makes placement deterministic for the given seed. The seed is part of
// the board's serialized form, so placement stays reproducible after a store round trip.
func WithSeed(seed uint64) Option {
	return func(m *Minefield) {
		m.seed = seed
		m.seeded = true
	}
}

// neighbourOffsets are the 8 surrounding (row, col) deltas.
var neighbourOffsets = [8][2]int{
	{-1, -1}, {-1, 0}, {-1, 1},
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
}

// Minefield is the full board state: grid, counters and status.
type Minefield struct {
	rows, cols  int
	mines       int
	cells       [][]Cell
	revealed    int
	flagged     int
	minesPlaced bool
	status      Status

	seed   uint64
	seeded bool
	src    Source
}

// NewMinefield allocates an unplayed board for the given difficulty and size.
// Mines are not placed until the first reveal.
func NewMinefield(d Difficulty, s BoardSize, opts ...Option) *Minefield {
	l := Resolve(d, s)
	return newMinefield(l.Rows, l.Cols, l.MineCount(), opts)
}

// NewCustomMinefield allocates a board with an explicit layout.
// rows and cols must be positive and mines must lie in [1, rows*cols-1].
func NewCustomMinefield(rows, cols, mines int, opts ...Option) (*Minefield, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("%w: %dx%d grid", ErrInvalidLayout, rows, cols)
	}
	if mines < 1 || mines > rows*cols-1 {
		return nil, fmt.Errorf("%w: %d mines on a %dx%d grid", ErrInvalidLayout, mines, rows, cols)
	}
	return newMinefield(rows, cols, mines, opts), nil
}

func newMinefield(rows, cols, mines int, opts []Option) *Minefield {
	cells := make([][]Cell, rows)
	for r := range cells {
		cells[r] = make([]Cell, cols)
	}
	m := &Minefield{
		rows:   rows,
		cols:   cols,
		mines:  mines,
		cells:  cells,
		status: StatusPlaying,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Rows returns the number of rows in the grid.
func (m *Minefield) Rows() int { return m.rows }

// Cols returns the number of columns in the grid.
func (m *Minefield) Cols() int { return m.cols }

// Mines returns the total mine count, fixed at construction.
func (m *Minefield) Mines() int { return m.mines }

// Revealed returns how many cells are revealed.
func (m *Minefield) Revealed() int { return m.revealed }

// Flagged returns how many cells carry a flag.
func (m *Minefield) Flagged() int { return m.flagged }

// MinesPlaced reports whether the first reveal has happened.
func (m *Minefield) MinesPlaced() bool { return m.minesPlaced }

// Status returns the board lifecycle state.
func (m *Minefield) Status() Status { return m.status }

// SafeCells is the number of cells that must be revealed to win.
func (m *Minefield) SafeCells() int { return m.rows*m.cols - m.mines }

// RemainingMines is the classic counter: mines minus flags. It can go negative.
func (m *Minefield) RemainingMines() int { return m.mines - m.flagged }

// InBounds reports whether p addresses a cell of this grid.
func (m *Minefield) InBounds(p Position) bool {
	return p.Row >= 0 && p.Col >= 0 && p.Row < m.rows && p.Col < m.cols
}

// Cell returns a copy of the cell at p.
func (m *Minefield) Cell(p Position) (Cell, error) {
	if err := m.checkBounds(p); err != nil {
		return Cell{}, err
	}
	return m.cells[p.Row][p.Col], nil
}

// Neighbours returns the in-bounds positions around p (3 to 8 of them).
func (m *Minefield) Neighbours(p Position) []Position {
	out := make([]Position, 0, len(neighbourOffsets))
	for _, d := range neighbourOffsets {
		n := Position{Row: p.Row + d[0], Col: p.Col + d[1]}
		if m.InBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

func (m *Minefield) checkBounds(p Position) error {
	if !m.InBounds(p) {
		return fmt.Errorf("%w: %s on a %dx%d grid", ErrOutOfBounds, p, m.rows, m.cols)
	}
	return nil
}

func (m *Minefield) at(p Position) *Cell { return &m.cells[p.Row][p.Col] }

func (m *Minefield) source() Source {
	switch {
	case m.src != nil:
		return m.src
	case m.seeded:
		return rand.New(rand.NewPCG(m.seed, m.seed^0x9e3779b97f4a7c15))
	default:
		return globalSource{}
	}
}

// placeMines scatters the mines uniformly over every cell outside the safe zone
// (first and its neighbours), then computes adjacency counts. If the grid is too
// dense for a full safe zone, every outside cell is mined and the overflow goes
// to randomly chosen neighbours; first itself always stays clear.
func (m *Minefield) placeMines(first Position) {
	total := m.rows * m.cols
	zone := make([]bool, total)
	zone[m.index(first)] = true
	ring := m.Neighbours(first)
	for _, n := range ring {
		zone[m.index(n)] = true
	}

	outside := make([]int, 0, total)
	for i := range total {
		if !zone[i] {
			outside = append(outside, i)
		}
	}

	src := m.source()
	if len(outside) >= m.mines {
		for _, k := range src.Perm(len(outside))[:m.mines] {
			m.mine(outside[k])
		}
	} else {
		for _, i := range outside {
			m.mine(i)
		}
		for _, k := range src.Perm(len(ring))[:m.mines-len(outside)] {
			m.mine(m.index(ring[k]))
		}
	}

	m.countAdjacent()
	m.minesPlaced = true
}

func (m *Minefield) mine(i int) { m.cells[i/m.cols][i%m.cols].Mine = true }

// countAdjacent recomputes Adjacent for every non-mine cell.
func (m *Minefield) countAdjacent() {
	for r := range m.rows {
		for c := range m.cols {
			p := Position{Row: r, Col: c}
			cell := m.at(p)
			cell.Adjacent = 0
			if cell.Mine {
				continue
			}
			for _, n := range m.Neighbours(p) {
				if m.at(n).Mine {
					cell.Adjacent++
				}
			}
		}
	}
}

func (m *Minefield) index(p Position) int { return p.Row*m.cols + p.Col }

// Reveal opens the cell at p.
//
// Rules:
//   - Flagged or already revealed targets are no-ops.
//   - The first effective reveal places the mines around p.
//   - A mine sets the board to lost.
//   - A zero-adjacency cell cascades through its connected zero region and the
//     numbered cells bordering it.
//   - When every safe cell is revealed the board is won.
//
// Actions on a terminal board are no-ops. Only an out-of-bounds p is an error.
func (m *Minefield) Reveal(p Position) (Outcome, error) {
	if err := m.checkBounds(p); err != nil {
		return OutcomeContinue, err
	}
	if m.status.Terminal() {
		return OutcomeContinue, nil
	}
	cell := m.at(p)
	if cell.Flagged || cell.Revealed {
		return OutcomeContinue, nil
	}
	if !m.minesPlaced {
		m.placeMines(p)
	}
	if cell.Mine {
		cell.Revealed = true
		m.revealed++
		m.status = StatusLost
		return OutcomeLost, nil
	}
	m.cascade(p)
	return m.settle(), nil
}

// cascade reveals start and, through zero-adjacency cells, every connected
// unrevealed and unflagged neighbour. Each cell is queued at most once.
func (m *Minefield) cascade(start Position) {
	queued := make([]bool, m.rows*m.cols)
	queued[m.index(start)] = true
	stack := []Position{start}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		cell := m.at(p)
		cell.Revealed = true
		m.revealed++
		if cell.Adjacent != 0 {
			continue
		}
		for _, n := range m.Neighbours(p) {
			i := m.index(n)
			nc := m.at(n)
			if queued[i] || nc.Revealed || nc.Flagged || nc.Mine {
				continue
			}
			queued[i] = true
			stack = append(stack, n)
		}
	}
}

// settle moves a playing board to won once every safe cell is revealed.
func (m *Minefield) settle() Outcome {
	if m.revealed == m.SafeCells() {
		m.status = StatusWon
		return OutcomeWon
	}
	return OutcomeContinue
}

// ToggleFlag flips the flag on an unrevealed cell. Revealed cells and terminal
// boards are left untouched. Flags never gate the win condition.
func (m *Minefield) ToggleFlag(p Position) error {
	if err := m.checkBounds(p); err != nil {
		return err
	}
	if m.status.Terminal() {
		return nil
	}
	cell := m.at(p)
	if cell.Revealed {
		return nil
	}
	cell.Flagged = !cell.Flagged
	if cell.Flagged {
		m.flagged++
	} else {
		m.flagged--
	}
	return nil
}

// Chord reveals every unflagged, unrevealed neighbour of the revealed numbered
// cell at p, provided the number of flags around it equals its number.
// A misplaced flag therefore detonates a mine and loses the board.
func (m *Minefield) Chord(p Position) (Outcome, error) {
	if err := m.checkBounds(p); err != nil {
		return OutcomeContinue, err
	}
	if m.status.Terminal() {
		return OutcomeContinue, nil
	}
	cell := m.at(p)
	if !cell.Revealed || cell.Mine || cell.Adjacent == 0 {
		return OutcomeContinue, nil
	}

	neighbours := m.Neighbours(p)
	flags := 0
	for _, n := range neighbours {
		if m.at(n).Flagged {
			flags++
		}
	}
	if flags != cell.Adjacent {
		return OutcomeContinue, nil
	}

	lost := false
	for _, n := range neighbours {
		nc := m.at(n)
		if nc.Flagged || nc.Revealed {
			continue
		}
		if nc.Mine {
			nc.Revealed = true
			m.revealed++
			lost = true
			continue
		}
		m.cascade(n)
	}
	if lost {
		m.status = StatusLost
		return OutcomeLost, nil
	}
	return m.settle(), nil
}
