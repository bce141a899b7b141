package game

import (
	"bytes"
	"encoding/json"
	"errors"
	"math/rand/v2"
	"testing"
)

func withPCG(seed uint64) Option {
	return WithSource(rand.New(rand.NewPCG(seed, seed+1)))
}

// layBoard builds a board with mines at exactly the given positions.
func layBoard(t *testing.T, rows, cols int, mines ...Position) *Minefield {
	t.Helper()
	m, err := NewCustomMinefield(rows, cols, len(mines))
	if err != nil {
		t.Fatalf("NewCustomMinefield: %v", err)
	}
	for _, p := range mines {
		m.at(p).Mine = true
	}
	m.countAdjacent()
	m.minesPlaced = true
	return m
}

func mustJSON(t *testing.T, m *Minefield) []byte {
	t.Helper()
	b, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func countMines(m *Minefield) int {
	n := 0
	for r := range m.rows {
		for c := range m.cols {
			if m.cells[r][c].Mine {
				n++
			}
		}
	}
	return n
}

func TestNewMinefieldLayouts(t *testing.T) {
	want := map[Settings]int{
		{Easy, Small}:    10,
		{Normal, Medium}: 40,
		{Hard, Large}:    99,
	}
	for _, d := range Difficulties {
		for _, s := range Sizes {
			m := NewMinefield(d, s)
			rows, cols := s.Dimensions()
			if m.Rows() != rows || m.Cols() != cols {
				t.Fatalf("%s/%s: got %dx%d, want %dx%d", d, s, m.Rows(), m.Cols(), rows, cols)
			}
			if len(m.cells) != rows || len(m.cells[0]) != cols {
				t.Fatalf("%s/%s: grid allocated as %dx%d", d, s, len(m.cells), len(m.cells[0]))
			}
			if m.Mines() < 1 || m.Mines() > rows*cols-9 {
				t.Fatalf("%s/%s: mine count %d outside [1, %d]", d, s, m.Mines(), rows*cols-9)
			}
			if n, ok := want[Settings{d, s}]; ok && m.Mines() != n {
				t.Fatalf("%s/%s: got %d mines, want %d", d, s, m.Mines(), n)
			}
			if m.MinesPlaced() || countMines(m) != 0 {
				t.Fatalf("%s/%s: mines placed before first reveal", d, s)
			}
			if m.Status() != StatusPlaying || m.Revealed() != 0 || m.Flagged() != 0 {
				t.Fatalf("%s/%s: unexpected initial state %s revealed=%d flagged=%d",
					d, s, m.Status(), m.Revealed(), m.Flagged())
			}
		}
	}
}

func TestMineCountClamp(t *testing.T) {
	if n := (Layout{Rows: 4, Cols: 4, Density: 0.99}).MineCount(); n != 7 {
		t.Fatalf("dense 4x4: got %d mines, want 7", n)
	}
	if n := (Layout{Rows: 9, Cols: 9, Density: 0.001}).MineCount(); n != 1 {
		t.Fatalf("sparse 9x9: got %d mines, want 1", n)
	}
}

func TestFirstRevealIsSafe(t *testing.T) {
	firsts := []Position{{0, 0}, {0, 4}, {4, 4}, {8, 8}, {8, 0}, {3, 0}}
	for seed := uint64(1); seed <= 50; seed++ {
		for _, first := range firsts {
			m := NewMinefield(Hard, Small, withPCG(seed))
			if _, err := m.Reveal(first); err != nil {
				t.Fatalf("reveal %s: %v", first, err)
			}
			if !m.MinesPlaced() {
				t.Fatalf("seed %d: mines not placed after first reveal", seed)
			}
			if got := countMines(m); got != m.Mines() {
				t.Fatalf("seed %d: placed %d mines, want %d", seed, got, m.Mines())
			}
			zone := append(m.Neighbours(first), first)
			for _, p := range zone {
				if m.at(p).Mine {
					t.Fatalf("seed %d: mine at %s inside safe zone of %s", seed, p, first)
				}
			}
			if m.Status() == StatusLost {
				t.Fatalf("seed %d: first reveal lost the game", seed)
			}
		}
	}
}

func TestAdjacentCountsMatchPlacement(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		m := NewMinefield(Normal, Medium, withPCG(seed))
		if _, err := m.Reveal(Position{7, 7}); err != nil {
			t.Fatalf("reveal: %v", err)
		}
		for r := range m.rows {
			for c := range m.cols {
				cell := m.cells[r][c]
				if cell.Mine {
					continue
				}
				want := 0
				for dr := -1; dr <= 1; dr++ {
					for dc := -1; dc <= 1; dc++ {
						rr, cc := r+dr, c+dc
						if (dr == 0 && dc == 0) || rr < 0 || cc < 0 || rr >= m.rows || cc >= m.cols {
							continue
						}
						if m.cells[rr][cc].Mine {
							want++
						}
					}
				}
				if cell.Adjacent != want {
					t.Fatalf("seed %d: (%d, %d) adjacent=%d, want %d", seed, r, c, cell.Adjacent, want)
				}
			}
		}
	}
}

// expectedRegion is an independent flood fill: the zero component containing
// start plus every numbered cell bordering it.
func expectedRegion(m *Minefield, start Position) map[Position]bool {
	region := map[Position]bool{start: true}
	frontier := []Position{start}
	for len(frontier) > 0 {
		p := frontier[0]
		frontier = frontier[1:]
		if m.cells[p.Row][p.Col].Adjacent != 0 {
			continue
		}
		for _, n := range m.Neighbours(p) {
			if !region[n] && !m.cells[n.Row][n.Col].Mine {
				region[n] = true
				frontier = append(frontier, n)
			}
		}
	}
	return region
}

func TestCornerRevealOpensZeroRegion(t *testing.T) {
	corner := Position{0, 0}
	for seed := uint64(1); seed <= 50; seed++ {
		m := NewMinefield(Easy, Small, withPCG(seed))
		if m.Mines() != 10 {
			t.Fatalf("easy/small: got %d mines, want 10", m.Mines())
		}
		if _, err := m.Reveal(corner); err != nil {
			t.Fatalf("reveal: %v", err)
		}
		for _, p := range append(m.Neighbours(corner), corner) {
			if m.at(p).Mine {
				t.Fatalf("seed %d: mine at %s next to first click", seed, p)
			}
		}
		if m.at(corner).Adjacent != 0 {
			continue
		}
		want := expectedRegion(m, corner)
		for r := range m.rows {
			for c := range m.cols {
				p := Position{r, c}
				if m.cells[r][c].Revealed != want[p] {
					t.Fatalf("seed %d: %s revealed=%v, want %v", seed, p, m.cells[r][c].Revealed, want[p])
				}
			}
		}
		if m.Revealed() != len(want) {
			t.Fatalf("seed %d: revealed counter %d, region size %d", seed, m.Revealed(), len(want))
		}
	}
}

func TestRevealIsIdempotent(t *testing.T) {
	m := NewMinefield(Easy, Medium, withPCG(7))
	if _, err := m.Reveal(Position{5, 5}); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	before := mustJSON(t, m)
	out, err := m.Reveal(Position{5, 5})
	if err != nil || out != OutcomeContinue {
		t.Fatalf("second reveal: outcome=%s err=%v", out, err)
	}
	if !bytes.Equal(before, mustJSON(t, m)) {
		t.Fatalf("revealing an open cell changed the board")
	}
}

func TestFlagBlocksReveal(t *testing.T) {
	m := NewMinefield(Easy, Small, withPCG(3))
	target := Position{2, 3}
	if err := m.ToggleFlag(target); err != nil {
		t.Fatalf("flag: %v", err)
	}
	before := mustJSON(t, m)
	out, err := m.Reveal(target)
	if err != nil || out != OutcomeContinue {
		t.Fatalf("reveal flagged: outcome=%s err=%v", out, err)
	}
	cell, _ := m.Cell(target)
	if !cell.Flagged || cell.Revealed {
		t.Fatalf("flagged cell changed: %+v", cell)
	}
	if m.MinesPlaced() {
		t.Fatalf("reveal on a flag placed mines")
	}
	if !bytes.Equal(before, mustJSON(t, m)) {
		t.Fatalf("board changed after revealing a flagged cell")
	}
}

func TestToggleFlag(t *testing.T) {
	m := layBoard(t, 3, 3, Position{0, 0})
	p := Position{2, 2}
	if err := m.ToggleFlag(p); err != nil {
		t.Fatalf("flag: %v", err)
	}
	if m.Flagged() != 1 || m.RemainingMines() != 0 {
		t.Fatalf("after flag: flagged=%d remaining=%d", m.Flagged(), m.RemainingMines())
	}
	if err := m.ToggleFlag(p); err != nil {
		t.Fatalf("unflag: %v", err)
	}
	if m.Flagged() != 0 {
		t.Fatalf("after unflag: flagged=%d", m.Flagged())
	}

	if _, err := m.Reveal(Position{1, 1}); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if err := m.ToggleFlag(Position{1, 1}); err != nil {
		t.Fatalf("flag revealed: %v", err)
	}
	if c, _ := m.Cell(Position{1, 1}); c.Flagged {
		t.Fatalf("revealed cell accepted a flag")
	}
}

func TestCascadeSkipsFlags(t *testing.T) {
	m := layBoard(t, 3, 5, Position{0, 0})
	flag := Position{2, 4}
	if err := m.ToggleFlag(flag); err != nil {
		t.Fatalf("flag: %v", err)
	}
	out, err := m.Reveal(Position{2, 2})
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if out != OutcomeContinue {
		t.Fatalf("got %s with a flagged safe cell left, want continue", out)
	}
	if c, _ := m.Cell(flag); c.Revealed || !c.Flagged {
		t.Fatalf("cascade opened a flagged cell: %+v", c)
	}
	if m.Revealed() != m.SafeCells()-1 {
		t.Fatalf("revealed %d, want %d", m.Revealed(), m.SafeCells()-1)
	}
}

func TestRevealMineLoses(t *testing.T) {
	m := layBoard(t, 4, 4, Position{1, 1}, Position{3, 3})
	out, err := m.Reveal(Position{1, 1})
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if out != OutcomeLost || m.Status() != StatusLost {
		t.Fatalf("got outcome=%s status=%s, want lost", out, m.Status())
	}
	if c, _ := m.Cell(Position{1, 1}); !c.Revealed {
		t.Fatalf("detonated mine not marked revealed")
	}

	frozen := mustJSON(t, m)
	for _, p := range []Position{{0, 3}, {3, 3}, {2, 0}} {
		if out, err := m.Reveal(p); err != nil || out != OutcomeContinue {
			t.Fatalf("reveal after loss: outcome=%s err=%v", out, err)
		}
		if err := m.ToggleFlag(p); err != nil {
			t.Fatalf("flag after loss: %v", err)
		}
		if _, err := m.Chord(p); err != nil {
			t.Fatalf("chord after loss: %v", err)
		}
	}
	if !bytes.Equal(frozen, mustJSON(t, m)) {
		t.Fatalf("lost board was mutated")
	}
}

func TestWinRequiresEverySafeCell(t *testing.T) {
	m := layBoard(t, 3, 3, Position{1, 1})
	// Every safe cell touches the centre mine, so each reveal opens one cell.
	safe := []Position{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}
	for i, p := range safe {
		out, err := m.Reveal(p)
		if err != nil {
			t.Fatalf("reveal %s: %v", p, err)
		}
		last := i == len(safe)-1
		switch {
		case !last && (out != OutcomeContinue || m.Status() != StatusPlaying):
			t.Fatalf("after %d reveals: outcome=%s status=%s", i+1, out, m.Status())
		case last && (out != OutcomeWon || m.Status() != StatusWon):
			t.Fatalf("final reveal: outcome=%s status=%s, want won", out, m.Status())
		}
	}
	if m.Revealed() != m.SafeCells() {
		t.Fatalf("revealed %d, want %d", m.Revealed(), m.SafeCells())
	}
	if c, _ := m.Cell(Position{1, 1}); c.Revealed {
		t.Fatalf("won with the mine revealed")
	}
	if out, _ := m.Reveal(Position{1, 1}); out != OutcomeContinue || m.Status() != StatusWon {
		t.Fatalf("won board accepted a reveal: outcome=%s status=%s", out, m.Status())
	}
}

func TestWinOnRandomBoards(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		m := NewMinefield(Normal, Small, withPCG(seed))
		if _, err := m.Reveal(Position{4, 4}); err != nil {
			t.Fatalf("reveal: %v", err)
		}
		for r := range m.rows {
			for c := range m.cols {
				if m.cells[r][c].Mine || m.cells[r][c].Revealed {
					continue
				}
				if m.Status() == StatusWon {
					t.Fatalf("seed %d: won with (%d, %d) still hidden", seed, r, c)
				}
				if _, err := m.Reveal(Position{r, c}); err != nil {
					t.Fatalf("reveal: %v", err)
				}
			}
		}
		if m.Status() != StatusWon || m.Revealed() != m.Rows()*m.Cols()-m.Mines() {
			t.Fatalf("seed %d: status=%s revealed=%d", seed, m.Status(), m.Revealed())
		}
	}
}

func TestMaximumDensityBoard(t *testing.T) {
	m, err := NewCustomMinefield(9, 9, 80, withPCG(11))
	if err != nil {
		t.Fatalf("NewCustomMinefield: %v", err)
	}
	first := Position{0, 0}
	out, err := m.Reveal(first)
	if err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if c, _ := m.Cell(first); c.Mine || !c.Revealed {
		t.Fatalf("first click not safe: %+v", c)
	}
	if countMines(m) != 80 {
		t.Fatalf("placed %d mines, want 80", countMines(m))
	}
	if out != OutcomeWon || m.Status() != StatusWon {
		t.Fatalf("only safe cell revealed: outcome=%s status=%s", out, m.Status())
	}
}

func TestDenseBoardKeepsMostNeighboursClear(t *testing.T) {
	cases := []struct {
		name       string
		mines      int
		first      Position
		ringMines  int
		ringLength int
	}{
		{"corner", 13, Position{0, 0}, 1, 3},
		{"inner", 9, Position{1, 1}, 2, 8},
		{"edge", 11, Position{0, 1}, 1, 5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for seed := range uint64(20) {
				m, err := NewCustomMinefield(4, 4, tc.mines, withPCG(seed))
				if err != nil {
					t.Fatalf("NewCustomMinefield: %v", err)
				}
				if _, err := m.Reveal(tc.first); err != nil {
					t.Fatalf("reveal: %v", err)
				}
				if c, _ := m.Cell(tc.first); c.Mine {
					t.Fatalf("seed %d: first click is a mine", seed)
				}
				ring := m.Neighbours(tc.first)
				if len(ring) != tc.ringLength {
					t.Fatalf("ring has %d cells, want %d", len(ring), tc.ringLength)
				}
				got := 0
				for _, n := range ring {
					if m.at(n).Mine {
						got++
					}
				}
				if got != tc.ringMines {
					t.Fatalf("seed %d: %d mines next to first click, want %d", seed, got, tc.ringMines)
				}
				if countMines(m) != tc.mines {
					t.Fatalf("seed %d: placed %d mines, want %d", seed, countMines(m), tc.mines)
				}
			}
		})
	}
}

func TestCustomLayoutValidation(t *testing.T) {
	cases := []struct{ rows, cols, mines int }{
		{0, 5, 1}, {5, -1, 1}, {3, 3, 0}, {3, 3, 9},
	}
	for _, tc := range cases {
		if _, err := NewCustomMinefield(tc.rows, tc.cols, tc.mines); !errors.Is(err, ErrInvalidLayout) {
			t.Fatalf("%+v: got %v, want ErrInvalidLayout", tc, err)
		}
	}
}

func TestOutOfBounds(t *testing.T) {
	m := NewMinefield(Easy, Small)
	before := mustJSON(t, m)
	for _, p := range []Position{{-1, 0}, {0, -1}, {9, 0}, {0, 9}} {
		if _, err := m.Reveal(p); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("reveal %s: got %v", p, err)
		}
		if err := m.ToggleFlag(p); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("flag %s: got %v", p, err)
		}
		if _, err := m.Chord(p); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("chord %s: got %v", p, err)
		}
		if _, err := m.Cell(p); !errors.Is(err, ErrOutOfBounds) {
			t.Fatalf("cell %s: got %v", p, err)
		}
	}
	if !bytes.Equal(before, mustJSON(t, m)) {
		t.Fatalf("rejected actions changed the board")
	}
}

func TestChord(t *testing.T) {
	// row 0: M . .
	// row 1: . . .
	m := layBoard(t, 2, 3, Position{0, 0})
	if _, err := m.Reveal(Position{1, 0}); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if m.Revealed() != 1 {
		t.Fatalf("numbered cell cascaded: revealed=%d", m.Revealed())
	}

	before := mustJSON(t, m)
	if out, _ := m.Chord(Position{1, 0}); out != OutcomeContinue || !bytes.Equal(before, mustJSON(t, m)) {
		t.Fatalf("chord without flags changed the board")
	}

	if err := m.ToggleFlag(Position{0, 0}); err != nil {
		t.Fatalf("flag: %v", err)
	}
	out, err := m.Chord(Position{1, 0})
	if err != nil {
		t.Fatalf("chord: %v", err)
	}
	if out != OutcomeContinue || m.Revealed() != 3 {
		t.Fatalf("first chord: outcome=%s revealed=%d", out, m.Revealed())
	}
	out, err = m.Chord(Position{1, 1})
	if err != nil {
		t.Fatalf("chord: %v", err)
	}
	if out != OutcomeWon || m.Status() != StatusWon {
		t.Fatalf("chord: outcome=%s status=%s, want won", out, m.Status())
	}
}

func TestChordOnWrongFlagLoses(t *testing.T) {
	m := layBoard(t, 2, 3, Position{0, 0})
	if _, err := m.Reveal(Position{1, 0}); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if err := m.ToggleFlag(Position{0, 1}); err != nil {
		t.Fatalf("flag: %v", err)
	}
	out, err := m.Chord(Position{1, 0})
	if err != nil {
		t.Fatalf("chord: %v", err)
	}
	if out != OutcomeLost || m.Status() != StatusLost {
		t.Fatalf("chord with wrong flag: outcome=%s status=%s", out, m.Status())
	}
	if c, _ := m.Cell(Position{0, 0}); !c.Revealed {
		t.Fatalf("mine under chord not revealed")
	}
}

func TestSeedSurvivesSnapshot(t *testing.T) {
	orig := NewMinefield(Hard, Medium, WithSeed(42))
	var copied Minefield
	if err := json.Unmarshal(mustJSON(t, orig), &copied); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	first := Position{3, 12}
	if _, err := orig.Reveal(first); err != nil {
		t.Fatalf("reveal: %v", err)
	}
	if _, err := copied.Reveal(first); err != nil {
		t.Fatalf("reveal copy: %v", err)
	}
	if !bytes.Equal(mustJSON(t, orig), mustJSON(t, &copied)) {
		t.Fatalf("seeded boards diverged after a snapshot round trip")
	}
}

func TestSnapshotRejectsRaggedGrid(t *testing.T) {
	raw := []byte(`{"rows":2,"cols":2,"mines":1,"cells":[[{},{}],[{}]]}`)
	var m Minefield
	if err := json.Unmarshal(raw, &m); !errors.Is(err, ErrInvalidLayout) {
		t.Fatalf("got %v, want ErrInvalidLayout", err)
	}
}
