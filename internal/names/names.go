// internal/names/names.go
//
// Player display names for the leaderboard.
//
// Rules:
//   - 3 to 10 characters, ASCII letters or underscore.
//   - Surrounding whitespace is trimmed; case is kept as typed.
//
// Random names:
//   - Loaded once from NAMES_FILE when set, otherwise from the embedded assets/names.txt.
//   - Entries that fail Valid are dropped so a random name is always acceptable.

package names

import (
	"bufio"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"os"
	"strings"
	"sync"

	"github.com/robalobadob/minesweeper/assets"
)

const (
	MinLen = 3
	MaxLen = 10
)

// ErrInvalidName is returned by Parse for names outside the rules above.
var ErrInvalidName = errors.New("invalid name")

var (
	initOnce   sync.Once
	pool       []string
	initialErr error
)

// Init loads the random-name pool exactly once.
func Init() error {
	initOnce.Do(func() {
		var list []string
		if path := os.Getenv("NAMES_FILE"); path != "" {
			list, initialErr = readNameFile(path)
		} else {
			list, initialErr = assets.NamesList()
		}
		if initialErr != nil {
			return
		}
		for _, n := range list {
			if Valid(n) {
				pool = append(pool, n)
			}
		}
		if len(pool) == 0 {
			initialErr = errors.New("names: list is empty")
		}
	})
	return initialErr
}

func readNameFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if s := strings.TrimSpace(sc.Text()); s != "" && !strings.HasPrefix(s, "#") {
			out = append(out, s)
		}
	}
	return out, sc.Err()
}

// Normalize trims surrounding whitespace.
func Normalize(s string) string { return strings.TrimSpace(s) }

// Valid reports whether s is an acceptable name as-is.
func Valid(s string) bool {
	if len(s) < MinLen || len(s) > MaxLen {
		return false
	}
	for _, r := range s {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return false
		}
	}
	return true
}

// Parse normalizes s and validates it.
func Parse(s string) (string, error) {
	n := Normalize(s)
	if !Valid(n) {
		return "", fmt.Errorf("%w: %q must be %d-%d letters or underscores", ErrInvalidName, s, MinLen, MaxLen)
	}
	return n, nil
}

// Random returns a cryptographically random name from the pool.
// Before Init (or if it failed) it falls back to "player".
func Random() string {
	if len(pool) == 0 {
		return "player"
	}
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(pool))))
	return pool[n.Int64()]
}
