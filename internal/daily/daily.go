// internal/daily/daily.go
//
// Deterministic "board of the day".
// Every player gets the same mine placement on a given UTC date: the date key is
// run through HMAC-SHA256 keyed with a server salt and the first 8 bytes become
// the seed for game.WithSeed. Without the salt the layout cannot be precomputed.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/robalobadob/minesweeper/internal/game"
)

// Settings is the fixed layout of the daily board.
var Settings = game.Settings{Difficulty: game.Normal, Size: game.Medium}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Seed returns the placement seed for date's UTC day: HMAC(salt, YYYY-MM-DD).
func Seed(date time.Time, salt string) uint64 {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	return binary.BigEndian.Uint64(sum[:8])
}
