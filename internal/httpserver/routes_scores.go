// internal/httpserver/routes_scores.go
//
// Leaderboard endpoint.
//   - GET /scores?difficulty=&size= → fastest wins for that board

package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/scores"
)

func (s *Server) mountScores(r chi.Router) {
	r.Get("/scores", s.handleScores)
}

type scoresRes struct {
	Difficulty game.Difficulty `json:"difficulty"`
	Size       game.BoardSize  `json:"size"`
	Scores     []scores.Score  `json:"scores"`
}

// handleScores returns the top times for ?difficulty=&size=.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	settings, err := game.ParseSettings(q.Get("difficulty"), q.Get("size"))
	if err != nil {
		writeError(w, http.StatusBadRequest, settingsErrorCode(err))
		return
	}
	top, err := s.scores.Top(r.Context(), settings.Difficulty, settings.Size, s.cfg.Scores.Limit)
	if err != nil {
		log.Error().Err(err).Msg("load scores")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, scoresRes{Difficulty: settings.Difficulty, Size: settings.Size, Scores: top})
}
