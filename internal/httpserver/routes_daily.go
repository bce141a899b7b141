// internal/httpserver/routes_daily.go
//
// HTTP routes for the daily board.
//   - GET /daily             → today's date, layout, and whether the caller already played it
//   - GET /daily/leaderboard → fastest wins for today (or ?date=YYYY-MM-DD)
//
// The board itself is started through POST /game/new with {"daily": true}; every
// player gets the same placement for the UTC day and only the first finish counts.

package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/daily"
	"github.com/robalobadob/minesweeper/internal/game"
)

const dailyLeaderboardLimit = 20

func (s *Server) mountDaily(r chi.Router) {
	r.Route("/daily", func(r chi.Router) {
		r.Get("/", s.handleDailyInfo)
		r.Get("/leaderboard", s.handleDailyLeaderboard)
	})
}

type dailyInfoRes struct {
	Date       string          `json:"date"`
	Difficulty game.Difficulty `json:"difficulty"`
	Size       game.BoardSize  `json:"size"`
	Played     bool            `json:"played"`
}

func (s *Server) handleDailyInfo(w http.ResponseWriter, r *http.Request) {
	date := daily.DateKey(s.now())
	played, err := s.daily.AlreadyPlayed(r.Context(), s.ownerID(w, r), date)
	if err != nil {
		log.Error().Err(err).Msg("daily lookup")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, dailyInfoRes{
		Date:       date,
		Difficulty: daily.Settings.Difficulty,
		Size:       daily.Settings.Size,
		Played:     played,
	})
}

type dailyLBRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

func (s *Server) handleDailyLeaderboard(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		date = daily.DateKey(s.now())
	} else if _, err := time.Parse(time.DateOnly, date); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_date")
		return
	}
	rows, err := s.daily.Leaderboard(r.Context(), date, dailyLeaderboardLimit)
	if err != nil {
		log.Error().Err(err).Msg("daily leaderboard")
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}
	writeJSON(w, http.StatusOK, dailyLBRes{Date: date, Top: rows})
}
