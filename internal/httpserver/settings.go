// internal/httpserver/settings.go
//
// Player settings kept in cookies.
//   - GET  /settings → username, difficulty, size (+ a suggested name when unset)
//   - POST /settings → validate and save

package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/names"
)

// Player preferences live in plain (script-readable) cookies.
const (
	usernameCookie   = "minesweeper_username"
	difficultyCookie = "minesweeper_difficulty"
	sizeCookie       = "minesweeper_size"

	settingsCookieTTL = 365 * 24 * time.Hour
)

type settingsRes struct {
	Username   string          `json:"username"`
	Difficulty game.Difficulty `json:"difficulty"`
	Size       game.BoardSize  `json:"size"`
	// Suggestion is a random name offered when no username is saved.
	Suggestion string `json:"suggestion,omitempty"`
}

type settingsReq struct {
	Username   string `json:"username"`
	Difficulty string `json:"difficulty"`
	Size       string `json:"size"`
}

func (s *Server) mountSettings(r chi.Router) {
	r.Get("/settings", s.handleGetSettings)
	r.Post("/settings", s.handleSaveSettings)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	saved := s.savedSettings(r)
	res := settingsRes{Difficulty: saved.Difficulty, Size: saved.Size}
	if c, err := r.Cookie(usernameCookie); err == nil && names.Valid(c.Value) {
		res.Username = c.Value
	} else {
		res.Suggestion = names.Random()
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	username, err := names.Parse(req.Username)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_username")
		return
	}
	settings, err := game.ParseSettings(req.Difficulty, req.Size)
	if err != nil {
		writeError(w, http.StatusBadRequest, settingsErrorCode(err))
		return
	}

	exp := s.now().Add(settingsCookieTTL)
	s.setCookie(w, usernameCookie, username, exp, false)
	s.setCookie(w, difficultyCookie, string(settings.Difficulty), exp, false)
	s.setCookie(w, sizeCookie, string(settings.Size), exp, false)
	writeJSON(w, http.StatusOK, settingsRes{Username: username, Difficulty: settings.Difficulty, Size: settings.Size})
}

// savedSettings reads the difficulty and size cookies, defaulting to easy/small.
func (s *Server) savedSettings(r *http.Request) game.Settings {
	out := game.Settings{Difficulty: game.Easy, Size: game.Small}
	if c, err := r.Cookie(difficultyCookie); err == nil {
		if d, err := game.ParseDifficulty(c.Value); err == nil {
			out.Difficulty = d
		}
	}
	if c, err := r.Cookie(sizeCookie); err == nil {
		if sz, err := game.ParseSize(c.Value); err == nil {
			out.Size = sz
		}
	}
	return out
}
