// internal/httpserver/routes_game.go
//
// Game endpoints.
//   - POST /game/new          → build a board (optionally the daily board), drop the previous one
//   - GET  /game/{id}         → current view
//   - POST /game/{id}/reveal  → {row, col}
//   - POST /game/{id}/flag    → {row, col}
//   - POST /game/{id}/chord   → {row, col}
//
// Only the player who started a board may act on it (403 not_owner).
// Sessions live in the configured store. The games table keeps a history row per
// board; when a board ends the row is closed, account stats are bumped, and wins
// are posted to the leaderboard (or the daily results for the daily board).

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/minesweeper/internal/daily"
	"github.com/robalobadob/minesweeper/internal/game"
	"github.com/robalobadob/minesweeper/internal/names"
	"github.com/robalobadob/minesweeper/internal/scores"
	"github.com/robalobadob/minesweeper/internal/store"
)

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Get("/{id}", s.handleGetGame)
		r.Post("/{id}/reveal", s.handleAction(game.ActionReveal))
		r.Post("/{id}/flag", s.handleAction(game.ActionFlag))
		r.Post("/{id}/chord", s.handleAction(game.ActionChord))
	})
}

type newGameReq struct {
	Difficulty     string `json:"difficulty"`
	Size           string `json:"size"`
	Daily          bool   `json:"daily"`
	PreviousGameID string `json:"previousGameId"`
}

// handleNewGame creates a session and its history row.
// Empty difficulty/size fall back to the player's saved settings.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}

	saved := s.savedSettings(r)
	if req.Difficulty == "" {
		req.Difficulty = string(saved.Difficulty)
	}
	if req.Size == "" {
		req.Size = string(saved.Size)
	}
	settings, err := game.ParseSettings(req.Difficulty, req.Size)
	if err != nil {
		writeError(w, http.StatusBadRequest, settingsErrorCode(err))
		return
	}

	now := s.now()
	owner := s.ownerID(w, r)
	player := s.playerName(w, r)

	var (
		opts []game.Option
		date string
	)
	if req.Daily {
		date = daily.DateKey(now)
		played, err := s.daily.AlreadyPlayed(r.Context(), owner, date)
		if err != nil {
			log.Error().Err(err).Msg("daily lookup")
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}
		if played {
			writeError(w, http.StatusConflict, "daily_already_played")
			return
		}
		settings = daily.Settings
		opts = append(opts, game.WithSeed(daily.Seed(now, s.cfg.DailySalt)))
	}

	g := game.New(settings, player, owner, opts...)
	g.Daily = date

	s.mu.Lock()
	defer s.mu.Unlock()

	if req.PreviousGameID != "" {
		s.dropGame(r, req.PreviousGameID)
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save game")
		writeError(w, http.StatusInternalServerError, "save_failed")
		return
	}
	s.recordGame(r.Context(), g, currentUser(r), now)

	writeJSON(w, http.StatusOK, newGameView(g, now))
}

// handleGetGame holds s.mu while building the view; the memory store hands out
// the same *game.Game that handleAction mutates.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGameView(g, s.now()))
}

type positionReq struct {
	Row *int `json:"row"`
	Col *int `json:"col"`
}

// handleAction applies one reveal/flag/chord. Load, apply, save and the
// end-of-game bookkeeping run under s.mu so a win is recorded exactly once.
func (s *Server) handleAction(kind game.ActionKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req positionReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if req.Row == nil || req.Col == nil {
			writeError(w, http.StatusBadRequest, "invalid_position")
			return
		}
		action := game.Action{Kind: kind, Pos: game.Position{Row: *req.Row, Col: *req.Col}}

		s.mu.Lock()
		defer s.mu.Unlock()

		g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if !ownsGame(r, g) {
			writeError(w, http.StatusForbidden, "not_owner")
			return
		}
		now := s.now()
		out, err := g.Apply(action, now)
		if errors.Is(err, game.ErrOutOfBounds) {
			writeError(w, http.StatusBadRequest, "out_of_bounds")
			return
		}
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_action")
			return
		}
		if err := s.store.Save(r.Context(), g); err != nil {
			log.Error().Err(err).Str("gameId", g.ID).Msg("save game")
			writeError(w, http.StatusInternalServerError, "save_failed")
			return
		}
		if out != game.OutcomeContinue {
			s.finishGame(r.Context(), g, currentUser(r), out, now)
		}

		v := newGameView(g, now)
		v.Outcome = out.String()
		writeJSON(w, http.StatusOK, v)
	}
}

// recordGame inserts the history row for a new board (best effort).
func (s *Server) recordGame(ctx context.Context, g *game.Game, me *authUser, now time.Time) {
	var userID, anonID any
	if me != nil {
		userID = me.ID
	} else {
		anonID = g.Owner
	}
	var dailyDate any
	if g.Daily != "" {
		dailyDate = g.Daily
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games (id, user_id, anonymous_id, difficulty, size, daily, status, started_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		g.ID, userID, anonID, string(g.Settings.Difficulty), string(g.Settings.Size), dailyDate,
		string(game.StatusPlaying), now.UTC().Format(time.RFC3339))
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}
}

// finishGame closes the history row, bumps account stats and posts the result.
// Failures are logged; the game itself is already saved.
func (s *Server) finishGame(ctx context.Context, g *game.Game, me *authUser, out game.Outcome, now time.Time) {
	won := out == game.OutcomeWon
	elapsed := seconds(g.Elapsed(now))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin finish tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`UPDATE games SET status=?, finished_at=?, elapsed_seconds=? WHERE id=?`,
		string(g.Status()), now.UTC().Format(time.RFC3339), elapsed, g.ID); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("finish game")
	}
	if me != nil {
		if err := bumpStats(ctx, tx, me.ID, won); err != nil {
			log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit finish tx")
	}

	if g.Daily != "" {
		if err := s.daily.InsertResult(ctx, daily.Result{
			OwnerID: g.Owner, Username: g.Player, Date: g.Daily, Won: won, ElapsedSeconds: elapsed,
		}); err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("insert daily result")
		}
		return
	}
	if !won {
		return
	}
	id, err := s.scores.Insert(ctx, scores.Score{
		Username:      g.Player,
		TimeInSeconds: elapsed,
		Difficulty:    g.Settings.Difficulty,
		Size:          g.Settings.Size,
	})
	if err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert score")
		return
	}
	log.Info().Int64("scoreId", id).Str("player", g.Player).Int("seconds", elapsed).Msg("score recorded")
}

// dropGame deletes a finished-with session if the caller owns it.
func (s *Server) dropGame(r *http.Request, id string) {
	prev, err := s.store.Get(r.Context(), id)
	if err != nil || !ownsGame(r, prev) {
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		log.Warn().Err(err).Str("gameId", id).Msg("delete previous game")
	}
}

// ownerID is the account id when signed in, otherwise the anonymous cookie id.
func (s *Server) ownerID(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return s.ensureAnonID(w, r)
}

// ownsGame reports whether the caller started g, signed in or through the
// anonymous cookie. A guest who signs in mid-game keeps the anon cookie and
// can finish the board.
func ownsGame(r *http.Request, g *game.Game) bool {
	if me := currentUser(r); me != nil && me.ID == g.Owner {
		return true
	}
	c, err := r.Cookie(anonCookieName)
	return err == nil && c.Value != "" && c.Value == g.Owner
}

// playerName picks the leaderboard name: account name, then the saved
// username cookie, then a fresh random name which is saved for next time.
func (s *Server) playerName(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil && names.Valid(me.Username) {
		return me.Username
	}
	if c, err := r.Cookie(usernameCookie); err == nil && names.Valid(c.Value) {
		return c.Value
	}
	n := names.Random()
	s.setCookie(w, usernameCookie, n, s.now().Add(settingsCookieTTL), false)
	return n
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}
	log.Error().Err(err).Msg("load game")
	writeError(w, http.StatusInternalServerError, "load_failed")
}

func settingsErrorCode(err error) string {
	if errors.Is(err, game.ErrUnknownSize) {
		return "invalid_size"
	}
	return "invalid_difficulty"
}
