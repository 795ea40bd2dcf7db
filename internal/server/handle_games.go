package server

import (
	"errors"
	"net/http"

	"github.com/playperu/emojimemory/internal/memory"
	"github.com/playperu/emojimemory/internal/scores"
)

type CreateGameRequest struct {
	Mode    memory.Mode `json:"mode"`
	Player1 string      `json:"player1,omitempty"`
	Player2 string      `json:"player2,omitempty"`
}

// GameResponse is a session snapshot. RecordEligible is only set once a
// solo game has finished and no record was saved yet.
type GameResponse struct {
	memory.Snapshot
	RecordEligible *bool `json:"recordEligible,omitempty"`
}

type FlipRequest struct {
	Card *int `json:"card"`
}

type FlipResponse struct {
	Result string       `json:"result"`
	Game   GameResponse `json:"game"`
}

type RecordRequest struct {
	Name string `json:"name"`
}

type RecordResponse struct {
	Records []scores.Record `json:"records"`
	Source  scores.Source   `json:"source"`
	Title   string          `json:"title"`
	Notice  string          `json:"notice,omitempty"`
}

func gameResponse(r *http.Request, s *memory.Session) GameResponse {
	resp := GameResponse{Snapshot: s.Snapshot()}
	out := resp.Outcome
	if resp.Phase == memory.PhaseGameComplete && resp.Mode == memory.ModeSolo && out != nil && !out.RecordSaved {
		if ok, err := s.RecordEligible(r.Context()); err == nil {
			resp.RecordEligible = &ok
		}
	}
	return resp
}

func handleCreateGame(sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateGameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Mode != memory.ModeSolo && req.Mode != memory.ModeVersus {
			writeError(w, http.StatusBadRequest, "mode must be solo or versus")
			return
		}

		s, err := sessions.Create()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not create game")
			return
		}
		if req.Mode == memory.ModeVersus {
			s.StartVersus(req.Player1, req.Player2)
		} else {
			s.StartSolo()
		}

		writeJSON(w, http.StatusCreated, gameResponse(r, s))
	}
}

func handleGetGame() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, gameResponse(r, sessionFrom(r)))
	}
}

func handleFlip() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FlipRequest
		if err := readJSON(r, &req); err != nil || req.Card == nil {
			writeError(w, http.StatusBadRequest, "card is required")
			return
		}

		s := sessionFrom(r)
		res := s.Flip(*req.Card)
		writeJSON(w, http.StatusOK, FlipResponse{Result: res.String(), Game: gameResponse(r, s)})
	}
}

func handleNextLevel() http.HandlerFunc {
	return handlePhaseAction(func(s *memory.Session) error { return s.NextLevel() })
}

func handleRestartLevel() http.HandlerFunc {
	return handlePhaseAction(func(s *memory.Session) error { return s.RestartLevel() })
}

func handlePhaseAction(action func(*memory.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessionFrom(r)
		if err := action(s); err != nil {
			if errors.Is(err, memory.ErrWrongPhase) {
				writeError(w, http.StatusConflict, err.Error())
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, gameResponse(r, s))
	}
}

func handleReturnToMenu() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessionFrom(r)
		s.ReturnToMenu()
		writeJSON(w, http.StatusOK, gameResponse(r, s))
	}
}

func handleDeleteGame(sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessionFrom(r)
		s.ReturnToMenu()
		sessions.Remove(s.ID())
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleSaveRecord(feed *scores.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RecordRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		sub, err := sessionFrom(r).SaveRecord(r.Context(), req.Name)
		switch {
		case errors.Is(err, memory.ErrRecordNotAllowed), errors.Is(err, memory.ErrRecordSaved), errors.Is(err, memory.ErrNotEligible):
			writeError(w, http.StatusConflict, err.Error())
			return
		case errors.Is(err, memory.ErrNoLeaderboard):
			writeError(w, http.StatusServiceUnavailable, err.Error())
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "could not save record")
			return
		}

		feed.Push(scores.Board{Records: sub.Records, Source: sub.Source})
		writeJSON(w, http.StatusOK, RecordResponse{
			Records: sub.Records,
			Source:  sub.Source,
			Title:   sub.Source.Title(),
			Notice:  sub.Notice,
		})
	}
}
