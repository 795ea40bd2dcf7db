package server

import (
	"log/slog"
	"net/http"

	"github.com/playperu/emojimemory/internal/scores"
)

const (
	eventLeaderboard  = "leaderboard"
	eventConnectivity = "connectivity"
)

type ScoresResponse struct {
	Records  []scores.Record `json:"records"`
	Source   scores.Source   `json:"source"`
	Title    string          `json:"title"`
	Subtitle string          `json:"subtitle"`
}

func newScoresResponse(b scores.Board) ScoresResponse {
	records := b.Records
	if records == nil {
		records = []scores.Record{}
	}
	return ScoresResponse{
		Records:  records,
		Source:   b.Source,
		Title:    b.Source.Title(),
		Subtitle: b.Source.Subtitle(),
	}
}

type ConnectivityRequest struct {
	Online bool `json:"online"`
}

type ConnectivityResponse struct {
	Offline   bool          `json:"offline"`
	Permanent bool          `json:"permanent"`
	Source    scores.Source `json:"source"`
}

func connectivityOf(fb *scores.Fallback) ConnectivityResponse {
	conn := fb.Connectivity()
	return ConnectivityResponse{
		Offline:   conn.Offline(),
		Permanent: conn.Permanent(),
		Source:    fb.Source(),
	}
}

func handleListScores(fb *scores.Fallback) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		b, err := fb.Board(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "could not read records")
			return
		}
		writeJSON(w, http.StatusOK, newScoresResponse(b))
	}
}

func handleGetConnectivity(fb *scores.Fallback) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, connectivityOf(fb))
	}
}

// handleSetConnectivity takes the client's online/offline report. Going
// online probes the remote before switching back to it.
func handleSetConnectivity(logger *slog.Logger, fb *scores.Fallback, feed *scores.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ConnectivityRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if req.Online {
			if fb.Reconnect(r.Context()) {
				if err := feed.Refresh(r.Context()); err != nil {
					logger.Warn("refreshing leaderboard after reconnect", "error", err)
				}
			}
		} else {
			fb.Disconnect()
		}
		writeJSON(w, http.StatusOK, connectivityOf(fb))
	}
}
