package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type gameIDPath struct {
	ID string `path:"id" description:"Game session id."`
}

type flipInput struct {
	gameIDPath
	FlipRequest
}

type recordInput struct {
	gameIDPath
	RecordRequest
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Emoji Memory API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Game sessions, live render events and the top-5 leaderboard for the emoji memory game.")

	// POST /api/games
	createGame, _ := r.NewOperationContext(http.MethodPost, "/api/games")
	createGame.SetSummary("Start a game")
	createGame.SetDescription("Creates a session and starts a solo or versus game. Blank versus names default to PLAYER 1 and PLAYER 2.")
	createGame.AddReqStructure(CreateGameRequest{})
	createGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	createGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusTooManyRequests))
	_ = r.AddOperation(createGame)

	// GET /api/games/{id}
	getGame, _ := r.NewOperationContext(http.MethodGet, "/api/games/{id}")
	getGame.SetSummary("Get game")
	getGame.SetDescription("Returns the session snapshot. Face-down cards do not reveal their symbol.")
	getGame.AddReqStructure(gameIDPath{})
	getGame.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getGame)

	// DELETE /api/games/{id}
	deleteGame, _ := r.NewOperationContext(http.MethodDelete, "/api/games/{id}")
	deleteGame.SetSummary("End game")
	deleteGame.SetDescription("Cancels pending timers and drops the session.")
	deleteGame.AddReqStructure(gameIDPath{})
	deleteGame.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteGame.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteGame)

	// POST /api/games/{id}/flip
	flip, _ := r.NewOperationContext(http.MethodPost, "/api/games/{id}/flip")
	flip.SetSummary("Flip a card")
	flip.SetDescription("Turns a card face up. Ignored while the board is locked, during a turn announcement or for matched cards.")
	flip.AddReqStructure(flipInput{})
	flip.AddRespStructure(FlipResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	flip.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	flip.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(flip)

	for _, op := range []struct{ path, summary, desc string }{
		{"/api/games/{id}/next", "Next level", "Advances from the level-complete screen."},
		{"/api/games/{id}/restart", "Restart level", "Re-deals the current level. The solo clock keeps running."},
	} {
		oc, _ := r.NewOperationContext(http.MethodPost, op.path)
		oc.SetSummary(op.summary)
		oc.SetDescription(op.desc)
		oc.AddReqStructure(gameIDPath{})
		oc.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
		_ = r.AddOperation(oc)
	}

	// POST /api/games/{id}/menu
	menu, _ := r.NewOperationContext(http.MethodPost, "/api/games/{id}/menu")
	menu.SetSummary("Return to menu")
	menu.SetDescription("Cancels every timer and resets all session and versus state.")
	menu.AddReqStructure(gameIDPath{})
	menu.AddRespStructure(GameResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	menu.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(menu)

	// POST /api/games/{id}/record
	record, _ := r.NewOperationContext(http.MethodPost, "/api/games/{id}/record")
	record.SetSummary("Save record")
	record.SetDescription("Saves the finished solo time when it makes the top 5. Falls back to the local leaderboard when the global one is unreachable.")
	record.AddReqStructure(recordInput{})
	record.AddRespStructure(RecordResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	record.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	record.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(record)

	// GET /api/games/{id}/events
	gameEvents, _ := r.NewOperationContext(http.MethodGet, "/api/games/{id}/events")
	gameEvents.SetSummary("Game event stream")
	gameEvents.SetDescription("Server-Sent Events with board, card, hud and modal updates for one session.")
	gameEvents.AddReqStructure(gameIDPath{})
	gameEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(gameEvents)

	// GET /api/scores
	listScores, _ := r.NewOperationContext(http.MethodGet, "/api/scores")
	listScores.SetSummary("Top 5 records")
	listScores.SetDescription("Returns the authoritative top 5, global while online and local otherwise.")
	listScores.AddRespStructure(ScoresResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listScores)

	// GET /api/scores/events
	scoreEvents, _ := r.NewOperationContext(http.MethodGet, "/api/scores/events")
	scoreEvents.SetSummary("Leaderboard event stream")
	scoreEvents.SetDescription("Server-Sent Events with leaderboard and connectivity changes.")
	scoreEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(scoreEvents)

	// GET /api/connectivity
	getConn, _ := r.NewOperationContext(http.MethodGet, "/api/connectivity")
	getConn.SetSummary("Connectivity status")
	getConn.AddRespStructure(ConnectivityResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getConn)

	// POST /api/connectivity
	setConn, _ := r.NewOperationContext(http.MethodPost, "/api/connectivity")
	setConn.SetSummary("Report connectivity")
	setConn.SetDescription("The client reports an online/offline transition. Going online probes the global leaderboard first.")
	setConn.AddReqStructure(ConnectivityRequest{})
	setConn.AddRespStructure(ConnectivityResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(setConn)

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the status of each storage dependency.")
	getHealthz.AddRespStructure(map[string]healthStatus{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]healthStatus{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	return r.Spec
}

// healthStatus documents the body written by the health handler.
type healthStatus struct {
	Status string `json:"status" enum:"ok,error"`
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
