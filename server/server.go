// Package server exposes the match driver over HTTP for a presentation
// layer: REST endpoints for setup and control, a websocket stream of
// match state after every step. The server renders nothing itself.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"connectfour/engine"
	"connectfour/evaluator"
	"connectfour/game"
)

type Server struct {
	store    *store
	router   *mux.Router
	upgrader websocket.Upgrader
}

func New() *Server {
	s := &Server{
		store: newStore(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}

	router := mux.NewRouter()
	router.HandleFunc("/api/matches", s.createMatch).Methods("POST")
	router.HandleFunc("/api/matches", s.listMatches).Methods("GET")
	router.HandleFunc("/api/matches/{id}", s.getMatch).Methods("GET")
	router.HandleFunc("/api/matches/{id}/step", s.stepMatch).Methods("POST")
	router.HandleFunc("/api/matches/{id}/move", s.playMove).Methods("POST")
	router.HandleFunc("/api/matches/{id}/reset", s.resetMatch).Methods("POST")
	router.HandleFunc("/ws/matches/{id}", s.watchMatch)
	s.router = router

	return s
}

// Router exposes the handler tree, mainly for tests.
func (s *Server) Router() http.Handler { return s.router }

func (s *Server) ListenAndServe(addr string) error {
	log.Info().Str("addr", addr).Msg("serving matches")
	return http.ListenAndServe(addr, s.router)
}

type errorResponse struct {
	Error string `json:"error"`
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, errorResponse{Error: message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal server error"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

type createMatchRequest struct {
	Seats [2]SeatConfig `json:"seats"`
}

func (s *Server) createMatch(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	first, err := buildSeat(req.Seats[0])
	if err != nil {
		respondWithSeatError(w, err)
		return
	}
	second, err := buildSeat(req.Seats[1])
	if err != nil {
		respondWithSeatError(w, err)
		return
	}

	session := s.store.create(engine.NewMatch(first, second), req.Seats)
	log.Info().Str("match", session.id).
		Str("seat_a", req.Seats[0].Kind).
		Str("seat_b", req.Seats[1].Kind).
		Msg("match created")

	session.mu.Lock()
	defer session.mu.Unlock()
	respondWithJSON(w, http.StatusCreated, snapshotLocked(session))
}

// respondWithSeatError distinguishes a broken seat config from a
// missing model artifact; the latter is fatal for this match only.
func respondWithSeatError(w http.ResponseWriter, err error) {
	var loadErr *evaluator.ModelLoadError
	if errors.As(err, &loadErr) {
		respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	respondWithError(w, http.StatusBadRequest, err.Error())
}

func (s *Server) listMatches(w http.ResponseWriter, r *http.Request) {
	sessions := s.store.list()
	states := make([]MatchState, 0, len(sessions))
	for _, session := range sessions {
		session.mu.Lock()
		states = append(states, snapshotLocked(session))
		session.mu.Unlock()
	}
	respondWithJSON(w, http.StatusOK, states)
}

func (s *Server) getMatch(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.get(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	respondWithJSON(w, http.StatusOK, snapshotLocked(session))
}

func (s *Server) stepMatch(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.get(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	step, err := session.match.Step()
	switch {
	case errors.Is(err, engine.ErrMatchOver):
		respondWithError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, engine.ErrHumanSeat):
		respondWithError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	session.lastStep = &step
	session.broadcast()
	respondWithJSON(w, http.StatusOK, snapshotLocked(session))
}

type playMoveRequest struct {
	Column int `json:"column"`
}

func (s *Server) playMove(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.get(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	var req playMoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	// Moves only come in from outside on a human seat; agent seats
	// advance through the step endpoint.
	seat := 0
	if session.match.Turn() == game.PlayerB {
		seat = 1
	}
	if session.seats[seat].Kind != "human" {
		respondWithError(w, http.StatusConflict, "seat to move is agent driven")
		return
	}

	step, err := session.match.Play(req.Column)
	var illegal *game.IllegalMoveError
	switch {
	case errors.Is(err, engine.ErrMatchOver):
		respondWithError(w, http.StatusConflict, err.Error())
		return
	case errors.As(err, &illegal):
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		respondWithError(w, http.StatusInternalServerError, err.Error())
		return
	}

	session.lastStep = &step
	session.broadcast()
	respondWithJSON(w, http.StatusOK, snapshotLocked(session))
}

func (s *Server) resetMatch(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.get(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.match.Reset()
	session.lastStep = nil
	session.broadcast()
	respondWithJSON(w, http.StatusOK, snapshotLocked(session))
}

func (s *Server) watchMatch(w http.ResponseWriter, r *http.Request) {
	session, err := s.store.get(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusNotFound, err.Error())
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	// Push the current state so late joiners can render, then register
	// the connection, all under the session mutex. Every write to a
	// subscribed connection happens while holding the mutex; the
	// websocket allows only one concurrent writer.
	session.mu.Lock()
	state := snapshotLocked(session)
	if err := conn.WriteJSON(state); err != nil {
		session.mu.Unlock()
		conn.Close()
		return
	}
	session.conns[conn] = true
	session.mu.Unlock()

	log.Debug().Str("match", session.id).Msg("watcher connected")

	// Drain reads to detect disconnects; watchers never send commands.
	go func() {
		defer func() {
			session.unsubscribe(conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
