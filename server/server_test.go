package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) (*httptest.ResponseRecorder, MatchState) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var state MatchState
	if rec.Code < 300 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	}
	return rec, state
}

func createTestMatch(t *testing.T, s *Server, seats [2]SeatConfig) MatchState {
	t.Helper()
	rec, state := doJSON(t, s.Router(), "POST", "/api/matches", createMatchRequest{Seats: seats})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotEmpty(t, state.ID)
	return state
}

func TestCreateMatch(t *testing.T) {
	s := New()

	t.Run("agent seats start in progress with an empty grid", func(t *testing.T) {
		state := createTestMatch(t, s, [2]SeatConfig{
			{Kind: "minimax", Depth: 2},
			{Kind: "greedy"},
		})

		require.Equal(t, "in_progress", state.Status)
		require.Equal(t, "A", state.Turn)
		require.Zero(t, state.Moves)
		require.Len(t, state.Grid, 6)
		require.Len(t, state.Grid[0], 7)
	})

	t.Run("unknown seat kind is a bad request", func(t *testing.T) {
		rec, _ := doJSON(t, s.Router(), "POST", "/api/matches", createMatchRequest{
			Seats: [2]SeatConfig{{Kind: "psychic"}, {Kind: "greedy"}},
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing model artifact is unprocessable", func(t *testing.T) {
		rec, _ := doJSON(t, s.Router(), "POST", "/api/matches", createMatchRequest{
			Seats: [2]SeatConfig{{Kind: "ml", ModelPath: "/nonexistent/model.json"}, {Kind: "greedy"}},
		})
		require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestStepMatch(t *testing.T) {
	s := New()
	state := createTestMatch(t, s, [2]SeatConfig{
		{Kind: "minimax", Depth: 2, Tree: true},
		{Kind: "random", Seed: 3},
	})

	t.Run("stepping advances the match and reports the move", func(t *testing.T) {
		rec, stepped := doJSON(t, s.Router(), "POST", "/api/matches/"+state.ID+"/step", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, stepped.Moves)
		require.Equal(t, "B", stepped.Turn)
		require.NotNil(t, stepped.LastMove)
		require.Equal(t, "A", stepped.LastMove.Player)
		require.Positive(t, stepped.LastMove.Nodes)
		require.NotNil(t, stepped.LastMove.Tree, "tree capture was requested for seat A")
	})

	t.Run("stepping to completion then again conflicts", func(t *testing.T) {
		for i := 0; i < 42; i++ {
			rec, stepped := doJSON(t, s.Router(), "POST", "/api/matches/"+state.ID+"/step", nil)
			if rec.Code == http.StatusConflict {
				break
			}
			require.Equal(t, http.StatusOK, rec.Code)
			if stepped.Status != "in_progress" {
				break
			}
		}

		rec, final := doJSON(t, s.Router(), "GET", "/api/matches/"+state.ID, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotEqual(t, "in_progress", final.Status)

		rec, _ = doJSON(t, s.Router(), "POST", "/api/matches/"+state.ID+"/step", nil)
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown match is not found", func(t *testing.T) {
		rec, _ := doJSON(t, s.Router(), "POST", "/api/matches/nope/step", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHumanSeat(t *testing.T) {
	s := New()
	state := createTestMatch(t, s, [2]SeatConfig{
		{Kind: "human"},
		{Kind: "greedy"},
	})

	t.Run("stepping a human seat conflicts", func(t *testing.T) {
		rec, _ := doJSON(t, s.Router(), "POST", "/api/matches/"+state.ID+"/step", nil)
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("an illegal human move is a bad request", func(t *testing.T) {
		rec, _ := doJSON(t, s.Router(), "POST", "/api/matches/"+state.ID+"/move", playMoveRequest{Column: 11})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("a move on an agent seat conflicts", func(t *testing.T) {
		agents := createTestMatch(t, s, [2]SeatConfig{{Kind: "greedy"}, {Kind: "human"}})
		rec, _ := doJSON(t, s.Router(), "POST", "/api/matches/"+agents.ID+"/move", playMoveRequest{Column: 3})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("a legal human move applies and the agent can answer", func(t *testing.T) {
		rec, moved := doJSON(t, s.Router(), "POST", "/api/matches/"+state.ID+"/move", playMoveRequest{Column: 3})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 1, moved.Moves)
		require.Equal(t, "A", moved.Grid[5][3], "human token lands on the bottom row")

		rec, answered := doJSON(t, s.Router(), "POST", "/api/matches/"+state.ID+"/step", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, 2, answered.Moves)
	})
}

func TestResetMatch(t *testing.T) {
	s := New()
	state := createTestMatch(t, s, [2]SeatConfig{
		{Kind: "random", Seed: 1},
		{Kind: "random", Seed: 2},
	})

	for i := 0; i < 5; i++ {
		rec, _ := doJSON(t, s.Router(), "POST", "/api/matches/"+state.ID+"/step", nil)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec, reset := doJSON(t, s.Router(), "POST", "/api/matches/"+state.ID+"/reset", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Zero(t, reset.Moves)
	require.Equal(t, "in_progress", reset.Status)
	require.Nil(t, reset.LastMove)
	require.Equal(t, state.Seats, reset.Seats, "reset keeps the seat configuration")
}

func TestWatchMatch(t *testing.T) {
	s := New()
	state := createTestMatch(t, s, [2]SeatConfig{
		{Kind: "random", Seed: 7},
		{Kind: "greedy"},
	})

	srv := httptest.NewServer(s.Router())
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/matches/" + state.ID

	dial := func(t *testing.T) *websocket.Conn {
		t.Helper()
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
		require.NoError(t, err)
		return conn
	}

	t.Run("a watcher receives the current state on connect", func(t *testing.T) {
		conn := dial(t)
		defer conn.Close()

		var got MatchState
		require.NoError(t, conn.ReadJSON(&got))
		require.Equal(t, state.ID, got.ID)
		require.Equal(t, "in_progress", got.Status)
	})

	t.Run("watchers receive the state after every step", func(t *testing.T) {
		conn := dial(t)
		defer conn.Close()

		var initial MatchState
		require.NoError(t, conn.ReadJSON(&initial))

		rec, _ := doJSON(t, s.Router(), "POST", "/api/matches/"+state.ID+"/step", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var got MatchState
		require.NoError(t, conn.ReadJSON(&got))
		require.Equal(t, initial.Moves+1, got.Moves)
		require.NotNil(t, got.LastMove)
	})

	t.Run("watchers joining during play read intact frames", func(t *testing.T) {
		post := func(path string) int {
			req := httptest.NewRequest("POST", path, nil)
			rec := httptest.NewRecorder()
			s.Router().ServeHTTP(rec, req)
			return rec.Code
		}

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < 100; i++ {
				if post("/api/matches/"+state.ID+"/step") == http.StatusConflict {
					post("/api/matches/" + state.ID + "/reset")
				}
			}
		}()

		for i := 0; i < 50; i++ {
			conn := dial(t)
			var got MatchState
			require.NoError(t, conn.ReadJSON(&got))
			require.Equal(t, state.ID, got.ID)
			conn.Close()
		}
		<-done
	})

	t.Run("watching an unknown match is not found", func(t *testing.T) {
		_, resp, err := websocket.DefaultDialer.Dial(
			"ws"+strings.TrimPrefix(srv.URL, "http")+"/ws/matches/nope", nil)
		require.Error(t, err)
		require.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestListMatches(t *testing.T) {
	s := New()
	createTestMatch(t, s, [2]SeatConfig{{Kind: "random", Seed: 1}, {Kind: "greedy"}})
	createTestMatch(t, s, [2]SeatConfig{{Kind: "greedy"}, {Kind: "greedy"}})

	req := httptest.NewRequest("GET", "/api/matches", nil)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var states []MatchState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &states))
	require.Len(t, states, 2)
}
