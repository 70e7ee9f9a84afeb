package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/IlikeChooros/fluxwars/internal/config"
	"github.com/IlikeChooros/fluxwars/pkg/ai"
	"github.com/IlikeChooros/fluxwars/pkg/magnets"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	cfg := config.Default()
	cfg.Difficulty = ai.Easy
	s, err := NewServer(cfg, logrus.NewEntry(logger), magnets.WithSeed(42))
	require.NoError(t, err)
	return s
}

// request sends body as json and decodes the response into out, if given
func request(t *testing.T, s *Server, method, path string, body, out any) int {
	t.Helper()
	var reader io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(method, path, reader))
	if out != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

// setup places both homes, the game ends up in the main phase
func setup(t *testing.T, s *Server) {
	t.Helper()
	require.Equal(t, http.StatusOK, request(t, s, "POST", "/place", placeRequest{Row: 4, Col: 3}, nil))
	require.Equal(t, http.StatusOK, request(t, s, "POST", "/place", placeRequest{Row: 9, Col: 10}, nil))
}

func TestPlacement(t *testing.T) {
	s := newTestServer(t)

	var state gameView
	assert.Equal(t, http.StatusOK, request(t, s, "GET", "/state", nil, &state))
	assert.Equal(t, "home_setup", state.State.Phase)
	assert.Equal(t, "P1", state.State.Current)
	assert.Equal(t, s.engine.ID().String(), state.State.Game)

	var placed outcomeView
	assert.Equal(t, http.StatusOK, request(t, s, "POST", "/place", placeRequest{Row: 4, Col: 3}, &placed))
	assert.True(t, placed.Success)
	assert.Equal(t, "P2", placed.State.Current)
	assert.Equal(t, "player1", placed.Board[4][3])
	assert.Equal(t, "+", placed.Polarities[4][3])
	assert.Equal(t, "-", placed.Polarities[4][4])
	require.NotNil(t, placed.State.Homes[0])
	assert.Equal(t, cell{4, 3}, *placed.State.Homes[0])
	assert.Nil(t, placed.State.Homes[1])

	var rejected errorView
	assert.Equal(t, http.StatusBadRequest, request(t, s, "POST", "/place", placeRequest{Row: 9, Col: 3}, &rejected))
	assert.False(t, rejected.Success)
	assert.Equal(t, "wrong half", rejected.Reason)

	assert.Equal(t, http.StatusOK, request(t, s, "POST", "/place", placeRequest{Row: 9, Col: 10}, &placed))
	assert.Equal(t, "main", placed.State.Phase)
	assert.Equal(t, "P1", placed.State.Current)
	assert.Equal(t, 16, placed.State.Counts.Neutral)
	assert.Equal(t, 8, placed.State.TotalClusters)

	assert.Equal(t, http.StatusBadRequest, request(t, s, "POST", "/place", placeRequest{Row: 1, Col: 1}, &rejected))
	assert.Equal(t, "wrong phase", rejected.Reason)
}

func TestRoll(t *testing.T) {
	s := newTestServer(t)
	setup(t, s)

	var roll rollView
	require.Equal(t, http.StatusOK, request(t, s, "POST", "/roll", nil, &roll))
	assert.GreaterOrEqual(t, roll.Dice, 1)
	assert.LessOrEqual(t, roll.Dice, 6)
	assert.Equal(t, roll.Dice, roll.State.Dice)
	assert.True(t, roll.State.Rolled)

	var rejected errorView
	assert.Equal(t, http.StatusBadRequest, request(t, s, "POST", "/roll", nil, &rejected))
	assert.Equal(t, "already rolled", rejected.Reason)
}

func TestCluster(t *testing.T) {
	s := newTestServer(t)
	setup(t, s)

	var got map[string][]cell
	require.Equal(t, http.StatusOK, request(t, s, "POST", "/cluster", cellRequest{Row: 4, Col: 3}, &got))
	assert.ElementsMatch(t, []cell{{4, 3}, {4, 4}}, got["cluster"])

	require.Equal(t, http.StatusOK, request(t, s, "POST", "/cluster", cellRequest{Row: 0, Col: magnets.MiddleColumn}, &got))
	assert.Empty(t, got["cluster"])
}

func TestMove(t *testing.T) {
	s := newTestServer(t)
	setup(t, s)
	require.Equal(t, http.StatusOK, request(t, s, "POST", "/roll", nil, nil))

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	move, err := ai.NewHeuristic(logrus.NewEntry(logger)).ChooseMove(context.Background(), s.engine)
	require.NoError(t, err)
	delta := move.Dir.Delta()

	req := moveRequest{
		Cluster: toCells(s.engine.SelectCluster(move.Anchor)),
		DRow:    delta.DRow,
		DCol:    delta.DCol,
	}
	var moved outcomeView
	require.Equal(t, http.StatusOK, request(t, s, "POST", "/move", req, &moved))
	assert.True(t, moved.Success)
	assert.NotEmpty(t, moved.Cluster)
	assert.NotEmpty(t, moved.Message)
}

func TestMoveRejected(t *testing.T) {
	s := newTestServer(t)
	setup(t, s)
	require.Equal(t, http.StatusOK, request(t, s, "POST", "/roll", nil, nil))

	var rejected errorView
	req := moveRequest{Cluster: []cell{{9, 10}, {9, 11}}, DCol: 1}
	assert.Equal(t, http.StatusBadRequest, request(t, s, "POST", "/move", req, &rejected))
	assert.NotEmpty(t, rejected.Reason)
	assert.NotEmpty(t, rejected.Message)
}

func TestMalformedRequests(t *testing.T) {
	s := newTestServer(t)
	setup(t, s)

	var rejected errorView
	assert.Equal(t, http.StatusBadRequest, request(t, s, "POST", "/move", "{", &rejected))
	assert.Empty(t, rejected.Reason)
	assert.Equal(t, http.StatusBadRequest, request(t, s, "POST", "/move", `{"cells": []}`, &rejected))
	assert.Equal(t, http.StatusNotFound, request(t, s, "GET", "/nothing", nil, nil))
}

func TestStealNotAllowed(t *testing.T) {
	s := newTestServer(t)
	setup(t, s)

	var rejected errorView
	req := stealRequest{Source: cell{9, 10}}
	assert.Equal(t, http.StatusBadRequest, request(t, s, "POST", "/steal", req, &rejected))
	assert.Equal(t, "steal not allowed", rejected.Reason)
}

func TestEndTurn(t *testing.T) {
	s := newTestServer(t)
	setup(t, s)

	var state gameView
	require.Equal(t, http.StatusOK, request(t, s, "POST", "/end-turn", nil, &state))
	assert.Equal(t, "P2", state.State.Current)
	assert.Equal(t, 1, state.State.MainTurns)
	assert.Equal(t, "Turn ended, P2 to move.", state.Message)
}

func TestAITurn(t *testing.T) {
	s := newTestServer(t)

	var rejected errorView
	assert.Equal(t, http.StatusBadRequest, request(t, s, "POST", "/ai-turn", nil, &rejected))
	assert.Equal(t, "wrong phase", rejected.Reason)

	setup(t, s)
	var turn turnView
	require.Equal(t, http.StatusOK, request(t, s, "POST", "/ai-turn", nil, &turn))
	assert.Equal(t, "P1", turn.Player)
	assert.Equal(t, "heuristic", turn.AI)
	assert.GreaterOrEqual(t, turn.Dice, 1)
	assert.NotEqual(t, "P1", turn.State.Current)
}

func TestReset(t *testing.T) {
	s := newTestServer(t)
	setup(t, s)
	before := s.engine.ID().String()

	var state gameView
	require.Equal(t, http.StatusOK, request(t, s, "POST", "/reset", nil, &state))
	assert.Equal(t, "home_setup", state.State.Phase)
	assert.Equal(t, 0, state.State.Counts.Neutral)
	assert.NotEqual(t, before, state.State.Game)
}
