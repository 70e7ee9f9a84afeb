package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/IlikeChooros/fluxwars/pkg/ai"
	"github.com/IlikeChooros/fluxwars/pkg/magnets"
	"github.com/sirupsen/logrus"
)

// Largest request body accepted
const maxBody = 1 << 16

var errBadRequest = errors.New("bad request")

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// fail maps engine errors to a status: rule violations and malformed input
// are the client's fault, anything else is ours
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	body := errorView{Message: err.Error()}
	var re *magnets.RuleError
	switch {
	case errors.As(err, &re):
		body.Reason = re.Reason.String()
		respond(w, http.StatusBadRequest, body)
	case errors.Is(err, errBadRequest), errors.Is(err, magnets.ErrMalformedInput):
		respond(w, http.StatusBadRequest, body)
	default:
		s.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		respond(w, http.StatusInternalServerError, body)
	}
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	respond(w, http.StatusOK, viewOf(s.engine, ""))
}

type placeRequest struct {
	Row         int `json:"row"`
	Col         int `json:"col"`
	Orientation int `json:"orientation"`
}

func (s *Server) handlePlace(w http.ResponseWriter, r *http.Request) {
	var req placeRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.engine.PlaceHome(req.Row, req.Col, magnets.Orientation(req.Orientation))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, outcomeOf(s.engine, out))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.Reset()
	respond(w, http.StatusOK, viewOf(s.engine, "Board reset."))
}

type rollView struct {
	gameView
	Dice         int    `json:"dice"`
	StealTargets []cell `json:"steal_targets"`
}

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roll, err := s.engine.RollDice()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, rollView{
		gameView:     viewOf(s.engine, fmt.Sprintf("Rolled %d.", roll.Value)),
		Dice:         roll.Value,
		StealTargets: toCells(roll.StealTargets),
	})
}

type cellRequest struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s *Server) handleCluster(w http.ResponseWriter, r *http.Request) {
	var req cellRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cluster := s.engine.SelectCluster(magnets.Pos{Row: req.Row, Col: req.Col})
	respond(w, http.StatusOK, map[string][]cell{"cluster": toCells(cluster)})
}

type moveRequest struct {
	Cluster []cell `json:"cluster"`
	DRow    int    `json:"dr"`
	DCol    int    `json:"dc"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delta := magnets.Delta{DRow: req.DRow, DCol: req.DCol}
	out, err := s.engine.MoveCluster(toPositions(req.Cluster), delta, s.engine.Current())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, outcomeOf(s.engine, out))
}

type rotateRequest struct {
	Cluster []cell `json:"cluster"`
}

func (s *Server) handleRotate(w http.ResponseWriter, r *http.Request) {
	var req rotateRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.engine.Rotate(toPositions(req.Cluster), s.engine.Current())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, outcomeOf(s.engine, out))
}

// Without a target the piece is taken over where it stands
type stealRequest struct {
	Source cell  `json:"source"`
	Target *cell `json:"target"`
}

func (s *Server) handleSteal(w http.ResponseWriter, r *http.Request) {
	var req stealRequest
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	target := req.Source
	if req.Target != nil {
		target = *req.Target
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	out, err := s.engine.Steal(s.engine.Current(), req.Source.pos(), target.pos())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, outcomeOf(s.engine, out))
}

func (s *Server) handleEndTurn(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.engine.EndTurn(s.engine.Current())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respond(w, http.StatusOK, viewOf(s.engine, fmt.Sprintf("Turn ended, %s to move.", next)))
}

// handleAITurn plays the whole turn of the player to move with the
// configured ai
func (s *Server) handleAITurn(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	report, err := ai.TakeTurn(r.Context(), s.engine, s.player)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.log.WithFields(logrus.Fields{
		"player": report.Player,
		"moves":  len(report.Moves),
		"dice":   report.Dice,
	}).Info("ai turn")
	respond(w, http.StatusOK, turnOf(s.engine, s.player.Name(), report))
}
