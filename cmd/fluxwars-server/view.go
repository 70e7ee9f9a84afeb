package main

import (
	"github.com/IlikeChooros/fluxwars/pkg/ai"
	"github.com/IlikeChooros/fluxwars/pkg/magnets"
)

// Board cells travel as [row, col] pairs
type cell [2]int

func toCell(p magnets.Pos) cell {
	return cell{p.Row, p.Col}
}

func (c cell) pos() magnets.Pos {
	return magnets.Pos{Row: c[0], Col: c[1]}
}

func toCells(ps []magnets.Pos) []cell {
	cells := make([]cell, len(ps))
	for i, p := range ps {
		cells[i] = toCell(p)
	}
	return cells
}

func toPositions(cells []cell) []magnets.Pos {
	ps := make([]magnets.Pos, len(cells))
	for i, c := range cells {
		ps[i] = c.pos()
	}
	return ps
}

type stateView struct {
	Game          string    `json:"game"`
	Phase         string    `json:"phase"`
	Current       string    `json:"current_player"`
	Dice          int       `json:"dice"`
	Rolled        bool      `json:"rolled"`
	MainTurns     int       `json:"main_turns"`
	MaxMainTurns  int       `json:"max_main_turns"`
	Acquired      [2]int    `json:"acquired"`
	TotalClusters int       `json:"total_clusters"`
	StealAllowed  string    `json:"steal_allowed_player"`
	Winner        string    `json:"winner"`
	Homes         [2]*cell  `json:"homes"`
	Counts        countView `json:"counts"`
}

type countView struct {
	Player1 int `json:"player1"`
	Player2 int `json:"player2"`
	Neutral int `json:"neutral"`
}

// gameView is the body of every successful response
type gameView struct {
	Success    bool                               `json:"success"`
	Message    string                             `json:"message,omitempty"`
	Board      [magnets.Size][magnets.Size]string `json:"board"`
	Polarities [magnets.Size][magnets.Size]string `json:"polarities"`
	State      stateView                          `json:"state"`
}

func viewOf(e *magnets.Engine, message string) gameView {
	b := e.Board()
	st := e.State()

	v := gameView{Success: true, Message: message}
	for r := range magnets.Size {
		for c := range magnets.Size {
			at := b.At(magnets.Pos{Row: r, Col: c})
			if at.Empty() {
				continue
			}
			v.Board[r][c] = at.Owner.String()
			v.Polarities[r][c] = at.Polarity.String()
		}
	}

	v.State = stateView{
		Game:          e.ID().String(),
		Phase:         st.Phase.String(),
		Current:       st.Current.String(),
		Dice:          st.Dice,
		Rolled:        st.Rolled,
		MainTurns:     st.MainTurns,
		MaxMainTurns:  st.MaxMainTurns,
		Acquired:      st.Acquired,
		TotalClusters: st.TotalClusters(),
		StealAllowed:  st.StealAllowed.String(),
		Winner:        st.Winner.String(),
		Counts: countView{
			Player1: b.Count(magnets.OwnerPlayer1),
			Player2: b.Count(magnets.OwnerPlayer2),
			Neutral: b.Count(magnets.OwnerNeutral),
		},
	}
	for i, home := range st.Homes {
		if home.Placed {
			anchor := toCell(home.Anchor)
			v.State.Homes[i] = &anchor
		}
	}
	return v
}

type outcomeView struct {
	gameView
	Converted []cell `json:"converted"`
	Cluster   []cell `json:"cluster"`
	Acquired  []int  `json:"acquired_clusters"`
}

func outcomeOf(e *magnets.Engine, out magnets.Outcome) outcomeView {
	return outcomeView{
		gameView:  viewOf(e, out.Message),
		Converted: toCells(out.Converted),
		Cluster:   toCells(out.Cluster),
		Acquired:  out.Acquired,
	}
}

type turnView struct {
	gameView
	Player string   `json:"player"`
	AI     string   `json:"ai"`
	Dice   int      `json:"dice"`
	Moves  []string `json:"moves"`
	Stole  bool     `json:"stole"`
	Ended  string   `json:"ended,omitempty"`
}

func turnOf(e *magnets.Engine, name string, report ai.TurnReport) turnView {
	v := turnView{
		gameView: viewOf(e, ""),
		Player:   report.Player.String(),
		AI:       name,
		Dice:     report.Dice,
		Moves:    make([]string, len(report.Moves)),
		Stole:    report.Stole,
	}
	for i, m := range report.Moves {
		v.Moves[i] = m.String()
	}
	if report.Err != nil {
		v.Ended = report.Err.Error()
	}
	return v
}

type errorView struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Reason  string `json:"reason,omitempty"`
}
