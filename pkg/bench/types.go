package bench

import (
	"sync/atomic"

	"github.com/IlikeChooros/fluxwars/pkg/ai"
	"github.com/IlikeChooros/fluxwars/pkg/magnets"
)

type VersusMatchResult int

const (
	VersusPl1Win VersusMatchResult = 1
	VersusPl2Win VersusMatchResult = -1
	VersusDraw   VersusMatchResult = 0
)

func (r VersusMatchResult) String() string {
	switch r {
	case VersusPl1Win:
		return "player1"
	case VersusPl2Win:
		return "player2"
	}
	return "draw"
}

type VersusArenaStats struct {
	p1Wins           atomic.Uint32
	p2Wins           atomic.Uint32
	draws            atomic.Uint32
	firstToMoveWins  atomic.Uint32
	secondToMoveWins atomic.Uint32
}

func (vas *VersusArenaStats) Total() int {
	return vas.P1Wins() + vas.P2Wins() + vas.Draws()
}

func (vas *VersusArenaStats) P1Wins() int {
	return int(vas.p1Wins.Load())
}

func (vas *VersusArenaStats) P2Wins() int {
	return int(vas.p2Wins.Load())
}

func (vas *VersusArenaStats) Draws() int {
	return int(vas.draws.Load())
}

func (vas *VersusArenaStats) FirstToMoveWins() int {
	return int(vas.firstToMoveWins.Load())
}

func (vas *VersusArenaStats) SecondToMoveWins() int {
	return int(vas.secondToMoveWins.Load())
}

// record counts a finished game, winner is the seat that won
func (vas *VersusArenaStats) record(result VersusMatchResult, winner magnets.Winner) {
	switch result {
	case VersusPl1Win:
		vas.p1Wins.Add(1)
	case VersusPl2Win:
		vas.p2Wins.Add(1)
	default:
		vas.draws.Add(1)
	}
	switch winner {
	case magnets.WinnerPlayer1:
		vas.firstToMoveWins.Add(1)
	case magnets.WinnerPlayer2:
		vas.secondToMoveWins.Add(1)
	}
}

type VersusWorkerInfo struct {
	WorkerID      int
	NGames        int
	FinishedGames int
	// Index of the game in the whole run
	Game        int
	GameMoveNum int
	Moves       []ai.Move
	Result      VersusMatchResult
	P1Wins      int
	P2Wins      int
	Draws       int
	P1Name      string
	P2Name      string
}

type VersusSummary struct {
	TotalGames       int    `json:"total_games"`
	P1Wins           int    `json:"player1_wins"`
	P2Wins           int    `json:"player2_wins"`
	FirstToMoveWins  int    `json:"first_to_move_wins"`
	SecondToMoveWins int    `json:"second_to_move_wins"`
	Draws            int    `json:"draws"`
	Workers          int    `json:"workers"`
	P1Name           string `json:"player1_name"`
	P2Name           string `json:"player2_name"`
}

// maps the engine's winner to which arena player won, given who sat in
// the first seat
func toAgentResult(winner magnets.Winner, p1First bool) VersusMatchResult {
	var seat magnets.Player
	switch winner {
	case magnets.WinnerPlayer1:
		seat = magnets.Player1
	case magnets.WinnerPlayer2:
		seat = magnets.Player2
	default:
		return VersusDraw
	}

	if (seat == magnets.Player1) == p1First {
		return VersusPl1Win
	}
	return VersusPl2Win
}
