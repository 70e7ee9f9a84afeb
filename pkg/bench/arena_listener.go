package bench

import (
	"fmt"
	"io"
	"sync"

	"github.com/IlikeChooros/fluxwars/internal/render"
	"github.com/IlikeChooros/fluxwars/pkg/magnets"
	"github.com/muesli/termenv"
)

// TerminalListener prints the arena's progress. In live mode it keeps one
// line per worker and rewrites it in place, otherwise every finished game
// gets its own line.
type TerminalListener struct {
	mu      sync.Mutex
	w       io.Writer
	r       *render.Renderer
	live    bool
	workers int
}

func NewTerminalListener(w io.Writer, live bool, opts ...termenv.OutputOption) *TerminalListener {
	return &TerminalListener{
		w:    w,
		r:    render.New(w, opts...),
		live: live,
	}
}

func (tl *TerminalListener) result(r VersusMatchResult) string {
	switch r {
	case VersusPl1Win:
		return tl.r.Player(magnets.Player1, "player1 wins").String()
	case VersusPl2Win:
		return tl.r.Player(magnets.Player2, "player2 wins").String()
	}
	return tl.r.Player(magnets.NoPlayer, "draw").String()
}

func (tl *TerminalListener) row(info VersusWorkerInfo) string {
	return fmt.Sprintf("worker %d: %d/%d games, last %s (%d moves), %s %d / %s %d / draws %d",
		info.WorkerID, info.FinishedGames, info.NGames,
		tl.result(info.Result), info.GameMoveNum,
		info.P1Name, info.P1Wins, info.P2Name, info.P2Wins, info.Draws)
}

// rewrite replaces the worker's line, the cursor rests below the last one
func (tl *TerminalListener) rewrite(id int, line string) {
	out := tl.r.Output()
	up := tl.workers - id
	out.CursorUp(up)
	out.ClearLine()
	fmt.Fprintf(tl.w, "\r%s", line)
	out.CursorDown(up)
	fmt.Fprint(tl.w, "\r")
}

func (tl *TerminalListener) OnStart(info VersusSummary) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	tl.workers = info.Workers
	header := fmt.Sprintf("%s vs %s", info.P1Name, info.P2Name)
	fmt.Fprintln(tl.w, tl.r.Output().String(header).Bold())
	if tl.live {
		tl.r.Output().HideCursor()
		for id := range tl.workers {
			fmt.Fprintf(tl.w, "worker %d: starting\n", id)
		}
	}
}

func (tl *TerminalListener) OnMoveMade(VersusWorkerInfo) {}

func (tl *TerminalListener) OnFinishedGame(info VersusWorkerInfo) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.live && info.WorkerID < tl.workers {
		tl.rewrite(info.WorkerID, tl.row(info))
		return
	}
	fmt.Fprintf(tl.w, "game %d: %s\n", info.Game, tl.row(info))
}

func (tl *TerminalListener) OnFinishedWork(VersusWorkerInfo) {}

func (tl *TerminalListener) OnEnd(s VersusSummary) {
	tl.mu.Lock()
	defer tl.mu.Unlock()

	if tl.live {
		tl.r.Output().ShowCursor()
	}
	fmt.Fprintf(tl.w, "%s: %d games, %s %d / %s %d / draws %d, first to move won %d, second %d\n",
		tl.r.Output().String("summary").Bold(), s.TotalGames,
		tl.r.Player(magnets.Player1, s.P1Name), s.P1Wins,
		tl.r.Player(magnets.Player2, s.P2Name), s.P2Wins,
		s.Draws, s.FirstToMoveWins, s.SecondToMoveWins)
}
