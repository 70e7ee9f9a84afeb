package main

import (
	"github.com/matryer/way"
)

func (s *Server) routes() {
	s.router = way.NewRouter()
	s.router.HandleFunc("GET", "/state", s.handleState)
	s.router.HandleFunc("POST", "/place", s.handlePlace)
	s.router.HandleFunc("POST", "/reset", s.handleReset)
	s.router.HandleFunc("POST", "/roll", s.handleRoll)
	s.router.HandleFunc("POST", "/cluster", s.handleCluster)
	s.router.HandleFunc("POST", "/move", s.handleMove)
	s.router.HandleFunc("POST", "/rotate", s.handleRotate)
	s.router.HandleFunc("POST", "/steal", s.handleSteal)
	s.router.HandleFunc("POST", "/end-turn", s.handleEndTurn)
	s.router.HandleFunc("POST", "/ai-turn", s.handleAITurn)
}
