package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/IlikeChooros/fluxwars/internal/config"
	"github.com/IlikeChooros/fluxwars/internal/suggest"
	"github.com/IlikeChooros/fluxwars/pkg/ai"
	"github.com/IlikeChooros/fluxwars/pkg/magnets"
	"github.com/matryer/way"
	"github.com/sirupsen/logrus"
)

// Server hosts a single game behind a JSON api
type Server struct {
	router *way.Router
	log    *logrus.Entry

	// guards engine, every handler holds it for the whole request
	mu     sync.Mutex
	engine *magnets.Engine
	player ai.Player
}

func NewServer(cfg config.Config, log *logrus.Entry, opts ...magnets.Option) (*Server, error) {
	var suggester ai.Suggester
	if cfg.OpenAIKey != "" {
		suggester = suggest.NewOpenAI(cfg.OpenAIURL, cfg.OpenAIKey, cfg.OpenAIModel)
	}
	player, err := ai.NewPlayer(cfg.Difficulty, cfg.Search, suggester, log)
	if err != nil {
		return nil, err
	}

	if cfg.Seed != 0 {
		opts = append([]magnets.Option{magnets.WithSeed(cfg.Seed)}, opts...)
	}
	opts = append([]magnets.Option{magnets.WithRules(cfg.Rules), magnets.WithLogger(log)}, opts...)

	s := &Server{
		log:    log,
		engine: magnets.NewEngine(opts...),
		player: player,
	}
	s.routes()
	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("loading config")
	}
	log := logrus.NewEntry(cfg.Logger())

	server, err := NewServer(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("creating server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdown); err != nil {
			log.WithError(err).Warn("shutdown")
		}
	}()

	log.WithFields(logrus.Fields{"addr": cfg.Addr, "ai": server.player.Name()}).Info("listening")
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.WithError(err).Fatal("serving")
	}
}
