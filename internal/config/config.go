// Package config reads the settings of the binaries from an optional .env
// file and the process environment. Process variables win over the file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/IlikeChooros/fluxwars/pkg/ai"
	"github.com/IlikeChooros/fluxwars/pkg/magnets"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Environment variables
const (
	EnvMaxTurns        = "FLUXWARS_MAX_TURNS"
	EnvNeutralsPerSide = "FLUXWARS_NEUTRALS_PER_SIDE"
	EnvNeutralSpacing  = "FLUXWARS_NEUTRAL_SPACING"
	EnvDifficulty      = "FLUXWARS_DIFFICULTY"
	EnvSimulations     = "FLUXWARS_SIMULATIONS"
	EnvRolloutDepth    = "FLUXWARS_ROLLOUT_DEPTH"
	EnvExploration     = "FLUXWARS_EXPLORATION"
	EnvThreads         = "FLUXWARS_THREADS"
	EnvSeed            = "FLUXWARS_SEED"
	EnvLogLevel        = "FLUXWARS_LOG_LEVEL"
	EnvLogFormat       = "FLUXWARS_LOG_FORMAT"
	EnvAddr            = "FLUXWARS_ADDR"
	EnvOpenAIKey       = "OPENAI_API_KEY"
	EnvOpenAIModel     = "FLUXWARS_OPENAI_MODEL"
	EnvOpenAIURL       = "FLUXWARS_OPENAI_URL"
)

// DefaultEnvFile is read by Load when no file is given, it may be missing
const DefaultEnvFile = ".env"

type Config struct {
	Rules      magnets.Rules
	Search     ai.SearchConfig
	Difficulty ai.Difficulty
	// Game seed, 0 means a time based one
	Seed      int64
	LogLevel  logrus.Level
	LogFormat string
	Addr      string

	OpenAIKey   string
	OpenAIModel string
	OpenAIURL   string
}

func Default() Config {
	return Config{
		Rules:       magnets.DefaultRules(),
		Search:      ai.DefaultSearchConfig(),
		Difficulty:  ai.Normal,
		LogLevel:    logrus.InfoLevel,
		LogFormat:   "text",
		Addr:        ":8080",
		OpenAIModel: "gpt-4o-mini",
		OpenAIURL:   "https://api.openai.com",
	}
}

// Load reads the given env files, or DefaultEnvFile if there are none, then
// the process environment. A missing DefaultEnvFile is not an error.
func Load(files ...string) (Config, error) {
	explicit := len(files) > 0
	if !explicit {
		files = []string{DefaultEnvFile}
	}

	values, err := godotenv.Read(files...)
	if err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: %w", err)
		}
		values = map[string]string{}
	}

	return FromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := values[key]
		return v, ok
	})
}

// FromLookup builds the configuration from a variable source, starting
// from Default. Invalid values are errors naming the variable.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	p := parser{lookup: lookup}

	p.intVar(EnvMaxTurns, &c.Rules.MaxMainTurns)
	p.intVar(EnvNeutralsPerSide, &c.Rules.NeutralsPerSide)
	p.intVar(EnvNeutralSpacing, &c.Rules.NeutralSpacing)
	p.intVar(EnvSimulations, &c.Search.Simulations)
	p.intVar(EnvRolloutDepth, &c.Search.RolloutDepth)
	p.floatVar(EnvExploration, &c.Search.Exploration)
	p.intVar(EnvThreads, &c.Search.Threads)
	p.int64Var(EnvSeed, &c.Seed)
	p.stringVar(EnvLogFormat, &c.LogFormat)
	p.stringVar(EnvAddr, &c.Addr)
	p.stringVar(EnvOpenAIKey, &c.OpenAIKey)
	p.stringVar(EnvOpenAIModel, &c.OpenAIModel)
	p.stringVar(EnvOpenAIURL, &c.OpenAIURL)

	if v, ok := p.get(EnvDifficulty); ok {
		d, err := ai.ParseDifficulty(v)
		p.fail(EnvDifficulty, err)
		c.Difficulty = d
	}
	if v, ok := p.get(EnvLogLevel); ok {
		level, err := logrus.ParseLevel(v)
		p.fail(EnvLogLevel, err)
		c.LogLevel = level
	}
	c.Search.Seed = c.Seed

	if p.err != nil {
		return Config{}, p.err
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	switch {
	case c.Rules.MaxMainTurns < 1:
		return fmt.Errorf("config: %s must be positive, got %d", EnvMaxTurns, c.Rules.MaxMainTurns)
	case c.Rules.NeutralsPerSide < 0:
		return fmt.Errorf("config: %s must not be negative, got %d", EnvNeutralsPerSide, c.Rules.NeutralsPerSide)
	case c.Rules.NeutralSpacing < 1:
		return fmt.Errorf("config: %s must be positive, got %d", EnvNeutralSpacing, c.Rules.NeutralSpacing)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("config: %s must be text or json, got %q", EnvLogFormat, c.LogFormat)
	}
	if err := c.Search.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Logger builds the logger the binaries use
func (c Config) Logger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(c.LogLevel)
	if c.LogFormat == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l
}

// parser keeps the first error
type parser struct {
	lookup func(string) (string, bool)
	err    error
}

func (p *parser) get(key string) (string, bool) {
	v, ok := p.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (p *parser) fail(key string, err error) {
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("config: invalid %s: %w", key, err)
	}
}

func (p *parser) intVar(key string, dst *int) {
	if v, ok := p.get(key); ok {
		n, err := strconv.Atoi(v)
		p.fail(key, err)
		if err == nil {
			*dst = n
		}
	}
}

func (p *parser) int64Var(key string, dst *int64) {
	if v, ok := p.get(key); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		p.fail(key, err)
		if err == nil {
			*dst = n
		}
	}
}

func (p *parser) floatVar(key string, dst *float64) {
	if v, ok := p.get(key); ok {
		f, err := strconv.ParseFloat(v, 64)
		p.fail(key, err)
		if err == nil {
			*dst = f
		}
	}
}

func (p *parser) stringVar(key string, dst *string) {
	if v, ok := p.get(key); ok {
		*dst = v
	}
}
