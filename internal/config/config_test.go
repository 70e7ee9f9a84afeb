package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/IlikeChooros/fluxwars/pkg/ai"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	c, err := FromLookup(lookupMap(nil))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, 4, c.Rules.MaxMainTurns)
	assert.Equal(t, 100, c.Search.Simulations)
	assert.Equal(t, ai.Normal, c.Difficulty)
}

func TestFromLookup(t *testing.T) {
	c, err := FromLookup(lookupMap(map[string]string{
		EnvMaxTurns:     "6",
		EnvSimulations:  " 250 ",
		EnvExploration:  "0.9",
		EnvThreads:      "4",
		EnvSeed:         "99",
		EnvDifficulty:   "expert",
		EnvLogLevel:     "debug",
		EnvLogFormat:    "json",
		EnvAddr:         "127.0.0.1:9000",
		EnvRolloutDepth: "",
	}))
	require.NoError(t, err)
	assert.Equal(t, 6, c.Rules.MaxMainTurns)
	assert.Equal(t, 250, c.Search.Simulations)
	assert.Equal(t, 0.9, c.Search.Exploration)
	assert.Equal(t, 4, c.Search.Threads)
	assert.Equal(t, int64(99), c.Seed)
	assert.Equal(t, int64(99), c.Search.Seed)
	assert.Equal(t, 10, c.Search.RolloutDepth, "empty keeps the default")
	assert.Equal(t, ai.Expert, c.Difficulty)
	assert.Equal(t, logrus.DebugLevel, c.LogLevel)
	assert.Equal(t, "127.0.0.1:9000", c.Addr)

	l := c.Logger()
	assert.Equal(t, logrus.DebugLevel, l.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, l.Formatter)
}

func TestInvalidValues(t *testing.T) {
	for key, value := range map[string]string{
		EnvMaxTurns:        "four",
		EnvSimulations:     "0",
		EnvExploration:     "wide",
		EnvThreads:         "-1",
		EnvSeed:            "1.5",
		EnvDifficulty:      "godlike",
		EnvLogLevel:        "loud",
		EnvLogFormat:       "xml",
		EnvNeutralSpacing:  "0",
		EnvNeutralsPerSide: "-2",
	} {
		_, err := FromLookup(lookupMap(map[string]string{key: value}))
		assert.Error(t, err, key)
	}

	_, err := FromLookup(lookupMap(map[string]string{EnvMaxTurns: "four"}))
	assert.ErrorContains(t, err, EnvMaxTurns)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("FLUXWARS_SIMULATIONS=42\nFLUXWARS_THREADS=2\n"), 0o644))
	t.Setenv(EnvThreads, "3")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 42, c.Search.Simulations)
	assert.Equal(t, 3, c.Search.Threads, "process env wins")
	_, set := os.LookupEnv(EnvSimulations)
	assert.False(t, set, "the file does not leak into the environment")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)

	// the package directory has no .env
	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().Rules, c.Rules)
}
