package config

import (
	"testing"

	"github.com/matryer/is"
)

func TestDefaults(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	is.Equal(cfg.GetString(ConfigDefaultWordList), "common")
	is.Equal(cfg.GetInt(ConfigSolveThreads), 1)
	is.Equal(cfg.GetBool(ConfigDebug), false)
}

func TestLoadFlags(t *testing.T) {
	is := is.New(t)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	cfg := &Config{}
	err := cfg.Load([]string{"--solve-threads", "4", "--default-wordlist", "big"})
	is.NoErr(err)
	is.Equal(cfg.GetInt(ConfigSolveThreads), 4)
	is.Equal(cfg.GetString(ConfigDefaultWordList), "big")
	// unset flags keep their defaults
	is.Equal(cfg.GetString(ConfigDefaultGrid), "open5x5")
}

func TestEnvOverride(t *testing.T) {
	is := is.New(t)
	t.Setenv("GOFAI_NODE_BUDGET", "50000")
	cfg := DefaultConfig()
	is.Equal(cfg.GetInt(ConfigNodeBudget), 50000)
}

func TestSanitizedSettings(t *testing.T) {
	is := is.New(t)
	cfg := DefaultConfig()
	cfg.Set(ConfigGeminiAPIKey, "very-secret")
	is.Equal(cfg.SanitizedSettings()[ConfigGeminiAPIKey], "****")
	is.Equal(cfg.GetString(ConfigGeminiAPIKey), "very-secret")
}
