package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Well-known config keys. Use these constants instead of raw strings so that
// typos become compile errors.
const (
	ConfigDataPath         = "data-path"
	ConfigDefaultWordList  = "default-wordlist"
	ConfigDefaultGrid      = "default-grid"
	ConfigDebug            = "debug"
	ConfigSolveThreads     = "solve-threads"
	ConfigNodeBudget       = "node-budget"
	ConfigRunlogFile       = "runlog-file"
	ConfigNatsURL          = "nats-url"
	ConfigGeminiAPIKey     = "gemini-api-key"
	ConfigGeminiModelName  = "gemini-model-name"
	ConfigAliases          = "aliases"
	ConfigCPUProfile       = "cpu-profile"
	ConfigMemProfile       = "mem-profile"
	ConfigTrainingRounds   = "training-rounds"
	ConfigSeed             = "seed"
	ConfigEnvPrefix        = "GOFAI"
)

// Config wraps a viper instance. Settings resolve, in decreasing order of
// priority: command-line flags, GOFAI_ environment variables, the config
// file, and built-in defaults.
type Config struct {
	viper *viper.Viper

	filename string
}

func defaultViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(ConfigDataPath, "./data")
	v.SetDefault(ConfigDefaultWordList, "common")
	v.SetDefault(ConfigDefaultGrid, "open5x5")
	v.SetDefault(ConfigDebug, false)
	v.SetDefault(ConfigSolveThreads, 1)
	v.SetDefault(ConfigNodeBudget, 0)
	v.SetDefault(ConfigRunlogFile, "")
	v.SetDefault(ConfigNatsURL, "nats://localhost:4222")
	v.SetDefault(ConfigGeminiAPIKey, "")
	v.SetDefault(ConfigGeminiModelName, "gemini-2.5-flash")
	v.SetDefault(ConfigTrainingRounds, 10000)
	v.SetDefault(ConfigSeed, 0)
	v.SetEnvPrefix(ConfigEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultConfig returns a config with built-in defaults only. It does not
// read the config file; tests use this.
func DefaultConfig() Config {
	return Config{viper: defaultViper()}
}

// Load initializes the config from defaults, the config file (if present),
// environment variables, and the passed-in command-line arguments.
func (c *Config) Load(args []string) error {
	c.viper = defaultViper()

	fs := pflag.NewFlagSet("gofai", pflag.ContinueOnError)
	// argv may also carry a one-shot shell command with its own options
	fs.ParseErrorsWhitelist.UnknownFlags = true
	fs.String(ConfigDataPath, "./data", "directory holding wordlists/ and grids/")
	fs.String(ConfigDefaultWordList, "common", "the default word list to use")
	fs.String(ConfigDefaultGrid, "open5x5", "the default grid template to use")
	fs.Bool(ConfigDebug, false, "debug logging on")
	fs.Int(ConfigSolveThreads, 1, "number of threads for the fill solver")
	fs.Int(ConfigNodeBudget, 0, "max search nodes per fill; 0 means unlimited")
	fs.String(ConfigRunlogFile, "", "path to a sqlite run log; empty disables logging runs")
	fs.String(ConfigNatsURL, "nats://localhost:4222", "NATS server URL for the bot")
	fs.String(ConfigGeminiAPIKey, "", "API key for clue generation")
	fs.String(ConfigGeminiModelName, "gemini-2.5-flash", "model name for clue generation")
	fs.Int(ConfigTrainingRounds, 10000, "self-play rounds for nim training")
	fs.Uint64(ConfigSeed, 0, "random seed for trainers and samplers; 0 picks one")
	fs.String(ConfigCPUProfile, "", "path for cpu profile")
	fs.String(ConfigMemProfile, "", "path for memory profile")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := c.viper.BindPFlags(fs); err != nil {
		return err
	}

	cfgdir, err := os.UserConfigDir()
	if err != nil {
		log.Err(err).Msg("no user config dir; skipping config file")
		return nil
	}
	dir := filepath.Join(cfgdir, "gofai")
	c.filename = filepath.Join(dir, "config.yaml")
	c.viper.SetConfigName("config")
	c.viper.SetConfigType("yaml")
	c.viper.AddConfigPath(dir)
	if err := c.viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
		log.Debug().Str("dir", dir).Msg("no config file found; using defaults")
	}
	return nil
}

// AdjustRelativePaths rebases the data path onto the executable's directory
// if it is not absolute. This lets the binaries find their data files no
// matter where they are invoked from.
func (c *Config) AdjustRelativePaths(basepath string) {
	basepath = FindBasePath(basepath)
	dp := c.GetString(ConfigDataPath)
	if !filepath.IsAbs(dp) {
		c.viper.Set(ConfigDataPath, toAbsPath(basepath, dp, "data-path"))
	}
}

// FindBasePath walks up from the given directory until it finds one
// containing a data directory. It gives up, returning the original path,
// after a few levels.
func FindBasePath(path string) string {
	for i := 0; i < 3; i++ {
		data := filepath.Join(path, "data")
		if fi, err := os.Stat(data); err == nil && fi.IsDir() {
			return path
		}
		path = filepath.Dir(path)
	}
	return path
}

func toAbsPath(basepath string, path string, logname string) string {
	abs := filepath.Join(basepath, path)
	log.Info().Str(logname, abs).Msgf("adjusted relative path")
	return abs
}

func (c *Config) Get(key string) any {
	return c.viper.Get(key)
}

func (c *Config) GetString(key string) string {
	return c.viper.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.viper.GetInt(key)
}

func (c *Config) GetUint64(key string) uint64 {
	return c.viper.GetUint64(key)
}

func (c *Config) GetBool(key string) bool {
	return c.viper.GetBool(key)
}

func (c *Config) GetStringSlice(key string) []string {
	return c.viper.GetStringSlice(key)
}

func (c *Config) GetStringMapString(key string) map[string]string {
	return c.viper.GetStringMapString(key)
}

func (c *Config) Set(key string, value any) {
	c.viper.Set(key, value)
}

// AllSettings returns every resolved setting, for display.
func (c *Config) AllSettings() map[string]any {
	return c.viper.AllSettings()
}

// SanitizedSettings is AllSettings with secrets redacted, for logging.
func (c *Config) SanitizedSettings() map[string]any {
	settings := c.viper.AllSettings()
	if _, ok := settings[ConfigGeminiAPIKey]; ok {
		settings[ConfigGeminiAPIKey] = "****"
	}
	return settings
}

// Write persists the current settings to the user config file, creating the
// directory if needed.
func (c *Config) Write() error {
	if c.filename == "" {
		cfgdir, err := os.UserConfigDir()
		if err != nil {
			return err
		}
		c.filename = filepath.Join(cfgdir, "gofai", "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(c.filename), 0755); err != nil {
		return err
	}
	log.Info().Str("filename", c.filename).Msg("writing config file")
	return c.viper.WriteConfigAs(c.filename)
}

// WordListPath returns the full path of a named word list under the data
// directory.
func (c *Config) WordListPath(name string) string {
	return filepath.Join(c.GetString(ConfigDataPath), "wordlists", name+".txt")
}

// GridPath returns the full path of a named grid template under the data
// directory.
func (c *Config) GridPath(name string) string {
	return filepath.Join(c.GetString(ConfigDataPath), "grids", name+".txt")
}
