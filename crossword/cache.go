package crossword

import (
	"bufio"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/castell9/gofai/cache"
	"github.com/castell9/gofai/config"
)

const (
	CacheKeyPrefix = "grid:"
)

// CacheLoadFunc is the function that loads a grid template into the global
// cache.
func CacheLoadFunc(cfg *config.Config, key string) (any, error) {
	name := strings.TrimPrefix(key, CacheKeyPrefix)
	return LoadGrid(cfg.GridPath(name))
}

// LoadGrid reads a grid template file into its lines. No parsing happens
// here; New interprets the runes.
func LoadGrid(filename string) ([]string, error) {
	log.Debug().Msgf("Loading %v ...", filename)
	file, err := cache.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// Evict drops a cached grid template so the next GetGrid re-reads the file.
func Evict(name string) {
	cache.Evict(CacheKeyPrefix + name)
}

// GetGrid loads a named grid template from the cache or from a file.
func GetGrid(cfg *config.Config, name string) ([]string, error) {
	key := CacheKeyPrefix + name
	obj, err := cache.Load(cfg, key, CacheLoadFunc)
	if err != nil {
		return nil, err
	}
	ret, ok := obj.([]string)
	if !ok {
		return nil, errors.New("could not read grid from file")
	}
	return ret, nil
}
