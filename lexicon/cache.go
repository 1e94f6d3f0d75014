package lexicon

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/castell9/gofai/cache"
	"github.com/castell9/gofai/config"
)

const (
	CacheKeyPrefix = "wordlist:"
)

// CacheLoadFunc is the function that loads a word list into the global cache.
func CacheLoadFunc(cfg *config.Config, key string) (any, error) {
	name := strings.TrimPrefix(key, CacheKeyPrefix)
	return LoadWordList(cfg.WordListPath(name))
}

func LoadWordList(filename string) (*WordList, error) {
	log.Debug().Msgf("Loading %v ...", filename)
	file, err := cache.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	name := strings.TrimSuffix(filepath.Base(filename), ".txt")
	return FromReader(name, file)
}

// Get loads a named word list from the cache or from a file.
func Get(cfg *config.Config, name string) (*WordList, error) {
	key := CacheKeyPrefix + name
	obj, err := cache.Load(cfg, key, CacheLoadFunc)
	if err != nil {
		return nil, err
	}
	ret, ok := obj.(*WordList)
	if !ok {
		return nil, errors.New("could not read word list from file")
	}
	return ret, nil
}

// Evict drops a cached word list so the next Get re-reads the file.
func Evict(name string) {
	cache.Evict(CacheKeyPrefix + name)
}
