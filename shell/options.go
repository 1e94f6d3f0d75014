package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/castell9/gofai/config"
	"github.com/castell9/gofai/crossword"
	"github.com/castell9/gofai/lexicon"
)

// ShellOptions are per-session settings. They start from the config
// defaults and change with `set`; unlike `setconfig` they are never
// written anywhere.
type ShellOptions struct {
	Grid       string
	WordList   string
	Threads    int
	NodeBudget uint64
}

func NewShellOptions(cfg *config.Config) *ShellOptions {
	return &ShellOptions{
		Grid:       cfg.GetString(config.ConfigDefaultGrid),
		WordList:   cfg.GetString(config.ConfigDefaultWordList),
		Threads:    cfg.GetInt(config.ConfigSolveThreads),
		NodeBudget: cfg.GetUint64(config.ConfigNodeBudget),
	}
}

func (opts *ShellOptions) Show(key string) (bool, string) {
	switch key {
	case "grid":
		return true, opts.Grid
	case "wordlist":
		return true, opts.WordList
	case "threads":
		return true, strconv.Itoa(opts.Threads)
	case "budget":
		return true, strconv.FormatUint(opts.NodeBudget, 10)
	default:
		return false, "No such option: " + key
	}
}

func (opts *ShellOptions) ToDisplayText() string {
	var str strings.Builder
	str.WriteString("Current options:\n")
	fmt.Fprintf(&str, "  grid: %v\n", opts.Grid)
	fmt.Fprintf(&str, "  wordlist: %v\n", opts.WordList)
	fmt.Fprintf(&str, "  threads: %v\n", opts.Threads)
	fmt.Fprintf(&str, "  budget: %v\n", opts.NodeBudget)
	return str.String()
}

// Set changes one option. Grid and word list names are resolved right
// away, so a typo fails here rather than at the next fill.
func (sc *ShellController) Set(key string, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("need a value for " + key)
	}
	var ret string
	switch key {
	case "grid":
		if _, err := crossword.GetGrid(sc.config, args[0]); err != nil {
			return "", err
		}
		sc.options.Grid = args[0]
		ret = args[0]
	case "wordlist":
		if _, err := lexicon.Get(sc.config, args[0]); err != nil {
			return "", err
		}
		sc.options.WordList = args[0]
		ret = args[0]
	case "threads":
		t, err := strconv.Atoi(args[0])
		if err != nil {
			return "", err
		}
		if t < 1 {
			return "", errors.New("threads must be at least 1")
		}
		sc.options.Threads = t
		ret = args[0]
	case "budget":
		b, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return "", err
		}
		sc.options.NodeBudget = b
		ret = args[0]
	case "seed":
		s, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return "", err
		}
		sc.rng = newRNG(s)
		ret = args[0]
	default:
		return "", errors.New("unknown option name " + key)
	}
	return ret, nil
}
