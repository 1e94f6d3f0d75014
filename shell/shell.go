// Package shell implements the interactive gofai console. It wraps a
// readline loop around the solver and the rest of the toolkit; every
// command is also reachable from lua scripts and one-shot invocations.
package shell

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"
	"lukechampine.com/frand"

	"github.com/castell9/gofai/config"
	"github.com/castell9/gofai/crossword"
	"github.com/castell9/gofai/filler"
	"github.com/castell9/gofai/lexicon"
	"github.com/castell9/gofai/minesweeper"
	"github.com/castell9/gofai/nim"
	"github.com/castell9/gofai/runlog"
	"github.com/castell9/gofai/tictactoe"
)

var (
	errNoData            = errors.New("no data in this line")
	errWrongOptionSyntax = errors.New("wrong option syntax")
	errNoPuzzle          = errors.New("no puzzle loaded; try `load`")
)

type ShellController struct {
	l        *readline.Instance
	config   *config.Config
	execPath string
	version  string

	options *ShellOptions
	aliases map[string]string

	cw          *crossword.Crossword
	gridName    string
	wordList    *lexicon.WordList
	lastFill    filler.Assignment
	lastNodes   uint64
	lastElapsed time.Duration

	runlogStore *runlog.Store

	tttGame  *tictactoe.Board
	tttHuman tictactoe.Mark
	match    *minesweeper.Match
	nimGame  *nim.Game
	nimAI    *nim.AI

	rng *frand.RNG
}

type shellcmd struct {
	cmd     string
	args    []string
	options CmdOptions
}

// extractFields splits a command line into the command, its positional
// arguments, and -key value option pairs. Values may be quoted.
func extractFields(line string) (*shellcmd, error) {
	fields, err := shellquote.Split(line)
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, errNoData
	}
	cmd := fields[0]
	var args []string
	options := CmdOptions{}
	lastWasOption := false
	lastOption := ""
	for _, field := range fields[1:] {
		if strings.HasPrefix(field, "-") {
			lastWasOption = true
			lastOption = field[1:]
			continue
		}
		if lastWasOption {
			options[lastOption] = append(options[lastOption], field)
			lastWasOption = false
		} else {
			args = append(args, field)
		}
	}
	if lastWasOption {
		// an option without a value
		return nil, errWrongOptionSyntax
	}
	return &shellcmd{cmd: cmd, args: args, options: options}, nil
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func showMessage(msg string, w io.Writer) {
	io.WriteString(w, msg)
	io.WriteString(w, "\n")
}

// newRNG returns a deterministic generator for a nonzero seed, so that
// sampling commands can be replayed exactly.
func newRNG(seed uint64) *frand.RNG {
	if seed == 0 {
		return frand.New()
	}
	key := make([]byte, 32)
	binary.LittleEndian.PutUint64(key, seed)
	return frand.NewCustom(key, 1024, 12)
}

func NewShellController(cfg *config.Config, execPath string, gitVersion string) *ShellController {
	sc := &ShellController{
		config:   cfg,
		execPath: config.FindBasePath(execPath),
		version:  gitVersion,
		options:  NewShellOptions(cfg),
		aliases:  cfg.GetStringMapString(config.ConfigAliases),
		rng:      newRNG(cfg.GetUint64(config.ConfigSeed)),
	}
	if sc.aliases == nil {
		sc.aliases = map[string]string{}
	}

	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mgofai>\033[0m ",
		HistoryFile:     "/tmp/readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
		AutoComplete:        NewShellCompleter(sc),
	})
	if err != nil {
		panic(err)
	}
	sc.l = l

	if path := cfg.GetString(config.ConfigRunlogFile); path != "" {
		store, err := runlog.Open(path)
		if err != nil {
			log.Err(err).Str("path", path).Msg("could not open runlog; history is off")
		} else {
			sc.runlogStore = store
		}
	}
	return sc
}

func (sc *ShellController) showMessage(msg string) {
	showMessage(msg, sc.l.Stderr())
}

func (sc *ShellController) showError(err error) {
	sc.showMessage("Error: " + err.Error())
}

// Cleanup releases everything the controller holds open. Call it once the
// loop has exited.
func (sc *ShellController) Cleanup() {
	if sc.runlogStore != nil {
		if err := sc.runlogStore.Close(); err != nil {
			log.Err(err).Msg("closing runlog")
		}
	}
}

func (sc *ShellController) executer(cmd *shellcmd) (*Response, error) {
	switch cmd.cmd {
	case "set":
		return sc.set(cmd)
	case "setconfig":
		return sc.setConfig(cmd)
	case "load":
		return sc.load(cmd)
	case "unload":
		return sc.unload(cmd)
	case "reload":
		return sc.reload(cmd)
	case "show":
		return sc.show(cmd)
	case "fill", "solve":
		return sc.fill(cmd)
	case "check":
		return sc.check(cmd)
	case "anagram":
		return sc.anagram(cmd)
	case "clues":
		return sc.cluesCmd(cmd)
	case "history":
		return sc.history(cmd)
	case "benchmark":
		return sc.benchmark(cmd)
	case "remote":
		return sc.remote(cmd)
	case "tictactoe", "ttt":
		return sc.tictactoeCmd(cmd)
	case "minesweeper", "ms":
		return sc.minesweeperCmd(cmd)
	case "nim":
		return sc.nimCmd(cmd)
	case "pagerank":
		return sc.pagerankCmd(cmd)
	case "heredity":
		return sc.heredityCmd(cmd)
	case "knights":
		return sc.knightsCmd(cmd)
	case "script":
		return sc.script(cmd)
	case "alias":
		return sc.alias(cmd)
	case "help":
		return sc.help(cmd)
	default:
		log.Debug().Msgf("you said: %v", strconv.Quote(cmd.cmd))
		return nil, errors.New("command not found: " + cmd.cmd + " (type `help` for a list)")
	}
}

// Execute runs a single command line and prints its output. Exit commands
// signal the process instead of returning anything.
func (sc *ShellController) Execute(sig chan os.Signal, line string) {
	cmd, err := extractFields(line)
	if err != nil {
		if err != errNoData {
			sc.showError(err)
		}
		return
	}
	// An alias expands to a whole command line; whatever followed the
	// alias on the original line is appended to the expansion.
	if expansion, ok := sc.aliases[cmd.cmd]; ok && cmd.cmd != "alias" {
		rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), cmd.cmd))
		if rest != "" {
			expansion += " " + rest
		}
		cmd, err = extractFields(expansion)
		if err != nil {
			sc.showError(err)
			return
		}
	}
	if cmd.cmd == "exit" || cmd.cmd == "bye" || cmd.cmd == "quit" {
		sig <- syscall.SIGINT
		return
	}
	resp, err := sc.executer(cmd)
	if err != nil {
		sc.showError(err)
		return
	}
	if resp != nil {
		sc.showMessage(resp.message)
	}
}

func (sc *ShellController) Loop(sig chan os.Signal) {

	defer sc.l.Close()

	for {

		line, err := sc.l.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				sig <- syscall.SIGINT
				break
			} else {
				continue
			}
		} else if err == io.EOF {
			sig <- syscall.SIGINT
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sc.Execute(sig, line)

	}
	log.Debug().Msgf("Exiting readline loop...")
}
