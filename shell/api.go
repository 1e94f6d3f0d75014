package shell

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/castell9/gofai/bot"
	"github.com/castell9/gofai/clues"
	"github.com/castell9/gofai/config"
	"github.com/castell9/gofai/crossword"
	"github.com/castell9/gofai/filler"
	"github.com/castell9/gofai/lexicon"
	"github.com/castell9/gofai/runlog"
)

type Response struct {
	message string
}

type CmdOptions map[string][]string

func (c CmdOptions) String(key string) string {
	v := c[key]
	if len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c CmdOptions) Int(key string) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return 0, errors.New(key + " not found in options")
	}
	return strconv.Atoi(v[0])
}
func (c CmdOptions) IntDefault(key string, defaultI int) (int, error) {
	v := c[key]
	if len(v) == 0 {
		return defaultI, nil
	}
	return strconv.Atoi(v[0])
}

func (c CmdOptions) Bool(key string) bool {
	v := c[key]
	if len(v) == 0 {
		return false
	}
	return strings.ToLower(v[0]) == "true"
}

func (c CmdOptions) StringArray(key string) []string {
	return c[key]
}

func msg(message string) *Response {
	return &Response{message: message}
}

func (sc *ShellController) set(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return msg(sc.options.ToDisplayText()), nil
	}
	opt := cmd.args[0]
	if len(cmd.args) == 1 {
		_, val := sc.options.Show(opt)
		return msg(val), nil
	}
	values := cmd.args[1:]
	ret, err := sc.Set(opt, values)
	if err != nil {
		return nil, err
	}
	return msg("set " + opt + " to " + ret), nil
}

func (sc *ShellController) setConfig(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil || len(cmd.args) < 2 {
		return nil, errors.New("usage: setconfig <key> <value>")
	}

	key := cmd.args[0]
	value := cmd.args[1]

	sc.config.Set(key, value)

	err := sc.config.Write()
	if err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}

	return msg(fmt.Sprintf("set config %s to %s and saved to file", key, value)), nil
}

func (sc *ShellController) load(cmd *shellcmd) (*Response, error) {
	gridName := sc.options.Grid
	wordsName := sc.options.WordList
	if len(cmd.args) > 0 {
		gridName = cmd.args[0]
	}
	if len(cmd.args) > 1 {
		wordsName = cmd.args[1]
	}
	grid, err := crossword.GetGrid(sc.config, gridName)
	if err != nil {
		return nil, err
	}
	wl, err := lexicon.Get(sc.config, wordsName)
	if err != nil {
		return nil, err
	}
	sc.cw = crossword.New(grid, wl.Words())
	sc.gridName = gridName
	sc.wordList = wl
	sc.lastFill = nil
	sc.lastNodes = 0
	sc.lastElapsed = 0

	out := sc.cw.ToDisplayText(nil)
	out += fmt.Sprintf("\nLoaded %s with %s (%d words, %d slots)",
		gridName, wl.Name(), wl.Len(), len(sc.cw.Variables()))
	return msg(out), nil
}

func (sc *ShellController) unload(cmd *shellcmd) (*Response, error) {
	sc.cw = nil
	sc.gridName = ""
	sc.wordList = nil
	sc.lastFill = nil
	return msg("No puzzle loaded."), nil
}

// reload re-reads the loaded grid and word list from disk, for when a file
// was edited mid-session.
func (sc *ShellController) reload(cmd *shellcmd) (*Response, error) {
	if sc.cw == nil {
		return nil, errNoPuzzle
	}
	crossword.Evict(sc.gridName)
	lexicon.Evict(sc.wordList.Name())
	return sc.load(&shellcmd{cmd: "load", args: []string{sc.gridName, sc.wordList.Name()}})
}

func (sc *ShellController) show(cmd *shellcmd) (*Response, error) {
	if sc.cw == nil {
		return nil, errNoPuzzle
	}
	out := sc.cw.ToDisplayText(sc.lastFill)
	out += fmt.Sprintf("\n%s with %s (%d slots)", sc.gridName, sc.wordList.Name(),
		len(sc.cw.Variables()))
	if sc.lastFill != nil {
		out += fmt.Sprintf("\nLast fill: %d nodes in %v", sc.lastNodes,
			sc.lastElapsed.Round(time.Millisecond))
	}
	return msg(out), nil
}

// fillSummary joins the fill's words in slot order, one per line. This is
// what gets persisted to the runlog.
func (sc *ShellController) fillSummary(a filler.Assignment) string {
	if a == nil {
		return ""
	}
	words := lo.Map(sc.cw.Variables(), func(v crossword.Variable, _ int) string {
		return a[v]
	})
	return strings.Join(words, "\n")
}

func (sc *ShellController) recordRun(started time.Time, threads int, nodes uint64,
	elapsed time.Duration, solveErr error, a filler.Assignment) {
	if sc.runlogStore == nil {
		return
	}
	run := runlog.Run{
		StartedAt:   started,
		Grid:        sc.gridName,
		WordList:    sc.wordList.Name(),
		Fingerprint: sc.wordList.Fingerprint(),
		Threads:     threads,
		Nodes:       nodes,
		Elapsed:     elapsed,
		Outcome:     runlog.OutcomeForError(solveErr),
		Fill:        sc.fillSummary(a),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := sc.runlogStore.Record(ctx, run); err != nil {
		log.Err(err).Msg("recording run")
	}
}

func (sc *ShellController) fill(cmd *shellcmd) (*Response, error) {
	if sc.cw == nil {
		return nil, errNoPuzzle
	}
	threads, err := cmd.options.IntDefault("threads", sc.options.Threads)
	if err != nil {
		return nil, err
	}
	if cmd.options.Bool("parallel") {
		threads = runtime.NumCPU()
	}
	budget := sc.options.NodeBudget
	if b := cmd.options.String("budget"); b != "" {
		budget, err = strconv.ParseUint(b, 10, 64)
		if err != nil {
			return nil, err
		}
	}
	maxtime, err := cmd.options.IntDefault("maxtime", 0)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	if maxtime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(maxtime)*time.Second)
		defer cancel()
	}

	solver := filler.NewSolver(sc.cw)
	solver.SetThreads(threads)
	solver.SetNodeBudget(budget)

	started := time.Now()
	assignment, solveErr := solver.Solve(ctx)
	elapsed := time.Since(started)

	sc.recordRun(started, threads, solver.Nodes(), elapsed, solveErr, assignment)

	if solveErr != nil {
		return nil, solveErr
	}
	sc.lastFill = assignment
	sc.lastNodes = solver.Nodes()
	sc.lastElapsed = elapsed

	out := sc.cw.ToDisplayText(assignment)
	out += fmt.Sprintf("\nFilled in %v (%d nodes, %d threads)",
		elapsed.Round(time.Microsecond), solver.Nodes(), threads)
	return msg(out), nil
}

func (sc *ShellController) check(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("need at least one word to check")
	}
	if sc.wordList == nil {
		return nil, errors.New("no word list loaded; try `load`")
	}
	var str strings.Builder
	for _, arg := range cmd.args {
		word := strings.ToUpper(arg)
		if sc.wordList.HasWord(word) {
			fmt.Fprintf(&str, "%s is in %s\n", word, sc.wordList.Name())
		} else {
			fmt.Fprintf(&str, "%s is NOT in %s\n", word, sc.wordList.Name())
		}
	}
	return msg(strings.TrimRight(str.String(), "\n")), nil
}

func (sc *ShellController) anagram(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) != 1 {
		return nil, errors.New("need a rack of letters, e.g. `anagram retinas`")
	}
	if sc.wordList == nil {
		return nil, errors.New("no word list loaded; try `load`")
	}
	build := cmd.options.Bool("build")
	words := sc.wordList.Anagrams(cmd.args[0], build)
	if len(words) == 0 {
		return msg("No anagrams found."), nil
	}
	var str strings.Builder
	for _, w := range words {
		str.WriteString(w)
		str.WriteString("\n")
	}
	fmt.Fprintf(&str, "%d words", len(words))
	return msg(str.String()), nil
}

func (sc *ShellController) cluesCmd(cmd *shellcmd) (*Response, error) {
	if sc.cw == nil {
		return nil, errNoPuzzle
	}
	if sc.lastFill == nil {
		return nil, errors.New("nothing to write clues for; run `fill` first")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	gen, err := clues.NewGenerator(ctx, sc.config)
	if err != nil {
		return nil, err
	}
	answers := lo.Uniq(lo.Map(sc.cw.Variables(), func(v crossword.Variable, _ int) string {
		return sc.lastFill[v]
	}))
	generated, err := gen.Generate(ctx, answers)
	if err != nil {
		return nil, err
	}
	byAnswer := map[string]string{}
	for _, c := range generated {
		byAnswer[c.Answer] = c.Clue
	}
	var str strings.Builder
	for _, v := range sc.cw.Variables() {
		word := sc.lastFill[v]
		clue := byAnswer[word]
		if clue == "" {
			clue = "(no clue came back)"
		}
		fmt.Fprintf(&str, "%v %s: %s\n", v, word, clue)
	}
	return msg(strings.TrimRight(str.String(), "\n")), nil
}

func (sc *ShellController) history(cmd *shellcmd) (*Response, error) {
	if sc.runlogStore == nil {
		return nil, errors.New("no runlog configured; set " + config.ConfigRunlogFile + " first")
	}
	limit, err := cmd.options.IntDefault("limit", 10)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	runs, err := sc.runlogStore.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return msg("No runs recorded yet."), nil
	}
	var str strings.Builder
	fmt.Fprintf(&str, "%-20s %-12s %-12s %7s %10s %10s  %s\n",
		"started", "grid", "wordlist", "threads", "nodes", "elapsed", "outcome")
	for _, r := range runs {
		fmt.Fprintf(&str, "%-20s %-12s %-12s %7d %10d %10s  %s\n",
			r.StartedAt.Format("2006-01-02 15:04:05"), r.Grid, r.WordList,
			r.Threads, r.Nodes, r.Elapsed.Round(time.Millisecond), r.Outcome)
	}
	return msg(strings.TrimRight(str.String(), "\n")), nil
}

func (sc *ShellController) remote(cmd *shellcmd) (*Response, error) {
	if sc.cw == nil {
		return nil, errNoPuzzle
	}
	natsURL := cmd.options.String("url")
	if natsURL == "" {
		natsURL = sc.config.GetString(config.ConfigNatsURL)
	}
	channel := cmd.options.String("channel")
	if channel == "" {
		channel = bot.DefaultChannel
	}
	client, err := bot.NewClient(natsURL, channel)
	if err != nil {
		return nil, err
	}
	defer client.Close()

	req := &bot.FillRequest{
		GridName:   sc.gridName,
		WordList:   sc.wordList.Name(),
		Threads:    sc.options.Threads,
		NodeBudget: sc.options.NodeBudget,
	}
	if cmd.options.Bool("inline") {
		// ship the actual grid and words, for servers with a
		// different data directory
		grid, err := crossword.GetGrid(sc.config, sc.gridName)
		if err != nil {
			return nil, err
		}
		req = &bot.FillRequest{
			Grid:       grid,
			Words:      sc.wordList.Words(),
			Threads:    sc.options.Threads,
			NodeBudget: sc.options.NodeBudget,
		}
	}
	resp, err := client.RequestFill(req)
	if err != nil {
		return nil, err
	}
	if resp.Error != "" {
		return nil, errors.New(resp.Error)
	}
	out := resp.Display
	out += fmt.Sprintf("\nRemote fill: %d nodes in %dms", resp.Nodes, resp.ElapsedMs)
	return msg(out), nil
}

func (sc *ShellController) help(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return usage("standard")
	} else {
		helptopic := cmd.args[0]
		return usageTopic(helptopic)
	}
}

func (sc *ShellController) alias(cmd *shellcmd) (*Response, error) {
	// No arguments - list all aliases
	if cmd.args == nil || len(cmd.args) == 0 {
		if len(sc.aliases) == 0 {
			return msg("No aliases defined"), nil
		}

		// Sort by alias name for consistent output
		names := make([]string, 0, len(sc.aliases))
		for name := range sc.aliases {
			names = append(names, name)
		}
		sort.Strings(names)

		var result strings.Builder
		result.WriteString("Defined aliases:\n")
		for _, name := range names {
			result.WriteString(fmt.Sprintf("  %s = %s\n", name, sc.aliases[name]))
		}
		return msg(result.String()), nil
	}

	subcommand := cmd.args[0]

	switch subcommand {
	case "set":
		// alias set <name> <command>
		if len(cmd.args) < 3 {
			return nil, errors.New("usage: alias set <name> <command>")
		}
		name := cmd.args[1]

		// Reconstruct the full command from args and options
		commandParts := cmd.args[2:]
		for opt, values := range cmd.options {
			for _, val := range values {
				commandParts = append(commandParts, "-"+opt, val)
			}
		}
		command := strings.Join(commandParts, " ")

		sc.aliases[name] = command

		// Save to config
		sc.config.Set(config.ConfigAliases, sc.aliases)
		err := sc.config.Write()
		if err != nil {
			return nil, fmt.Errorf("failed to save alias: %w", err)
		}

		return msg(fmt.Sprintf("Alias '%s' set to: %s", name, command)), nil

	case "delete", "remove", "rm":
		// alias delete <name>
		if len(cmd.args) < 2 {
			return nil, errors.New("usage: alias delete <name>")
		}
		name := cmd.args[1]

		if _, exists := sc.aliases[name]; !exists {
			return nil, fmt.Errorf("alias '%s' not found", name)
		}

		delete(sc.aliases, name)

		// Save to config
		sc.config.Set(config.ConfigAliases, sc.aliases)
		err := sc.config.Write()
		if err != nil {
			return nil, fmt.Errorf("failed to save config: %w", err)
		}

		return msg(fmt.Sprintf("Alias '%s' deleted", name)), nil

	case "show":
		// alias show <name>
		if len(cmd.args) < 2 {
			return nil, errors.New("usage: alias show <name>")
		}
		name := cmd.args[1]

		if command, exists := sc.aliases[name]; exists {
			return msg(fmt.Sprintf("%s = %s", name, command)), nil
		}
		return nil, fmt.Errorf("alias '%s' not found", name)

	case "list":
		// Same as calling with no arguments
		return sc.alias(&shellcmd{cmd: "alias", args: nil, options: nil})

	default:
		return nil, fmt.Errorf("unknown subcommand '%s'. Valid: set, delete, show, list", subcommand)
	}
}
