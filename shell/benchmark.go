package shell

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"

	"github.com/castell9/gofai/config"
	"github.com/castell9/gofai/crossword"
	"github.com/castell9/gofai/filler"
	"github.com/castell9/gofai/lexicon"
)

// A benchmarkCase is one grid and word list pair, filled repeat times.
type benchmarkCase struct {
	Name     string `yaml:"name"`
	Grid     string `yaml:"grid"`
	WordList string `yaml:"wordlist"`
	Repeat   int    `yaml:"repeat"`
	Budget   uint64 `yaml:"budget"`
}

type benchmarkSuite struct {
	Cases []benchmarkCase `yaml:"cases"`
}

func readBenchmarkSuite(path string) (*benchmarkSuite, error) {
	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	suite := &benchmarkSuite{}
	if err = yaml.Unmarshal(dat, suite); err != nil {
		return nil, err
	}
	if len(suite.Cases) == 0 {
		return nil, errors.New("benchmark suite has no cases")
	}
	for i := range suite.Cases {
		c := &suite.Cases[i]
		if c.Grid == "" || c.WordList == "" {
			return nil, fmt.Errorf("case %d needs both a grid and a wordlist", i)
		}
		if c.Name == "" {
			c.Name = c.Grid + "-" + c.WordList
		}
		if c.Repeat == 0 {
			c.Repeat = 10
		}
	}
	return suite, nil
}

type benchmarkRun struct {
	nodes   uint64
	elapsed time.Duration
	err     error
}

func (sc *ShellController) benchmark(cmd *shellcmd) (*Response, error) {
	path := filepath.Join(sc.config.GetString(config.ConfigDataPath),
		"benchmarks", "default.yaml")
	if len(cmd.args) > 0 {
		path = cmd.args[0]
	}
	suite, err := readBenchmarkSuite(path)
	if err != nil {
		return nil, err
	}
	threads, err := cmd.options.IntDefault("threads", sc.options.Threads)
	if err != nil {
		return nil, err
	}
	if threads < 1 {
		threads = 1
	}

	var str strings.Builder
	for _, bc := range suite.Cases {
		runs, err := sc.runBenchmarkCase(bc, threads)
		if err != nil {
			return nil, err
		}
		writeBenchmarkReport(&str, bc, runs)
	}
	return msg(strings.TrimRight(str.String(), "\n")), nil
}

// runBenchmarkCase fills the case's grid bc.Repeat times, at most threads
// at once. Each run gets its own solver; solve errors land in the run,
// not here.
func (sc *ShellController) runBenchmarkCase(bc benchmarkCase, threads int) ([]benchmarkRun, error) {
	grid, err := crossword.GetGrid(sc.config, bc.Grid)
	if err != nil {
		return nil, err
	}
	wl, err := lexicon.Get(sc.config, bc.WordList)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("case", bc.Name).Int("repeat", bc.Repeat).Msg("benchmarking")

	runs := make([]benchmarkRun, bc.Repeat)
	g := errgroup.Group{}
	g.SetLimit(threads)
	for i := 0; i < bc.Repeat; i++ {
		g.Go(func() error {
			cw := crossword.New(grid, wl.Words())
			solver := filler.NewSolver(cw)
			solver.SetNodeBudget(bc.Budget)
			started := time.Now()
			_, err := solver.Solve(context.Background())
			runs[i] = benchmarkRun{
				nodes:   solver.Nodes(),
				elapsed: time.Since(started),
				err:     err,
			}
			return nil
		})
	}
	g.Wait()
	return runs, nil
}

func writeBenchmarkReport(str *strings.Builder, bc benchmarkCase, runs []benchmarkRun) {
	solved := lo.Filter(runs, func(r benchmarkRun, _ int) bool { return r.err == nil })
	fmt.Fprintf(str, "%s: %d/%d filled\n", bc.Name, len(solved), len(runs))
	if len(solved) == 0 {
		fmt.Fprintf(str, "  last error: %v\n", runs[len(runs)-1].err)
		return
	}

	ms := lo.Map(solved, func(r benchmarkRun, _ int) float64 {
		return float64(r.elapsed.Microseconds()) / 1000.0
	})
	nodes := lo.Map(solved, func(r benchmarkRun, _ int) float64 {
		return float64(r.nodes)
	})
	fmt.Fprintf(str, "  time: mean %.3fms, min %.3fms, max %.3fms\n",
		stat.Mean(ms, nil), floats.Min(ms), floats.Max(ms))
	fmt.Fprintf(str, "  nodes: mean %.1f, total %d\n", stat.Mean(nodes, nil),
		lo.SumBy(solved, func(r benchmarkRun) uint64 { return r.nodes }))

	if len(solved) > 1 {
		hist := histogram.Hist(9, ms)
		if err := histogram.Fprint(str, hist, histogram.Linear(40)); err != nil {
			log.Err(err).Msg("printing histogram")
		}
	}
}
