package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/castell9/gofai/crossword"
	"github.com/castell9/gofai/filler"
	"github.com/castell9/gofai/lexicon"
)

func main() {
	threads := flag.Int("threads", 1, "number of threads for the solver")
	budget := flag.Uint64("budget", 0, "max search nodes; 0 means unlimited")
	maxtime := flag.Int("maxtime", 0, "give up after this many seconds; 0 means never")
	debug := flag.Bool("debug", false, "debug logging on")

	flag.Parse()
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	if flag.NArg() < 2 || flag.NArg() > 3 {
		fmt.Fprintln(os.Stderr, "usage: fill [options] <structure-file> <words-file> [output-file]")
		os.Exit(2)
	}

	grid, err := crossword.LoadGrid(flag.Arg(0))
	if err != nil {
		log.Fatal().Err(err).Msg("reading structure")
	}
	words, err := lexicon.LoadWordList(flag.Arg(1))
	if err != nil {
		log.Fatal().Err(err).Msg("reading word list")
	}

	cw := crossword.New(grid, words.Words())
	solver := filler.NewSolver(cw)
	solver.SetThreads(*threads)
	solver.SetNodeBudget(*budget)

	ctx := context.Background()
	if *maxtime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(*maxtime)*time.Second)
		defer cancel()
	}

	started := time.Now()
	assignment, err := solver.Solve(ctx)
	if err == filler.ErrNoFill {
		fmt.Println("No solution.")
		os.Exit(1)
	} else if err != nil {
		log.Fatal().Err(err).Uint64("nodes", solver.Nodes()).Msg("fill failed")
	}

	out := cw.ToDisplayText(assignment)
	fmt.Println(out)
	log.Debug().Uint64("nodes", solver.Nodes()).
		Dur("elapsed", time.Since(started)).Msg("filled")

	if flag.NArg() == 3 {
		if err := os.WriteFile(flag.Arg(2), []byte(out), 0644); err != nil {
			log.Fatal().Err(err).Msg("writing output")
		}
	}
}
