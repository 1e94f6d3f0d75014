// Package bot runs a fill service over NATS. Clients send a grid and word
// list selection as JSON on a request subject and get the fill, or the
// reason there is none, as the reply.
package bot

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/castell9/gofai/config"
	"github.com/castell9/gofai/crossword"
	"github.com/castell9/gofai/filler"
	"github.com/castell9/gofai/lexicon"
)

const (
	// DefaultChannel is the request subject the fill service listens on.
	DefaultChannel = "gofai.fill"

	// RequestTimeout bounds a client's wait for a reply.
	RequestTimeout = 10 * time.Second
	// The server gives up a little sooner so the reply still makes it back
	// inside the client's request window.
	serverSolveTimeout = 9 * time.Second
)

// A FillRequest names a grid and a word list, or carries them inline. Zero
// Threads and NodeBudget fall back to the server's configuration.
type FillRequest struct {
	Grid       []string `json:"grid,omitempty"`
	GridName   string   `json:"grid_name,omitempty"`
	Words      []string `json:"words,omitempty"`
	WordList   string   `json:"wordlist,omitempty"`
	Threads    int      `json:"threads,omitempty"`
	NodeBudget uint64   `json:"node_budget,omitempty"`
}

// A Placement is one filled slot.
type Placement struct {
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	Direction string `json:"direction"`
	Word      string `json:"word"`
}

type FillResponse struct {
	Error     string      `json:"error,omitempty"`
	Fill      []Placement `json:"fill,omitempty"`
	Display   string      `json:"display,omitempty"`
	Nodes     uint64      `json:"nodes"`
	ElapsedMs int64       `json:"elapsed_ms"`
}

type Bot struct {
	cfg *config.Config
}

func NewBot(cfg *config.Config) *Bot {
	return &Bot{cfg: cfg}
}

func errorResponse(message string, err error) *FillResponse {
	msg := message
	if err != nil {
		msg = fmt.Sprintf("%s: %s", msg, err.Error())
	}
	return &FillResponse{Error: msg}
}

func (bot *Bot) handle(ctx context.Context, data []byte) *FillResponse {
	var req FillRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return errorResponse("could not parse request", err)
	}

	grid := req.Grid
	if len(grid) == 0 && req.GridName != "" {
		var err error
		grid, err = crossword.GetGrid(bot.cfg, req.GridName)
		if err != nil {
			return errorResponse("could not load grid", err)
		}
	}
	if len(grid) == 0 {
		return errorResponse("request names no grid", nil)
	}

	words := req.Words
	if len(words) == 0 {
		name := req.WordList
		if name == "" {
			name = bot.cfg.GetString(config.ConfigDefaultWordList)
		}
		wl, err := lexicon.Get(bot.cfg, name)
		if err != nil {
			return errorResponse("could not load word list", err)
		}
		words = wl.Words()
	}

	cw := crossword.New(grid, words)
	solver := filler.NewSolver(cw)
	threads := req.Threads
	if threads == 0 {
		threads = bot.cfg.GetInt(config.ConfigSolveThreads)
	}
	solver.SetThreads(threads)
	budget := req.NodeBudget
	if budget == 0 {
		budget = bot.cfg.GetUint64(config.ConfigNodeBudget)
	}
	solver.SetNodeBudget(budget)

	ctx, cancel := context.WithTimeout(ctx, serverSolveTimeout)
	defer cancel()

	start := time.Now()
	fill, err := solver.Solve(ctx)
	elapsed := time.Since(start)
	if err != nil {
		resp := errorResponse("fill failed", err)
		resp.Nodes = solver.Nodes()
		resp.ElapsedMs = elapsed.Milliseconds()
		return resp
	}

	resp := &FillResponse{
		Display:   cw.ToDisplayText(fill),
		Nodes:     solver.Nodes(),
		ElapsedMs: elapsed.Milliseconds(),
	}
	for _, v := range cw.Variables() {
		resp.Fill = append(resp.Fill, Placement{
			Row:       v.Row,
			Col:       v.Col,
			Direction: v.Dir.String(),
			Word:      fill[v],
		})
	}
	return resp
}

// Main subscribes the bot on a channel and serves until the process exits.
func Main(channel string, bot *Bot) {
	nc, err := nats.Connect(bot.cfg.GetString(config.ConfigNatsURL))
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to nats")
	}
	nc.Subscribe(channel, func(m *nats.Msg) {
		log.Info().Msgf("RECV: %d bytes", len(m.Data))
		resp := bot.handle(context.Background(), m.Data)
		data, err := json.Marshal(resp)
		if err != nil {
			// Should never happen, ideally, but we need to do something sensible here.
			m.Respond([]byte(err.Error()))
		} else {
			m.Respond(data)
		}
	})
	nc.Flush()

	if err := nc.LastError(); err != nil {
		log.Fatal().Err(err).Msg("nats subscription failed")
	}

	log.Info().Msgf("Listening on [%s]", channel)

	runtime.Goexit()
	fmt.Println("exiting")
}
