package shell

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/castell9/gofai/config"
	"github.com/castell9/gofai/minesweeper"
	"github.com/castell9/gofai/nim"
	"github.com/castell9/gofai/tictactoe"
)

func (sc *ShellController) tictactoeCmd(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		board := tictactoe.Board{}
		sc.tttGame = &board
		sc.tttHuman = tictactoe.X
		out := ""
		if strings.EqualFold(cmd.options.String("as"), "O") {
			sc.tttHuman = tictactoe.O
			move, ok := tictactoe.Minimax(board)
			if ok {
				next, err := board.Play(move)
				if err != nil {
					return nil, err
				}
				*sc.tttGame = next
				out = "Computer plays " + move.String() + "\n"
			}
		}
		out += sc.tttGame.ToDisplayText()
		out += fmt.Sprintf("\nYou are %v. Play a square with `tictactoe B2`.", sc.tttHuman)
		return msg(out), nil
	}

	if sc.tttGame == nil {
		return nil, errors.New("no game in progress; start one with `tictactoe`")
	}
	board := *sc.tttGame
	move, err := tictactoe.ParseMove(cmd.args[0])
	if err != nil {
		return nil, err
	}
	if board.Player() != sc.tttHuman {
		return nil, errors.New("it is not your turn")
	}
	board, err = board.Play(move)
	if err != nil {
		return nil, err
	}
	out := ""
	if !board.Terminal() {
		reply, ok := tictactoe.Minimax(board)
		if ok {
			board, err = board.Play(reply)
			if err != nil {
				return nil, err
			}
			out = "Computer plays " + reply.String() + "\n"
		}
	}
	*sc.tttGame = board
	out += board.ToDisplayText()
	if board.Terminal() {
		winner, decided := board.Winner()
		switch {
		case !decided:
			out += "\nDraw."
		case winner == sc.tttHuman:
			out += "\nYou win!"
		default:
			out += "\nComputer wins."
		}
		sc.tttGame = nil
	}
	return msg(out), nil
}

// parseCell reads display coordinates like "C4": column letter, then
// 1-based row.
func parseCell(s string, height, width int) (minesweeper.Cell, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return minesweeper.Cell{}, errors.New("cell must look like C4")
	}
	col := int(s[0] - 'A')
	row, err := strconv.Atoi(s[1:])
	if err != nil {
		return minesweeper.Cell{}, errors.New("cell must look like C4")
	}
	row--
	if col < 0 || col >= width || row < 0 || row >= height {
		return minesweeper.Cell{}, fmt.Errorf("cell %v is off the board", s)
	}
	return minesweeper.Cell{Row: row, Col: col}, nil
}

func (sc *ShellController) minesweeperResult() string {
	if sc.match.Won() {
		sc.match = nil
		return "\nYou win!"
	}
	sc.match = nil
	return "\nBoom. You lose."
}

func (sc *ShellController) minesweeperCmd(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		height, err := cmd.options.IntDefault("height", 8)
		if err != nil {
			return nil, err
		}
		width, err := cmd.options.IntDefault("width", 8)
		if err != nil {
			return nil, err
		}
		mines, err := cmd.options.IntDefault("mines", 8)
		if err != nil {
			return nil, err
		}
		if height < 1 || width < 1 || width > 26 || mines < 1 || mines >= height*width {
			return nil, errors.New("that board does not make sense")
		}
		sc.match = minesweeper.NewMatch(height, width, mines, sc.rng)
		out := sc.match.ToDisplayText()
		out += "Open a cell with `minesweeper C4`, or let the computer move with `minesweeper ai`."
		return msg(out), nil
	}

	if sc.match == nil {
		return nil, errors.New("no game in progress; start one with `minesweeper`")
	}

	switch cmd.args[0] {
	case "show":
		return msg(sc.match.ToDisplayText()), nil
	case "ai", "auto":
		moves := 1
		if cmd.args[0] == "auto" {
			moves = sc.match.Game.Height() * sc.match.Game.Width()
		} else {
			var err error
			moves, err = cmd.options.IntDefault("moves", 1)
			if err != nil {
				return nil, err
			}
		}
		var str strings.Builder
		for i := 0; i < moves && !sc.match.Done(); i++ {
			move, known, err := sc.match.PlayAI()
			if err != nil {
				return nil, err
			}
			if known {
				fmt.Fprintf(&str, "Computer opens %v (known safe)\n", move)
			} else {
				fmt.Fprintf(&str, "Computer guesses %v\n", move)
			}
		}
		out := str.String() + sc.match.ToDisplayText()
		if sc.match.Done() {
			out += sc.minesweeperResult()
		}
		return msg(out), nil
	default:
		cell, err := parseCell(cmd.args[0], sc.match.Game.Height(), sc.match.Game.Width())
		if err != nil {
			return nil, err
		}
		if err := sc.match.Reveal(cell); err != nil {
			return nil, err
		}
		out := sc.match.ToDisplayText()
		if sc.match.Done() {
			out += sc.minesweeperResult()
		}
		return msg(out), nil
	}
}

func (sc *ShellController) trainNim(games int) (time.Duration, error) {
	started := time.Now()
	ai, err := nim.Train(context.Background(), games, sc.rng)
	if err != nil {
		return 0, err
	}
	sc.nimAI = ai
	return time.Since(started), nil
}

func (sc *ShellController) nimCmd(cmd *shellcmd) (*Response, error) {
	if len(cmd.args) == 0 {
		return nil, errors.New("usage: nim new|take|train|show (see `help nim`)")
	}
	switch cmd.args[0] {
	case "train":
		games, err := cmd.options.IntDefault("games", sc.config.GetInt(config.ConfigTrainingRounds))
		if err != nil {
			return nil, err
		}
		elapsed, err := sc.trainNim(games)
		if err != nil {
			return nil, err
		}
		return msg(fmt.Sprintf("Done training on %d games in %v", games,
			elapsed.Round(time.Millisecond))), nil

	case "new":
		out := ""
		if sc.nimAI == nil {
			games := sc.config.GetInt(config.ConfigTrainingRounds)
			elapsed, err := sc.trainNim(games)
			if err != nil {
				return nil, err
			}
			out = fmt.Sprintf("Trained on %d games in %v\n", games,
				elapsed.Round(time.Millisecond))
		}
		sc.nimGame = nim.NewGame()
		out += sc.nimGame.ToDisplayText()
		out += "Whoever takes the last object loses. Move with `nim take <pile> <count>`."
		return msg(out), nil

	case "take":
		if sc.nimGame == nil {
			return nil, errors.New("no game in progress; start one with `nim new`")
		}
		if len(cmd.args) < 3 {
			return nil, errors.New("usage: nim take <pile> <count>")
		}
		pile, err := strconv.Atoi(cmd.args[1])
		if err != nil {
			return nil, err
		}
		count, err := strconv.Atoi(cmd.args[2])
		if err != nil {
			return nil, err
		}
		game := sc.nimGame
		// piles are numbered from 1 in the display
		if err := game.Move(nim.Action{Pile: pile - 1, Count: count}); err != nil {
			return nil, err
		}
		out := ""
		if winner, over := game.Winner(); over {
			sc.nimGame = nil
			if winner == 0 {
				return msg("You win!"), nil
			}
			return msg("Computer wins."), nil
		}
		reply, err := sc.nimAI.ChooseAction(game.Piles(), false)
		if err != nil {
			return nil, err
		}
		if err := game.Move(reply); err != nil {
			return nil, err
		}
		out += "Computer plays: " + reply.String() + "\n"
		out += game.ToDisplayText()
		if winner, over := game.Winner(); over {
			sc.nimGame = nil
			if winner == 0 {
				out += "You win!"
			} else {
				out += "Computer wins."
			}
		}
		return msg(out), nil

	case "show":
		if sc.nimGame == nil {
			return nil, errors.New("no game in progress; start one with `nim new`")
		}
		return msg(sc.nimGame.ToDisplayText()), nil

	default:
		return nil, errors.New("usage: nim new|take|train|show (see `help nim`)")
	}
}
