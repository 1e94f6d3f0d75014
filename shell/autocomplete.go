package shell

import (
	"strings"

	"github.com/kballard/go-shellquote"
)

// ShellCompleter provides context-aware autocomplete for shell commands
type ShellCompleter struct {
	sc *ShellController
}

func NewShellCompleter(sc *ShellController) *ShellCompleter {
	return &ShellCompleter{sc: sc}
}

// CommandMetadata holds autocomplete information for a command
type CommandMetadata struct {
	Options []string // Available options for this command (e.g., "-threads")
	Args    []string // Possible argument values (for non-option arguments)
}

// commandMetadata maps command names to their options and arguments.
// These are extracted from the actual command implementations.
var commandMetadata = map[string]CommandMetadata{
	"fill": {
		Options: []string{"-threads", "-parallel", "-budget", "-maxtime"},
	},
	"benchmark": {
		Options: []string{"-threads"},
	},
	"history": {
		Options: []string{"-limit"},
	},
	"remote": {
		Options: []string{"-url", "-channel", "-inline"},
	},
	"anagram": {
		Options: []string{"-build"},
	},
	"tictactoe": {
		Options: []string{"-as"},
	},
	"minesweeper": {
		Args:    []string{"ai", "auto", "show"},
		Options: []string{"-height", "-width", "-mines", "-moves"},
	},
	"nim": {
		Args:    []string{"new", "take", "train", "show"},
		Options: []string{"-games"},
	},
	"pagerank": {
		Options: []string{"-samples"},
	},
	"set": {
		Args: []string{"grid", "wordlist", "threads", "budget", "seed"},
	},
	"setconfig": {
		Args: []string{
			"data-path", "default-wordlist", "default-grid", "solve-threads",
			"node-budget", "runlog-file", "nats-url", "gemini-model-name",
			"training-rounds", "seed",
		},
	},
	"alias": {
		Args: []string{"set", "delete", "show", "list", "remove", "rm"},
	},
}

// Common command names for command completion
var commandNames = []string{
	"help", "alias", "load", "unload", "reload", "show", "fill", "check",
	"anagram", "clues", "benchmark", "history", "remote", "tictactoe",
	"minesweeper", "nim", "pagerank", "heredity", "knights", "script",
	"set", "setconfig", "exit",
}

// Common values for certain option types
var boolValues = []string{"true", "false"}

// Do implements the readline.AutoComplete interface
// It provides context-aware autocomplete based on what's been typed
func (c *ShellCompleter) Do(line []rune, pos int) ([][]rune, int) {
	// Get the text up to the cursor position
	text := string(line[:pos])

	// Parse the line using shellquote to handle quoted strings properly
	fields, err := shellquote.Split(text)
	if err != nil {
		// If we can't parse, fall back to simple space splitting
		fields = strings.Fields(text)
	}

	// Check if we're in the middle of typing a word or just after a space
	endsWithSpace := len(text) > 0 && text[len(text)-1] == ' '

	// Determine what we're trying to complete
	var prefix string
	var completions []string

	if len(fields) == 0 || (len(fields) == 1 && !endsWithSpace) {
		// Completing a command name
		if len(fields) == 1 {
			prefix = fields[0]
		}
		completions = commandNames

		// Also include aliases
		for aliasName := range c.sc.aliases {
			completions = append(completions, aliasName)
		}
	} else {
		// We have a command, now complete its arguments/options
		cmdName := fields[0]

		// Check if this is an alias, and if so, expand it to get the real command
		if aliasValue, isAlias := c.sc.aliases[cmdName]; isAlias {
			aliasFields, err := shellquote.Split(aliasValue)
			if err == nil && len(aliasFields) > 0 {
				cmdName = aliasFields[0]
			}
		}

		if !endsWithSpace && len(fields) > 0 {
			prefix = fields[len(fields)-1]
		}

		// Get the last complete field to check context
		var lastCompleteField string
		if endsWithSpace && len(fields) > 0 {
			lastCompleteField = fields[len(fields)-1]
		} else if len(fields) > 1 {
			lastCompleteField = fields[len(fields)-2]
		}

		// Check if the last field was an option that expects specific values
		if lastCompleteField != "" && strings.HasPrefix(lastCompleteField, "-") {
			optName := strings.TrimPrefix(lastCompleteField, "-")

			switch optName {
			case "inline", "parallel", "build":
				completions = boolValues
			case "as":
				completions = []string{"X", "O"}
			}
		}

		// If we haven't determined completions yet, show command options/args
		if completions == nil {
			if metadata, exists := commandMetadata[cmdName]; exists {
				// If we're typing something that starts with -, show options
				if strings.HasPrefix(prefix, "-") {
					completions = metadata.Options
				} else {
					// Show args if available, otherwise show options
					if len(metadata.Args) > 0 {
						completions = metadata.Args
					} else {
						completions = metadata.Options
					}
				}
			}
		}

		// The help command completes to the other command names
		if cmdName == "help" && completions == nil {
			completions = commandNames
		}
	}

	// Filter completions based on prefix
	var matches [][]rune
	for _, completion := range completions {
		if strings.HasPrefix(completion, prefix) {
			// Return only the part that needs to be added
			suffix := completion[len(prefix):]
			matches = append(matches, []rune(suffix))
		}
	}

	return matches, len(prefix)
}
