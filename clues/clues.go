// Package clues writes crossword clues for the answers of a completed fill
// using Gemini.
package clues

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/castell9/gofai/config"
)

var ErrNoAPIKey = errors.New("no gemini api key configured")

const cluesPrompt = `You write crossword clues.

Write one clue for each answer below. Clues should be short, fair, and not
contain the answer or an obvious derivative of it.

Answers:
%s
Respond ONLY with JSON in this format, without commentary or markdown:
{"clues": [{"answer": "ANSWER", "clue": "The clue text"}]}`

type Clue struct {
	Answer string `json:"answer"`
	Clue   string `json:"clue"`
}

type Generator struct {
	client    *genai.Client
	modelName string
}

// NewGenerator builds a clue generator from the configured API key and
// model name. It fails with ErrNoAPIKey when no key is set.
func NewGenerator(ctx context.Context, cfg *config.Config) (*Generator, error) {
	apiKey := cfg.GetString(config.ConfigGeminiAPIKey)
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &Generator{
		client:    client,
		modelName: cfg.GetString(config.ConfigGeminiModelName),
	}, nil
}

func buildPrompt(answers []string) string {
	var sb strings.Builder
	seen := make(map[string]bool)
	for _, answer := range answers {
		answer = strings.ToUpper(answer)
		if seen[answer] {
			continue
		}
		seen[answer] = true
		sb.WriteString("- ")
		sb.WriteString(answer)
		sb.WriteString("\n")
	}
	return fmt.Sprintf(cluesPrompt, sb.String())
}

// parseClues matches the model's output back to the requested answers, in
// request order. Every answer must have received a clue.
func parseClues(text string, answers []string) ([]Clue, error) {
	var parsed struct {
		Clues []Clue `json:"clues"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("parse clues JSON: %w\nraw response: %s", err, text)
	}

	byAnswer := make(map[string]string, len(parsed.Clues))
	for _, c := range parsed.Clues {
		byAnswer[strings.ToUpper(c.Answer)] = c.Clue
	}

	var clues []Clue
	seen := make(map[string]bool)
	for _, answer := range answers {
		answer = strings.ToUpper(answer)
		if seen[answer] {
			continue
		}
		seen[answer] = true
		clue, ok := byAnswer[answer]
		if !ok || clue == "" {
			return nil, fmt.Errorf("no clue returned for %v", answer)
		}
		clues = append(clues, Clue{Answer: answer, Clue: clue})
	}
	return clues, nil
}

// Generate asks the model for one clue per answer.
func (g *Generator) Generate(ctx context.Context, answers []string) ([]Clue, error) {
	if len(answers) == 0 {
		return nil, errors.New("no answers to write clues for")
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: buildPrompt(answers)}},
		}},
		&genai.GenerateContentConfig{
			Temperature:      genai.Ptr(float32(0.7)),
			ResponseMIMEType: "application/json",
		},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return nil, fmt.Errorf("empty gemini response")
	}
	clues, err := parseClues(text, answers)
	if err != nil {
		return nil, err
	}
	log.Debug().Int("clues", len(clues)).Str("model", g.modelName).
		Msg("generated clues")
	return clues, nil
}
