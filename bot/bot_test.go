package bot

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/castell9/gofai/config"
)

func testBot(t *testing.T) *Bot {
	t.Helper()
	zerolog.SetGlobalLevel(zerolog.Disabled)
	cfg := config.DefaultConfig()
	cfg.Set(config.ConfigDataPath, "testdata")
	return NewBot(&cfg)
}

func TestHandleInlineRequest(t *testing.T) {
	bot := testBot(t)
	req := []byte(`{
		"grid": ["___", "#_#", "#_#"],
		"words": ["CAT", "DOG", "ACE"]
	}`)
	resp := bot.handle(context.Background(), req)
	require.Empty(t, resp.Error)
	require.Len(t, resp.Fill, 2)
	assert.Equal(t, Placement{Row: 0, Col: 0, Direction: "across", Word: "CAT"}, resp.Fill[0])
	assert.Equal(t, Placement{Row: 0, Col: 1, Direction: "down", Word: "ACE"}, resp.Fill[1])
	assert.NotEmpty(t, resp.Display)
	assert.Equal(t, uint64(3), resp.Nodes)
}

func TestHandleNamedGridAndWordList(t *testing.T) {
	bot := testBot(t)
	req := []byte(`{"grid_name": "cross", "wordlist": "tiny"}`)
	resp := bot.handle(context.Background(), req)
	require.Empty(t, resp.Error)
	require.Len(t, resp.Fill, 2)
	assert.Equal(t, "CAT", resp.Fill[0].Word)
}

func TestHandleNoFill(t *testing.T) {
	bot := testBot(t)
	req := []byte(`{
		"grid": ["___", "#_#", "#_#"],
		"words": ["CAT", "DOG"]
	}`)
	resp := bot.handle(context.Background(), req)
	assert.Contains(t, resp.Error, "fill failed")
	assert.Empty(t, resp.Fill)
}

func TestHandleBadRequests(t *testing.T) {
	bot := testBot(t)

	resp := bot.handle(context.Background(), []byte(`{`))
	assert.Contains(t, resp.Error, "could not parse request")

	resp = bot.handle(context.Background(), []byte(`{}`))
	assert.Contains(t, resp.Error, "names no grid")

	resp = bot.handle(context.Background(), []byte(`{"grid_name": "nonexistent"}`))
	assert.Contains(t, resp.Error, "could not load grid")

	resp = bot.handle(context.Background(), []byte(`{"grid": ["___"], "wordlist": "nonexistent"}`))
	assert.Contains(t, resp.Error, "could not load word list")
}

// Round-trip against a real NATS server; set GOFAI_NATS_TEST=1 with a
// server on the default URL to run it.
func TestRequestFillRoundTrip(t *testing.T) {
	if os.Getenv("GOFAI_NATS_TEST") == "" {
		t.Skip("GOFAI_NATS_TEST not set, skipping integration test")
	}
	bot := testBot(t)
	go Main("gofai.fill.test", bot)

	cfg := config.DefaultConfig()
	client, err := NewClient(cfg.GetString(config.ConfigNatsURL), "gofai.fill.test")
	require.NoError(t, err)
	defer client.Close()

	resp, err := client.RequestFill(&FillRequest{
		Grid:  []string{"___", "#_#", "#_#"},
		Words: []string{"CAT", "DOG", "ACE"},
	})
	require.NoError(t, err)
	assert.Len(t, resp.Fill, 2)
}
