package pagerank

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lukechampine.com/frand"
)

func testRNG() *frand.RNG {
	return frand.NewCustom(make([]byte, 32), 1024, 12)
}

func threePages() Corpus {
	return Corpus{
		"1.html": {"2.html": true, "3.html": true},
		"2.html": {"3.html": true},
		"3.html": {"2.html": true},
	}
}

func TestCrawl(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	corpus, err := Crawl("testdata/corpus")
	require.NoError(t, err)
	assert.Equal(t, threePages(), corpus)
}

func TestCrawlMissingDir(t *testing.T) {
	_, err := Crawl("testdata/nowhere")
	assert.Error(t, err)
}

func TestPagesSorted(t *testing.T) {
	corpus := Corpus{"c.html": {}, "a.html": {}, "b.html": {}}
	assert.Equal(t, []string{"a.html", "b.html", "c.html"}, corpus.Pages())
}

func TestTransitionModel(t *testing.T) {
	tm := TransitionModel(threePages(), "1.html", Damping)
	assert.InDelta(t, 0.05, tm["1.html"], 1e-9)
	assert.InDelta(t, 0.475, tm["2.html"], 1e-9)
	assert.InDelta(t, 0.475, tm["3.html"], 1e-9)
}

func TestTransitionModelNoLinks(t *testing.T) {
	corpus := Corpus{
		"a.html": {"b.html": true},
		"b.html": {},
	}
	tm := TransitionModel(corpus, "b.html", Damping)
	assert.InDelta(t, 0.5, tm["a.html"], 1e-9)
	assert.InDelta(t, 0.5, tm["b.html"], 1e-9)
}

func TestIterateSymmetricPair(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	corpus := Corpus{
		"a.html": {"b.html": true},
		"b.html": {"a.html": true},
	}
	ranks := Iterate(corpus, Damping)
	assert.InDelta(t, 0.5, ranks["a.html"], 0.01)
	assert.InDelta(t, 0.5, ranks["b.html"], 0.01)
}

func TestIterateUnlinkedPageRanksLowest(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	ranks := Iterate(threePages(), Damping)

	sum := 0.0
	for _, r := range ranks {
		sum += r
	}
	assert.InDelta(t, 1.0, sum, 0.01)

	// Nothing links to page 1, so it only collects the random-jump share.
	assert.InDelta(t, 0.05, ranks["1.html"], 0.01)
	assert.Less(t, ranks["1.html"], ranks["2.html"])
	assert.Less(t, ranks["1.html"], ranks["3.html"])
}

func TestIterateDanglingPage(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	// b has no outgoing links and so behaves as if it linked everywhere.
	corpus := Corpus{
		"a.html": {"b.html": true},
		"b.html": {},
	}
	ranks := Iterate(corpus, Damping)
	assert.InDelta(t, 0.351, ranks["a.html"], 0.01)
	assert.InDelta(t, 0.649, ranks["b.html"], 0.01)
}

func TestSampleApproximatesIterate(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	corpus := threePages()
	sampled := Sample(corpus, Damping, DefaultSamples, testRNG())
	iterated := Iterate(corpus, Damping)

	sum := 0.0
	for _, page := range corpus.Pages() {
		sum += sampled[page]
		assert.InDelta(t, iterated[page], sampled[page], 0.05)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestSampleDeterministicWithSeed(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.Disabled)
	corpus := threePages()
	a := Sample(corpus, Damping, 500, testRNG())
	b := Sample(corpus, Damping, 500, testRNG())
	assert.Equal(t, a, b)
}
