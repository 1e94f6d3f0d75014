// Package pagerank estimates the importance of pages in a link corpus, both
// by random-surfer sampling and by iterating the rank equation to a fixed
// point.
package pagerank

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"lukechampine.com/frand"
)

const (
	// Damping is the probability the random surfer follows a link instead
	// of jumping to a random page.
	Damping = 0.85
	// DefaultSamples is the sample count used by the CLI and shell.
	DefaultSamples = 10000

	// Iteration stops when no rank moves by more than this.
	convergeTolerance = 0.001
)

// A Corpus maps each page to the set of pages it links to.
type Corpus map[string]map[string]bool

// Pages returns the corpus pages sorted by name. Rank computations iterate
// in this order so results are reproducible.
func (c Corpus) Pages() []string {
	pages := make([]string, 0, len(c))
	for page := range c {
		pages = append(pages, page)
	}
	sort.Strings(pages)
	return pages
}

var hrefRe = regexp.MustCompile(`<a\s+(?:[^>]*?)href="([^"]*)"`)

// Crawl parses a directory of HTML pages into a corpus. Only links between
// pages of the corpus count; self-links are dropped.
func Crawl(dir string) (Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	corpus := make(Corpus)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".html") {
			continue
		}
		contents, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		links := make(map[string]bool)
		for _, m := range hrefRe.FindAllStringSubmatch(string(contents), -1) {
			if m[1] != entry.Name() {
				links[m[1]] = true
			}
		}
		corpus[entry.Name()] = links
	}
	if len(corpus) == 0 {
		return nil, fmt.Errorf("no .html pages in %v", dir)
	}
	for page, links := range corpus {
		for link := range links {
			if _, ok := corpus[link]; !ok {
				delete(links, link)
			}
		}
		corpus[page] = links
	}
	log.Debug().Int("pages", len(corpus)).Str("dir", dir).Msg("crawled corpus")
	return corpus, nil
}

// TransitionModel returns the probability distribution over which page the
// surfer visits next from the given page. A page with no outgoing links is
// treated as linking to every page.
func TransitionModel(corpus Corpus, page string, damping float64) map[string]float64 {
	n := float64(len(corpus))
	probs := make(map[string]float64, len(corpus))
	links := corpus[page]
	if len(links) == 0 {
		for p := range corpus {
			probs[p] = 1 / n
		}
		return probs
	}
	for p := range corpus {
		probs[p] = (1 - damping) / n
	}
	for link := range links {
		probs[link] += damping / float64(len(links))
	}
	return probs
}

// Sample estimates ranks by walking the corpus for n steps and counting
// visits. Pass a seeded rng for reproducible estimates; nil uses a random
// seed.
func Sample(corpus Corpus, damping float64, n int, rng *frand.RNG) map[string]float64 {
	if rng == nil {
		rng = frand.New()
	}
	pages := corpus.Pages()
	counts := make(map[string]int, len(pages))
	page := pages[rng.Intn(len(pages))]

	cum := make([]float64, len(pages))
	for i := 0; i < n; i++ {
		counts[page]++
		tm := TransitionModel(corpus, page, damping)
		for j, p := range pages {
			cum[j] = tm[p]
		}
		floats.CumSum(cum, cum)
		idx := sort.SearchFloat64s(cum, rng.Float64()*cum[len(cum)-1])
		if idx == len(pages) {
			idx = len(pages) - 1
		}
		page = pages[idx]
	}

	ranks := make(map[string]float64, len(pages))
	for _, p := range pages {
		ranks[p] = float64(counts[p]) / float64(n)
	}
	return ranks
}

// Iterate computes ranks by applying the PageRank equation until no page's
// rank moves by more than the convergence tolerance.
func Iterate(corpus Corpus, damping float64) map[string]float64 {
	pages := corpus.Pages()
	n := float64(len(pages))

	old := make([]float64, len(pages))
	next := make([]float64, len(pages))
	for i := range old {
		old[i] = 1 / n
	}
	index := make(map[string]int, len(pages))
	for i, p := range pages {
		index[p] = i
	}

	iterations := 0
	for {
		iterations++
		for i, page := range pages {
			rank := (1 - damping) / n
			for _, from := range pages {
				links := corpus[from]
				switch {
				case len(links) == 0:
					rank += damping * old[index[from]] / n
				case links[page]:
					rank += damping * old[index[from]] / float64(len(links))
				}
			}
			next[i] = rank
		}
		if floats.Distance(next, old, math.Inf(1)) < convergeTolerance {
			break
		}
		copy(old, next)
	}
	log.Debug().Int("iterations", iterations).Msg("pagerank converged")

	ranks := make(map[string]float64, len(pages))
	for i, p := range pages {
		ranks[p] = next[i]
	}
	return ranks
}
