package lexicon

import (
	"sort"
	"strings"
)

// Blank matches any letter in an anagram rack.
const Blank = '?'

// Anagrams returns the words spelled by exactly the given letters; with
// build set, words spelled by any subset of them. Each '?' is a blank.
// Results come back longest first, alphabetical within a length.
func (wl *WordList) Anagrams(letters string, build bool) []string {
	letters = strings.ToUpper(strings.TrimSpace(letters))
	blanks := 0
	counts := map[rune]int{}
	n := 0
	for _, r := range letters {
		if r == Blank {
			blanks++
		} else {
			counts[r]++
		}
		n++
	}
	var out []string
	for _, w := range wl.words {
		wlen := len([]rune(w))
		if build {
			if wlen > n {
				continue
			}
		} else if wlen != n {
			continue
		}
		if deficit(w, counts) <= blanks {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if len(out[i]) != len(out[j]) {
			return len(out[i]) > len(out[j])
		}
		return out[i] < out[j]
	})
	return out
}

// deficit counts the letters of word not covered by the rack; those have
// to come from blanks.
func deficit(word string, counts map[rune]int) int {
	wc := map[rune]int{}
	for _, r := range word {
		wc[r]++
	}
	need := 0
	for r, c := range wc {
		if c > counts[r] {
			need += c - counts[r]
		}
	}
	return need
}
