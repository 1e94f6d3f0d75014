package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func anagramFixture() *WordList {
	return FromWords("anagrams", []string{
		"RATS", "STAR", "TARS", "TSAR", "ARTS",
		"RAT", "TAR", "ART", "SAT", "TAS",
		"AT", "TA", "AS",
		"STARE", "RATES", "TEARS",
		"DOG", "GOD",
	})
}

func TestAnagramsExact(t *testing.T) {
	wl := anagramFixture()
	assert.Equal(t, []string{"ARTS", "RATS", "STAR", "TARS", "TSAR"},
		wl.Anagrams("STAR", false))
	assert.Equal(t, []string{"DOG", "GOD"}, wl.Anagrams("gdo", false))
	assert.Empty(t, wl.Anagrams("XYZ", false))
}

func TestAnagramsWithBlanks(t *testing.T) {
	wl := anagramFixture()
	// the blank has to cover the missing letter exactly once
	assert.Equal(t, []string{"ARTS", "RATS", "STAR", "TARS", "TSAR"},
		wl.Anagrams("STA?", false))
	assert.Equal(t, []string{"RATES", "STARE", "TEARS"},
		wl.Anagrams("STAR?", false))
	assert.Equal(t, []string{"DOG", "GOD"}, wl.Anagrams("??G", false))
}

func TestAnagramsBuild(t *testing.T) {
	wl := anagramFixture()
	got := wl.Anagrams("STAR", true)
	// longest first, alphabetical within a length
	assert.Equal(t, []string{
		"ARTS", "RATS", "STAR", "TARS", "TSAR",
		"ART", "RAT", "SAT", "TAR", "TAS",
		"AS", "AT", "TA",
	}, got)
}

func TestAnagramsBuildWithBlank(t *testing.T) {
	wl := anagramFixture()
	got := wl.Anagrams("RAT?", true)
	assert.Contains(t, got, "RATS")
	assert.Contains(t, got, "TSAR")
	assert.Contains(t, got, "RAT")
	assert.NotContains(t, got, "STARE")
}
