package lexicon

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/cespare/xxhash"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// A WordList is an ordered list of candidate words for filling grids.
// Words keep the order they had in the source file; the fill algorithms
// rely on that order being stable.
type WordList struct {
	name        string
	words       []string
	set         map[string]struct{}
	fingerprint uint64
}

// FromReader parses a newline-delimited word list. Words are uppercased and
// deduplicated, and blank lines and #-comments are dropped. Input that is
// not valid UTF-8 is assumed to be ISO 8859-1, which older word lists in the
// wild still use.
func FromReader(name string, r io.Reader) (*WordList, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		decoder := charmap.ISO8859_1.NewDecoder()
		data, _, err = transform.Bytes(decoder, data)
		if err != nil {
			return nil, err
		}
	}
	wl := &WordList{name: name, set: make(map[string]struct{})}
	h := xxhash.New()
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		w := strings.TrimSpace(scanner.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		w = strings.ToUpper(w)
		if _, dupe := wl.set[w]; dupe {
			continue
		}
		wl.set[w] = struct{}{}
		wl.words = append(wl.words, w)
		io.WriteString(h, w)
		h.Write([]byte{'\n'})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	wl.fingerprint = h.Sum64()
	return wl, nil
}

// FromWords builds a word list directly from a slice, normalizing the same
// way FromReader does.
func FromWords(name string, words []string) *WordList {
	wl, _ := FromReader(name, strings.NewReader(strings.Join(words, "\n")))
	return wl
}

func (wl *WordList) Name() string {
	return wl.name
}

// Words returns the words in source order. Callers must not modify the
// returned slice.
func (wl *WordList) Words() []string {
	return wl.words
}

func (wl *WordList) HasWord(word string) bool {
	_, ok := wl.set[strings.ToUpper(word)]
	return ok
}

func (wl *WordList) Len() int {
	return len(wl.words)
}

// Fingerprint is a hash of the normalized word list contents. Run logs store
// it so results can be traced back to the exact list that produced them.
func (wl *WordList) Fingerprint() uint64 {
	return wl.fingerprint
}
