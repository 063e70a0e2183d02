package puzzle

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Puzzle is the canonical record served for one day.
//
// The zero value is an empty, invalid puzzle; use New or Normalize.
type Puzzle struct {
	theme string
	words []string
	clues map[string]string
}

// New builds a canonical Puzzle.
//
// Words and clue keys are trimmed and uppercased, duplicate words are
// dropped keeping the first occurrence, and the result must satisfy:
// non-empty theme, at least one word, every word has exactly one non-empty
// clue and every clue belongs to a word. Violations return
// ErrSchemaViolation.
func New(theme string, words []string, clues map[string]string) (Puzzle, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return Puzzle{}, fmt.Errorf("%w: theme is empty", ErrSchemaViolation)
	}

	canonWords := make([]string, 0, len(words))
	seen := make(map[string]struct{}, len(words))
	for _, w := range words {
		w = canonicalWord(w)
		if w == "" {
			return Puzzle{}, fmt.Errorf("%w: empty word", ErrSchemaViolation)
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		canonWords = append(canonWords, w)
	}
	if len(canonWords) == 0 {
		return Puzzle{}, fmt.Errorf("%w: no words", ErrSchemaViolation)
	}

	canonClues := make(map[string]string, len(clues))
	for k, v := range clues {
		key := canonicalWord(k)
		if _, dup := canonClues[key]; dup {
			return Puzzle{}, fmt.Errorf("%w: duplicate clue for %q", ErrSchemaViolation, key)
		}
		if _, ok := seen[key]; !ok {
			return Puzzle{}, fmt.Errorf("%w: clue %q matches no word", ErrSchemaViolation, key)
		}
		v = strings.TrimSpace(v)
		if v == "" {
			return Puzzle{}, fmt.Errorf("%w: clue for %q is empty", ErrSchemaViolation, key)
		}
		canonClues[key] = v
	}

	for _, w := range canonWords {
		if _, ok := canonClues[w]; !ok {
			return Puzzle{}, fmt.Errorf("%w: word %q has no clue", ErrSchemaViolation, w)
		}
	}

	return Puzzle{theme: theme, words: canonWords, clues: canonClues}, nil
}

func canonicalWord(w string) string {
	return strings.ToUpper(strings.TrimSpace(w))
}

// Theme returns the theme label.
func (p Puzzle) Theme() string {
	return p.theme
}

// Words returns a copy of the ordered word list.
func (p Puzzle) Words() []string {
	out := make([]string, len(p.words))
	copy(out, p.words)
	return out
}

// Clues returns a copy of the word to clue mapping.
func (p Puzzle) Clues() map[string]string {
	out := make(map[string]string, len(p.clues))
	for k, v := range p.clues {
		out[k] = v
	}
	return out
}

// Clue returns the clue for word. The lookup is case-insensitive.
func (p Puzzle) Clue(word string) (string, bool) {
	c, ok := p.clues[canonicalWord(word)]
	return c, ok
}

// Len returns the number of words.
func (p Puzzle) Len() int {
	return len(p.words)
}

// IsZero reports whether p is the zero value.
func (p Puzzle) IsZero() bool {
	return p.theme == "" && len(p.words) == 0 && len(p.clues) == 0
}

// Equal reports whether p and o hold the same theme, word order and clues.
func (p Puzzle) Equal(o Puzzle) bool {
	if p.theme != o.theme || len(p.words) != len(o.words) || len(p.clues) != len(o.clues) {
		return false
	}
	for i := range p.words {
		if p.words[i] != o.words[i] {
			return false
		}
	}
	for k, v := range p.clues {
		if ov, ok := o.clues[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// wire is the JSON form of a Puzzle, shared by the HTTP response and the
// durable store.
type wire struct {
	Theme string            `json:"theme"`
	Words []string          `json:"words"`
	Clues map[string]string `json:"clues"`
}

// MarshalJSON encodes p as {"theme", "words", "clues"}. Map keys are
// sorted by encoding/json, so equal puzzles encode to equal bytes.
func (p Puzzle) MarshalJSON() ([]byte, error) {
	w := wire{Theme: p.theme, Words: p.words, Clues: p.clues}
	if w.Words == nil {
		w.Words = []string{}
	}
	if w.Clues == nil {
		w.Clues = map[string]string{}
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the canonical JSON form and re-validates it.
func (p *Puzzle) UnmarshalJSON(data []byte) error {
	var w wire
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedOutput, err)
	}
	decoded, err := New(w.Theme, w.Words, w.Clues)
	if err != nil {
		return err
	}
	*p = decoded
	return nil
}

// String returns a short description for logs.
func (p Puzzle) String() string {
	return fmt.Sprintf("puzzle(theme=%q, words=%d)", p.theme, len(p.words))
}
