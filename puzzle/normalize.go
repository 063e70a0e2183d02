package puzzle

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

// Shape identifies which generator output layout was detected.
type Shape int

const (
	// ShapeUnknown means no supported layout matched.
	ShapeUnknown Shape = iota
	// ShapePairs is {theme, words: [{word, clue}, ...]}.
	ShapePairs
	// ShapeListAndMap is {theme, words: [string, ...], clues: {word: clue}}.
	ShapeListAndMap
)

// String returns the string representation of the shape.
func (s Shape) String() string {
	switch s {
	case ShapePairs:
		return "pairs"
	case ShapeListAndMap:
		return "list+map"
	default:
		return "unknown"
	}
}

var (
	openingFence = regexp.MustCompile("^`{3,}[A-Za-z0-9_+-]*")
	closingFence = regexp.MustCompile("`{3,}$")
)

// StripFences removes surrounding whitespace and a Markdown code fence
// (with optional language tag) around raw.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if loc := openingFence.FindStringIndex(s); loc != nil {
		s = s[loc[1]:]
		if loc := closingFence.FindStringIndex(s); loc != nil {
			s = s[:loc[0]]
		}
	}
	return strings.TrimSpace(s)
}

// Normalize converts raw generator output into a canonical Puzzle.
//
// It fails with ErrMalformedOutput when the sanitised text is not a JSON
// object and with ErrSchemaViolation when the object does not describe a
// valid puzzle. Error messages never include raw.
func Normalize(raw string) (Puzzle, error) {
	p, _, err := NormalizeShape(raw)
	return p, err
}

// NormalizeShape is Normalize that also reports the detected input shape.
func NormalizeShape(raw string) (Puzzle, Shape, error) {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return Puzzle{}, ShapeUnknown, fmt.Errorf("%w: empty input", ErrMalformedOutput)
	}
	if !gjson.Valid(cleaned) {
		return Puzzle{}, ShapeUnknown, fmt.Errorf("%w: invalid JSON", ErrMalformedOutput)
	}

	doc := gjson.Parse(cleaned)
	if !doc.IsObject() {
		return Puzzle{}, ShapeUnknown, fmt.Errorf("%w: top-level value is not an object", ErrMalformedOutput)
	}

	theme := doc.Get("theme")
	if theme.Type != gjson.String {
		return Puzzle{}, ShapeUnknown, fmt.Errorf("%w: theme must be a string", ErrSchemaViolation)
	}

	words := doc.Get("words")
	if !words.IsArray() {
		return Puzzle{}, ShapeUnknown, fmt.Errorf("%w: words must be an array", ErrSchemaViolation)
	}
	items := words.Array()
	if len(items) == 0 {
		return Puzzle{}, ShapeUnknown, fmt.Errorf("%w: no words", ErrSchemaViolation)
	}

	shape := detectShape(items[0])
	var (
		list  []string
		clues map[string]string
		err   error
	)
	switch shape {
	case ShapePairs:
		list, clues, err = fromPairs(items)
	case ShapeListAndMap:
		list, clues, err = fromListAndMap(items, doc.Get("clues"))
	default:
		err = fmt.Errorf("%w: words must hold strings or {word, clue} objects", ErrSchemaViolation)
	}
	if err != nil {
		return Puzzle{}, shape, err
	}

	p, err := New(theme.String(), list, clues)
	if err != nil {
		return Puzzle{}, shape, err
	}
	return p, shape, nil
}

func detectShape(first gjson.Result) Shape {
	switch {
	case first.IsObject():
		return ShapePairs
	case first.Type == gjson.String:
		return ShapeListAndMap
	default:
		return ShapeUnknown
	}
}

// fromPairs reads [{word, clue}, ...]. A repeated word keeps its first clue.
func fromPairs(items []gjson.Result) ([]string, map[string]string, error) {
	list := make([]string, 0, len(items))
	clues := make(map[string]string, len(items))
	for i, item := range items {
		if !item.IsObject() {
			return nil, nil, fmt.Errorf("%w: words[%d] is not an object", ErrSchemaViolation, i)
		}
		word, clue := item.Get("word"), item.Get("clue")
		if word.Type != gjson.String {
			return nil, nil, fmt.Errorf("%w: words[%d].word must be a string", ErrSchemaViolation, i)
		}
		if clue.Type != gjson.String {
			return nil, nil, fmt.Errorf("%w: words[%d].clue must be a string", ErrSchemaViolation, i)
		}
		key := canonicalWord(word.String())
		list = append(list, key)
		if _, ok := clues[key]; !ok {
			clues[key] = clue.String()
		}
	}
	return list, clues, nil
}

// fromListAndMap reads ["word", ...] plus {"word": "clue"}.
func fromListAndMap(items []gjson.Result, rawClues gjson.Result) ([]string, map[string]string, error) {
	list := make([]string, 0, len(items))
	for i, item := range items {
		if item.Type != gjson.String {
			return nil, nil, fmt.Errorf("%w: words[%d] must be a string", ErrSchemaViolation, i)
		}
		list = append(list, item.String())
	}

	if !rawClues.IsObject() {
		return nil, nil, fmt.Errorf("%w: clues must be an object", ErrSchemaViolation)
	}

	clues := make(map[string]string)
	var err error
	// ForEach rather than Get: clue keys are data, not gjson paths.
	rawClues.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			err = fmt.Errorf("%w: clue for %q must be a string", ErrSchemaViolation, canonicalWord(key.String()))
			return false
		}
		k := key.String()
		if _, dup := clues[k]; dup {
			err = fmt.Errorf("%w: duplicate clue for %q", ErrSchemaViolation, canonicalWord(k))
			return false
		}
		clues[k] = value.String()
		return true
	})
	if err != nil {
		return nil, nil, err
	}
	return list, clues, nil
}
