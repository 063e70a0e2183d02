// Package puzzle defines the canonical daily puzzle record and the
// normaliser that turns untrusted generator output into it.
//
// A Puzzle is a theme, an ordered list of uppercase words and exactly one
// clue per word. Values are immutable: constructors copy their inputs and
// accessors return copies, so a Puzzle can be shared between goroutines
// and cache tiers without synchronisation.
//
// Normalize accepts two historically observed generator shapes:
//
//	{"theme": "...", "words": [{"word": "...", "clue": "..."}, ...]}
//	{"theme": "...", "words": ["..."], "clues": {"WORD": "..."}}
//
// and optionally strips Markdown code fences around the JSON. It performs
// no I/O.
package puzzle
