package generate

import "fmt"

// DefaultWordCount is the number of words requested per puzzle.
const DefaultWordCount = 15

// systemPrompt is the output format contract.
const systemPrompt = `You generate word puzzles. Reply with exactly one JSON object and nothing else: no prose, no explanations, no Markdown, no code fences.
The object must have this shape:
{"theme": "<theme>", "words": ["WORD", ...], "clues": {"WORD": "<clue>", ...}}
Every word in "words" must appear as a key in "clues" and every key in "clues" must appear in "words".`

// userPrompt returns the generation request for n words.
func userPrompt(n int) string {
	return fmt.Sprintf(
		"Create today's puzzle: pick a theme and exactly %d distinct words related to it, "+
			"each 4 to 7 letters long, written in uppercase, with one short clue per word.", n)
}
