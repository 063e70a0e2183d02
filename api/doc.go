// Package api is the HTTP boundary of the puzzle service.
//
// Routes:
//
//	GET     /api/puzzle         today's puzzle as {"theme", "words", "clues"}
//	OPTIONS /api/puzzle         CORS preflight, 200 with an empty body
//	GET     /api/puzzles        stored day keys, oldest first
//	GET     /api/puzzles/{day}  a stored puzzle; 400 for a bad day, 404 if absent
//
// Every response carries permissive CORS headers. Failures are written as
// {"error", "details"}; a failure to produce today's puzzle is always a 500.
package api
