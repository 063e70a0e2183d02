package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/jonwraymond/dailypuzzle/daykey"
	"github.com/jonwraymond/dailypuzzle/observe"
	"github.com/jonwraymond/dailypuzzle/puzzle"
	"github.com/jonwraymond/dailypuzzle/store"
)

// Puzzles is the read side of cache.Orchestrator.
type Puzzles interface {
	TodaysPuzzle(ctx context.Context, now time.Time) (puzzle.Puzzle, error)
	Archived(ctx context.Context, key daykey.Key) (puzzle.Puzzle, error)
	Days(ctx context.Context) ([]daykey.Key, error)
}

// ErrorResponse is the JSON body written on failure.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details"`
}

// DaysResponse is the JSON body of the day listing.
type DaysResponse struct {
	Days []daykey.Key `json:"days"`
}

// PuzzleHandler serves puzzles over HTTP.
type PuzzleHandler struct {
	puzzles Puzzles
	now     func() time.Time
	logger  observe.Logger
}

// Option configures a PuzzleHandler.
type Option func(*PuzzleHandler)

// WithClock sets the clock used to pick today. Default: time.Now
func WithClock(now func() time.Time) Option {
	return func(h *PuzzleHandler) { h.now = now }
}

// WithLogger sets the logger.
func WithLogger(l observe.Logger) Option {
	return func(h *PuzzleHandler) { h.logger = l }
}

// NewPuzzleHandler creates a PuzzleHandler.
func NewPuzzleHandler(p Puzzles, opts ...Option) *PuzzleHandler {
	h := &PuzzleHandler{
		puzzles: p,
		now:     time.Now,
		logger:  observe.NopLogger(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.logger = h.logger.With(observe.F("component", "api"))
	return h
}

// Today handles GET /api/puzzle.
func (h *PuzzleHandler) Today(w http.ResponseWriter, r *http.Request) {
	p, err := h.puzzles.TodaysPuzzle(r.Context(), h.now())
	if err != nil {
		h.logger.Error(r.Context(), "failed to serve today's puzzle", observe.Err(err))
		writeError(w, http.StatusInternalServerError, "failed to get today's puzzle", err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Days handles GET /api/puzzles.
func (h *PuzzleHandler) Days(w http.ResponseWriter, r *http.Request) {
	days, err := h.puzzles.Days(r.Context())
	if err != nil {
		h.logger.Error(r.Context(), "failed to list puzzles", observe.Err(err))
		writeError(w, http.StatusInternalServerError, "failed to list puzzles", err)
		return
	}
	if days == nil {
		days = []daykey.Key{}
	}
	writeJSON(w, http.StatusOK, DaysResponse{Days: days})
}

// Archived handles GET /api/puzzles/{day}.
func (h *PuzzleHandler) Archived(w http.ResponseWriter, r *http.Request) {
	key, err := daykey.Parse(r.PathValue("day"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid day", err)
		return
	}

	p, err := h.puzzles.Archived(r.Context(), key)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "puzzle not found", err)
	case err != nil:
		h.logger.Error(r.Context(), "failed to read archived puzzle",
			observe.F("day", key.String()), observe.Err(err))
		writeError(w, http.StatusInternalServerError, "failed to get puzzle", err)
	default:
		writeJSON(w, http.StatusOK, p)
	}
}

// RegisterHandlers registers the puzzle routes on mux. Each route is wrapped
// in CORS and then in mw, so preflights and failures are traced too.
func RegisterHandlers(mux *http.ServeMux, h *PuzzleHandler, mw *observe.Middleware) {
	route := func(pattern string, fn http.HandlerFunc) {
		var handler http.Handler = CORS(onlyGet(fn))
		if mw != nil {
			handler = mw.Handler(pattern, handler)
		}
		mux.Handle(pattern, handler)
	}
	route("/api/puzzle", h.Today)
	route("/api/puzzles", h.Days)
	route("/api/puzzles/{day}", h.Archived)
}

// onlyGet answers any method other than GET (and HEAD) with 405. CORS
// handles OPTIONS before this is reached.
func onlyGet(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", AllowMethods)
			writeError(w, http.StatusMethodNotAllowed, "method not allowed", errors.New(r.Method))
			return
		}
		next(w, r)
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string, err error) {
	writeJSON(w, code, ErrorResponse{Error: msg, Details: err.Error()})
}
