package view

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/fitpulse/fitpulse/internal/nutrition"
	"github.com/fitpulse/fitpulse/internal/schedule"
)

// SearchGateway is the slice of the API client the search view needs.
type SearchGateway interface {
	SearchFood(ctx context.Context, query string) ([]nutrition.Food, error)
}

// SearchConfig holds configuration for a food search view.
type SearchConfig struct {
	Gateway SearchGateway
	Logger  zerolog.Logger

	// Debounce is the quiet period after the last keystroke before a
	// query fires. Defaults to schedule.DefaultDebounce.
	Debounce *schedule.Debouncer
}

// Search is the screen-scoped state for the food search box. Keystrokes
// are debounced so only the settled query hits the network, and results
// arriving after teardown are dropped.
type Search struct {
	gw       SearchGateway
	logger   zerolog.Logger
	debounce *schedule.Debouncer

	mu      sync.Mutex
	closed  bool
	query   string
	results []nutrition.Food
	loading bool
	lastErr error
}

// NewSearch builds a fresh search state.
func NewSearch(cfg SearchConfig) *Search {
	debounce := cfg.Debounce
	if debounce == nil {
		debounce = schedule.NewDebouncer(schedule.DefaultDebounce)
	}
	return &Search{
		gw:       cfg.Gateway,
		logger:   cfg.Logger,
		debounce: debounce,
	}
}

// SetQuery records a keystroke and schedules the debounced search. A
// blank query cancels any pending search and clears results.
func (s *Search) SetQuery(ctx context.Context, query string) {
	s.mu.Lock()
	s.query = query
	s.mu.Unlock()

	if strings.TrimSpace(query) == "" {
		s.debounce.Stop()
		s.mu.Lock()
		s.results = nil
		s.loading = false
		s.lastErr = nil
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	s.debounce.Call(func() {
		s.run(ctx, query)
	})
}

// run executes the settled query. Results for a query the user has
// since typed past are discarded.
func (s *Search) run(ctx context.Context, query string) {
	foods, err := s.gw.SearchFood(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.query != query {
		return
	}
	s.loading = false
	if err != nil {
		s.lastErr = err
		s.results = nil
		s.logger.Debug().Err(err).Str("query", query).Msg("food search failed")
		return
	}
	s.lastErr = nil
	s.results = foods
}

// Results returns the current result set.
func (s *Search) Results() []nutrition.Food {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.results
}

// Loading reports whether a search is pending or in flight.
func (s *Search) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last search error, nil after a successful search.
func (s *Search) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close tears the view down and cancels any pending debounced search.
func (s *Search) Close() {
	s.debounce.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
