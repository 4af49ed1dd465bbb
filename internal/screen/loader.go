package screen

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
)

// LoaderState is the lifecycle of a resource list.
type LoaderState string

const (
	StateIdle    LoaderState = "idle"
	StateLoading LoaderState = "loading"
	StateLoaded  LoaderState = "loaded"
	StateErrored LoaderState = "errored"
)

// FetchFunc retrieves the current collection from the backend.
type FetchFunc func(ctx context.Context) ([]models.Record, error)

// ListLoader owns one resource list's fetch lifecycle. A failed fetch
// discards any previously loaded records so the view never silently shows
// stale results. Overlapping fetches are sequenced by generation: a response
// belonging to a superseded fetch is dropped, so the most recently issued
// fetch always determines the final state.
type ListLoader struct {
	mu         sync.Mutex
	state      LoaderState
	records    []models.Record
	err        error
	generation uint64

	fetch  FetchFunc
	logger *zap.Logger
}

// NewListLoader constructs a loader around the given fetch function.
func NewListLoader(fetch FetchFunc, logger *zap.Logger) *ListLoader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListLoader{state: StateIdle, fetch: fetch, logger: logger}
}

// Load runs one fetch to completion and returns its error, if any. Previous
// records stay visible while the fetch is in flight.
func (l *ListLoader) Load(ctx context.Context) error {
	l.mu.Lock()
	l.generation++
	gen := l.generation
	l.state = StateLoading
	l.mu.Unlock()

	records, err := l.fetch(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		// A newer fetch was issued while this one was in flight.
		l.logger.Debug("discarding superseded fetch", zap.Uint64("generation", gen))
		return nil
	}
	if err != nil {
		l.state = StateErrored
		l.records = nil
		l.err = err
		return err
	}
	l.state = StateLoaded
	l.records = records
	l.err = nil
	return nil
}

// State returns the loader's current state.
func (l *ListLoader) State() LoaderState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Records returns the last successful fetch's records. The slice is shared;
// callers must not mutate it.
func (l *ListLoader) Records() []models.Record {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.records
}

// Err returns the last fetch error, cleared by the next success.
func (l *ListLoader) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}

// Find returns the record with the given id from the last successful fetch.
func (l *ListLoader) Find(id string) (models.Record, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, r := range l.records {
		if r.ID == id {
			return r, true
		}
	}
	return models.Record{}, false
}
