package analytics

import (
	"time"

	"github.com/teampulse/teampulse/pkg/logging"
)

// Engine evaluates cadence rules, scores team metrics, and categorizes
// activity into insights. All computations are synchronous single-pass
// aggregations over records fetched once per request; the engine holds no
// mutable state beyond its collaborators.
type Engine struct {
	store Store
	log   *logging.Logger
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(log *logging.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// WithClock overrides the time source. Tests pin this to a fixed instant.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over the given store.
func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		log:   logging.Discard(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
