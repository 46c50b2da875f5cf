// Package fssync reconciles a script collection with a linked folder: it
// imports folders, detects changed files since a watermark, merges incoming
// items, and writes the collection back with its metadata side-car.
//
// The engine holds no state between calls. Callers must not run two
// operations against the same folder at once.
package fssync

import (
	"time"

	"github.com/google/uuid"

	"github.com/vault-md/scriptvault/internal/logger"
)

const defaultReadConcurrency = 8

// Engine performs folder synchronization.
type Engine struct {
	log             *logger.Logger
	now             func() time.Time
	newID           func() string
	readConcurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for recovered conditions.
func WithLogger(log *logger.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator replaces the random id source for new items.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// WithReadConcurrency bounds parallel file reads during a full scan.
func WithReadConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.readConcurrency = n
		}
	}
}

// New returns an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		log:             logger.Nop(),
		now:             time.Now,
		newID:           uuid.NewString,
		readConcurrency: defaultReadConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) clock() time.Time {
	return e.now().UTC()
}
