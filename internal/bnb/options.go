package bnb

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type Option func(e *Engine) error

func WithTracer(t Tracer) Option {
	return func(e *Engine) error {
		e.tracer = t
		return nil
	}
}

func WithLogger(l logr.Logger) Option {
	return func(e *Engine) error {
		e.logger = l
		return nil
	}
}

// WithTracerProvider sets where search and node spans are recorded. The
// global OpenTelemetry provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) error {
		e.tracerProvider = tp
		return nil
	}
}

func WithRunIDProvider(p RunIDProvider) Option {
	return func(e *Engine) error {
		e.runIDs = p
		return nil
	}
}

// WithNodeLimit stops the search after n nodes; zero means no limit.
func WithNodeLimit(n int) Option {
	return func(e *Engine) error {
		if n < 0 {
			return fmt.Errorf("node limit must not be negative, got %d", n)
		}
		e.nodeLimit = n
		return nil
	}
}

// WithTimeLimit stops the search once d has elapsed; zero means no limit.
func WithTimeLimit(d time.Duration) Option {
	return func(e *Engine) error {
		if d < 0 {
			return fmt.Errorf("time limit must not be negative, got %s", d)
		}
		e.timeLimit = d
		return nil
	}
}

// WithBoundPruning turns the bound test from a logged flag into a real
// prune: a fractional node whose relaxation cannot beat the incumbent is
// not branched.
func WithBoundPruning() Option {
	return func(e *Engine) error {
		e.boundPruning = true
		return nil
	}
}

// WithDepthFirst explores the frontier as a stack instead of a queue. Left
// children are still expanded before their right siblings.
func WithDepthFirst() Option {
	return func(e *Engine) error {
		e.depthFirst = true
		return nil
	}
}

var defaults = []Option{
	func(e *Engine) error {
		if e.tracer == nil {
			e.tracer = DefaultTracer{}
		}
		return nil
	},
	func(e *Engine) error {
		if e.tracerProvider == nil {
			e.tracerProvider = otel.GetTracerProvider()
		}
		return nil
	},
	func(e *Engine) error {
		if e.runIDs == nil {
			e.runIDs = NewUUIDRunIDProvider()
		}
		return nil
	},
	func(e *Engine) error {
		if e.now == nil {
			e.now = time.Now
		}
		return nil
	},
}
