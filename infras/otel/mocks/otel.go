package mocks

import (
	"context"
	"sync"

	"todochain/infras/otel"
)

type otelImpl struct{}

// NewScope implements otel.Otel.
func (o *otelImpl) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

// Shutdown implements otel.Otel.
func (o *otelImpl) Shutdown(_ context.Context) error {
	return nil
}

// NewOtel returns a tracer that drops everything.
func NewOtel() otel.Otel {
	return &otelImpl{}
}

// Recorder is a tracer that keeps every scope it opens, in order.
type Recorder struct {
	mu     sync.Mutex
	scopes []*RecordedScope
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) NewScope(ctx context.Context, _, name string) (context.Context, otel.Scope) {
	scope := &RecordedScope{Name: name, Attributes: map[string]any{}}

	r.mu.Lock()
	r.scopes = append(r.scopes, scope)
	r.mu.Unlock()

	return ctx, scope
}

func (r *Recorder) Shutdown(_ context.Context) error {
	return nil
}

// Scope returns the first scope opened under name, or nil.
func (r *Recorder) Scope(name string) *RecordedScope {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, scope := range r.scopes {
		if scope.Name == name {
			return scope
		}
	}

	return nil
}
