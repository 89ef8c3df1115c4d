package mocks

import (
	"sync"

	"todochain/infras/otel"
)

type scopeImpl struct{}

func (s *scopeImpl) AddEvent(_ string) {}
func (s *scopeImpl) End() {}
func (s *scopeImpl) SetAttribute(_ string, _ any) {}
func (s *scopeImpl) SetAttributes(_ map[string]any) {}
func (s *scopeImpl) TraceError(_ error) {}
func (s *scopeImpl) TraceIfError(_ error) {}

func NewScope() otel.Scope {
	return &scopeImpl{}
}

// RecordedScope keeps what a span would have exported so tests can assert on it.
type RecordedScope struct {
	Name       string
	Events     []string
	Errors     []error
	Attributes map[string]any
	Ended      bool

	mu sync.Mutex
}

func (s *RecordedScope) AddEvent(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Events = append(s.Events, name)
}

func (s *RecordedScope) End() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Ended = true
}

func (s *RecordedScope) SetAttribute(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Attributes[key] = value
}

func (s *RecordedScope) SetAttributes(attributes map[string]any) {
	for key, value := range attributes {
		s.SetAttribute(key, value)
	}
}

func (s *RecordedScope) TraceError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Errors = append(s.Errors, err)
}

func (s *RecordedScope) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}
