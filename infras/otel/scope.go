package otel

import (
	"errors"
	"fmt"
	"math"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"todochain/shared/failure"
)

const (
	attributeHTTPCode    = "error.http_code"
	attributeProgramCode = "error.program_code"
)

type Scope interface {
	End()
	TraceError(err error)
	TraceIfError(err error)
	AddEvent(name string)
	SetAttribute(key string, value any)
	SetAttributes(attributes map[string]any)
}

type scopeImpl struct {
	span oteltrace.Span
}

func (s *scopeImpl) End() {
	s.span.End()
}

// TraceError records err on the span. Failures also tag the span with their HTTP and program codes.
func (s *scopeImpl) TraceError(err error) {
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())

	var fail *failure.Failure
	if errors.As(err, &fail) {
		s.span.SetAttributes(attribute.Int(attributeHTTPCode, fail.Code))

		if fail.ProgramCode != 0 {
			s.span.SetAttributes(attribute.Int64(attributeProgramCode, int64(fail.ProgramCode)))
		}
	}
}

func (s *scopeImpl) TraceIfError(err error) {
	if err != nil {
		s.TraceError(err)
	}
}

func (s *scopeImpl) AddEvent(name string) {
	s.span.AddEvent(name)
}

func (s *scopeImpl) SetAttribute(key string, value any) {
	switch val := value.(type) {
	case bool:
		s.span.SetAttributes(attribute.Bool(key, val))
	case string:
		s.span.SetAttributes(attribute.String(key, val))
	case int:
		s.span.SetAttributes(attribute.Int(key, val))
	case int64:
		s.span.SetAttributes(attribute.Int64(key, val))
	case uint64:
		if val > math.MaxInt64 {
			s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%d", val)))

			return
		}

		s.span.SetAttributes(attribute.Int64(key, int64(val)))
	case []string:
		s.span.SetAttributes(attribute.StringSlice(key, val))
	case []byte:
		s.span.SetAttributes(attribute.Int(key+".len", len(val)))
	case fmt.Stringer:
		s.span.SetAttributes(attribute.String(key, val.String()))
	default:
		s.span.SetAttributes(attribute.String(key, fmt.Sprintf("%v", val)))
	}
}

func (s *scopeImpl) SetAttributes(attributes map[string]any) {
	for key, value := range attributes {
		s.SetAttribute(key, value)
	}
}

func NewScope(span oteltrace.Span) Scope {
	return &scopeImpl{
		span: span,
	}
}
