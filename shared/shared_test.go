package shared_test

import (
	"testing"

	"todochain/shared"
)

func TestBuildCacheKey(t *testing.T) {
	tests := []struct {
		name     string
		parts    []string
		expected string
	}{
		{name: "single part", parts: []string{"account"}, expected: "account"},
		{name: "multiple parts", parts: []string{"todochain", "account", "abc"}, expected: "todochain:account:abc"},
		{name: "empty parts are skipped", parts: []string{"limiter", "", "127.0.0.1"}, expected: "limiter:127.0.0.1"},
		{name: "no parts", parts: nil, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := shared.BuildCacheKey(tt.parts...); got != tt.expected {
				t.Errorf("BuildCacheKey() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *bool
	}{
		{name: "empty string returns nil", input: "", expected: nil},
		{name: "valid true string", input: "true", expected: boolPtr(true)},
		{name: "valid false string", input: "false", expected: boolPtr(false)},
		{name: "valid 1 string", input: "1", expected: boolPtr(true)},
		{name: "invalid string returns nil", input: "maybe", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := shared.ConvertStringToBool(tt.input)

			if tt.expected == nil {
				if result != nil {
					t.Errorf("expected nil, got %v", *result)
				}

				return
			}

			if result == nil || *result != *tt.expected {
				t.Errorf("expected %v, got %v", *tt.expected, result)
			}
		})
	}
}

func boolPtr(b bool) *bool {
	return &b
}

func TestCalculateTotalPage(t *testing.T) {
	tests := []struct {
		total, limit, expected int
	}{
		{total: 0, limit: 10, expected: 1},
		{total: 5, limit: 0, expected: 1},
		{total: 10, limit: 10, expected: 1},
		{total: 11, limit: 10, expected: 2},
		{total: 25, limit: 5, expected: 5},
	}

	for _, tt := range tests {
		if got := shared.CalculateTotalPage(tt.total, tt.limit); got != tt.expected {
			t.Errorf("CalculateTotalPage(%d, %d) = %d, want %d", tt.total, tt.limit, got, tt.expected)
		}
	}
}
