package validator_test

import (
	"strings"
	"testing"

	"todochain/shared/validator"
)

type airdropRequest struct {
	Pubkey   string `validate:"required,pubkey" json:"pubkey"`
	Lamports uint64 `validate:"gte=1,lte=1000000000" json:"lamports"`
}

const validPubkey = "SysvarC1ock11111111111111111111111111111111"

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name        string
		data        *airdropRequest
		expectError bool
	}{
		{
			name:        "valid struct",
			data:        &airdropRequest{Pubkey: validPubkey, Lamports: 10},
			expectError: false,
		},
		{
			name:        "missing pubkey",
			data:        &airdropRequest{Lamports: 10},
			expectError: true,
		},
		{
			name:        "pubkey is not base58",
			data:        &airdropRequest{Pubkey: "0OIl", Lamports: 10},
			expectError: true,
		},
		{
			name:        "pubkey has wrong length",
			data:        &airdropRequest{Pubkey: "111", Lamports: 10},
			expectError: true,
		},
		{
			name:        "lamports out of range",
			data:        &airdropRequest{Pubkey: validPubkey, Lamports: 0},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(tt.data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       any
		tag         string
		expectError bool
	}{
		{name: "valid pubkey", field: validPubkey, tag: "pubkey", expectError: false},
		{name: "invalid pubkey", field: "not-a-key", tag: "pubkey", expectError: true},
		{name: "valid base64", field: "AAEC", tag: "base64", expectError: false},
		{name: "invalid base64", field: "###", tag: "base64", expectError: true},
		{name: "empty required string", field: "", tag: "required", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		jsonBody    string
		expectError bool
	}{
		{name: "valid JSON", jsonBody: `{"pubkey":"` + validPubkey + `","lamports":5}`, expectError: false},
		{name: "invalid field", jsonBody: `{"pubkey":"abc","lamports":5}`, expectError: true},
		{name: "unknown field", jsonBody: `{"pubkey":"` + validPubkey + `","lamports":5,"extra":1}`, expectError: true},
		{name: "malformed JSON", jsonBody: `{"pubkey":}`, expectError: true},
		{name: "empty JSON", jsonBody: `{}`, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var data airdropRequest
			err := validator.Validate(strings.NewReader(tt.jsonBody), &data)

			if tt.expectError && err == nil {
				t.Error("expected validation error, got nil")
			}

			if !tt.expectError && err != nil {
				t.Errorf("expected no validation error, got: %v", err)
			}
		})
	}
}

type metaRequest struct {
	Pubkey string `json:"pubkey" validate:"required,pubkey"`
}

type batchRequest struct {
	Metas []metaRequest `json:"metas" validate:"required,min=1,dive"`
}

func TestValidationMessages(t *testing.T) {
	tests := []struct {
		name     string
		validate func() error
		expected string
	}{
		{
			name:     "pubkey",
			validate: func() error { return validator.ValidateStruct(&airdropRequest{Pubkey: "abc", Lamports: 1}) },
			expected: "pubkey must be a base58 encoded 32 byte address",
		},
		{
			name:     "range uses the json name",
			validate: func() error { return validator.ValidateStruct(&airdropRequest{Pubkey: validPubkey}) },
			expected: "lamports must be greater than or equal to 1",
		},
		{
			name: "nested element",
			validate: func() error {
				return validator.ValidateStruct(&batchRequest{Metas: []metaRequest{{Pubkey: validPubkey}, {}}})
			},
			expected: "metas[1].pubkey is required",
		},
		{
			name:     "empty collection",
			validate: func() error { return validator.ValidateStruct(&batchRequest{Metas: []metaRequest{}}) },
			expected: "metas must have at least 1 entries",
		},
		{
			name:     "variable",
			validate: func() error { return validator.ValidateVar("", "required,pubkey") },
			expected: "value is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.validate()
			if err == nil {
				t.Fatal("expected validation error")
			}

			if !strings.Contains(err.Error(), tt.expected) {
				t.Errorf("expected %q in message, got: %s", tt.expected, err.Error())
			}
		})
	}
}
