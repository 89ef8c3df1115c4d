package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todochain/internal/domains/todo/codec"
	"todochain/internal/domains/todo/model"
	"todochain/shared/failure"
)

func nameBytes(tag byte, name string) []byte {
	return codec.EncodeInstruction(instructionFor(tag, name))
}

func instructionFor(tag byte, name string) model.Instruction {
	if tag == model.TagMarkDone {
		return model.MarkDone{Name: name}
	}

	return model.AddItem{Name: name}
}

func TestDecodeInstruction(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		want    model.Instruction
		wantErr error
	}{
		{
			name: "add item",
			data: []byte{0, 13, 0, 0, 0, 'B', 'u', 'y', ' ', 'g', 'r', 'o', 'c', 'e', 'r', 'i', 'e', 's'},
			want: model.AddItem{Name: "Buy groceries"},
		},
		{
			name: "mark done",
			data: nameBytes(model.TagMarkDone, "Buy groceries"),
			want: model.MarkDone{Name: "Buy groceries"},
		},
		{
			name: "empty name",
			data: []byte{0, 0, 0, 0, 0},
			want: model.AddItem{Name: ""},
		},
		{
			name: "trailing bytes are ignored",
			data: append(nameBytes(model.TagAddItem, "x"), 0xAA, 0xBB),
			want: model.AddItem{Name: "x"},
		},
		{
			name:    "empty input",
			data:    nil,
			wantErr: failure.MalformedInstruction,
		},
		{
			name:    "unknown tag",
			data:    []byte{2, 0, 0, 0, 0},
			wantErr: failure.MalformedInstruction,
		},
		{
			name:    "tag without name",
			data:    []byte{1},
			wantErr: failure.MalformedInstruction,
		},
		{
			name:    "truncated length prefix",
			data:    []byte{0, 5, 0},
			wantErr: failure.MalformedInstruction,
		},
		{
			name:    "truncated name",
			data:    []byte{0, 5, 0, 0, 0, 'a', 'b'},
			wantErr: failure.MalformedInstruction,
		},
		{
			name:    "huge length prefix",
			data:    []byte{1, 0xFF, 0xFF, 0xFF, 0xFF, 'a'},
			wantErr: failure.MalformedInstruction,
		},
		{
			name:    "invalid utf-8",
			data:    []byte{0, 2, 0, 0, 0, 0xC3, 0x28},
			wantErr: failure.MalformedInstruction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := codec.DecodeInstruction(tt.data)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeInstruction(t *testing.T) {
	assert.Equal(t, []byte{0, 1, 0, 0, 0, 'x'}, codec.EncodeInstruction(model.AddItem{Name: "x"}))
	assert.Equal(t, []byte{1, 2, 0, 0, 0, 'h', 'i'}, codec.EncodeInstruction(model.MarkDone{Name: "hi"}))
}

func TestAccount_RoundTrip(t *testing.T) {
	accounts := []model.TodoAccount{
		{Todos: []model.Item{}},
		{Todos: []model.Item{{Name: "Buy groceries", Done: false, CreatedAt: 1700000000}}},
		{Todos: []model.Item{
			{Name: "a", Done: true, CreatedAt: 1},
			{Name: "a", Done: false, CreatedAt: 2},
			{Name: "", Done: false, CreatedAt: 0},
			{Name: "ünïcødé ✓", Done: true, CreatedAt: ^uint64(0)},
		}},
	}

	for _, account := range accounts {
		encoded := codec.EncodeAccount(account)
		assert.Len(t, encoded, codec.EncodedSize(account))

		decoded, err := codec.DecodeAccount(encoded)
		require.NoError(t, err)
		assert.Equal(t, account, decoded)
		assert.Equal(t, encoded, codec.EncodeAccount(decoded))
	}
}

func TestEncodeAccount_Layout(t *testing.T) {
	encoded := codec.EncodeAccount(model.TodoAccount{Todos: []model.Item{{Name: "ab", Done: true, CreatedAt: 258}}})

	assert.Equal(t, []byte{
		1, 0, 0, 0,
		2, 0, 0, 0, 'a', 'b',
		1,
		2, 1, 0, 0, 0, 0, 0, 0,
	}, encoded)
}

func TestDecodeAccount_IgnoresPadding(t *testing.T) {
	account := model.TodoAccount{Todos: []model.Item{{Name: "x", CreatedAt: 5}}}

	region := make([]byte, model.DefaultAccountCapacity)
	require.NoError(t, codec.WriteAccount(region, account))

	decoded, err := codec.DecodeAccount(region)
	require.NoError(t, err)
	assert.Equal(t, account, decoded)

	zeroed, err := codec.DecodeAccount(make([]byte, 16))
	require.NoError(t, err)
	assert.Empty(t, zeroed.Todos)
}

func TestDecodeAccount_Corrupt(t *testing.T) {
	valid := codec.EncodeAccount(model.TodoAccount{Todos: []model.Item{{Name: "abc", CreatedAt: 1}}})

	badBool := append([]byte(nil), valid...)
	badBool[4+4+3] = 7

	tests := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "short count", data: []byte{1, 0}},
		{name: "count larger than data", data: []byte{0xFF, 0xFF, 0xFF, 0x7F, 0, 0}},
		{name: "truncated item", data: valid[:len(valid)-3]},
		{name: "invalid done byte", data: badBool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.DecodeAccount(tt.data)
			assert.ErrorIs(t, err, failure.CorruptState)
		})
	}
}

func TestWriteAccount_Capacity(t *testing.T) {
	region := []byte{9, 9, 9, 9, 9, 9, 9, 9}
	original := append([]byte(nil), region...)

	err := codec.WriteAccount(region, model.TodoAccount{Todos: []model.Item{{Name: "too long"}}})
	assert.ErrorIs(t, err, failure.CapacityExceeded)
	assert.Equal(t, original, region)

	require.NoError(t, codec.WriteAccount(region, model.TodoAccount{}))
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 0}, region)
}
