package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todochain/internal/domains/todo/model"
	"todochain/internal/domains/todo/model/dto"
)

func TestTodoResponse_FromModel(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var resp dto.TodoResponse
	resp.FromModel(model.Item{Name: "buy milk", Done: true, CreatedAt: uint64(at.Unix())})

	assert.Equal(t, "buy milk", resp.Name)
	assert.True(t, resp.Done)
	assert.Equal(t, uint64(at.Unix()), resp.CreatedTS)

	parsed, err := time.Parse(time.RFC3339, resp.CreatedAt)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(at))
}

func TestGetTodosResponse_FromModel(t *testing.T) {
	state := model.TodoAccount{Todos: []model.Item{
		{Name: "a", Done: false, CreatedAt: 1},
		{Name: "b", Done: true, CreatedAt: 2},
		{Name: "c", Done: false, CreatedAt: 3},
	}}

	done := true
	pending := false

	tests := []struct {
		name  string
		query dto.GetTodosQuery
		want  []string
	}{
		{name: "no filter keeps insertion order", query: dto.GetTodosQuery{}, want: []string{"a", "b", "c"}},
		{name: "done only", query: dto.GetTodosQuery{Done: &done}, want: []string{"b"}},
		{name: "pending only", query: dto.GetTodosQuery{Done: &pending}, want: []string{"a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp dto.GetTodosResponse
			resp.FromModel("acc", state, tt.query)

			names := make([]string, len(resp.Todos))
			for i, todo := range resp.Todos {
				names[i] = todo.Name
			}

			assert.Equal(t, tt.want, names)
			assert.Equal(t, "acc", resp.Account)
			assert.Equal(t, 3, resp.Total)
			assert.Equal(t, 2, resp.Pending)
		})
	}
}

func TestGetTodosResponse_EmptyCollection(t *testing.T) {
	var resp dto.GetTodosResponse
	resp.FromModel("acc", model.TodoAccount{}, dto.GetTodosQuery{})

	assert.NotNil(t, resp.Todos)
	assert.Empty(t, resp.Todos)
	assert.Zero(t, resp.Total)
}
