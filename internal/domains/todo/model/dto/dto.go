package dto

import (
	"todochain/internal/domains/todo/model"
	"todochain/shared/constant"
	"todochain/shared/timezone"
)

type GetTodosQuery struct {
	Done *bool
}

type TodoResponse struct {
	Name      string `json:"name"`
	Done      bool   `json:"done"`
	CreatedAt string `json:"created_at"`
	CreatedTS uint64 `json:"created_ts"`
}

func (r *TodoResponse) FromModel(item model.Item) {
	r.Name = item.Name
	r.Done = item.Done
	r.CreatedTS = item.CreatedAt
	r.CreatedAt = timezone.Format(timezone.FromUnix(int64(item.CreatedAt)), constant.DateFormat)
}

type GetTodosResponse struct {
	Account string         `json:"account"`
	Todos   []TodoResponse `json:"todos"`
	Total   int            `json:"total"`
	Pending int            `json:"pending"`
}

// FromModel lists the collection in insertion order, keeping only items matching the filter.
func (r *GetTodosResponse) FromModel(account string, state model.TodoAccount, query GetTodosQuery) {
	r.Account = account
	r.Total = len(state.Todos)
	r.Todos = make([]TodoResponse, 0, len(state.Todos))

	for _, item := range state.Todos {
		if !item.Done {
			r.Pending++
		}

		if query.Done != nil && *query.Done != item.Done {
			continue
		}

		var todo TodoResponse
		todo.FromModel(item)
		r.Todos = append(r.Todos, todo)
	}
}
