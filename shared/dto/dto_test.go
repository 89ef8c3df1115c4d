package dto_test

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"

	"todochain/shared/constant"
	"todochain/shared/dto"
)

func TestQueryParams_FromRequest(t *testing.T) {
	sortable := []string{"pubkey", "lamports"}

	tests := []struct {
		name           string
		queryParams    map[string]string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name: "with all valid parameters",
			queryParams: map[string]string{
				"page":     "2",
				"limit":    "20",
				"sort_by":  "lamports",
				"sort_dir": "desc",
			},
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "lamports", SortDir: "DESC"},
		},
		{
			name:           "with default request enabled and no parameters",
			queryParams:    map[string]string{},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:    constant.DefaultValuePage,
				Limit:   constant.DefaultValueLimit,
				SortBy:  "pubkey",
				SortDir: dto.SortDirAsc,
			},
		},
		{
			name:        "with default request disabled and no parameters",
			queryParams: map[string]string{},
			expected:    dto.QueryParams{},
		},
		{
			name:           "with invalid page parameter",
			queryParams:    map[string]string{"page": "invalid"},
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:    constant.DefaultValuePage,
				Limit:   constant.DefaultValueLimit,
				SortBy:  "pubkey",
				SortDir: dto.SortDirAsc,
			},
		},
		{
			name:        "with negative limit parameter",
			queryParams: map[string]string{"limit": "-10"},
			expected:    dto.QueryParams{},
		},
		{
			name:        "limit is capped",
			queryParams: map[string]string{"limit": "5000"},
			expected:    dto.QueryParams{Limit: constant.MaxValueLimit},
		},
		{
			name:        "unknown sort column is ignored",
			queryParams: map[string]string{"sort_by": "lamports; DROP TABLE accounts"},
			expected:    dto.QueryParams{},
		},
		{
			name:        "unknown sort direction is ignored",
			queryParams: map[string]string{"sort_dir": "sideways"},
			expected:    dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query := url.Values{}
			for key, value := range tt.queryParams {
				query.Set(key, value)
			}

			req := httptest.NewRequest("GET", "/v1/accounts?"+query.Encode(), nil)

			queryParams := dto.QueryParams{}
			queryParams.FromRequest(req, tt.defaultRequest, sortable...)

			assert.Equal(t, tt.expected, queryParams)
		})
	}
}

func TestQueryParams_Offset(t *testing.T) {
	assert.Equal(t, 0, dto.QueryParams{}.Offset())
	assert.Equal(t, 0, dto.QueryParams{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, dto.QueryParams{Page: 3, Limit: 10}.Offset())
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	tests := []struct {
		name         string
		group        dto.FilterGroup
		expectedSQL  string
		expectedArgs map[string]any
	}{
		{
			name: "equality and lower bound",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{Field: "owner", Operator: dto.FilterOperatorEq, Value: "abc"},
					dto.Filter{Field: "lamports", Operator: dto.FilterOperatorGreaterEq, Value: uint64(5), Table: "accounts"},
				},
			},
			expectedSQL:  "(owner = :owner AND accounts.lamports >= :lamports)",
			expectedArgs: map[string]any{"owner": "abc", "lamports": uint64(5)},
		},
		{
			name: "in expands named arguments",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "pubkey", ArgName: "keys", Operator: dto.FilterOperatorIn, Value: []string{"a", "b"}},
				},
			},
			expectedSQL:  "(pubkey IN (:keys_0, :keys_1))",
			expectedArgs: map[string]any{"keys_0": "a", "keys_1": "b"},
		},
		{
			name: "nested groups",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{Field: "executable", Operator: dto.FilterOperatorEq, Value: false},
					dto.FilterGroup{
						Operator: dto.FilterGroupOperatorOr,
						Filters: []any{
							dto.Filter{Field: "lamports", Operator: dto.FilterOperatorLessEq, Value: 1},
							dto.Filter{Field: "owner", Operator: dto.FilterOperatorNotEq, Value: "x"},
						},
					},
				},
			},
			expectedSQL:  "(executable = :executable AND (lamports <= :lamports OR owner != :owner))",
			expectedArgs: map[string]any{"executable": false, "lamports": 1, "owner": "x"},
		},
		{
			name: "unknown operators and values are skipped",
			group: dto.FilterGroup{
				Operator: dto.FilterGroupOperatorAnd,
				Filters: []any{
					dto.Filter{Field: "owner", Operator: "like", Value: "x"},
					"not a filter",
				},
			},
			expectedSQL:  "",
			expectedArgs: map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.group.GetWhereClause()

			assert.Equal(t, tt.expectedSQL, where)
			assert.Equal(t, tt.expectedArgs, args)
		})
	}
}
