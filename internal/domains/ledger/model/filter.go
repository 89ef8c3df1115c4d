package model

import (
	"todochain/shared/dto"
)

// SortableFields are the columns an account listing may be ordered by. The first is the default.
var SortableFields = []string{FieldPubkey, FieldLamports, FieldModifiedAt}

// AccountFilter selects the accounts a program owns.
type AccountFilter struct {
	Owner       Pubkey
	MinLamports uint64
}

func (f AccountFilter) Match(account Account) bool {
	return account.Owner == f.Owner && account.Lamports >= f.MinLamports
}

func (f AccountFilter) ToFilterGroup() dto.FilterGroup {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: FieldOwner, Operator: dto.FilterOperatorEq, Value: f.Owner.String()},
		},
	}

	if f.MinLamports > 0 {
		group.Filters = append(group.Filters, dto.Filter{
			Field:    FieldLamports,
			Operator: dto.FilterOperatorGreaterEq,
			Value:    f.MinLamports,
		})
	}

	return group
}
