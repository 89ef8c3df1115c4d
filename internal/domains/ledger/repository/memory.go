package repository

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"todochain/internal/domains/ledger/model"
	"todochain/shared/dto"
)

type memoryImpl struct {
	mu       sync.RWMutex
	accounts map[model.Pubkey]model.Account
}

// NewMemory returns a process-local account store.
func NewMemory() Account {
	return &memoryImpl{
		accounts: map[model.Pubkey]model.Account{},
	}
}

func (repo *memoryImpl) Get(_ context.Context, pubkey model.Pubkey) (model.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	account, ok := repo.accounts[pubkey]
	if !ok {
		return unused(pubkey), nil
	}

	return account.Clone(), nil
}

func (repo *memoryImpl) GetMany(_ context.Context, pubkeys []model.Pubkey) (map[model.Pubkey]model.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	result := make(map[model.Pubkey]model.Account, len(pubkeys))

	for _, pubkey := range pubkeys {
		if account, ok := repo.accounts[pubkey]; ok {
			result[pubkey] = account.Clone()

			continue
		}

		result[pubkey] = unused(pubkey)
	}

	return result, nil
}

func (repo *memoryImpl) Commit(_ context.Context, accounts []model.Account) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, account := range accounts {
		repo.accounts[account.Pubkey] = account.Clone()
	}

	return nil
}

func (repo *memoryImpl) List(_ context.Context, filter model.AccountFilter, params dto.QueryParams) ([]model.Account, int, error) {
	repo.mu.RLock()
	matched := []model.Account{}

	for _, account := range repo.accounts {
		if filter.Match(account) {
			matched = append(matched, account.Clone())
		}
	}
	repo.mu.RUnlock()

	slices.SortFunc(matched, func(a, b model.Account) int {
		order := 0

		switch params.SortBy {
		case model.FieldLamports:
			order = cmp.Compare(a.Lamports, b.Lamports)
		case model.FieldModifiedAt:
			order = a.ModifiedAt.Compare(b.ModifiedAt)
		}

		if params.SortDir == dto.SortDirDesc {
			order = -order
		}

		if order != 0 {
			return order
		}

		return cmp.Compare(a.Pubkey.String(), b.Pubkey.String())
	})

	total := len(matched)

	if params.Limit <= 0 {
		return matched, total, nil
	}

	start := min(params.Offset(), total)
	end := min(start+params.Limit, total)

	return matched[start:end], total, nil
}
