package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"todochain/internal/domains/ledger/model"
	"todochain/shared/dto"
)

// Account persists ledger accounts. Missing accounts read as unused system accounts.
type Account interface {
	Get(ctx context.Context, pubkey model.Pubkey) (model.Account, error)
	GetMany(ctx context.Context, pubkeys []model.Pubkey) (map[model.Pubkey]model.Account, error)
	// Commit upserts all accounts in one atomic step.
	Commit(ctx context.Context, accounts []model.Account) error
	// List returns one page of matching accounts and the total match count.
	List(ctx context.Context, filter model.AccountFilter, params dto.QueryParams) ([]model.Account, int, error)
}

func unused(pubkey model.Pubkey) model.Account {
	return model.Account{Pubkey: pubkey, Owner: model.SystemProgramID}
}
