package service

//go:generate go run go.uber.org/mock/mockgen -source=./reader.go -destination=../mocks/reader_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"todochain/infras/otel"
	ledger "todochain/internal/domains/ledger/model"
	ledgerService "todochain/internal/domains/ledger/service"
	"todochain/internal/domains/todo/codec"
	"todochain/internal/domains/todo/model"
	"todochain/shared/constant"
	"todochain/shared/failure"
)

// Reader decodes todo collections straight from ledger state.
type Reader interface {
	GetTodos(ctx context.Context, account ledger.Pubkey) (model.TodoAccount, error)
}

type readerImpl struct {
	ledger    ledgerService.Ledger
	programID ledger.Pubkey
	otel      otel.Otel
}

func NewReader(ledger ledgerService.Ledger, programID ledger.Pubkey, otel otel.Otel) Reader {
	return &readerImpl{
		ledger:    ledger,
		programID: programID,
		otel:      otel,
	}
}

func (r *readerImpl) GetTodos(ctx context.Context, pubkey ledger.Pubkey) (todos model.TodoAccount, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".todo.GetTodos")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	account, err := r.ledger.GetAccount(ctx, pubkey)
	if err != nil {
		log.Error().Err(err).Str("account", pubkey.String()).Msg("failed to load todo account")

		return model.TodoAccount{}, fmt.Errorf("failed to load todo account: %w", err)
	}

	if account.IsUnused() {
		return model.TodoAccount{}, failure.NotFound(fmt.Sprintf("%s account %s not found", model.EntityName, pubkey))
	}

	if account.Owner != r.programID {
		return model.TodoAccount{}, failure.Wrap(failure.PermissionDenied, "account %s is owned by %s", pubkey, account.Owner)
	}

	return codec.DecodeAccount(account.Data)
}
