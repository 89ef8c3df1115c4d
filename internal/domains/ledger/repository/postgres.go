package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"todochain/infras/otel"
	"todochain/infras/postgres"
	"todochain/internal/domains/ledger/model"
	"todochain/shared/constant"
	"todochain/shared/dto"
	"todochain/shared/logger"
	gRepo "todochain/shared/repository"
)

var accountColumns = []string{
	model.FieldPubkey,
	model.FieldOwner,
	model.FieldLamports,
	model.FieldData,
	model.FieldExecutable,
	model.FieldModifiedAt,
}

type postgresImpl struct {
	db     *postgres.Connection
	otel   otel.Otel
	reader gRepo.Reader[model.Account]
}

func NewPostgres(db *postgres.Connection, otel otel.Otel) Account {
	return &postgresImpl{
		db:     db,
		otel:   otel,
		reader: gRepo.NewReader[model.Account](model.EntityName, model.TableName, model.FieldPubkey, db, otel),
	}
}

func (repo *postgresImpl) Get(ctx context.Context, pubkey model.Pubkey) (model.Account, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.Get", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	accounts, err := repo.GetMany(ctx, []model.Pubkey{pubkey})
	if err != nil {
		return model.Account{}, err
	}

	return accounts[pubkey], nil
}

func (repo *postgresImpl) GetMany(ctx context.Context, pubkeys []model.Pubkey) (map[model.Pubkey]model.Account, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.GetMany", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	keys := make([]string, 0, len(pubkeys))
	for _, pubkey := range pubkeys {
		keys = append(keys, pubkey.String())
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ANY($1)", strings.Join(accountColumns, ", "), model.TableName, model.FieldPubkey)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var rows []model.Account

	if err := repo.db.Read.SelectContext(ctx, &rows, query, pq.Array(keys)); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get data (%s): %w", model.EntityName, err)
	}

	result := make(map[model.Pubkey]model.Account, len(pubkeys))
	for _, pubkey := range pubkeys {
		result[pubkey] = unused(pubkey)
	}

	for _, row := range rows {
		result[row.Pubkey] = row
	}

	return result, nil
}

func (repo *postgresImpl) Commit(ctx context.Context, accounts []model.Account) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.Commit", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if len(accounts) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(accountColumns))
	updates := make([]string, 0, len(accountColumns)-1)

	for _, col := range accountColumns {
		placeholders = append(placeholders, ":"+col)

		if col != model.FieldPubkey {
			updates = append(updates, fmt.Sprintf("%s = EXCLUDED.%s", col, col))
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) DO UPDATE SET %s",
		model.TableName,
		strings.Join(accountColumns, ", "),
		strings.Join(placeholders, ", "),
		model.FieldPubkey,
		strings.Join(updates, ", "),
	)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	tx, err := repo.db.Write.BeginTxx(ctx, nil)
	if err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to begin transaction (%s): %w", model.EntityName, err)
	}

	for _, account := range accounts {
		if _, err = tx.NamedExecContext(ctx, query, account); err != nil {
			logger.ErrorWithStack(err)
			_ = tx.Rollback()

			return fmt.Errorf("failed to upsert data (%s): %w", model.EntityName, err)
		}
	}

	if err = tx.Commit(); err != nil {
		logger.ErrorWithStack(err)

		return fmt.Errorf("failed to commit transaction (%s): %w", model.EntityName, err)
	}

	return nil
}

func (repo *postgresImpl) List(ctx context.Context, filter model.AccountFilter, params dto.QueryParams) ([]model.Account, int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.List", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	group := filter.ToFilterGroup()

	total, err := repo.reader.Count(ctx, group)
	if err != nil {
		return nil, 0, err //nolint:wrapcheck
	}

	if total == 0 {
		return []model.Account{}, 0, nil
	}

	accounts, err := repo.reader.GetAll(ctx, params, group)
	if err != nil {
		return nil, 0, err //nolint:wrapcheck
	}

	return accounts, total, nil
}
