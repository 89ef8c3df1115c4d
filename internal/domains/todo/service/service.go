package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/provisioner_mock.go -package=mocks

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"todochain/config"
	"todochain/infras/otel"
	ledger "todochain/internal/domains/ledger/model"
	"todochain/internal/domains/todo/codec"
	"todochain/internal/domains/todo/model"
	"todochain/shared/constant"
	"todochain/shared/failure"
)

const (
	addAccountsLen  = 4
	markAccountsLen = 1
)

// StorageProvisioner allocates and funds a new storage region on behalf of a payer.
type StorageProvisioner interface {
	CreateAccount(ctx context.Context, payer, account *ledger.AccountInfo, space uint64, owner ledger.Pubkey) error
}

type serviceImpl struct {
	provisioner StorageProvisioner
	capacity    uint64
	otel        otel.Otel
}

// New returns the todo program.
func New(provisioner StorageProvisioner, cfg *config.Config, otel otel.Otel) ledger.Program {
	capacity := cfg.Program.AccountCapacity
	if capacity == 0 {
		capacity = model.DefaultAccountCapacity
	}

	return &serviceImpl{
		provisioner: provisioner,
		capacity:    capacity,
		otel:        otel,
	}
}

// ProgramID returns the configured program address, or one derived from the app name.
func ProgramID(cfg *config.Config) (ledger.Pubkey, error) {
	if cfg.Program.ID == "" {
		return ledger.DerivePubkey(cfg.App.Name + "/" + model.EntityName), nil
	}

	id, err := ledger.PubkeyFromBase58(cfg.Program.ID)
	if err != nil {
		return ledger.Pubkey{}, fmt.Errorf("invalid program id %q: %w", cfg.Program.ID, err)
	}

	return id, nil
}

func (s *serviceImpl) Name() string {
	return model.EntityName
}

func (s *serviceImpl) Process(ctx context.Context, ic *ledger.InvokeContext) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelProgramScopeName, constant.OtelProgramScopeName+".todo.Process")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	instruction, err := codec.DecodeInstruction(ic.Data)
	if err != nil {
		log.Debug().Err(err).Msg("failed to decode todo instruction")

		return err
	}

	switch ix := instruction.(type) {
	case model.AddItem:
		scope.SetAttribute("todo.instruction", "add_item")

		return s.addItem(ctx, ic, ix)
	case model.MarkDone:
		scope.SetAttribute("todo.instruction", "mark_done")

		return s.markDone(ctx, ic, ix)
	default:
		return failure.Wrap(failure.MalformedInstruction, "unhandled instruction %T", ix)
	}
}

func (s *serviceImpl) addItem(ctx context.Context, ic *ledger.InvokeContext, ix model.AddItem) error {
	if len(ic.Accounts) < addAccountsLen {
		return failure.Wrap(failure.InvalidAccounts, "add item needs %d accounts, got %d", addAccountsLen, len(ic.Accounts))
	}

	todoAccount, payer, systemProgram, clockAccount := ic.Accounts[0], ic.Accounts[1], ic.Accounts[2], ic.Accounts[3]

	if systemProgram.Key != ledger.SystemProgramID {
		return failure.Wrap(failure.InvalidAccounts, "expected system program, got %s", systemProgram.Key)
	}

	if clockAccount.Key != ledger.ClockSysvarID {
		return failure.Wrap(failure.InvalidAccounts, "expected clock sysvar, got %s", clockAccount.Key)
	}

	clock, err := ledger.DecodeClock(clockAccount.Data)
	if err != nil {
		return failure.Wrap(failure.InvalidAccounts, "%v", err)
	}

	fresh := len(todoAccount.Data) == 0
	if fresh {
		if err := s.provisioner.CreateAccount(ctx, payer, todoAccount, s.capacity, ic.ProgramID); err != nil {
			return fmt.Errorf("failed to create todo account: %w", err)
		}
	}

	if todoAccount.Owner != ic.ProgramID {
		return failure.Wrap(failure.PermissionDenied, "account %s is owned by %s", todoAccount.Key, todoAccount.Owner)
	}

	state := model.TodoAccount{Todos: []model.Item{}}
	if !fresh {
		if state, err = codec.DecodeAccount(todoAccount.Data); err != nil {
			return err
		}
	}

	state.Todos = append(state.Todos, model.Item{
		Name:      ix.Name,
		Done:      false,
		CreatedAt: uint64(clock.UnixTimestamp),
	})

	if err := codec.WriteAccount(todoAccount.Data, state); err != nil {
		return err
	}

	ic.Log("Added new to-do: %s", ix.Name)

	return nil
}

func (s *serviceImpl) markDone(_ context.Context, ic *ledger.InvokeContext, ix model.MarkDone) error {
	if len(ic.Accounts) < markAccountsLen {
		return failure.Wrap(failure.InvalidAccounts, "mark done needs %d account, got %d", markAccountsLen, len(ic.Accounts))
	}

	todoAccount := ic.Accounts[0]

	if todoAccount.Owner != ic.ProgramID {
		return failure.Wrap(failure.PermissionDenied, "account %s is owned by %s", todoAccount.Key, todoAccount.Owner)
	}

	state, err := codec.DecodeAccount(todoAccount.Data)
	if err != nil {
		return err
	}

	idx := state.Find(ix.Name)
	if idx < 0 {
		return failure.Wrap(failure.ItemNotFound, "%q", ix.Name)
	}

	if state.Todos[idx].Done {
		return failure.Wrap(failure.AlreadyDone, "%q", ix.Name)
	}

	state.Todos[idx].Done = true

	if err := codec.WriteAccount(todoAccount.Data, state); err != nil {
		return err
	}

	ic.Log("Marked to-do as done: %s", ix.Name)

	return nil
}
