package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"todochain/config"
	"todochain/infras/otel/mocks"
	ledger "todochain/internal/domains/ledger/model"
	"todochain/internal/domains/todo/codec"
	todoMocks "todochain/internal/domains/todo/mocks"
	"todochain/internal/domains/todo/model"
	"todochain/internal/domains/todo/service"
	"todochain/shared/failure"
)

const t0 = int64(1700000000)

var (
	programID = ledger.DerivePubkey("todo-program")
	todoKey   = ledger.DerivePubkey("todo-account")
	payerKey  = ledger.DerivePubkey("payer")
)

type fixture struct {
	provisioner *todoMocks.MockStorageProvisioner
	program     ledger.Program
	todo        *ledger.AccountInfo
	payer       *ledger.AccountInfo
}

func newFixture(t *testing.T, capacity uint64) *fixture {
	ctrl := gomock.NewController(t)

	cfg := &config.Config{}
	cfg.Program.AccountCapacity = capacity

	provisioner := todoMocks.NewMockStorageProvisioner(ctrl)

	return &fixture{
		provisioner: provisioner,
		program:     service.New(provisioner, cfg, mocks.NewOtel()),
		todo:        &ledger.AccountInfo{Key: todoKey, IsSigner: true, IsWritable: true},
		payer:       &ledger.AccountInfo{Key: payerKey, IsSigner: true, IsWritable: true, Lamports: 1_000_000_000},
	}
}

// allocate mimics the system program: fund, size and assign the new region.
func (f *fixture) expectAllocation(space uint64) {
	f.provisioner.EXPECT().
		CreateAccount(gomock.Any(), f.payer, f.todo, space, programID).
		DoAndReturn(func(_ context.Context, payer, account *ledger.AccountInfo, space uint64, owner ledger.Pubkey) error {
			payer.Lamports -= 1000
			account.Lamports += 1000
			account.Data = make([]byte, space)
			account.Owner = owner

			return nil
		})
}

func (f *fixture) addContext(name string, unixTimestamp int64) *ledger.InvokeContext {
	clock := &ledger.AccountInfo{Key: ledger.ClockSysvarID, Data: ledger.Clock{UnixTimestamp: unixTimestamp}.Encode()}
	system := &ledger.AccountInfo{Key: ledger.SystemProgramID}

	return &ledger.InvokeContext{
		ProgramID: programID,
		Accounts:  []*ledger.AccountInfo{f.todo, f.payer, system, clock},
		Data:      codec.EncodeInstruction(model.AddItem{Name: name}),
	}
}

func (f *fixture) markContext(name string) *ledger.InvokeContext {
	return &ledger.InvokeContext{
		ProgramID: programID,
		Accounts:  []*ledger.AccountInfo{f.todo},
		Data:      codec.EncodeInstruction(model.MarkDone{Name: name}),
	}
}

func (f *fixture) state(t *testing.T) model.TodoAccount {
	t.Helper()

	state, err := codec.DecodeAccount(f.todo.Data)
	require.NoError(t, err)

	return state
}

func (f *fixture) seed(t *testing.T, items ...model.Item) {
	t.Helper()

	f.todo.Owner = programID
	f.todo.Data = make([]byte, model.DefaultAccountCapacity)
	require.NoError(t, codec.WriteAccount(f.todo.Data, model.TodoAccount{Todos: items}))
}

func TestTodoProgram_AddItem(t *testing.T) {
	t.Run("first add provisions the account", func(t *testing.T) {
		f := newFixture(t, 0)
		f.expectAllocation(model.DefaultAccountCapacity)

		ic := f.addContext("Buy groceries", t0)
		require.NoError(t, f.program.Process(context.Background(), ic))

		assert.Len(t, f.todo.Data, model.DefaultAccountCapacity)
		assert.Equal(t, programID, f.todo.Owner)
		assert.Equal(t, []model.Item{{Name: "Buy groceries", Done: false, CreatedAt: uint64(t0)}}, f.state(t).Todos)
		assert.Equal(t, []string{"Added new to-do: Buy groceries"}, ic.Logs())
	})

	t.Run("subsequent adds append without provisioning", func(t *testing.T) {
		f := newFixture(t, 0)
		f.seed(t, model.Item{Name: "first", CreatedAt: 1})

		require.NoError(t, f.program.Process(context.Background(), f.addContext("second", t0)))

		assert.Equal(t, []model.Item{
			{Name: "first", CreatedAt: 1},
			{Name: "second", CreatedAt: uint64(t0)},
		}, f.state(t).Todos)
	})

	t.Run("duplicate names create distinct entries", func(t *testing.T) {
		f := newFixture(t, 0)
		f.expectAllocation(model.DefaultAccountCapacity)

		require.NoError(t, f.program.Process(context.Background(), f.addContext("X", t0)))
		require.NoError(t, f.program.Process(context.Background(), f.addContext("X", t0+1)))

		todos := f.state(t).Todos
		require.Len(t, todos, 2)
		assert.Equal(t, model.Item{Name: "X", CreatedAt: uint64(t0)}, todos[0])
		assert.Equal(t, model.Item{Name: "X", CreatedAt: uint64(t0 + 1)}, todos[1])
	})

	t.Run("configured capacity is used for allocation", func(t *testing.T) {
		f := newFixture(t, 64)
		f.expectAllocation(64)

		require.NoError(t, f.program.Process(context.Background(), f.addContext("small", t0)))
		assert.Len(t, f.todo.Data, 64)
	})
}

func TestTodoProgram_AddItemErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, f *fixture) *ledger.InvokeContext
		wantErr error
	}{
		{
			name: "owner mismatch is rejected before decoding",
			setup: func(_ *testing.T, f *fixture) *ledger.InvokeContext {
				f.todo.Owner = ledger.DerivePubkey("someone-else")
				f.todo.Data = []byte{0xFF, 0xFF, 0xFF, 0xFF, 0x01}

				return f.addContext("x", t0)
			},
			wantErr: failure.PermissionDenied,
		},
		{
			name: "corrupt state",
			setup: func(_ *testing.T, f *fixture) *ledger.InvokeContext {
				f.todo.Owner = programID
				f.todo.Data = []byte{0x05, 0x00, 0x00, 0x00, 0x01}

				return f.addContext("x", t0)
			},
			wantErr: failure.CorruptState,
		},
		{
			name: "capacity exceeded",
			setup: func(t *testing.T, f *fixture) *ledger.InvokeContext {
				f.todo.Owner = programID
				f.todo.Data = make([]byte, 24)
				require.NoError(t, codec.WriteAccount(f.todo.Data, model.TodoAccount{Todos: []model.Item{{Name: "abcdefg"}}}))

				return f.addContext("more", t0)
			},
			wantErr: failure.CapacityExceeded,
		},
		{
			name: "missing accounts",
			setup: func(_ *testing.T, f *fixture) *ledger.InvokeContext {
				ic := f.addContext("x", t0)
				ic.Accounts = ic.Accounts[:2]

				return ic
			},
			wantErr: failure.InvalidAccounts,
		},
		{
			name: "wrong system program",
			setup: func(_ *testing.T, f *fixture) *ledger.InvokeContext {
				ic := f.addContext("x", t0)
				ic.Accounts[2] = &ledger.AccountInfo{Key: ledger.DerivePubkey("fake-system")}

				return ic
			},
			wantErr: failure.InvalidAccounts,
		},
		{
			name: "wrong clock sysvar",
			setup: func(_ *testing.T, f *fixture) *ledger.InvokeContext {
				ic := f.addContext("x", t0)
				ic.Accounts[3] = &ledger.AccountInfo{Key: ledger.DerivePubkey("fake-clock"), Data: ledger.Clock{}.Encode()}

				return ic
			},
			wantErr: failure.InvalidAccounts,
		},
		{
			name: "malformed instruction",
			setup: func(_ *testing.T, f *fixture) *ledger.InvokeContext {
				ic := f.addContext("x", t0)
				ic.Data = []byte{7}

				return ic
			},
			wantErr: failure.MalformedInstruction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 0)
			ic := tt.setup(t, f)
			before := append([]byte(nil), f.todo.Data...)

			err := f.program.Process(context.Background(), ic)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, f.todo.Data)
			assert.Empty(t, ic.Logs())
		})
	}
}

func TestTodoProgram_ProvisionerError(t *testing.T) {
	f := newFixture(t, 0)

	f.provisioner.EXPECT().
		CreateAccount(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(failure.InsufficientFunds)

	err := f.program.Process(context.Background(), f.addContext("x", t0))

	assert.ErrorIs(t, err, failure.InsufficientFunds)
	assert.Empty(t, f.todo.Data)
}

func TestTodoProgram_MarkDone(t *testing.T) {
	t.Run("marks the matching item and leaves others untouched", func(t *testing.T) {
		f := newFixture(t, 0)
		f.seed(t,
			model.Item{Name: "a", CreatedAt: 1},
			model.Item{Name: "X", CreatedAt: 2},
			model.Item{Name: "b", Done: true, CreatedAt: 3},
		)

		ic := f.markContext("X")
		require.NoError(t, f.program.Process(context.Background(), ic))

		assert.Equal(t, []model.Item{
			{Name: "a", CreatedAt: 1},
			{Name: "X", Done: true, CreatedAt: 2},
			{Name: "b", Done: true, CreatedAt: 3},
		}, f.state(t).Todos)
		assert.Equal(t, []string{"Marked to-do as done: X"}, ic.Logs())
	})

	t.Run("first match wins among duplicates", func(t *testing.T) {
		f := newFixture(t, 0)
		f.seed(t, model.Item{Name: "X", CreatedAt: 1}, model.Item{Name: "X", CreatedAt: 2})

		require.NoError(t, f.program.Process(context.Background(), f.markContext("X")))

		todos := f.state(t).Todos
		assert.True(t, todos[0].Done)
		assert.False(t, todos[1].Done)

		err := f.program.Process(context.Background(), f.markContext("X"))
		assert.ErrorIs(t, err, failure.AlreadyDone)
		assert.False(t, f.state(t).Todos[1].Done)
	})
}

func TestTodoProgram_MarkDoneErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, f *fixture) *ledger.InvokeContext
		wantErr error
	}{
		{
			name: "item not found",
			setup: func(t *testing.T, f *fixture) *ledger.InvokeContext {
				f.seed(t, model.Item{Name: "a", CreatedAt: 1})

				return f.markContext("missing")
			},
			wantErr: failure.ItemNotFound,
		},
		{
			name: "already done",
			setup: func(t *testing.T, f *fixture) *ledger.InvokeContext {
				f.seed(t, model.Item{Name: "a", Done: true, CreatedAt: 1})

				return f.markContext("a")
			},
			wantErr: failure.AlreadyDone,
		},
		{
			name: "owner mismatch is rejected before decoding",
			setup: func(_ *testing.T, f *fixture) *ledger.InvokeContext {
				f.todo.Owner = ledger.SystemProgramID
				f.todo.Data = []byte{0xFF}

				return f.markContext("a")
			},
			wantErr: failure.PermissionDenied,
		},
		{
			name: "uninitialized account",
			setup: func(_ *testing.T, f *fixture) *ledger.InvokeContext {
				f.todo.Owner = programID

				return f.markContext("a")
			},
			wantErr: failure.CorruptState,
		},
		{
			name: "no accounts",
			setup: func(_ *testing.T, f *fixture) *ledger.InvokeContext {
				ic := f.markContext("a")
				ic.Accounts = nil

				return ic
			},
			wantErr: failure.InvalidAccounts,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 0)
			ic := tt.setup(t, f)
			before := append([]byte(nil), f.todo.Data...)

			err := f.program.Process(context.Background(), ic)

			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, f.todo.Data)
		})
	}
}

func TestTodoProgram_EndToEnd(t *testing.T) {
	f := newFixture(t, 0)
	f.expectAllocation(model.DefaultAccountCapacity)

	require.NoError(t, f.program.Process(context.Background(), f.addContext("Buy groceries", t0)))
	assert.Equal(t, []model.Item{{Name: "Buy groceries", Done: false, CreatedAt: uint64(t0)}}, f.state(t).Todos)

	require.NoError(t, f.program.Process(context.Background(), f.markContext("Buy groceries")))
	assert.Equal(t, []model.Item{{Name: "Buy groceries", Done: true, CreatedAt: uint64(t0)}}, f.state(t).Todos)
}

func TestTodoProgram_Name(t *testing.T) {
	f := newFixture(t, 0)

	assert.Equal(t, model.EntityName, f.program.Name())
}

func TestNewInstructions(t *testing.T) {
	payer := ledger.DerivePubkey("payer")

	add := service.NewAddItemInstruction(programID, todoKey, payer, "walk")
	assert.Equal(t, programID, add.ProgramID)
	require.Len(t, add.Accounts, 4)
	assert.Equal(t, ledger.AccountMeta{Pubkey: todoKey, IsSigner: true, IsWritable: true}, add.Accounts[0])
	assert.Equal(t, ledger.AccountMeta{Pubkey: payer, IsSigner: true, IsWritable: true}, add.Accounts[1])
	assert.Equal(t, ledger.SystemProgramID, add.Accounts[2].Pubkey)
	assert.Equal(t, ledger.ClockSysvarID, add.Accounts[3].Pubkey)

	decoded, err := codec.DecodeInstruction(add.Data)
	require.NoError(t, err)
	assert.Equal(t, model.AddItem{Name: "walk"}, decoded)

	mark := service.NewMarkDoneInstruction(programID, todoKey, "walk")
	require.Len(t, mark.Accounts, 1)
	assert.True(t, mark.Accounts[0].IsWritable)

	decoded, err = codec.DecodeInstruction(mark.Data)
	require.NoError(t, err)
	assert.Equal(t, model.MarkDone{Name: "walk"}, decoded)
}
