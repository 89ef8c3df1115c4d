// Package system implements the built-in program that owns unallocated accounts.
// It funds and allocates storage for other programs and moves lamports between signers.
package system

import (
	"context"
	"encoding/binary"

	"todochain/config"
	"todochain/infras/otel"
	ledger "todochain/internal/domains/ledger/model"
	"todochain/shared/constant"
	"todochain/shared/failure"
)

const (
	TagCreateAccount uint32 = 0
	TagTransfer      uint32 = 2

	createAccountDataLen = 4 + 8 + 8 + 32
	transferDataLen      = 4 + 8
)

// Program is the system program. It also serves as the storage provisioner for user programs.
type Program struct {
	rent ledger.Rent
	otel otel.Otel
}

func New(cfg *config.Config, otel otel.Otel) *Program {
	return &Program{
		rent: ledger.Rent{
			LamportsPerByteYear: cfg.Rent.LamportsPerByteYear,
			ExemptionThreshold:  cfg.Rent.ExemptionThreshold,
		},
		otel: otel,
	}
}

func (p *Program) Name() string {
	return "system"
}

// Rent returns the rent parameters used for new allocations.
func (p *Program) Rent() ledger.Rent {
	return p.rent
}

func (p *Program) Process(ctx context.Context, ic *ledger.InvokeContext) (err error) {
	ctx, scope := p.otel.NewScope(ctx, constant.OtelProgramScopeName, constant.OtelProgramScopeName+".system.Process")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if len(ic.Data) < 4 {
		return failure.Wrap(failure.MalformedInstruction, "system instruction too short")
	}

	switch tag := binary.LittleEndian.Uint32(ic.Data); tag {
	case TagCreateAccount:
		if len(ic.Data) < createAccountDataLen {
			return failure.Wrap(failure.MalformedInstruction, "create account data too short")
		}

		if len(ic.Accounts) < 2 {
			return failure.Wrap(failure.InvalidAccounts, "create account needs payer and new account")
		}

		lamports := binary.LittleEndian.Uint64(ic.Data[4:12])
		space := binary.LittleEndian.Uint64(ic.Data[12:20])
		owner, _ := ledger.PubkeyFromBytes(ic.Data[20:52])

		if err := p.allocate(ic.Accounts[0], ic.Accounts[1], lamports, space, owner); err != nil {
			return err
		}

		ic.Log("Created account %s with %d bytes owned by %s", ic.Accounts[1].Key, space, owner)

		return nil
	case TagTransfer:
		if len(ic.Data) < transferDataLen {
			return failure.Wrap(failure.MalformedInstruction, "transfer data too short")
		}

		if len(ic.Accounts) < 2 {
			return failure.Wrap(failure.InvalidAccounts, "transfer needs source and destination")
		}

		lamports := binary.LittleEndian.Uint64(ic.Data[4:12])
		if err := transfer(ic.Accounts[0], ic.Accounts[1], lamports); err != nil {
			return err
		}

		ic.Log("Transferred %d lamports from %s to %s", lamports, ic.Accounts[0].Key, ic.Accounts[1].Key)

		return nil
	default:
		return failure.Wrap(failure.MalformedInstruction, "unknown system instruction %d", tag)
	}
}

// CreateAccount funds account with the rent-exempt minimum for space, allocates zeroed
// storage and assigns it to owner.
func (p *Program) CreateAccount(ctx context.Context, payer, account *ledger.AccountInfo, space uint64, owner ledger.Pubkey) (err error) {
	_, scope := p.otel.NewScope(ctx, constant.OtelProgramScopeName, constant.OtelProgramScopeName+".system.CreateAccount")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttributes(map[string]any{
		"account.pubkey": account.Key.String(),
		"account.space":  space,
	})

	return p.allocate(payer, account, p.rent.MinimumBalance(space), space, owner)
}

func (p *Program) allocate(payer, account *ledger.AccountInfo, lamports, space uint64, owner ledger.Pubkey) error {
	if !payer.IsSigner {
		return failure.Wrap(failure.MissingSignature, "payer %s", payer.Key)
	}

	if !account.IsSigner {
		return failure.Wrap(failure.MissingSignature, "new account %s", account.Key)
	}

	if !payer.IsWritable || !account.IsWritable {
		return failure.Wrap(failure.InvalidAccounts, "payer and new account must be writable")
	}

	if payer.Key == account.Key {
		return failure.Wrap(failure.InvalidAccounts, "payer cannot fund itself")
	}

	if account.Lamports != 0 || len(account.Data) != 0 || account.Owner != ledger.SystemProgramID {
		return failure.Wrap(failure.AccountInUse, "%s", account.Key)
	}

	if minimum := p.rent.MinimumBalance(space); lamports < minimum {
		return failure.Wrap(failure.InsufficientFunds, "%d lamports is below the rent-exempt minimum %d", lamports, minimum)
	}

	if err := transfer(payer, account, lamports); err != nil {
		return err
	}

	account.Data = make([]byte, space)
	account.Owner = owner

	return nil
}

func transfer(from, to *ledger.AccountInfo, lamports uint64) error {
	if !from.IsSigner {
		return failure.Wrap(failure.MissingSignature, "source %s", from.Key)
	}

	if !from.IsWritable || !to.IsWritable {
		return failure.Wrap(failure.InvalidAccounts, "source and destination must be writable")
	}

	if from.Owner != ledger.SystemProgramID || len(from.Data) != 0 {
		return failure.Wrap(failure.InvalidAccounts, "source %s must be a system account without data", from.Key)
	}

	if from.Lamports < lamports {
		return failure.Wrap(failure.InsufficientFunds, "%s has %d lamports, needs %d", from.Key, from.Lamports, lamports)
	}

	if from.Key == to.Key {
		return nil
	}

	from.Lamports -= lamports
	to.Lamports += lamports

	return nil
}

// EncodeCreateAccount builds a create account instruction payload.
func EncodeCreateAccount(lamports, space uint64, owner ledger.Pubkey) []byte {
	data := make([]byte, 0, createAccountDataLen)
	data = binary.LittleEndian.AppendUint32(data, TagCreateAccount)
	data = binary.LittleEndian.AppendUint64(data, lamports)
	data = binary.LittleEndian.AppendUint64(data, space)

	return append(data, owner[:]...)
}

// EncodeTransfer builds a transfer instruction payload.
func EncodeTransfer(lamports uint64) []byte {
	data := make([]byte, 0, transferDataLen)
	data = binary.LittleEndian.AppendUint32(data, TagTransfer)

	return binary.LittleEndian.AppendUint64(data, lamports)
}
