package service

import (
	ledger "todochain/internal/domains/ledger/model"
	"todochain/internal/domains/todo/codec"
	"todochain/internal/domains/todo/model"
)

// NewAddItemInstruction builds an add for the given todo account. Both the account and the
// payer must sign: the first add creates the account on the payer's funds.
func NewAddItemInstruction(programID, account, payer ledger.Pubkey, name string) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: programID,
		Accounts: []ledger.AccountMeta{
			{Pubkey: account, IsSigner: true, IsWritable: true},
			{Pubkey: payer, IsSigner: true, IsWritable: true},
			{Pubkey: ledger.SystemProgramID},
			{Pubkey: ledger.ClockSysvarID},
		},
		Data: codec.EncodeInstruction(model.AddItem{Name: name}),
	}
}

func NewMarkDoneInstruction(programID, account ledger.Pubkey, name string) ledger.Instruction {
	return ledger.Instruction{
		ProgramID: programID,
		Accounts: []ledger.AccountMeta{
			{Pubkey: account, IsSigner: true, IsWritable: true},
		},
		Data: codec.EncodeInstruction(model.MarkDone{Name: name}),
	}
}
