package service

import (
	"todochain/internal/domains/ledger/model"
	"todochain/internal/domains/ledger/system"
)

// Registry maps program ids to their implementations.
type Registry map[model.Pubkey]model.Program

// NewRegistry registers the system program and the deployed user program.
func NewRegistry(systemProgram *system.Program, programID model.Pubkey, program model.Program) Registry {
	return Registry{
		model.SystemProgramID: systemProgram,
		programID:             program,
	}
}
