package dto

import (
	"encoding/base64"
	"fmt"

	"todochain/internal/domains/ledger/model"
	"todochain/shared"
	"todochain/shared/constant"
	"todochain/shared/failure"
	"todochain/shared/timezone"
)

type AccountMetaRequest struct {
	Pubkey     string `json:"pubkey" validate:"required,pubkey"`
	IsSigner   bool   `json:"is_signer"`
	IsWritable bool   `json:"is_writable"`
}

type InstructionRequest struct {
	ProgramID string               `json:"program_id" validate:"required,pubkey"`
	Accounts  []AccountMetaRequest `json:"accounts" validate:"max=255,dive"`
	Data      string               `json:"data" validate:"omitempty,base64"`
}

type SignatureRequest struct {
	Pubkey    string `json:"pubkey" validate:"required,pubkey"`
	Signature string `json:"signature" validate:"required,base64"`
}

// TransactionRequest is the JSON form of a signed transaction. Keys are base58, bytes are base64.
type TransactionRequest struct {
	RecentSlot   uint64               `json:"recent_slot"`
	Instructions []InstructionRequest `json:"instructions" validate:"required,min=1,max=255,dive"`
	Signatures   []SignatureRequest   `json:"signatures" validate:"dive"`
}

func (r *TransactionRequest) ToModel() (model.Transaction, error) {
	tx := model.Transaction{
		Message: model.Message{
			RecentSlot:   r.RecentSlot,
			Instructions: make([]model.Instruction, len(r.Instructions)),
		},
	}

	for i, ix := range r.Instructions {
		programID, err := model.PubkeyFromBase58(ix.ProgramID)
		if err != nil {
			return model.Transaction{}, failure.BadRequest(fmt.Errorf("instruction %d program id: %w", i, err))
		}

		data, err := base64.StdEncoding.DecodeString(ix.Data)
		if err != nil {
			return model.Transaction{}, failure.BadRequest(fmt.Errorf("instruction %d data: %w", i, err))
		}

		metas := make([]model.AccountMeta, len(ix.Accounts))
		for j, meta := range ix.Accounts {
			pubkey, err := model.PubkeyFromBase58(meta.Pubkey)
			if err != nil {
				return model.Transaction{}, failure.BadRequest(fmt.Errorf("instruction %d account %d: %w", i, j, err))
			}

			metas[j] = model.AccountMeta{Pubkey: pubkey, IsSigner: meta.IsSigner, IsWritable: meta.IsWritable}
		}

		tx.Message.Instructions[i] = model.Instruction{ProgramID: programID, Accounts: metas, Data: data}
	}

	for i, sig := range r.Signatures {
		pubkey, err := model.PubkeyFromBase58(sig.Pubkey)
		if err != nil {
			return model.Transaction{}, failure.BadRequest(fmt.Errorf("signature %d pubkey: %w", i, err))
		}

		raw, err := base64.StdEncoding.DecodeString(sig.Signature)
		if err != nil {
			return model.Transaction{}, failure.BadRequest(fmt.Errorf("signature %d: %w", i, err))
		}

		tx.Signatures = append(tx.Signatures, model.Signature{Pubkey: pubkey, Signature: raw})
	}

	return tx, nil
}

// FromModel builds the request a client submits for a signed transaction.
func (r *TransactionRequest) FromModel(tx model.Transaction) {
	r.RecentSlot = tx.Message.RecentSlot
	r.Instructions = make([]InstructionRequest, len(tx.Message.Instructions))

	for i, ix := range tx.Message.Instructions {
		metas := make([]AccountMetaRequest, len(ix.Accounts))
		for j, meta := range ix.Accounts {
			metas[j] = AccountMetaRequest{Pubkey: meta.Pubkey.String(), IsSigner: meta.IsSigner, IsWritable: meta.IsWritable}
		}

		r.Instructions[i] = InstructionRequest{
			ProgramID: ix.ProgramID.String(),
			Accounts:  metas,
			Data:      base64.StdEncoding.EncodeToString(ix.Data),
		}
	}

	r.Signatures = make([]SignatureRequest, len(tx.Signatures))
	for i, sig := range tx.Signatures {
		r.Signatures[i] = SignatureRequest{
			Pubkey:    sig.Pubkey.String(),
			Signature: base64.StdEncoding.EncodeToString(sig.Signature),
		}
	}
}

type AirdropRequest struct {
	Lamports uint64 `json:"lamports" validate:"required,gt=0"`
}

type ReceiptResponse struct {
	ID        string   `json:"id"`
	Slot      uint64   `json:"slot"`
	Status    string   `json:"status"`
	Logs      []string `json:"logs"`
	Error     string   `json:"error,omitempty"`
	ErrorCode uint32   `json:"error_code,omitempty"`
}

func (r *ReceiptResponse) FromModel(receipt model.Receipt) {
	r.ID = receipt.ID
	r.Slot = receipt.Slot
	r.Status = string(receipt.Status)
	r.Logs = receipt.Logs
	r.Error = receipt.Error
	r.ErrorCode = receipt.ErrorCode

	if r.Logs == nil {
		r.Logs = []string{}
	}
}

type AccountResponse struct {
	Pubkey     string `json:"pubkey"`
	Owner      string `json:"owner"`
	Lamports   uint64 `json:"lamports"`
	Data       string `json:"data"`
	Executable bool   `json:"executable"`
	ModifiedAt string `json:"modified_at,omitempty"`
}

func (r *AccountResponse) FromModel(account model.Account) {
	r.Pubkey = account.Pubkey.String()
	r.Owner = account.Owner.String()
	r.Lamports = account.Lamports
	r.Data = base64.StdEncoding.EncodeToString(account.Data)
	r.Executable = account.Executable

	if !account.ModifiedAt.IsZero() {
		r.ModifiedAt = timezone.Format(account.ModifiedAt, constant.DateFormat)
	}
}

type GetAccountsResponse struct {
	Accounts  []AccountResponse `json:"accounts"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetAccountsResponse) FromModels(models []model.Account, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Accounts = make([]AccountResponse, len(models))
	for i, mod := range models {
		r.Accounts[i].FromModel(mod)
	}
}

type SnapshotResponse struct {
	Pubkey   string `json:"pubkey"`
	Owner    string `json:"owner"`
	Lamports uint64 `json:"lamports"`
	Data     string `json:"data"`
	Slot     uint64 `json:"slot"`
	TakenAt  string `json:"taken_at"`
	URL      string `json:"url,omitempty"`
}

func (r *SnapshotResponse) FromModel(snapshot model.Snapshot) {
	r.Pubkey = snapshot.Pubkey.String()
	r.Owner = snapshot.Owner.String()
	r.Lamports = snapshot.Lamports
	r.Data = base64.StdEncoding.EncodeToString(snapshot.Data)
	r.Slot = snapshot.Slot
	r.TakenAt = timezone.Format(snapshot.TakenAt, constant.DateFormat)
	r.URL = snapshot.URL
}

type ClockResponse struct {
	Slot          uint64 `json:"slot"`
	Epoch         uint64 `json:"epoch"`
	UnixTimestamp int64  `json:"unix_timestamp"`
	Time          string `json:"time"`
}

func (r *ClockResponse) FromModel(clock model.Clock) {
	r.Slot = clock.Slot
	r.Epoch = clock.Epoch
	r.UnixTimestamp = clock.UnixTimestamp
	r.Time = timezone.Format(timezone.FromUnix(clock.UnixTimestamp), constant.DateFormat)
}
