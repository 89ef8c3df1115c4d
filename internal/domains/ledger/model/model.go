package model

import (
	"bytes"
	"crypto/ed25519"
	"time"
)

const (
	TableName  = "accounts"
	EntityName = "account"

	FieldPubkey     = "pubkey"
	FieldOwner      = "owner"
	FieldLamports   = "lamports"
	FieldData       = "data"
	FieldExecutable = "executable"
	FieldModifiedAt = "modified_at"
)

// Account is the persisted form of a storage region.
type Account struct {
	Pubkey     Pubkey    `db:"pubkey"`
	Owner      Pubkey    `db:"owner"`
	Lamports   uint64    `db:"lamports"`
	Data       []byte    `db:"data"`
	Executable bool      `db:"executable"`
	ModifiedAt time.Time `db:"modified_at"`
}

// IsUnused reports whether the account was never allocated or funded.
func (a Account) IsUnused() bool {
	return a.Lamports == 0 && len(a.Data) == 0 && a.Owner == SystemProgramID
}

func (a Account) Clone() Account {
	c := a
	c.Data = bytes.Clone(a.Data)

	return c
}

// AccountInfo is the mutable handle a program receives for one instruction account.
type AccountInfo struct {
	Key        Pubkey
	IsSigner   bool
	IsWritable bool
	Lamports   uint64
	Data       []byte
	Owner      Pubkey
	Executable bool
}

func NewAccountInfo(meta AccountMeta, account Account) *AccountInfo {
	return &AccountInfo{
		Key:        meta.Pubkey,
		IsSigner:   meta.IsSigner,
		IsWritable: meta.IsWritable,
		Lamports:   account.Lamports,
		Data:       bytes.Clone(account.Data),
		Owner:      account.Owner,
		Executable: account.Executable,
	}
}

// Account returns the persisted view of the handle.
func (info *AccountInfo) Account() Account {
	return Account{
		Pubkey:     info.Key,
		Owner:      info.Owner,
		Lamports:   info.Lamports,
		Data:       bytes.Clone(info.Data),
		Executable: info.Executable,
	}
}

type AccountMeta struct {
	Pubkey     Pubkey `json:"pubkey"`
	IsSigner   bool   `json:"is_signer"`
	IsWritable bool   `json:"is_writable"`
}

type Instruction struct {
	ProgramID Pubkey        `json:"program_id"`
	Accounts  []AccountMeta `json:"accounts"`
	Data      []byte        `json:"data"`
}

// Message is the signed part of a transaction. RecentSlot pins it to a window of the ledger's history.
type Message struct {
	RecentSlot   uint64        `json:"recent_slot"`
	Instructions []Instruction `json:"instructions"`
}

type Signature struct {
	Pubkey    Pubkey `json:"pubkey"`
	Signature []byte `json:"signature"`
}

// Transaction is one unit of work: all instructions commit together or not at all.
type Transaction struct {
	Message    Message     `json:"message"`
	Signatures []Signature `json:"signatures"`
}

// Sign appends an ed25519 signature over the encoded message.
func (tx *Transaction) Sign(key ed25519.PrivateKey) {
	pub, _ := key.Public().(ed25519.PublicKey)

	tx.Signatures = append(tx.Signatures, Signature{
		Pubkey:    PubkeyFromPublicKey(pub),
		Signature: ed25519.Sign(key, EncodeMessage(tx.Message)),
	})
}

type ReceiptStatus string

const (
	ReceiptStatusCommitted ReceiptStatus = "committed"
	ReceiptStatusFailed    ReceiptStatus = "failed"
)

// Receipt describes the outcome of executing a transaction.
type Receipt struct {
	ID        string        `json:"id"`
	Slot      uint64        `json:"slot"`
	Status    ReceiptStatus `json:"status"`
	Logs      []string      `json:"logs"`
	Error     string        `json:"error,omitempty"`
	ErrorCode uint32        `json:"error_code,omitempty"`
}

// Snapshot is an exported copy of an account at a slot.
type Snapshot struct {
	Pubkey   Pubkey    `json:"pubkey"`
	Owner    Pubkey    `json:"owner"`
	Lamports uint64    `json:"lamports"`
	Data     []byte    `json:"data"`
	Slot     uint64    `json:"slot"`
	TakenAt  time.Time `json:"taken_at"`
	URL      string    `json:"url,omitempty"`
}
