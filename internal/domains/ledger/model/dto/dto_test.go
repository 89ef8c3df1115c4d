package dto_test

import (
	"crypto/ed25519"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todochain/internal/domains/ledger/model"
	"todochain/internal/domains/ledger/model/dto"
	"todochain/shared/failure"
)

func signedTransaction(t *testing.T) model.Transaction {
	t.Helper()

	seed := make([]byte, ed25519.SeedSize)
	seed[0] = 7
	key := ed25519.NewKeyFromSeed(seed)
	payer := model.PubkeyFromPublicKey(key.Public().(ed25519.PublicKey))

	tx := model.Transaction{
		Message: model.Message{RecentSlot: 42, Instructions: []model.Instruction{{
			ProgramID: model.DerivePubkey("todochain/todo"),
			Accounts: []model.AccountMeta{
				{Pubkey: payer, IsSigner: true, IsWritable: true},
				{Pubkey: model.ClockSysvarID},
			},
			Data: []byte{0, 3, 0, 0, 0, 'a', 'b', 'c'},
		}}},
	}
	tx.Sign(key)

	return tx
}

func TestTransactionRequest_RoundTrip(t *testing.T) {
	tx := signedTransaction(t)

	var req dto.TransactionRequest
	req.FromModel(tx)

	require.Len(t, req.Instructions, 1)
	assert.Equal(t, uint64(42), req.RecentSlot)
	assert.Equal(t, model.ClockSysvarID.String(), req.Instructions[0].Accounts[1].Pubkey)
	assert.Equal(t, "AAMAAABhYmM=", req.Instructions[0].Data)

	got, err := req.ToModel()
	require.NoError(t, err)
	assert.Equal(t, tx, got)
	assert.Equal(t, model.TransactionID(tx.Message), model.TransactionID(got.Message))
}

func TestTransactionRequest_ToModelErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *dto.TransactionRequest)
	}{
		{
			name:   "bad program id",
			mutate: func(req *dto.TransactionRequest) { req.Instructions[0].ProgramID = "nope" },
		},
		{
			name:   "bad instruction data",
			mutate: func(req *dto.TransactionRequest) { req.Instructions[0].Data = "%%%" },
		},
		{
			name:   "bad account key",
			mutate: func(req *dto.TransactionRequest) { req.Instructions[0].Accounts[0].Pubkey = "111" },
		},
		{
			name:   "bad signature encoding",
			mutate: func(req *dto.TransactionRequest) { req.Signatures[0].Signature = "%%%" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req dto.TransactionRequest
			req.FromModel(signedTransaction(t))
			tt.mutate(&req)

			_, err := req.ToModel()
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestReceiptResponse_FromModel(t *testing.T) {
	var resp dto.ReceiptResponse
	resp.FromModel(model.Receipt{
		ID:        "abc",
		Slot:      4,
		Status:    model.ReceiptStatusFailed,
		Error:     "item not found",
		ErrorCode: failure.CodeItemNotFound,
	})

	assert.Equal(t, "abc", resp.ID)
	assert.Equal(t, uint64(4), resp.Slot)
	assert.Equal(t, "failed", resp.Status)
	assert.Equal(t, []string{}, resp.Logs)
	assert.Equal(t, failure.CodeItemNotFound, resp.ErrorCode)
}

func TestAccountResponse_FromModel(t *testing.T) {
	owner := model.DerivePubkey("owner")
	pubkey := model.DerivePubkey("account")

	var resp dto.AccountResponse
	resp.FromModel(model.Account{
		Pubkey:   pubkey,
		Owner:    owner,
		Lamports: 42,
		Data:     []byte{1, 2, 3},
	})

	assert.Equal(t, pubkey.String(), resp.Pubkey)
	assert.Equal(t, owner.String(), resp.Owner)
	assert.Equal(t, uint64(42), resp.Lamports)
	assert.Equal(t, "AQID", resp.Data)
	assert.Empty(t, resp.ModifiedAt)
}

func TestClockResponse_FromModel(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var resp dto.ClockResponse
	resp.FromModel(model.Clock{Slot: 9, UnixTimestamp: at.Unix()})

	assert.Equal(t, uint64(9), resp.Slot)
	assert.Equal(t, at.Unix(), resp.UnixTimestamp)

	parsed, err := time.Parse(time.RFC3339, resp.Time)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(at))
}

func TestGetAccountsResponse_FromModels(t *testing.T) {
	accounts := []model.Account{
		{Pubkey: model.DerivePubkey("a"), Lamports: 1},
		{Pubkey: model.DerivePubkey("b"), Lamports: 2},
	}

	var res dto.GetAccountsResponse
	res.FromModels(accounts, 7, 2)

	assert.Equal(t, 7, res.TotalData)
	assert.Equal(t, 4, res.TotalPage)
	require.Len(t, res.Accounts, 2)
	assert.Equal(t, accounts[1].Pubkey.String(), res.Accounts[1].Pubkey)

	var empty dto.GetAccountsResponse
	empty.FromModels(nil, 0, 10)

	assert.Equal(t, 1, empty.TotalPage)
	assert.NotNil(t, empty.Accounts)
}
