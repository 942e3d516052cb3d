package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"

	"github.com/AlexZinkM/paylink/internal/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "insufficient funds", err: errors.New("Transaction simulation failed: Attempt to debit an account but found no record of a prior credit."), want: model.ErrInsufficientFunds},
		{name: "insufficient lamports", err: errors.New("Transfer: insufficient lamports 100, need 5000"), want: model.ErrInsufficientFunds},
		{name: "rate limited", err: errors.New("rpc call getBalance() on https://api.devnet.solana.com: 429 Too Many Requests"), want: model.ErrNetwork},
		{name: "bad gateway", err: errors.New("response status 502"), want: model.ErrNetwork},
		{name: "connection refused", err: errors.New("dial tcp 127.0.0.1:8899: connect: connection refused"), want: model.ErrNetwork},
		{name: "net error", err: &net.OpError{Op: "dial", Err: errors.New("unreachable")}, want: model.ErrNetwork},
		{name: "program error", err: errors.New("custom program error: 0x1771"), want: model.ErrLedgerRejected},
		{name: "rent", err: errors.New("Transaction simulation failed: Transaction results in an account (1) with insufficient funds for rent"), want: model.ErrLedgerRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classify(tt.err)
			assert.ErrorIs(t, got, tt.want)
			assert.ErrorIs(t, got, tt.err, "original error must stay in the chain")
		})
	}

	rent := classify(errors.New("Transaction results in an account (1) with insufficient funds for rent"))
	assert.NotErrorIs(t, rent, model.ErrInsufficientFunds)

	assert.Equal(t, context.Canceled, classify(context.Canceled))
	wrapped := fmt.Errorf("call: %w", context.DeadlineExceeded)
	assert.Equal(t, wrapped, classify(wrapped))
}

func TestIsAlreadyProcessed(t *testing.T) {
	assert.True(t, isAlreadyProcessed(errors.New("Transaction simulation failed: This transaction has already been processed")))
	assert.False(t, isAlreadyProcessed(errors.New("blockhash not found")))
}

func TestTransferFromBalances(t *testing.T) {
	owner := solana.NewWallet().PublicKey()
	other := solana.NewWallet().PublicKey()
	program := solana.SystemProgramID

	t.Run("outgoing as fee payer", func(t *testing.T) {
		keys := []solana.PublicKey{owner, other, program}
		pre := []uint64{1_000_000, 0, 1}
		post := []uint64{0, 995_000, 1}

		got, ok := transferFromBalances(owner, keys, pre, post, 5000)
		assert.True(t, ok)
		assert.Equal(t, model.TransferOut, got.Direction)
		assert.Equal(t, uint64(995_000), got.Lamports)
		assert.Equal(t, uint64(5000), got.FeeLamports)
		assert.Equal(t, other.String(), got.Counterparty)
	})

	t.Run("incoming", func(t *testing.T) {
		keys := []solana.PublicKey{other, owner, program}
		pre := []uint64{2_000_000, 0, 1}
		post := []uint64{995_000, 1_000_000, 1}

		got, ok := transferFromBalances(owner, keys, pre, post, 5000)
		assert.True(t, ok)
		assert.Equal(t, model.TransferIn, got.Direction)
		assert.Equal(t, uint64(1_000_000), got.Lamports)
		assert.Zero(t, got.FeeLamports)
		assert.Equal(t, other.String(), got.Counterparty)
	})

	t.Run("fee only", func(t *testing.T) {
		keys := []solana.PublicKey{owner, program}
		_, ok := transferFromBalances(owner, keys, []uint64{10_000, 1}, []uint64{5000, 1}, 5000)
		assert.False(t, ok)
	})

	t.Run("owner absent", func(t *testing.T) {
		keys := []solana.PublicKey{other, program}
		_, ok := transferFromBalances(owner, keys, []uint64{10, 1}, []uint64{5, 1}, 5)
		assert.False(t, ok)
	})
}
