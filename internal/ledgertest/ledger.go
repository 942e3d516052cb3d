// Package ledgertest provides an in-memory ledger for tests.
//
// It applies system transfers atomically under one lock, deduplicates
// submissions by signature and checks each signature against the payer, which
// is what the link protocol relies on from the real network.
package ledgertest

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"

	"github.com/AlexZinkM/paylink/internal/model"
)

// DefaultFee matches the per-signature fee on Solana.
const DefaultFee = 5000

// Ledger is safe for concurrent use.
type Ledger struct {
	mu       sync.Mutex
	fee      uint64
	balances map[solana.PublicKey]uint64
	history  map[solana.PublicKey][]model.Transfer
	seen     map[solana.Signature]struct{}
	slot     uint64

	// SubmitFailures makes the next n submissions fail with a network error before being applied.
	SubmitFailures int
	// LoseResponses makes the next n submissions apply, or find their transaction
	// already applied, and then report a network error.
	LoseResponses int
	// BalanceFailures makes the next n balance reads fail with a network error.
	BalanceFailures int

	submits int
}

// New returns an empty ledger charging fee lamports per transfer.
func New(fee uint64) *Ledger {
	return &Ledger{
		fee:      fee,
		balances: make(map[solana.PublicKey]uint64),
		history:  make(map[solana.PublicKey][]model.Transfer),
		seen:     make(map[solana.Signature]struct{}),
	}
}

// Credit adds lamports to address out of thin air.
func (l *Ledger) Credit(address solana.PublicKey, lamports uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[address] += lamports
}

// BalanceOf reads a balance without fault injection.
func (l *Ledger) BalanceOf(address solana.PublicKey) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[address]
}

// Submits returns how many submissions reached the ledger, including failed ones.
func (l *Ledger) Submits() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.submits
}

// Applied returns how many distinct transactions were applied.
func (l *Ledger) Applied() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.seen)
}

func (l *Ledger) Balance(ctx context.Context, address solana.PublicKey) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.BalanceFailures > 0 {
		l.BalanceFailures--
		return 0, fmt.Errorf("balance unavailable: %w", model.ErrNetwork)
	}
	return l.balances[address], nil
}

// BuildTransfer uses a fresh blockhash each call, so identical transfers get distinct signatures.
func (l *Ledger) BuildTransfer(ctx context.Context, from, to solana.PublicKey, lamports uint64) (*solana.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.slot++
	var blockhash solana.Hash
	binary.BigEndian.PutUint64(blockhash[:8], l.slot)
	l.mu.Unlock()

	return solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(lamports, from, to).Build()},
		blockhash,
		solana.TransactionPayer(from),
	)
}

func (l *Ledger) Submit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	if err := ctx.Err(); err != nil {
		return solana.Signature{}, err
	}

	from, to, lamports, err := parseTransfer(tx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%v: %w", err, model.ErrLedgerRejected)
	}
	if err := tx.VerifySignatures(); err != nil {
		return solana.Signature{}, fmt.Errorf("signature verification failed: %w", model.ErrLedgerRejected)
	}
	sig := tx.Signatures[0]

	l.mu.Lock()
	defer l.mu.Unlock()
	l.submits++

	if l.SubmitFailures > 0 {
		l.SubmitFailures--
		return solana.Signature{}, fmt.Errorf("connection reset: %w", model.ErrNetwork)
	}

	if _, ok := l.seen[sig]; ok {
		return l.respond(sig)
	}

	need := lamports + l.fee
	if l.balances[from] < need {
		return solana.Signature{}, fmt.Errorf("account %s has %d lamports, needs %d: %w",
			from, l.balances[from], need, model.ErrInsufficientFunds)
	}

	l.slot++
	now := time.Now()
	l.balances[from] -= need
	l.balances[to] += lamports
	l.seen[sig] = struct{}{}
	l.history[from] = append(l.history[from], model.Transfer{
		TxID:         sig.String(),
		Direction:    model.TransferOut,
		Counterparty: to.String(),
		Lamports:     lamports,
		FeeLamports:  l.fee,
		Timestamp:    now,
		Slot:         l.slot,
		Status:       model.TransferSucceeded,
	})
	l.history[to] = append(l.history[to], model.Transfer{
		TxID:         sig.String(),
		Direction:    model.TransferIn,
		Counterparty: from.String(),
		Lamports:     lamports,
		Timestamp:    now,
		Slot:         l.slot,
		Status:       model.TransferSucceeded,
	})

	return l.respond(sig)
}

// respond must be called with l.mu held.
func (l *Ledger) respond(sig solana.Signature) (solana.Signature, error) {
	if l.LoseResponses > 0 {
		l.LoseResponses--
		return solana.Signature{}, fmt.Errorf("response lost: %w", model.ErrNetwork)
	}
	return sig, nil
}

func (l *Ledger) History(ctx context.Context, address solana.PublicKey) ([]model.Transfer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]model.Transfer(nil), l.history[address]...), nil
}

// parseTransfer extracts the single system transfer the protocol ever submits.
func parseTransfer(tx *solana.Transaction) (from, to solana.PublicKey, lamports uint64, err error) {
	if tx == nil || len(tx.Signatures) != 1 {
		return from, to, 0, errors.New("expected exactly one signature")
	}
	if len(tx.Message.Instructions) != 1 {
		return from, to, 0, errors.New("expected exactly one instruction")
	}
	inst := tx.Message.Instructions[0]
	program, err := tx.Message.Program(inst.ProgramIDIndex)
	if err != nil || !program.Equals(solana.SystemProgramID) {
		return from, to, 0, errors.New("not a system program instruction")
	}
	// u32 instruction tag followed by u64 lamports, both little-endian
	if len(inst.Accounts) != 2 || len(inst.Data) != 12 ||
		binary.LittleEndian.Uint32(inst.Data[:4]) != system.Instruction_Transfer {
		return from, to, 0, errors.New("not a transfer instruction")
	}

	keys := tx.Message.AccountKeys
	if int(inst.Accounts[0]) >= len(keys) || int(inst.Accounts[1]) >= len(keys) {
		return from, to, 0, errors.New("account index out of range")
	}
	from, to = keys[inst.Accounts[0]], keys[inst.Accounts[1]]
	return from, to, binary.LittleEndian.Uint64(inst.Data[4:]), nil
}
