// Package burner implements the burner-wallet payment link protocol: a fresh
// wallet is funded by the sender, its recovery phrase travels inside a link, and
// whoever holds the link sweeps the balance to an address of their choosing.
package burner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/gagliardetto/solana-go"

	"github.com/AlexZinkM/paylink/internal/common"
	"github.com/AlexZinkM/paylink/internal/logger"
	"github.com/AlexZinkM/paylink/internal/model"
	"github.com/AlexZinkM/paylink/internal/retry"
	"github.com/AlexZinkM/paylink/internal/signer"
)

// DefaultFeeLamports is the Solana per-signature fee (0.000005 SOL).
const DefaultFeeLamports = 5000

// Ledger is the subset of the network the protocol needs.
// Implementations report transient failures as model.ErrNetwork and a debit
// the account cannot cover as model.ErrInsufficientFunds.
type Ledger interface {
	Balance(ctx context.Context, address solana.PublicKey) (uint64, error)
	BuildTransfer(ctx context.Context, from, to solana.PublicKey, lamports uint64) (*solana.Transaction, error)
	Submit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
	History(ctx context.Context, address solana.PublicKey) ([]model.Transfer, error)
}

// Options configures a Manager. Amounts are in lamports.
type Options struct {
	FeeLamports  uint64
	DustLamports uint64 // balance at or below fee+dust is not worth claiming
	MinAmount    uint64
	MaxAmount    uint64 // zero means no upper bound
	Retry        retry.Policy
}

// Manager creates, funds, inspects and sweeps burner wallets.
type Manager struct {
	ledger Ledger
	opts   Options
	log    *logger.Logger
}

// NewManager creates a new Manager.
func NewManager(ledger Ledger, opts Options, log *logger.Logger) *Manager {
	return &Manager{
		ledger: ledger,
		opts:   opts,
		log:    log.With("component", "burner"),
	}
}

// Generate creates a burner wallet. It performs no network calls.
func (m *Manager) Generate() (*model.BurnerWallet, error) {
	mnemonic, err := NewMnemonic()
	if err != nil {
		return nil, err
	}

	address, err := AddressFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}

	return &model.BurnerWallet{
		Address:   address,
		Mnemonic:  mnemonic,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Fund transfers amount lamports from sender to the burner wallet.
// Funding an already funded burner adds to its balance.
// When the transfer was submitted but not confirmed, the returned txID is set
// alongside an error for which Unconfirmed is true.
func (m *Manager) Fund(ctx context.Context, sender signer.Signer, burnerAddress string, amount uint64) (string, error) {
	if err := m.ValidateAmount(amount); err != nil {
		return "", err
	}

	to, err := parseAddress(burnerAddress)
	if err != nil {
		return "", err
	}

	txID, err := m.transfer(ctx, sender, to, amount)
	if err != nil {
		return txID, err
	}

	m.log.Info("burner funded", "address", to.String(), "lamports", amount, "tx", txID)
	return txID, nil
}

// Send transfers amount lamports from sender straight to recipient.
// Unconfirmed failures report the txID as Fund does.
func (m *Manager) Send(ctx context.Context, sender signer.Signer, recipient string, amount uint64) (string, error) {
	if err := m.ValidateAmount(amount); err != nil {
		return "", err
	}

	to, err := parseAddress(recipient)
	if err != nil {
		return "", err
	}

	txID, err := m.transfer(ctx, sender, to, amount)
	if err != nil {
		return txID, err
	}

	m.log.Info("payment sent", "recipient", to.String(), "lamports", amount, "tx", txID)
	return txID, nil
}

// ValidateAmount checks amount against the configured bounds.
func (m *Manager) ValidateAmount(amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("amount must be positive: %w", model.ErrValidation)
	}
	if amount < m.opts.MinAmount {
		return fmt.Errorf("amount is below minimum of %s SOL: %w", common.LamportsToSOL(m.opts.MinAmount), model.ErrValidation)
	}
	if m.opts.MaxAmount > 0 && amount > m.opts.MaxAmount {
		return fmt.Errorf("amount exceeds maximum of %s SOL: %w", common.LamportsToSOL(m.opts.MaxAmount), model.ErrValidation)
	}
	if amount > math.MaxUint64-m.opts.FeeLamports {
		return fmt.Errorf("amount is too large: %w", model.ErrValidation)
	}
	return nil
}

func (m *Manager) transfer(ctx context.Context, sender signer.Signer, to solana.PublicKey, amount uint64) (string, error) {
	from := sender.PublicKey()
	if from.Equals(to) {
		return "", fmt.Errorf("recipient must differ from sender: %w", model.ErrValidation)
	}

	balance, err := m.balance(ctx, from)
	if err != nil {
		return "", fmt.Errorf("failed to check sender balance: %w", err)
	}

	required := amount + m.opts.FeeLamports
	if balance < required {
		return "", fmt.Errorf("have %s SOL, need %s SOL including fee: %w",
			common.LamportsToSOL(balance), common.LamportsToSOL(required), model.ErrInsufficientSenderBalance)
	}

	sig, err := m.submit(ctx, sender, to, amount)
	if err != nil {
		if errors.Is(err, model.ErrInsufficientFunds) {
			// balance moved between the check and the submission
			return "", fmt.Errorf("ledger refused debit: %w", model.ErrInsufficientSenderBalance)
		}
		if Unconfirmed(err) && sig != (solana.Signature{}) {
			return sig.String(), err
		}
		return "", err
	}
	return sig.String(), nil
}

// Unconfirmed reports whether err leaves a submitted transfer in an unknown state.
// The transaction may still land, so the operation must not be repeated blindly.
func Unconfirmed(err error) bool {
	return errors.Is(err, model.ErrNetwork) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// submit builds and signs the transfer once, then retries only the submission.
// A retry resends the identical signed transaction, so the ledger can
// deduplicate it by signature and a lost response never causes a second transfer.
// Once the transaction is signed its signature is returned even on failure.
func (m *Manager) submit(ctx context.Context, s signer.Signer, to solana.PublicKey, lamports uint64) (solana.Signature, error) {
	from := s.PublicKey()

	tx, err := retry.Do(ctx, m.opts.Retry, func(ctx context.Context) (*solana.Transaction, error) {
		return m.ledger.BuildTransfer(ctx, from, to, lamports)
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to build transaction: %w", err)
	}

	if err := signer.SignTransaction(ctx, tx, s); err != nil {
		return solana.Signature{}, err
	}

	sig, err := retry.Do(ctx, m.opts.Retry, func(ctx context.Context) (solana.Signature, error) {
		return m.ledger.Submit(ctx, tx)
	})
	if err != nil {
		return tx.Signatures[0], fmt.Errorf("failed to send transaction: %w", err)
	}
	return sig, nil
}

// Balance returns the confirmed balance of address in lamports.
func (m *Manager) Balance(ctx context.Context, address string) (uint64, error) {
	pub, err := parseAddress(address)
	if err != nil {
		return 0, err
	}
	return m.balance(ctx, pub)
}

func (m *Manager) balance(ctx context.Context, pub solana.PublicKey) (uint64, error) {
	return retry.Do(ctx, m.opts.Retry, func(ctx context.Context) (uint64, error) {
		return m.ledger.Balance(ctx, pub)
	})
}

// Claimable returns what a sweep of balance would deliver, or zero.
func (m *Manager) Claimable(balance uint64) uint64 {
	if balance <= m.floor() {
		return 0
	}
	return balance - m.opts.FeeLamports
}

func (m *Manager) floor() uint64 {
	return m.opts.FeeLamports + m.opts.DustLamports
}

// Sweep moves everything except the fee from the burner controlled by mnemonic to recipient.
// The balance is the only gate: a swept or never funded burner yields model.ErrInsufficientFunds,
// and when two sweeps race the ledger lets exactly one of them through.
func (m *Manager) Sweep(ctx context.Context, mnemonic, recipient string) (*model.SweepResult, error) {
	to, err := parseAddress(recipient)
	if err != nil {
		return nil, err
	}

	key, err := KeypairFromMnemonic(mnemonic)
	if err != nil {
		return nil, err
	}
	burner, err := signer.NewLocalSigner(key)
	clear(key)
	if err != nil {
		return nil, err
	}
	defer burner.Wipe()

	from := burner.PublicKey()
	if from.Equals(to) {
		return nil, fmt.Errorf("recipient must differ from the link wallet: %w", model.ErrValidation)
	}

	balance, err := m.balance(ctx, from)
	if err != nil {
		return nil, fmt.Errorf("failed to check link balance: %w", err)
	}

	amount := m.Claimable(balance)
	if amount == 0 {
		return nil, fmt.Errorf("balance %d lamports does not cover fee: %w", balance, model.ErrInsufficientFunds)
	}

	sig, err := m.submit(ctx, burner, to, amount)
	if err != nil {
		if errors.Is(err, model.ErrInsufficientFunds) {
			return nil, fmt.Errorf("link was claimed concurrently: %w", model.ErrInsufficientFunds)
		}
		return nil, err
	}

	m.log.Info("link claimed", "address", from.String(), "lamports", amount, "tx", sig.String())
	return &model.SweepResult{
		TxID:   sig.String(),
		Amount: amount,
	}, nil
}

// Status derives the link state from the burner's balance and history.
func (m *Manager) Status(ctx context.Context, address string) (model.LinkStatus, error) {
	pub, err := parseAddress(address)
	if err != nil {
		return "", err
	}

	balance, err := m.balance(ctx, pub)
	if err != nil {
		return "", err
	}
	if balance > m.floor() {
		return model.LinkFunded, nil
	}

	history, err := retry.Do(ctx, m.opts.Retry, func(ctx context.Context) ([]model.Transfer, error) {
		return m.ledger.History(ctx, pub)
	})
	if err != nil {
		return "", fmt.Errorf("failed to read history: %w", err)
	}

	for _, t := range history {
		if t.Direction == model.TransferOut && t.Status == model.TransferSucceeded {
			return model.LinkClaimed, nil
		}
	}
	return model.LinkCreated, nil
}
