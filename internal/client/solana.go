package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/rpc"

	"github.com/AlexZinkM/paylink/internal/model"
)

// historyLimit bounds how many signatures History inspects. A burner has at most a handful.
const historyLimit = 20

// SolanaClient is a client for working with Solana RPC
type SolanaClient struct {
	rpcClient *rpc.Client
	rpcURL    string
}

// NewSolanaClient creates a new Solana client for the given RPC endpoint.
func NewSolanaClient(rpcURL string) *SolanaClient {
	return &SolanaClient{
		rpcClient: rpc.New(rpcURL),
		rpcURL:    rpcURL,
	}
}

// Balance gets the confirmed SOL balance in lamports.
func (c *SolanaClient) Balance(ctx context.Context, address solana.PublicKey) (uint64, error) {
	balance, err := c.rpcClient.GetBalance(ctx, address, rpc.CommitmentConfirmed)
	if err != nil {
		return 0, fmt.Errorf("failed to get SOL balance: %w", classify(err))
	}
	return balance.Value, nil
}

// MinimumBalance returns the rent-exempt minimum for an account without data.
// A sweep that leaves a recipient below it is refused by the network.
func (c *SolanaClient) MinimumBalance(ctx context.Context) (uint64, error) {
	lamports, err := c.rpcClient.GetMinimumBalanceForRentExemption(ctx, 0, rpc.CommitmentFinalized)
	if err != nil {
		return 0, fmt.Errorf("failed to get rent exemption minimum: %w", classify(err))
	}
	return lamports, nil
}

// BuildTransfer creates an unsigned system transfer paid by from.
func (c *SolanaClient) BuildTransfer(ctx context.Context, from, to solana.PublicKey, lamports uint64) (*solana.Transaction, error) {
	// GetRecentBlockhash is deprecated, use GetLatestBlockhash
	recent, err := c.rpcClient.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent blockhash: %w", classify(err))
	}

	tx, err := solana.NewTransaction(
		[]solana.Instruction{system.NewTransferInstruction(lamports, from, to).Build()},
		recent.Value.Blockhash,
		solana.TransactionPayer(from),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}
	return tx, nil
}

// Submit sends a signed transaction. Resending the same transaction is harmless:
// the network keys transactions by their signature.
func (c *SolanaClient) Submit(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	sig, err := c.rpcClient.SendTransactionWithOpts(
		ctx,
		tx,
		rpc.TransactionOpts{
			SkipPreflight:       false, // preflight surfaces insufficient funds before broadcast
			PreflightCommitment: rpc.CommitmentConfirmed,
		},
	)
	if err != nil {
		if isAlreadyProcessed(err) && len(tx.Signatures) > 0 {
			return tx.Signatures[0], nil
		}
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", classify(err))
	}
	return sig, nil
}

// History returns recent SOL movements touching address, newest first.
func (c *SolanaClient) History(ctx context.Context, address solana.PublicKey) ([]model.Transfer, error) {
	limit := historyLimit
	sigs, err := c.rpcClient.GetSignaturesForAddressWithOpts(
		ctx,
		address,
		&rpc.GetSignaturesForAddressOpts{
			Limit:      &limit,
			Commitment: rpc.CommitmentConfirmed,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get signatures: %w", classify(err))
	}

	transfers := make([]model.Transfer, 0, len(sigs))
	for _, s := range sigs {
		// maxVersion is hardcoded - no point making it env var because
		// new version support requires library update and rebuild anyway
		maxVersion := uint64(0)
		tx, err := c.rpcClient.GetTransaction(
			ctx,
			s.Signature,
			&rpc.GetTransactionOpts{
				Encoding:                       solana.EncodingBase64,
				Commitment:                     rpc.CommitmentConfirmed,
				MaxSupportedTransactionVersion: &maxVersion,
			},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to get transaction %s: %w", s.Signature, classify(err))
		}

		if t, ok := parseTransaction(address, tx, s.Signature); ok {
			transfers = append(transfers, t)
		}
	}

	return transfers, nil
}

// parseTransaction extracts the SOL movement for owner from a fetched transaction.
func parseTransaction(owner solana.PublicKey, tx *rpc.GetTransactionResult, signature solana.Signature) (model.Transfer, bool) {
	if tx == nil || tx.Meta == nil || tx.Transaction == nil {
		return model.Transfer{}, false
	}
	decoded, err := tx.Transaction.GetTransaction()
	if err != nil {
		return model.Transfer{}, false
	}

	t, ok := transferFromBalances(owner, decoded.Message.AccountKeys, tx.Meta.PreBalances, tx.Meta.PostBalances, tx.Meta.Fee)
	if !ok {
		return model.Transfer{}, false
	}

	t.TxID = signature.String()
	t.Slot = tx.Slot
	t.Timestamp = time.Now()
	if tx.BlockTime != nil {
		t.Timestamp = time.Unix(int64(*tx.BlockTime), 0)
	}
	t.Status = model.TransferSucceeded
	if tx.Meta.Err != nil {
		t.Status = model.TransferFailed
	}
	return t, true
}

// transferFromBalances separates the fee from owner's balance change.
// The fee payer is always account index 0.
func transferFromBalances(owner solana.PublicKey, keys []solana.PublicKey, pre, post []uint64, fee uint64) (model.Transfer, bool) {
	ownerIndex := -1
	for i, key := range keys {
		if key.Equals(owner) {
			ownerIndex = i
			break
		}
	}
	if ownerIndex < 0 || ownerIndex >= len(pre) || ownerIndex >= len(post) {
		return model.Transfer{}, false
	}

	delta := int64(post[ownerIndex]) - int64(pre[ownerIndex])
	isFeePayer := ownerIndex == 0
	if isFeePayer {
		delta += int64(fee)
	}

	// only the fee moved
	if delta == 0 {
		return model.Transfer{}, false
	}

	t := model.Transfer{}
	if delta > 0 {
		t.Direction = model.TransferIn
		t.Lamports = uint64(delta)
		for i, key := range keys {
			if i < len(pre) && i < len(post) && pre[i] > post[i] && !key.Equals(owner) {
				t.Counterparty = key.String()
				break
			}
		}
	} else {
		t.Direction = model.TransferOut
		t.Lamports = uint64(-delta)
		if isFeePayer {
			t.FeeLamports = fee
		}
		for i, key := range keys {
			if i < len(pre) && i < len(post) && post[i] > pre[i] && !key.Equals(owner) {
				t.Counterparty = key.String()
				break
			}
		}
	}
	return t, true
}

// classify maps an RPC failure onto the error classes callers discriminate on.
// RPC errors carry no stable codes for these cases, so the message is inspected.
func classify(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return fmt.Errorf("%w: %w", model.ErrNetwork, err)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "for rent"):
		// the recipient would end below the rent-exempt minimum; the payer's funds are untouched
		return fmt.Errorf("%w: %w", model.ErrLedgerRejected, err)
	case strings.Contains(msg, "insufficient funds"),
		strings.Contains(msg, "insufficient lamports"),
		strings.Contains(msg, "no record of a prior credit"):
		return fmt.Errorf("%w: %w", model.ErrInsufficientFunds, err)
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "too many requests"),
		strings.Contains(msg, "502"),
		strings.Contains(msg, "503"),
		strings.Contains(msg, "504"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "connection refused"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "eof"),
		strings.Contains(msg, "node is behind"),
		strings.Contains(msg, "blockhash not found"):
		return fmt.Errorf("%w: %w", model.ErrNetwork, err)
	default:
		return fmt.Errorf("%w: %w", model.ErrLedgerRejected, err)
	}
}

func isAlreadyProcessed(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "already been processed")
}
