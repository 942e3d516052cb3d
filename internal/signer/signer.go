// Package signer holds the signing capability used to authorise ledger transfers
// and username registrations.
package signer

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/AlexZinkM/paylink/internal/model"
)

// Signer signs arbitrary messages on behalf of a single address.
type Signer interface {
	PublicKey() solana.PublicKey
	Sign(ctx context.Context, message []byte) (solana.Signature, error)
}

// LocalSigner signs with an in-memory private key.
type LocalSigner struct {
	key solana.PrivateKey
}

// NewLocalSigner copies key; the caller may wipe its own copy afterwards.
func NewLocalSigner(key solana.PrivateKey) (*LocalSigner, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, errors.New("invalid private key length")
	}
	return &LocalSigner{key: append(solana.PrivateKey{}, key...)}, nil
}

func (s *LocalSigner) PublicKey() solana.PublicKey {
	return s.key.PublicKey()
}

func (s *LocalSigner) Sign(_ context.Context, message []byte) (solana.Signature, error) {
	if len(s.key) == 0 {
		return solana.Signature{}, errors.New("signer has been wiped")
	}
	return s.key.Sign(message)
}

// Wipe zeroes the private key. The signer is unusable afterwards.
func (s *LocalSigner) Wipe() {
	clear(s.key)
	s.key = nil
}

// presigned replays a signature produced elsewhere, e.g. by a client-held wallet.
type presigned struct {
	address   solana.PublicKey
	signature solana.Signature
}

// Presigned returns a Signer that answers every request with signature.
// Verification of the signature against the actual message is left to the caller.
func Presigned(address, signature string) (Signer, error) {
	pub, err := solana.PublicKeyFromBase58(address)
	if err != nil {
		return nil, fmt.Errorf("invalid address: %w", model.ErrValidation)
	}
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return nil, fmt.Errorf("invalid signature encoding: %w", model.ErrValidation)
	}
	return &presigned{address: pub, signature: sig}, nil
}

func (p *presigned) PublicKey() solana.PublicKey {
	return p.address
}

func (p *presigned) Sign(context.Context, []byte) (solana.Signature, error) {
	return p.signature, nil
}

// Verify reports whether sig is a valid ed25519 signature of message by pub.
func Verify(pub solana.PublicKey, message []byte, sig solana.Signature) bool {
	return ed25519.Verify(pub[:], message, sig[:])
}

// SignTransaction signs tx's message with s, which must be the fee payer.
func SignTransaction(ctx context.Context, tx *solana.Transaction, s Signer) error {
	msg, err := tx.Message.MarshalBinary()
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	sig, err := s.Sign(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to sign transaction: %w", err)
	}
	if !Verify(s.PublicKey(), msg, sig) {
		return errors.New("signature does not verify against signer address")
	}

	tx.Signatures = []solana.Signature{sig}
	return nil
}
