// Package directory binds human-readable usernames to wallet addresses.
//
// A name is claimed by signing RegistrationMessage with the wallet that will
// own it. Names are unique and permanent: the first registration wins and there
// is no transfer or rename.
package directory

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/google/uuid"

	"github.com/AlexZinkM/paylink/internal/logger"
	"github.com/AlexZinkM/paylink/internal/model"
	"github.com/AlexZinkM/paylink/internal/retry"
	"github.com/AlexZinkM/paylink/internal/signer"
)

const (
	MinNameLength = 3
	MaxNameLength = 20
)

var namePattern = regexp.MustCompile(`^[a-z0-9]+$`)

// Registry is the append-only store behind the directory.
// Create must fail with model.ErrNameTaken when the name exists, atomically with the insert.
type Registry interface {
	Get(ctx context.Context, name string) (*model.UsernameRecord, error)
	Create(ctx context.Context, rec *model.UsernameRecord) error
}

// Directory registers and resolves usernames.
type Directory struct {
	registry Registry
	policy   retry.Policy
	log      *logger.Logger
}

func New(registry Registry, policy retry.Policy, log *logger.Logger) *Directory {
	return &Directory{
		registry: registry,
		policy:   policy,
		log:      log.With("component", "directory"),
	}
}

// Validate checks the username format. It is pure.
func Validate(name string) error {
	if len(name) < MinNameLength || len(name) > MaxNameLength {
		return fmt.Errorf("username must be %d-%d characters: %w", MinNameLength, MaxNameLength, model.ErrValidation)
	}
	if !namePattern.MatchString(name) {
		return fmt.Errorf("username may contain only lowercase letters and digits: %w", model.ErrValidation)
	}
	return nil
}

// RegistrationMessage is the exact text an owner signs to claim name for address.
func RegistrationMessage(name, address string) string {
	return fmt.Sprintf("paylink:register:%s:%s", name, address)
}

// CheckAvailability reports whether name is unregistered. It does not validate the format.
func (d *Directory) CheckAvailability(ctx context.Context, name string) (bool, error) {
	rec, err := d.get(ctx, name)
	if err != nil {
		return false, err
	}
	return rec == nil, nil
}

// Resolve returns the address bound to name. An unregistered name is not an error.
func (d *Directory) Resolve(ctx context.Context, name string) (string, bool, error) {
	rec, err := d.get(ctx, name)
	if err != nil {
		return "", false, err
	}
	if rec == nil {
		return "", false, nil
	}
	return rec.Address, true, nil
}

func (d *Directory) get(ctx context.Context, name string) (*model.UsernameRecord, error) {
	rec, err := retry.Do(ctx, d.policy, func(ctx context.Context) (*model.UsernameRecord, error) {
		return d.registry.Get(ctx, name)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}
	return rec, nil
}

// Register binds name to the signer's address and returns the registration signature.
// Registering the same name again with the same owner returns the original signature,
// which also covers a retry whose first attempt committed but lost its response.
func (d *Directory) Register(ctx context.Context, s signer.Signer, name string) (string, error) {
	if err := Validate(name); err != nil {
		return "", err
	}

	owner := s.PublicKey()
	msg := []byte(RegistrationMessage(name, owner.String()))

	sig, err := s.Sign(ctx, msg)
	if err != nil {
		return "", fmt.Errorf("failed to sign registration: %w", err)
	}
	if !signer.Verify(owner, msg, sig) {
		return "", fmt.Errorf("signature does not match address: %w", model.ErrValidation)
	}

	rec := &model.UsernameRecord{
		ID:           uuid.New(),
		Name:         name,
		Address:      owner.String(),
		Signature:    sig.String(),
		RegisteredAt: time.Now().UTC(),
	}

	_, err = retry.Do(ctx, d.policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, d.registry.Create(ctx, rec)
	})
	if err != nil {
		if !errors.Is(err, model.ErrNameTaken) {
			return "", fmt.Errorf("failed to register username: %w", err)
		}
		// ed25519 signatures are deterministic, so a matching signature means this owner already holds the name
		existing, getErr := d.get(ctx, name)
		if getErr != nil || existing == nil || existing.Signature != rec.Signature {
			return "", err
		}
		rec = existing
	}

	d.log.Info("username registered", "name", name, "address", rec.Address)
	return rec.Signature, nil
}

// ResolveRecipient turns "@name", a bare username or a base58 address into an address.
func (d *Directory) ResolveRecipient(ctx context.Context, recipient string) (string, error) {
	recipient = strings.TrimSpace(recipient)
	if recipient == "" {
		return "", fmt.Errorf("recipient is required: %w", model.ErrValidation)
	}

	name, isName := strings.CutPrefix(recipient, "@")
	if !isName {
		if _, err := solana.PublicKeyFromBase58(recipient); err == nil {
			return recipient, nil
		}
	}

	address, found, err := d.Resolve(ctx, name)
	if err != nil {
		return "", err
	}
	if !found {
		return "", fmt.Errorf("recipient %q not found: %w", recipient, model.ErrValidation)
	}
	return address, nil
}
