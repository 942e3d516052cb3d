package handler

import (
	"context"

	"github.com/AlexZinkM/paylink/internal/signer"
)

// FundingWallet gives access to the service wallet that pays for links and direct sends.
type FundingWallet interface {
	Address() (string, error)
	Open() (*signer.LocalSigner, error)
}

// PriceSource quotes SOL in a fiat currency. It is optional: without it, fiat fields are omitted.
type PriceSource interface {
	SOLRate(ctx context.Context, currency string) (string, error)
}
