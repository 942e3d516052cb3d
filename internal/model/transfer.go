package model

import "time"

// TransferDirection tells whether lamports left or reached the watched address.
type TransferDirection string

const (
	TransferIn  TransferDirection = "IN"
	TransferOut TransferDirection = "OUT"
)

// Transfer is a single SOL movement touching an address.
type Transfer struct {
	TxID         string
	Direction    TransferDirection
	Counterparty string
	Lamports     uint64
	FeeLamports  uint64 // fee paid by the watched address, zero for incoming transfers
	Timestamp    time.Time
	Slot         uint64
	Status       TransferStatus
}

// TransferStatus is the on-chain outcome of a transfer.
type TransferStatus string

const (
	TransferSucceeded TransferStatus = "success"
	TransferFailed    TransferStatus = "failed"
)

// LinkStatus is the observable state of a payment link.
type LinkStatus string

const (
	LinkCreated LinkStatus = "CREATED"
	LinkFunded  LinkStatus = "FUNDED"
	LinkClaimed LinkStatus = "CLAIMED"
)
