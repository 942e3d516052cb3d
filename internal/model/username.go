package model

import (
	"time"

	"github.com/google/uuid"
)

// UsernameRecord binds a human-readable name to a wallet address.
type UsernameRecord struct {
	ID           uuid.UUID
	Name         string
	Address      string
	Signature    string // base58 ed25519 signature over the registration message
	RegisteredAt time.Time
}

// RegisterRequest represents request for POST /usernames.
// Signature is the address owner's signature over the message from GET /usernames/message.
type RegisterRequest struct {
	Name      string `json:"name" binding:"required"`
	Address   string `json:"address" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

// RegisterResponse represents response for POST /usernames
type RegisterResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	TxID    string `json:"txId"`
}

// AvailabilityResponse represents response for GET /usernames/check
type AvailabilityResponse struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

// ResolveResponse represents response for GET /usernames/resolve
type ResolveResponse struct {
	Name    string `json:"name"`
	Address string `json:"address"`
}

// RegistrationMessageResponse represents response for GET /usernames/message
type RegistrationMessageResponse struct {
	Message string `json:"message"`
}
