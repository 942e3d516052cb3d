package model

import "time"

// CWTFile represents .cwt file structure
type CWTFile struct {
	Network    string `json:"network"`
	Address    string `json:"address"`
	QR         string `json:"QR"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	CipherText string `json:"cipherText"`
}

// WalletData represents decrypted wallet data
type WalletData struct {
	PrivateKey []byte `json:"privateKey"` // 64-byte ed25519 key (stored as base64 in JSON)
	CreatedAt  string `json:"createdAt"`
}

// BurnerWallet is an ephemeral wallet that ferries funds from a sender to a claimant.
// Mnemonic is the only secret; it must never be logged or persisted.
type BurnerWallet struct {
	Address   string
	Mnemonic  string
	CreatedAt time.Time
}
