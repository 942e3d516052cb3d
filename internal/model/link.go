package model

// CreateLinkRequest represents request for POST /links
type CreateLinkRequest struct {
	Amount string `json:"amount" binding:"required"` // SOL, decimal string
}

// CreateLinkResponse represents response for POST /links.
// Link carries the secret in its fragment; it is returned once and never stored.
type CreateLinkResponse struct {
	Link        string     `json:"link"`
	Address     string     `json:"address"`
	Amount      string     `json:"amount"`
	FundingTxID string     `json:"fundingTxId"`
	Status      LinkStatus `json:"status"`
	Pending     bool       `json:"pending,omitempty"` // funding submitted but not confirmed
	Message     string     `json:"message,omitempty"`
}

// LinkRequest carries a claim link (full URL, "#fragment" or bare fragment).
type LinkRequest struct {
	Link string `json:"link" binding:"required"`
}

// InspectLinkResponse represents response for POST /links/inspect
type InspectLinkResponse struct {
	Address       string     `json:"address"`
	NominalAmount string     `json:"nominalAmount"`
	Balance       string     `json:"balance"`
	Claimable     string     `json:"claimable"`
	Status        LinkStatus `json:"status"`
	Currency      string     `json:"currency,omitempty"`
	FiatValue     string     `json:"fiatValue,omitempty"`
}

// ClaimRequest represents request for POST /links/claim.
// Recipient is a base58 address or a registered username ("@alice" or "alice").
type ClaimRequest struct {
	Link      string `json:"link" binding:"required"`
	Recipient string `json:"recipient" binding:"required"`
}

// SweepResult is produced once per successful sweep.
type SweepResult struct {
	TxID   string `json:"txId"`
	Amount uint64 `json:"lamports"`
}

// ClaimResponse represents response for POST /links/claim
type ClaimResponse struct {
	TxID      string `json:"txId"`
	Amount    string `json:"amount"`
	Recipient string `json:"recipient"`
}

// PayRequest represents request for POST /pay
type PayRequest struct {
	Recipient string `json:"recipient" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
}

// PayResponse represents response for POST /pay
type PayResponse struct {
	TxID      string `json:"txId"`
	Recipient string `json:"recipient"`
	Pending   bool   `json:"pending,omitempty"` // submitted but not confirmed
	Message   string `json:"message,omitempty"`
}
