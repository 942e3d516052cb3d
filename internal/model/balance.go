package model

// WalletBalanceResponse represents response for GET /wallet/balance
type WalletBalanceResponse struct {
	Address    string `json:"address"`
	SOL        string `json:"sol"`
	Rate       string `json:"rate,omitempty"`
	Currency   string `json:"currency,omitempty"`
	FiatAmount string `json:"fiatAmount,omitempty"`
}
