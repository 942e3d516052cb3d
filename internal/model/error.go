package model

import "errors"

// Error classes shared by the link protocol and the username directory.
// Callers discriminate with errors.Is; message text is not part of the contract.
var (
	// ErrValidation indicates malformed input: a bad username, an amount outside
	// the configured range or an unusable address.
	ErrValidation = errors.New("validation error")

	// ErrDecode indicates a claim link that cannot be decoded.
	ErrDecode = errors.New("invalid claim link")

	// ErrNetwork indicates a transient ledger or registry failure. Retryable.
	ErrNetwork = errors.New("network error")

	// ErrInsufficientSenderBalance indicates the funding account cannot cover amount plus fee.
	ErrInsufficientSenderBalance = errors.New("insufficient sender balance")

	// ErrInsufficientFunds indicates a burner wallet that was never funded or is already swept.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrNameTaken indicates the username is already bound to an address.
	ErrNameTaken = errors.New("username already taken")

	// ErrLedgerRejected is the catch-all for submissions the ledger refused.
	ErrLedgerRejected = errors.New("ledger rejected transaction")
)

// ErrorResponse is the consistent JSON structure for all API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type errorClass struct {
	err     error
	code    string
	message string
}

// Order matters: the first class that matches wins.
var errorClasses = []errorClass{
	{ErrDecode, "INVALID_LINK", "invalid claim link"},
	{ErrValidation, "VALIDATION_ERROR", ""},
	{ErrInsufficientSenderBalance, "INSUFFICIENT_SENDER_BALANCE", "sender balance does not cover amount and network fee"},
	{ErrInsufficientFunds, "INSUFFICIENT_FUNDS", "nothing left to claim on this link"},
	{ErrNameTaken, "NAME_TAKEN", "this username is already taken"},
	{ErrNetwork, "NETWORK_ERROR", "network is unavailable, please try again"},
	{ErrLedgerRejected, "LEDGER_REJECTED", "transaction was rejected by the network"},
}

// ErrorCode returns a stable code for err, or "INTERNAL" if it is unclassified.
func ErrorCode(err error) string {
	for _, c := range errorClasses {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "INTERNAL"
}

// UserMessage returns a message safe to show to end users.
// Validation errors keep their detail since it only echoes the caller's own input rules.
func UserMessage(err error) string {
	for _, c := range errorClasses {
		if !errors.Is(err, c.err) {
			continue
		}
		if c.message == "" {
			return err.Error()
		}
		return c.message
	}
	return "internal error"
}

// NewErrorResponse builds the API error body for err.
func NewErrorResponse(err error) ErrorResponse {
	return ErrorResponse{
		Error: UserMessage(err),
		Code:  ErrorCode(err),
	}
}
