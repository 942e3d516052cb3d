package handler

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/AlexZinkM/paylink/burner"
	"github.com/AlexZinkM/paylink/directory"
	"github.com/AlexZinkM/paylink/internal/common"
	"github.com/AlexZinkM/paylink/internal/logger"
	"github.com/AlexZinkM/paylink/internal/model"
	"github.com/AlexZinkM/paylink/internal/signer"
)

// WalletHandler serves the service wallet: creation, balance and direct payments.
type WalletHandler struct {
	filePath  string
	password  func() ([]byte, error)
	funding   FundingWallet
	burners   *burner.Manager
	directory *directory.Directory
	prices    PriceSource
	currency  string
	spend     *rate.Limiter
	log       *logger.Logger
}

// WalletHandlerConfig groups the WalletHandler's non-service settings.
type WalletHandlerConfig struct {
	FilePath string
	Password func() ([]byte, error)
	Currency string
}

func NewWalletHandler(
	burners *burner.Manager,
	dir *directory.Directory,
	funding FundingWallet,
	prices PriceSource,
	spend *rate.Limiter,
	cfg WalletHandlerConfig,
	log *logger.Logger,
) *WalletHandler {
	return &WalletHandler{
		filePath:  cfg.FilePath,
		password:  cfg.Password,
		funding:   funding,
		burners:   burners,
		directory: dir,
		prices:    prices,
		currency:  cfg.Currency,
		spend:     spend,
		log:       log.With("handler", "wallet"),
	}
}

// Generate handles POST /wallet/generate
// @Summary      Generate service wallet
// @Description  Generates the funding wallet and saves it to the encrypted .cwt file
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.GenerateResponse
// @Failure      409  {object}  model.ErrorResponse
// @Router       /wallet/generate [post]
func (h *WalletHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, http.MethodPost) {
		return
	}

	// Get password as []byte, use it, then zero it immediately
	passwordBytes, err := h.password()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
		return
	}
	defer clear(passwordBytes)

	address, err := signer.CreateWalletFile(h.filePath, passwordBytes)
	if err != nil {
		if signer.IsFileExistsError(err) {
			writeJSON(w, http.StatusConflict, model.ErrorResponse{Error: err.Error(), Code: "WALLET_EXISTS"})
			return
		}
		writeError(w, h.log, err)
		return
	}

	h.log.Info("service wallet generated", "address", address)
	writeJSON(w, http.StatusOK, model.GenerateResponse{
		Success: true,
		Message: "Wallet generated successfully",
		Address: address,
	})
}

// Balance handles GET /wallet/balance
// @Summary      Service wallet balance
// @Description  Gets the SOL balance of the funding wallet with its fiat value
// @Tags         wallet
// @Produce      json
// @Success      200  {object}  model.WalletBalanceResponse
// @Router       /wallet/balance [get]
func (h *WalletHandler) Balance(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, http.MethodGet) {
		return
	}

	address, err := h.funding.Address()
	if err != nil {
		writeError(w, h.log, fmt.Errorf("failed to read wallet address: %w", err))
		return
	}

	ctx := r.Context()
	lamports, err := h.burners.Balance(ctx, address)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	resp := model.WalletBalanceResponse{
		Address: address,
		SOL:     common.LamportsToSOL(lamports),
	}
	if price, ok := quote(ctx, h.prices, h.currency, h.log); ok {
		resp.Rate = price
		resp.Currency = h.currency
		resp.FiatAmount = common.FiatValue(resp.SOL, price)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Pay handles POST /pay
// @Summary      Send SOL
// @Description  Sends SOL from the service wallet to an address or registered username
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Param        request  body      model.PayRequest  true  "Recipient and amount in SOL"
// @Success      200      {object}  model.PayResponse
// @Success      202      {object}  model.PayResponse  "Payment submitted, not yet confirmed"
// @Failure      400      {object}  model.ErrorResponse
// @Failure      402      {object}  model.ErrorResponse
// @Failure      429      {object}  model.ErrorResponse
// @Router       /pay [post]
func (h *WalletHandler) Pay(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, http.MethodPost) {
		return
	}

	var req model.PayRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if err := h.burners.ValidateAmount(amount); err != nil {
		writeError(w, h.log, err)
		return
	}

	ctx := r.Context()
	recipient, err := h.directory.ResolveRecipient(ctx, req.Recipient)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	if !h.spend.Allow() {
		writeRateLimited(w)
		return
	}

	sender, err := h.funding.Open()
	if err != nil {
		writeError(w, h.log, fmt.Errorf("failed to open funding wallet: %w", err))
		return
	}
	defer sender.Wipe()

	// A client disconnect must not cut the payment off between submission and confirmation.
	txID, err := h.burners.Send(context.WithoutCancel(ctx), sender, recipient, amount)
	if err != nil {
		if txID == "" || !burner.Unconfirmed(err) {
			writeError(w, h.log, err)
			return
		}

		h.log.Warn("payment unconfirmed", "recipient", recipient, "tx", txID, "error", err)
		writeJSON(w, http.StatusAccepted, model.PayResponse{
			TxID:      txID,
			Recipient: recipient,
			Pending:   true,
			Message:   "payment was submitted but not confirmed; check the transaction before paying again",
		})
		return
	}

	writeJSON(w, http.StatusOK, model.PayResponse{TxID: txID, Recipient: recipient})
}
