package handler

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/AlexZinkM/paylink/burner"
	"github.com/AlexZinkM/paylink/directory"
	"github.com/AlexZinkM/paylink/internal/common"
	"github.com/AlexZinkM/paylink/internal/linkcodec"
	"github.com/AlexZinkM/paylink/internal/logger"
	"github.com/AlexZinkM/paylink/internal/model"
)

// LinkHandler serves payment link creation, inspection and claiming.
// Request bodies carry secrets; nothing from them is logged.
type LinkHandler struct {
	burners     *burner.Manager
	directory   *directory.Directory
	funding     FundingWallet
	prices      PriceSource
	currency    string
	linkBaseURL string
	spend       *rate.Limiter
	log         *logger.Logger
}

// LinkHandlerConfig groups the LinkHandler's non-service settings.
type LinkHandlerConfig struct {
	LinkBaseURL string
	Currency    string
}

func NewLinkHandler(
	burners *burner.Manager,
	dir *directory.Directory,
	funding FundingWallet,
	prices PriceSource,
	spend *rate.Limiter,
	cfg LinkHandlerConfig,
	log *logger.Logger,
) *LinkHandler {
	return &LinkHandler{
		burners:     burners,
		directory:   dir,
		funding:     funding,
		prices:      prices,
		currency:    cfg.Currency,
		linkBaseURL: cfg.LinkBaseURL,
		spend:       spend,
		log:         log.With("handler", "links"),
	}
}

// Create handles POST /links
// @Summary      Create payment link
// @Description  Generates a burner wallet, funds it from the service wallet and returns the claim link
// @Tags         links
// @Accept       json
// @Produce      json
// @Param        request  body      model.CreateLinkRequest  true  "Amount in SOL"
// @Success      200      {object}  model.CreateLinkResponse
// @Success      202      {object}  model.CreateLinkResponse  "Funding submitted, not yet confirmed"
// @Failure      400      {object}  model.ErrorResponse
// @Failure      402      {object}  model.ErrorResponse
// @Failure      429      {object}  model.ErrorResponse
// @Router       /links [post]
func (h *LinkHandler) Create(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, http.MethodPost) {
		return
	}

	var req model.CreateLinkRequest
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

	wallet, err := h.burners.Generate()
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	// The link exists before any funds move, so the secret survives every funding outcome.
	link, err := linkcodec.BuildURL(h.linkBaseURL, linkcodec.Encode(wallet.Mnemonic, amount))
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	// A client disconnect must not cut funding off between submission and confirmation.
	ctx := context.WithoutCancel(r.Context())
	resp := model.CreateLinkResponse{
		Link:    link,
		Address: wallet.Address,
		Amount:  common.LamportsToSOL(amount),
		Status:  model.LinkFunded,
	}

	txID, err := h.burners.Fund(ctx, sender, wallet.Address, amount)
	if err != nil {
		if txID == "" || !burner.Unconfirmed(err) {
			// nothing reached the ledger, so the request is safe to repeat
			writeError(w, h.log, err)
			return
		}

		resp.FundingTxID = txID
		if h.landed(ctx, wallet.Address, amount) {
			h.log.Warn("link funding confirmed by balance after error", "address", wallet.Address, "tx", txID, "error", err)
			writeJSON(w, http.StatusOK, resp)
			return
		}

		h.log.Warn("link funding unconfirmed", "address", wallet.Address, "tx", txID, "error", err)
		resp.Status = model.LinkCreated
		resp.Pending = true
		resp.Message = "funding was submitted but not confirmed; inspect this link instead of creating another"
		writeJSON(w, http.StatusAccepted, resp)
		return
	}

	resp.FundingTxID = txID
	writeJSON(w, http.StatusOK, resp)
}

// landed reports whether a burner already holds at least amount.
func (h *LinkHandler) landed(ctx context.Context, address string, amount uint64) bool {
	balance, err := h.burners.Balance(ctx, address)
	return err == nil && balance >= amount
}

// Inspect handles POST /links/inspect
// @Summary      Inspect payment link
// @Description  Decodes the link and reports nominal amount, live balance, status and fiat value
// @Tags         links
// @Accept       json
// @Produce      json
// @Param        request  body      model.LinkRequest  true  "Claim link"
// @Success      200      {object}  model.InspectLinkResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /links/inspect [post]
func (h *LinkHandler) Inspect(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, http.MethodPost) {
		return
	}

	var req model.LinkRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	mnemonic, nominal, err := decodeLink(req.Link)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	address, err := burner.AddressFromMnemonic(mnemonic)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	ctx := r.Context()
	balance, err := h.burners.Balance(ctx, address)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	status, err := h.burners.Status(ctx, address)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	resp := model.InspectLinkResponse{
		Address:       address,
		NominalAmount: common.LamportsToSOL(nominal),
		Balance:       common.LamportsToSOL(balance),
		Claimable:     common.LamportsToSOL(h.burners.Claimable(balance)),
		Status:        status,
	}
	if price, ok := h.quote(ctx); ok {
		resp.Currency = h.currency
		resp.FiatValue = common.FiatValue(resp.Claimable, price)
	}

	writeJSON(w, http.StatusOK, resp)
}

// Claim handles POST /links/claim
// @Summary      Claim payment link
// @Description  Sweeps the link's balance, minus the network fee, to an address or registered username
// @Tags         links
// @Accept       json
// @Produce      json
// @Param        request  body      model.ClaimRequest  true  "Claim link and recipient"
// @Success      200      {object}  model.ClaimResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      410      {object}  model.ErrorResponse
// @Router       /links/claim [post]
func (h *LinkHandler) Claim(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, http.MethodPost) {
		return
	}

	var req model.ClaimRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	mnemonic, _, err := decodeLink(req.Link)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	ctx := r.Context()
	recipient, err := h.directory.ResolveRecipient(ctx, req.Recipient)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	result, err := h.burners.Sweep(ctx, mnemonic, recipient)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, model.ClaimResponse{
		TxID:      result.TxID,
		Amount:    common.LamportsToSOL(result.Amount),
		Recipient: recipient,
	})
}

// quote is best effort: a price outage must not break link inspection.
func (h *LinkHandler) quote(ctx context.Context) (string, bool) {
	return quote(ctx, h.prices, h.currency, h.log)
}

func quote(ctx context.Context, prices PriceSource, currency string, log *logger.Logger) (string, bool) {
	if prices == nil || currency == "" {
		return "", false
	}
	price, err := prices.SOLRate(ctx, currency)
	if err != nil {
		log.Warn("price unavailable", "currency", currency, "error", err)
		return "", false
	}
	return price, true
}

func decodeLink(link string) (string, uint64, error) {
	fragment, err := linkcodec.FragmentFromURL(link)
	if err != nil {
		return "", 0, err
	}
	return linkcodec.Decode(fragment)
}

func parseAmount(sol string) (uint64, error) {
	lamports, err := common.SOLToLamports(sol)
	if err != nil {
		return 0, fmt.Errorf("invalid amount: %v: %w", err, model.ErrValidation)
	}
	return lamports, nil
}
