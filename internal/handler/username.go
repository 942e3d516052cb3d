package handler

import (
	"fmt"
	"net/http"

	"github.com/AlexZinkM/paylink/burner"
	"github.com/AlexZinkM/paylink/directory"
	"github.com/AlexZinkM/paylink/internal/logger"
	"github.com/AlexZinkM/paylink/internal/model"
	"github.com/AlexZinkM/paylink/internal/signer"
)

// UsernameHandler serves the username directory.
type UsernameHandler struct {
	directory *directory.Directory
	log       *logger.Logger
}

func NewUsernameHandler(dir *directory.Directory, log *logger.Logger) *UsernameHandler {
	return &UsernameHandler{
		directory: dir,
		log:       log.With("handler", "usernames"),
	}
}

// Check handles GET /usernames/check
// @Summary      Check username availability
// @Tags         usernames
// @Produce      json
// @Param        name  query     string  true  "Username"
// @Success      200   {object}  model.AvailabilityResponse
// @Failure      400   {object}  model.ErrorResponse
// @Router       /usernames/check [get]
func (h *UsernameHandler) Check(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, http.MethodGet) {
		return
	}

	name := r.URL.Query().Get("name")
	if err := directory.Validate(name); err != nil {
		writeError(w, h.log, err)
		return
	}

	available, err := h.directory.CheckAvailability(r.Context(), name)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, model.AvailabilityResponse{Name: name, Available: available})
}

// Resolve handles GET /usernames/resolve
// @Summary      Resolve username
// @Tags         usernames
// @Produce      json
// @Param        name  query     string  true  "Username"
// @Success      200   {object}  model.ResolveResponse
// @Failure      404   {object}  model.ErrorResponse
// @Router       /usernames/resolve [get]
func (h *UsernameHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, http.MethodGet) {
		return
	}

	name := r.URL.Query().Get("name")
	address, found, err := h.directory.Resolve(r.Context(), name)
	if err != nil {
		writeError(w, h.log, err)
		return
	}
	if !found {
		writeNotFound(w, "username not found")
		return
	}

	writeJSON(w, http.StatusOK, model.ResolveResponse{Name: name, Address: address})
}

// Message handles GET /usernames/message
// @Summary      Registration message
// @Description  Returns the exact text the address owner must sign to register the name
// @Tags         usernames
// @Produce      json
// @Param        name     query     string  true  "Username"
// @Param        address  query     string  true  "Owner address"
// @Success      200      {object}  model.RegistrationMessageResponse
// @Failure      400      {object}  model.ErrorResponse
// @Router       /usernames/message [get]
func (h *UsernameHandler) Message(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	name, address := q.Get("name"), q.Get("address")
	if err := directory.Validate(name); err != nil {
		writeError(w, h.log, err)
		return
	}
	if !burner.IsAddress(address) {
		writeError(w, h.log, fmt.Errorf("invalid Solana address: %w", model.ErrValidation))
		return
	}

	writeJSON(w, http.StatusOK, model.RegistrationMessageResponse{
		Message: directory.RegistrationMessage(name, address),
	})
}

// Register handles POST /usernames
// @Summary      Register username
// @Description  Binds a name to the address whose owner signed the registration message
// @Tags         usernames
// @Accept       json
// @Produce      json
// @Param        request  body      model.RegisterRequest  true  "Name, address and signature"
// @Success      200      {object}  model.RegisterResponse
// @Failure      400      {object}  model.ErrorResponse
// @Failure      409      {object}  model.ErrorResponse
// @Router       /usernames [post]
func (h *UsernameHandler) Register(w http.ResponseWriter, r *http.Request) {
	if methodNotAllowed(w, r, http.MethodPost) {
		return
	}

	var req model.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, h.log, err)
		return
	}

	owner, err := signer.Presigned(req.Address, req.Signature)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	txID, err := h.directory.Register(r.Context(), owner, req.Name)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, model.RegisterResponse{
		Name:    req.Name,
		Address: owner.PublicKey().String(),
		TxID:    txID,
	})
}
