package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/AlexZinkM/paylink/internal/handler"
	"github.com/AlexZinkM/paylink/internal/logger"
)

const requestIDHeader = "X-Request-ID"

// Handlers groups the endpoint handlers the router mounts.
type Handlers struct {
	Links     *handler.LinkHandler
	Usernames *handler.UsernameHandler
	Wallet    *handler.WalletHandler
}

// SetupRouter sets up router with handlers
func SetupRouter(h Handlers, log *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Swagger UI
	mux.HandleFunc("/swagger/", httpSwagger.WrapHandler)

	// Payment links
	mux.HandleFunc("/links", h.Links.Create)
	mux.HandleFunc("/links/inspect", h.Links.Inspect)
	mux.HandleFunc("/links/claim", h.Links.Claim)

	// Username directory
	mux.HandleFunc("/usernames", h.Usernames.Register)
	mux.HandleFunc("/usernames/check", h.Usernames.Check)
	mux.HandleFunc("/usernames/resolve", h.Usernames.Resolve)
	mux.HandleFunc("/usernames/message", h.Usernames.Message)

	// Service wallet
	mux.HandleFunc("/wallet/generate", h.Wallet.Generate)
	mux.HandleFunc("/wallet/balance", h.Wallet.Balance)
	mux.HandleFunc("/pay", h.Wallet.Pay)

	return withRequestLog(mux, log)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestLog tags every request with an ID and logs its outcome.
// Only the path is logged: query strings and bodies may carry link secrets.
func withRequestLog(next http.Handler, log *logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		log.Info("request",
			"id", id,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
