// Package rest serves the member-facing HTTP API of the referral ledger.
package rest

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type Config struct {
	Auth AuthConfig
	// ConfirmLimit bounds confirmation calls per wallet.
	ConfirmLimit RateLimit
}

// NewHandler builds the API router. Everything except the level table
// requires a bearer token.
func NewHandler(ledger Ledger, metrics Metrics, logger *zap.Logger, cfg Config) (http.Handler, error) {
	if ledger == nil {
		return nil, errors.New("ledger is required")
	}
	if metrics == nil {
		return nil, errors.New("http metrics is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	auth, err := NewAuthenticator(cfg.Auth, logger.Named("auth"))
	if err != nil {
		return nil, err
	}
	confirmLimiter := newWalletLimiter(cfg.ConfirmLimit)
	h := &handler{ledger: ledger, logger: logger, now: time.Now}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observe(logger, metrics))
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/levels", h.levels)

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Post("/accounts", h.register)
			r.Get("/accounts/me", h.me)
			r.Put("/accounts/me/profile", h.updateProfile)

			r.Post("/registration/payload", h.registrationPayload)
			r.Get("/upgrade/eligibility", h.eligibility)
			r.Post("/upgrade/payload", h.upgradePayload)
			r.Group(func(r chi.Router) {
				r.Use(confirmLimiter.Middleware)
				r.Post("/registration/confirm", h.confirmRegistration)
				r.Post("/upgrade/confirm", h.confirmUpgrade)
			})

			r.Get("/network/uplines", h.uplines)
			r.Get("/network/downlines", h.downlines)
			r.Get("/network/direct", h.directReferrals)

			r.Get("/ledger/entries", h.entries)
			r.Get("/stats", h.stats)
			r.Get("/reports/earnings-by-level", h.earningsByLevel)
		})
	})
	return r, nil
}
