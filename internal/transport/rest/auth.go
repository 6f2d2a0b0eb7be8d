package rest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"go.uber.org/zap"
)

const defaultClockSkew = time.Minute

type contextKey string

const walletKey contextKey = "rest.wallet"

type AuthConfig struct {
	HMACSecret string
	Issuer     string
	ClockSkew  time.Duration
}

// Authenticator turns an HS256 bearer token into the caller's wallet. The
// wallet is read from the "wallet" claim, falling back to "sub".
type Authenticator struct {
	secret []byte
	opts   []jwt.ParserOption
	logger *zap.Logger
}

func NewAuthenticator(cfg AuthConfig, logger *zap.Logger) (*Authenticator, error) {
	secret := strings.TrimSpace(cfg.HMACSecret)
	if secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	skew := cfg.ClockSkew
	if skew <= 0 {
		skew = defaultClockSkew
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(skew),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &Authenticator{secret: []byte(secret), opts: opts, logger: logger}, nil
}

func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := extractBearer(r.Header.Get("Authorization"))
		if raw == "" {
			writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
			return
		}
		wallet, err := a.walletOf(raw)
		if err != nil {
			a.logger.Debug("token rejected", zap.Error(err))
			writeError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}
		ctx := context.WithValue(r.Context(), walletKey, wallet)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Authenticator) walletOf(raw string) (model.Wallet, error) {
	claims := jwt.MapClaims{}
	if _, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, a.opts...); err != nil {
		return "", err
	}

	subject, _ := claims["wallet"].(string)
	if subject == "" {
		var err error
		if subject, err = claims.GetSubject(); err != nil {
			return "", fmt.Errorf("read subject: %w", err)
		}
	}
	return model.ParseWallet(subject)
}

func extractBearer(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// walletFrom returns the authenticated caller. Handlers behind the
// authenticator can rely on it being set.
func walletFrom(ctx context.Context) model.Wallet {
	w, _ := ctx.Value(walletKey).(model.Wallet)
	return w
}
