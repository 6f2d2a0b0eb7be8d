package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"go.uber.org/zap"
)

const (
	defaultStatsPeriod = 30 * 24 * time.Hour
	maxEntriesLimit    = 500
	maxBodyBytes       = 1 << 16
)

type handler struct {
	ledger Ledger
	logger *zap.Logger
	now    func() time.Time
}

func (h *handler) levels(w http.ResponseWriter, r *http.Request) {
	defs, err := h.ledger.Levels(r.Context())
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	out := make([]levelResponse, 0, len(defs))
	for _, d := range defs {
		out = append(out, toLevel(d))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decode(w, r, &req) {
		return
	}
	referrer, err := model.ParseWallet(req.Referrer)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	account, err := h.ledger.RegisterProvisional(r.Context(), walletFrom(r.Context()), referrer)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, toAccount(*account))
}

func (h *handler) me(w http.ResponseWriter, r *http.Request) {
	account, err := h.ledger.Account(r.Context(), walletFrom(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccount(*account))
}

func (h *handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if !h.decode(w, r, &req) {
		return
	}
	account, err := h.ledger.UpdateProfile(r.Context(), walletFrom(r.Context()), model.Profile{
		Username: req.Username,
		Country:  req.Country,
		Phone:    req.Phone,
		Email:    req.Email,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toAccount(*account))
}

func (h *handler) registrationPayload(w http.ResponseWriter, r *http.Request) {
	payload, err := h.ledger.RequestRegistrationPayload(r.Context(), walletFrom(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *handler) confirmRegistration(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !h.decode(w, r, &req) {
		return
	}
	out, err := h.ledger.ConfirmRegistration(r.Context(), walletFrom(r.Context()), req.ExternalTransactionID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toOutcome(out))
}

func (h *handler) eligibility(w http.ResponseWriter, r *http.Request) {
	el, err := h.ledger.CheckEligibility(r.Context(), walletFrom(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	out := eligibilityResponse{Eligible: true, TargetLevel: el.TargetLevel}
	if el.Definition != nil {
		lvl := toLevel(*el.Definition)
		out.Level = &lvl
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) upgradePayload(w http.ResponseWriter, r *http.Request) {
	payload, err := h.ledger.RequestUpgradePayload(r.Context(), walletFrom(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (h *handler) confirmUpgrade(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if !h.decode(w, r, &req) {
		return
	}
	out, err := h.ledger.ConfirmUpgrade(r.Context(), walletFrom(r.Context()), req.ExternalTransactionID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toOutcome(out))
}

func (h *handler) uplines(w http.ResponseWriter, r *http.Request) {
	ups, err := h.ledger.Uplines(r.Context(), walletFrom(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	out := make([]publicAccount, 0, len(ups))
	for _, u := range ups {
		out = append(out, toPublic(u.Account, u.Depth))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) downlines(w http.ResponseWriter, r *http.Request) {
	maxDepth, err := intParam(r, "max_depth", 0)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	downs, err := h.ledger.Downlines(r.Context(), walletFrom(r.Context()), maxDepth)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	out := make([]publicAccount, 0, len(downs))
	for _, d := range downs {
		out = append(out, toPublic(d.Account, d.Depth))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) directReferrals(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.ledger.DirectReferrals(r.Context(), walletFrom(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	out := make([]publicAccount, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toPublic(a, 1))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) entries(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	if limit > maxEntriesLimit {
		limit = maxEntriesLimit
	}
	entries, err := h.ledger.Entries(r.Context(), walletFrom(r.Context()), limit)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, toEntries(entries))
}

func (h *handler) stats(w http.ResponseWriter, r *http.Request) {
	since, err := h.sinceParam(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	st, err := h.ledger.Stats(r.Context(), walletFrom(r.Context()), since)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, statsResponse{
		TeamSize:       st.TeamSize,
		NewMembers:     st.NewMembers,
		TotalEarnings:  money(st.TotalEarnings),
		PeriodEarnings: money(st.PeriodEarnings),
		Since:          since,
	})
}

func (h *handler) earningsByLevel(w http.ResponseWriter, r *http.Request) {
	since, err := h.sinceParam(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	rows, err := h.ledger.EarningsByLevel(r.Context(), walletFrom(r.Context()), since)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	out := make([]levelEarningsResponse, 0, len(rows))
	for _, e := range rows {
		out = append(out, levelEarningsResponse{Level: e.Level, Total: money(e.Total), Rewards: e.Rewards})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeServiceError(w, h.logger, fmt.Errorf("%w: decode body: %v", errBadRequest, err))
		return false
	}
	return true
}

// sinceParam reads an RFC 3339 "since" query value. It defaults to the last 30 days.
func (h *handler) sinceParam(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("since")
	if raw == "" {
		return h.now().Add(-defaultStatsPeriod).UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: since must be RFC 3339", errBadRequest)
	}
	return t.UTC(), nil
}

func intParam(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", errBadRequest, name)
	}
	return v, nil
}
