package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/eligibility"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/model"
	"github.com/goodnatureofminers/referral-ledger-backend/internal/referral/service/ledger"
	"go.uber.org/zap"
)

var errBadRequest = errors.New("bad request")

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code          string   `json:"code"`
	Message       string   `json:"message"`
	Reason        string   `json:"reason,omitempty"`
	TargetLevel   int      `json:"target_level,omitempty"`
	Needed        int      `json:"needed,omitempty"`
	Actual        int      `json:"actual,omitempty"`
	MissingFields []string `json:"missing_fields,omitempty"`
}

var errorStatuses = []struct {
	err    error
	status int
	code   string
}{
	{errBadRequest, http.StatusBadRequest, "bad_request"},
	{model.ErrInvalidWallet, http.StatusBadRequest, "invalid_wallet"},
	{model.ErrInvalidExternalID, http.StatusBadRequest, "invalid_external_id"},
	{model.ErrProfileFieldsRequired, http.StatusBadRequest, "profile_fields_required"},
	{model.ErrAccountNotFound, http.StatusNotFound, "account_not_found"},
	{model.ErrReferrerNotFound, http.StatusNotFound, "referrer_not_found"},
	{model.ErrAccountExists, http.StatusConflict, "account_exists"},
	{model.ErrReferrerNotRegistered, http.StatusConflict, "referrer_not_registered"},
	{model.ErrStructuralViolation, http.StatusConflict, "structural_violation"},
	{model.ErrAlreadyRegistered, http.StatusConflict, "already_registered"},
	{model.ErrNotRegistered, http.StatusConflict, "not_registered"},
	{model.ErrExternalIDReused, http.StatusConflict, "external_id_reused"},
	{model.ErrVerificationFailed, http.StatusUnprocessableEntity, "verification_failed"},
	{model.ErrTransientUnavailable, http.StatusServiceUnavailable, "settlement_unavailable"},
	{ledger.ErrReportingDisabled, http.StatusNotImplemented, "reporting_disabled"},
}

// writeServiceError maps ledger errors onto HTTP statuses. Anything unmapped
// is logged and reported as an internal error without details.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var ineligible *eligibility.IneligibleError
	if errors.As(err, &ineligible) {
		writeJSON(w, http.StatusUnprocessableEntity, errorBody{Error: errorDetail{
			Code:          "ineligible",
			Message:       ineligible.Error(),
			Reason:        string(ineligible.Reason),
			TargetLevel:   ineligible.TargetLevel,
			Needed:        ineligible.Needed,
			Actual:        ineligible.Actual,
			MissingFields: ineligible.MissingFields,
		}})
		return
	}
	for _, m := range errorStatuses {
		if errors.Is(err, m.err) {
			writeError(w, m.status, m.code, err.Error())
			return
		}
	}
	logger.Error("request failed", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal", http.StatusText(http.StatusInternalServerError))
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: errorDetail{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
