package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mythribanda/ClaimWatch/internal/domain/model"
)

const serviceName = "claimwatch"

// Client-facing messages for server-side failures. Causes are only logged.
const (
	msgPredictFailed = "Server error while predicting fraud"
	msgListFailed    = "Server error while fetching claims"
	msgInvalidJSON   = "invalid JSON body"
	msgBodyTooLarge  = "request body too large"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, ErrorResponse{Message: msg})
}

// validationMessage returns the caller-facing message of an input defect
// anywhere in err's chain.
func validationMessage(err error) (string, bool) {
	var missing *model.MissingFieldError
	if errors.As(err, &missing) {
		return missing.Error(), true
	}
	var nan *model.NotANumberError
	if errors.As(err, &nan) {
		return nan.Error(), true
	}
	var date *model.InvalidDateError
	if errors.As(err, &date) {
		return date.Error(), true
	}
	var invalid *model.InvalidFieldError
	if errors.As(err, &invalid) {
		return invalid.Error(), true
	}
	return "", false
}
