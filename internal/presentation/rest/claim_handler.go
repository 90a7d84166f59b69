package rest

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/mythribanda/ClaimWatch/internal/application/dto"
	"github.com/mythribanda/ClaimWatch/internal/application/usecase"
	"github.com/mythribanda/ClaimWatch/internal/domain/model"
)

// ClaimHandler serves the claim intake and history endpoints.
type ClaimHandler struct {
	submitClaim *usecase.SubmitClaim
	listClaims  *usecase.ListClaims
	logger      *slog.Logger
}

// NewClaimHandler creates a new claim handler.
func NewClaimHandler(submitClaim *usecase.SubmitClaim, listClaims *usecase.ListClaims, logger *slog.Logger) *ClaimHandler {
	return &ClaimHandler{
		submitClaim: submitClaim,
		listClaims:  listClaims,
		logger:      logger,
	}
}

// Root answers the plain-text liveness banner.
func (h *ClaimHandler) Root(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "Fraud Detection Backend is running")
}

// Predict normalizes, scores and stores one claim and answers 201 with the
// verdict.
func (h *ClaimHandler) Predict(w http.ResponseWriter, r *http.Request) {
	claim, err := decodeClaim(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeMessage(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		writeMessage(w, http.StatusBadRequest, msgInvalidJSON)
		return
	}

	verdict, err := h.submitClaim.Execute(r.Context(), dto.SubmitClaimRequest{Claim: claim})
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			writeMessage(w, http.StatusBadRequest, msg)
			return
		}
		h.logger.ErrorContext(r.Context(), "Error in prediction route", slog.String("error", err.Error()))
		writeMessage(w, http.StatusInternalServerError, msgPredictFailed)
		return
	}

	writeJSON(w, http.StatusCreated, verdict)
}

// ListClaims returns the whole history, newest first.
func (h *ClaimHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	claims, err := h.listClaims.Execute(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Error fetching claims", slog.String("error", err.Error()))
		writeMessage(w, http.StatusInternalServerError, msgListFailed)
		return
	}

	writeJSON(w, http.StatusOK, claims)
}

// decodeClaim reads one JSON object. An empty body is an empty claim, so
// the normalizer reports the first missing field.
func decodeClaim(body io.Reader) (model.ClaimRequest, error) {
	var claim model.ClaimRequest
	dec := json.NewDecoder(body)
	// Numbers stay literal so out of range values reach the normalizer.
	dec.UseNumber()
	err := dec.Decode(&claim)
	switch {
	case errors.Is(err, io.EOF):
		return model.ClaimRequest{}, nil
	case err != nil:
		return nil, err
	case claim == nil:
		// Literal null.
		return nil, errors.New("claim body is null")
	}
	return claim, nil
}
