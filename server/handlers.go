package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"

	"github.com/ccdid/idwallet"
)

// OperationRequest carries the input document of an operation and the arguments that are not
// part of it. Which of the arguments are used depends on the endpoint.
type OperationRequest struct {
	Input     json.RawMessage `json:"input"`
	Signature string          `json:"signature,omitempty"`
	IdCredSec string          `json:"idCredSec,omitempty"`
	PrfKey    string          `json:"prfKey,omitempty"`
	Expiry    uint64          `json:"expiry,omitempty"`
}

type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code"`
	Field     string    `json:"field,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type handlers struct {
	wallet *idwallet.Wallet
	log    logrus.FieldLogger
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *handlers) pubInfo(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(req *OperationRequest) (string, error) {
		return h.wallet.PubInfoForIP(string(req.Input), req.IdCredSec, req.PrfKey)
	})
}

func (h *handlers) idRequest(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(req *OperationRequest) (string, error) {
		return h.wallet.CreateIDRequest(string(req.Input), req.Signature, req.IdCredSec, req.PrfKey)
	})
}

func (h *handlers) credential(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(req *OperationRequest) (string, error) {
		return h.wallet.GenerateUnsignedCredential(string(req.Input))
	})
}

func (h *handlers) deploymentInfo(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(req *OperationRequest) (string, error) {
		return h.wallet.GetCredentialDeploymentInfo(req.Signature, string(req.Input))
	})
}

func (h *handlers) deployment(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(req *OperationRequest) (string, error) {
		return h.wallet.GetCredentialDeploymentDetails(req.Signature, string(req.Input), req.Expiry)
	})
}

func (h *handlers) decrypt(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, func(req *OperationRequest) (string, error) {
		return h.wallet.DecryptAmounts(string(req.Input))
	})
}

// serve decodes the request, runs op and writes its output document or the error.
func (h *handlers) serve(w http.ResponseWriter, r *http.Request, op func(*OperationRequest) (string, error)) {
	var req OperationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "", err)
		return
	}
	if len(req.Input) == 0 {
		req.Input = json.RawMessage("{}")
	}

	out, err := op(&req)
	if err != nil {
		status, code, field := classify(err)
		h.log.WithFields(logrus.Fields{"path": r.URL.Path, "code": code}).Debug("Operation failed")
		respondError(w, status, code, field, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(out))
}

// classify maps the wallet's error kinds to a status, a stable code and the offending field.
func classify(err error) (int, string, string) {
	var (
		missing    *idwallet.MissingFieldError
		malformed  *idwallet.MalformedFieldError
		derivation *idwallet.KeyDerivationError
		ctxErr     *idwallet.ContextError
		threshold  *idwallet.ThresholdError
		preIdent   *idwallet.PreIdentityBuildError
		duplicate  *idwallet.DuplicateAttributeError
		unknown    *idwallet.UnknownAttributeError
		credential *idwallet.CredentialBuildError
		signature  *idwallet.SignatureDecodeError
		outOfRange *idwallet.AmountOutOfRangeError
	)
	switch {
	case errors.As(err, &missing):
		return http.StatusBadRequest, "missing_field", missing.Field
	case errors.As(err, &malformed):
		return http.StatusBadRequest, "malformed_field", malformed.Field
	case errors.As(err, &signature):
		return http.StatusBadRequest, "signature_decode", ""
	case errors.As(err, &derivation):
		return http.StatusBadRequest, "key_derivation", derivation.Field
	case errors.As(err, &ctxErr):
		return http.StatusUnprocessableEntity, "context", ""
	case errors.As(err, &threshold):
		return http.StatusUnprocessableEntity, "threshold", ""
	case errors.As(err, &duplicate):
		return http.StatusUnprocessableEntity, "duplicate_attribute", ""
	case errors.As(err, &unknown):
		return http.StatusUnprocessableEntity, "unknown_attribute", ""
	case errors.As(err, &preIdent):
		return http.StatusUnprocessableEntity, "pre_identity_build", ""
	case errors.As(err, &credential):
		return http.StatusUnprocessableEntity, "credential_build", ""
	case errors.As(err, &outOfRange):
		return http.StatusUnprocessableEntity, "amount_out_of_range", ""
	}
	return http.StatusInternalServerError, "internal", ""
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func respondError(w http.ResponseWriter, status int, code, field string, err error) {
	respondJSON(w, status, ErrorResponse{
		Error:     err.Error(),
		Code:      code,
		Field:     field,
		Timestamp: time.Now(),
	})
}
