package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/finexpress/storefront/internal/domain/admin"
	"github.com/finexpress/storefront/internal/domain/order"
	"github.com/finexpress/storefront/internal/domain/product"
)

// maxBodySize caps JSON request bodies at 1 MiB.
const maxBodySize = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorBody is the uniform 4xx/5xx response shape.
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Success: false, Message: message})
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// respondDomainError maps domain errors onto HTTP responses. Anything
// unrecognized is logged and reported as a 500 without internal detail.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		productValidation *product.ValidationError
		adminValidation   *admin.ValidationError
		invalidQuantity   *order.InvalidQuantityError
		transition        *order.TransitionError
	)

	switch {
	case errors.As(err, &productValidation):
		writeError(w, http.StatusBadRequest, productValidation.Message)
	case errors.As(err, &adminValidation):
		writeError(w, http.StatusBadRequest, adminValidation.Message)
	case errors.As(err, &invalidQuantity):
		writeError(w, http.StatusBadRequest, invalidQuantity.Error())
	case errors.As(err, &transition):
		writeJSON(w, http.StatusBadRequest, transitionErrorBody(transition))
	case errors.Is(err, order.ErrUnknownStatus):
		writeError(w, http.StatusBadRequest, "unknown order status")
	case errors.Is(err, order.ErrSameStatus):
		writeError(w, http.StatusBadRequest, "order is already in the requested status")
	case errors.Is(err, order.ErrEmptyCart):
		writeError(w, http.StatusBadRequest, "cart is empty")
	case errors.Is(err, order.ErrMissingCustomer):
		writeError(w, http.StatusBadRequest, "customer name and email are required")
	case errors.Is(err, product.ErrNotFound):
		writeError(w, http.StatusNotFound, "product not found")
	case errors.Is(err, order.ErrNotFound):
		writeError(w, http.StatusNotFound, "order not found")
	case errors.Is(err, admin.ErrNotFound):
		writeError(w, http.StatusNotFound, "admin not found")
	case errors.Is(err, admin.ErrDuplicateAccount):
		writeError(w, http.StatusConflict, "admin with this username or email already exists")
	case errors.Is(err, admin.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, admin.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "not authorized")
	default:
		zctx.From(r.Context()).Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// transitionErrorBody extends the standard error shape with the current
// status and the single allowed next step so admin UIs can recover.
func transitionErrorBody(e *order.TransitionError) map[string]any {
	body := map[string]any{
		"success":       false,
		"message":       e.Error(),
		"currentStatus": string(e.From),
	}
	if e.Allowed != "" {
		body["allowedNext"] = string(e.Allowed)
	}
	return body
}
