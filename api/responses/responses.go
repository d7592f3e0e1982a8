// Package responses writes the storefront's JSON envelopes: {"data": ...} on
// success and {"error": {...}} otherwise.
package responses

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
)

// RetryAfterDetail is the error detail key a throttle or an unavailable
// dependency sets to have a Retry-After header sent with the error.
const RetryAfterDetail = "retry_after_seconds"

// detailLogKeys are copied from error details into the log entry so a rejected
// cart line or aborted upload can be traced without logging the whole payload.
var detailLogKeys = []string{"room_id", "room_type", "upload_id"}

func WriteSuccess(w http.ResponseWriter, data any) {
	WriteSuccessStatus(w, http.StatusOK, data)
}

func WriteSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, types.SuccessEnvelope{Data: data})
}

// WriteError maps err to its HTTP status and envelope. Messages of internal
// errors never reach the guest; every other code carries its own message.
// logg may be nil.
func WriteError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	if err == nil {
		err = errors.New("unknown error")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}
	meta := pkgerrors.MetadataFor(typed.Code())
	details, _ := typed.Details().(map[string]any)

	apiErr := types.APIError{Code: string(typed.Code()), Message: meta.PublicMessage}
	if typed.Code() != pkgerrors.CodeInternal && typed.Message() != "" {
		apiErr.Message = typed.Message()
	}
	if meta.DetailsAllowed && typed.Details() != nil {
		apiErr.Details = typed.Details()
	}
	if secs, ok := retryAfter(details); ok && (meta.Retryable || typed.Code() == pkgerrors.CodeRateLimit) {
		w.Header().Set("Retry-After", strconv.Itoa(secs))
	}

	if logg != nil {
		fields := pkgerrors.Dump(err).Fields()
		for _, key := range detailLogKeys {
			if v, ok := details[key]; ok {
				fields[key] = v
			}
		}
		ctx = logg.WithFields(ctx, fields)
		if meta.HTTPStatus >= http.StatusInternalServerError {
			logg.Error(ctx, "request.error", err)
		} else {
			logg.Warn(ctx, "request.rejected")
		}
	}

	writeJSON(w, meta.HTTPStatus, types.ErrorEnvelope{Error: apiErr})
}

func retryAfter(details map[string]any) (int, bool) {
	switch v := details[RetryAfterDetail].(type) {
	case int:
		return v, v > 0
	case int64:
		return int(v), v > 0
	case float64:
		return int(v), v > 0
	}
	return 0, false
}

// writeJSON marks every envelope no-store: carts, checkout views and auth
// state belong to one browser session and must not be cached by a proxy.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf(`{"level":"error","msg":"failed to encode response","err":"%v"}`, err)
	}
}
