package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	kithttp "github.com/go-kit/kit/transport/http"

	pkgerrors "github.com/artemis-health/artemis/pkg/errors"
	"github.com/artemis-health/artemis/pkg/storage"
)

const ContentType = "application/json"

var (
	// ErrValidation indicates a malformed request entity.
	ErrValidation = errors.New("failed to validate request")
	// ErrUnsupportedContentType indicates a request body that is not JSON.
	ErrUnsupportedContentType = errors.New("unsupported content type")
)

// Response is implemented by endpoint responses that control their own
// HTTP status code and headers.
type Response interface {
	Code() int
	Headers() map[string]string
	Empty() bool
}

func EncodeResponse(_ context.Context, w http.ResponseWriter, response interface{}) error {
	if ar, ok := response.(Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", ContentType)
	switch {
	case errors.Is(err, ErrValidation),
		errors.Is(err, ErrUnsupportedContentType),
		errors.Is(err, pkgerrors.ErrInvalidData),
		errors.Is(err, pkgerrors.ErrFeatureShape),
		errors.Is(err, pkgerrors.ErrInvalidRounds):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, pkgerrors.ErrNotFound),
		errors.Is(err, storage.ErrNotFound),
		errors.Is(err, storage.ErrNoVersions):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, pkgerrors.ErrNotInitialized):
		w.WriteHeader(http.StatusConflict)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if err := json.NewEncoder(w).Encode(map[string]string{"error": err.Error()}); err != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// LoggingErrorEncoder logs the error before handing it to enc.
func LoggingErrorEncoder(logger *slog.Logger, enc kithttp.ErrorEncoder) kithttp.ErrorEncoder {
	return func(ctx context.Context, err error, w http.ResponseWriter) {
		logger.Warn("Request failed", slog.Any("error", err))
		enc(ctx, err, w)
	}
}
