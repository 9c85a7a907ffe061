package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	kithttp "github.com/go-kit/kit/transport/http"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/artemis-health/artemis/coordinator"
	"github.com/artemis-health/artemis/pkg/api"
)

func MakeHandler(svc coordinator.Service, logger *slog.Logger, instanceID string) http.Handler {
	mux := chi.NewRouter()

	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(api.LoggingErrorEncoder(logger, api.EncodeError)),
	}

	mux.Post("/rounds", otelhttp.NewHandler(kithttp.NewServer(
		runRoundsEndpoint(svc),
		decodeRunRoundsReq,
		api.EncodeResponse,
		opts...,
	), "run-rounds").ServeHTTP)

	mux.Get("/evaluate", otelhttp.NewHandler(kithttp.NewServer(
		evaluateEndpoint(svc),
		decodeEmptyReq,
		api.EncodeResponse,
		opts...,
	), "evaluate").ServeHTTP)

	mux.Post("/predictions", otelhttp.NewHandler(kithttp.NewServer(
		predictEndpoint(svc),
		decodePredictReq,
		api.EncodeResponse,
		opts...,
	), "predict").ServeHTTP)

	mux.Get("/history", otelhttp.NewHandler(kithttp.NewServer(
		historyEndpoint(svc),
		decodeEmptyReq,
		api.EncodeResponse,
		opts...,
	), "history").ServeHTTP)

	mux.Get("/stats", otelhttp.NewHandler(kithttp.NewServer(
		statsEndpoint(svc),
		decodeEmptyReq,
		api.EncodeResponse,
		opts...,
	), "stats").ServeHTTP)

	mux.Route("/models", func(r chi.Router) {
		r.Post("/", otelhttp.NewHandler(kithttp.NewServer(
			saveCheckpointEndpoint(svc),
			decodeEmptyReq,
			api.EncodeResponse,
			opts...,
		), "save-checkpoint").ServeHTTP)
		r.Get("/", otelhttp.NewHandler(kithttp.NewServer(
			listVersionsEndpoint(svc),
			decodeEmptyReq,
			api.EncodeResponse,
			opts...,
		), "list-versions").ServeHTTP)
		r.Get("/latest", otelhttp.NewHandler(kithttp.NewServer(
			latestVersionEndpoint(svc),
			decodeEmptyReq,
			api.EncodeResponse,
			opts...,
		), "latest-version").ServeHTTP)
		r.Get("/{version}", otelhttp.NewHandler(kithttp.NewServer(
			getVersionEndpoint(svc),
			decodeVersionReq,
			api.EncodeResponse,
			opts...,
		), "get-version").ServeHTTP)
	})

	mux.Get("/health", api.Health("coordinator", instanceID))
	mux.Handle("/metrics", promhttp.Handler())

	return mux
}

func decodeRunRoundsReq(_ context.Context, r *http.Request) (any, error) {
	// An absent body trains a single round.
	req := runRoundsReq{Rounds: 1}
	if r.ContentLength == 0 {
		return req, nil
	}

	if !strings.Contains(r.Header.Get("Content-Type"), api.ContentType) {
		return nil, errors.Join(api.ErrValidation, api.ErrUnsupportedContentType)
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Join(err, api.ErrValidation)
	}

	return req, nil
}

func decodePredictReq(_ context.Context, r *http.Request) (any, error) {
	if !strings.Contains(r.Header.Get("Content-Type"), api.ContentType) {
		return nil, errors.Join(api.ErrValidation, api.ErrUnsupportedContentType)
	}

	var req predictReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, errors.Join(err, api.ErrValidation)
	}

	return req, nil
}

func decodeVersionReq(_ context.Context, r *http.Request) (any, error) {
	v, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil {
		return nil, errors.Join(api.ErrValidation, err)
	}

	return versionReq{
		version: v,
	}, nil
}

func decodeEmptyReq(_ context.Context, _ *http.Request) (any, error) {
	return emptyReq{}, nil
}
