package api

import (
	"context"
	"errors"

	"github.com/go-kit/kit/endpoint"

	"github.com/artemis-health/artemis/coordinator"
	"github.com/artemis-health/artemis/pkg/api"
	pkgerrors "github.com/artemis-health/artemis/pkg/errors"
)

func runRoundsEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(runRoundsReq)
		if !ok {
			return roundsResponse{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return roundsResponse{}, errors.Join(api.ErrValidation, err)
		}

		records, err := svc.RunRounds(ctx, req.Rounds)
		if err != nil {
			return roundsResponse{}, err
		}

		// Persist the advanced global model so the training run survives
		// a restart.
		version, err := svc.SaveCheckpoint(ctx)
		if err != nil {
			return roundsResponse{}, err
		}

		return roundsResponse{
			Records: records,
			Version: version,
		}, nil
	}
}

func evaluateEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		if _, ok := request.(emptyReq); !ok {
			return evaluateResponse{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}

		metrics, err := svc.EvaluateCurrent(ctx)
		if err != nil {
			return evaluateResponse{}, err
		}

		return evaluateResponse{
			Metrics: metrics,
		}, nil
	}
}

func predictEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(predictReq)
		if !ok {
			return predictResponse{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return predictResponse{}, errors.Join(api.ErrValidation, err)
		}

		p, err := svc.Predict(ctx, req.Features)
		if err != nil {
			return predictResponse{}, err
		}

		return predictResponse{
			Prediction: p,
		}, nil
	}
}

func historyEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		if _, ok := request.(emptyReq); !ok {
			return historyResponse{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}

		records, err := svc.History(ctx)
		if err != nil {
			return historyResponse{}, err
		}

		return historyResponse{
			History: records,
		}, nil
	}
}

func statsEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		if _, ok := request.(emptyReq); !ok {
			return statsResponse{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}

		stats, err := svc.Stats(ctx)
		if err != nil {
			return statsResponse{}, err
		}

		return statsResponse{
			Stats: stats,
		}, nil
	}
}

func saveCheckpointEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		if _, ok := request.(emptyReq); !ok {
			return versionResponse{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}

		v, err := svc.SaveCheckpoint(ctx)
		if err != nil {
			return versionResponse{}, err
		}

		return versionResponse{
			Version: v,
			created: true,
		}, nil
	}
}

func listVersionsEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		if _, ok := request.(emptyReq); !ok {
			return listVersionsResponse{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}

		versions, err := svc.ListVersions(ctx)
		if err != nil {
			return listVersionsResponse{}, err
		}

		return listVersionsResponse{
			Versions: versions,
		}, nil
	}
}

func getVersionEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req, ok := request.(versionReq)
		if !ok {
			return versionResponse{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}
		if err := req.validate(); err != nil {
			return versionResponse{}, errors.Join(api.ErrValidation, err)
		}

		v, err := svc.GetVersion(ctx, req.version)
		if err != nil {
			return versionResponse{}, err
		}

		return versionResponse{
			Version: v,
		}, nil
	}
}

func latestVersionEndpoint(svc coordinator.Service) endpoint.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		if _, ok := request.(emptyReq); !ok {
			return versionResponse{}, errors.Join(api.ErrValidation, pkgerrors.ErrInvalidData)
		}

		v, err := svc.LatestVersion(ctx)
		if err != nil {
			return versionResponse{}, err
		}

		return versionResponse{
			Version: v,
		}, nil
	}
}
