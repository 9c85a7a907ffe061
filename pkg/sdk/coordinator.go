package sdk

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"
)

const (
	roundsEndpoint      = "/rounds"
	evaluateEndpoint    = "/evaluate"
	predictionsEndpoint = "/predictions"
	historyEndpoint     = "/history"
	statsEndpoint       = "/stats"
	modelsEndpoint      = "/models"
	healthEndpoint      = "/health"
)

type Metrics map[string]float64

type RoundRecord struct {
	Round     int       `json:"round"`
	Train     Metrics   `json:"train_metrics"`
	Test      Metrics   `json:"test_metrics"`
	CreatedAt time.Time `json:"created_at"`
}

type ModelVersion struct {
	Version   int       `json:"version"`
	Ref       string    `json:"ref"`
	CreatedAt time.Time `json:"created_at"`
}

type TrainResult struct {
	Records []RoundRecord `json:"records"`
	Version ModelVersion  `json:"model_version"`
}

type Prediction struct {
	ID           string    `json:"id"`
	RiskScore    float64   `json:"risk_score"`
	RiskCategory string    `json:"risk_category"`
	CreatedAt    time.Time `json:"created_at"`
}

type Stats struct {
	Rounds             int    `json:"training_rounds"`
	PredictionsServed  uint64 `json:"predictions_served"`
	LatestModelVersion int    `json:"latest_model_version"`
}

type Health struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	InstanceID string `json:"instance_id"`
	Version    string `json:"version"`
}

func (sdk *artemisSDK) TrainRounds(n int) (TrainResult, error) {
	data, err := json.Marshal(map[string]int{"rounds": n})
	if err != nil {
		return TrainResult{}, err
	}

	url := sdk.coordinatorURL + roundsEndpoint

	body, err := sdk.processRequest(http.MethodPost, url, data, http.StatusOK)
	if err != nil {
		return TrainResult{}, err
	}

	var res TrainResult
	if err := json.Unmarshal(body, &res); err != nil {
		return TrainResult{}, err
	}

	return res, nil
}

func (sdk *artemisSDK) Evaluate() (Metrics, error) {
	url := sdk.coordinatorURL + evaluateEndpoint

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return Metrics{}, err
	}

	var res struct {
		Metrics Metrics `json:"metrics"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return Metrics{}, err
	}

	return res.Metrics, nil
}

func (sdk *artemisSDK) Predict(features []float64) (Prediction, error) {
	data, err := json.Marshal(map[string][]float64{"features": features})
	if err != nil {
		return Prediction{}, err
	}

	url := sdk.coordinatorURL + predictionsEndpoint

	body, err := sdk.processRequest(http.MethodPost, url, data, http.StatusCreated)
	if err != nil {
		return Prediction{}, err
	}

	var p Prediction
	if err := json.Unmarshal(body, &p); err != nil {
		return Prediction{}, err
	}

	return p, nil
}

func (sdk *artemisSDK) History() ([]RoundRecord, error) {
	url := sdk.coordinatorURL + historyEndpoint

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var res struct {
		History []RoundRecord `json:"history"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, err
	}

	return res.History, nil
}

func (sdk *artemisSDK) Stats() (Stats, error) {
	url := sdk.coordinatorURL + statsEndpoint

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return Stats{}, err
	}

	var s Stats
	if err := json.Unmarshal(body, &s); err != nil {
		return Stats{}, err
	}

	return s, nil
}

func (sdk *artemisSDK) SaveModel() (ModelVersion, error) {
	url := sdk.coordinatorURL + modelsEndpoint

	body, err := sdk.processRequest(http.MethodPost, url, nil, http.StatusCreated)
	if err != nil {
		return ModelVersion{}, err
	}

	var v ModelVersion
	if err := json.Unmarshal(body, &v); err != nil {
		return ModelVersion{}, err
	}

	return v, nil
}

func (sdk *artemisSDK) ListModels() ([]ModelVersion, error) {
	url := sdk.coordinatorURL + modelsEndpoint

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return nil, err
	}

	var res struct {
		Versions []ModelVersion `json:"versions"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, err
	}

	return res.Versions, nil
}

func (sdk *artemisSDK) GetModel(version int) (ModelVersion, error) {
	url := sdk.coordinatorURL + modelsEndpoint + "/" + strconv.Itoa(version)

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return ModelVersion{}, err
	}

	var v ModelVersion
	if err := json.Unmarshal(body, &v); err != nil {
		return ModelVersion{}, err
	}

	return v, nil
}

func (sdk *artemisSDK) LatestModel() (ModelVersion, error) {
	url := sdk.coordinatorURL + modelsEndpoint + "/latest"

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return ModelVersion{}, err
	}

	var v ModelVersion
	if err := json.Unmarshal(body, &v); err != nil {
		return ModelVersion{}, err
	}

	return v, nil
}

func (sdk *artemisSDK) Health() (Health, error) {
	url := sdk.coordinatorURL + healthEndpoint

	body, err := sdk.processRequest(http.MethodGet, url, nil, http.StatusOK)
	if err != nil {
		return Health{}, err
	}

	var h Health
	if err := json.Unmarshal(body, &h); err != nil {
		return Health{}, err
	}

	return h, nil
}
