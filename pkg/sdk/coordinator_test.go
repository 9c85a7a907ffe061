package sdk_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/artemis-health/artemis/pkg/sdk"
)

func TestRoundRecordJSONFieldNames(t *testing.T) {
	t.Parallel()

	jsonStr := `{
		"round": 3,
		"train_metrics": {"loss": 0.42, "accuracy": 0.8},
		"test_metrics": {"accuracy": 0.78, "auc": 0.91},
		"created_at": "2026-02-10T12:00:00Z"
	}`

	var rec sdk.RoundRecord
	if err := json.Unmarshal([]byte(jsonStr), &rec); err != nil {
		t.Fatalf("failed to unmarshal record: %v", err)
	}

	if rec.Round != 3 {
		t.Errorf("unexpected round: %d", rec.Round)
	}
	if rec.Train["loss"] != 0.42 {
		t.Errorf("unexpected train loss: %f", rec.Train["loss"])
	}
	if rec.Test["auc"] != 0.91 {
		t.Errorf("unexpected test auc: %f", rec.Test["auc"])
	}
}

func TestStatsJSONFieldNames(t *testing.T) {
	t.Parallel()

	jsonStr := `{"training_rounds": 5, "predictions_served": 17, "latest_model_version": 2}`

	var s sdk.Stats
	if err := json.Unmarshal([]byte(jsonStr), &s); err != nil {
		t.Fatalf("failed to unmarshal stats: %v", err)
	}

	if s.Rounds != 5 || s.PredictionsServed != 17 || s.LatestModelVersion != 2 {
		t.Errorf("unexpected stats: %+v", s)
	}
}

func TestTrainRounds(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/rounds" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}

		var req map[string]int
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req["rounds"] != 2 {
			t.Errorf("unexpected round count: %d", req["rounds"])
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"records": [{"round": 1}, {"round": 2}],
			"model_version": {"version": 1, "ref": "mem://models/v1"}
		}`))
	}))
	defer srv.Close()

	s := sdk.NewSDK(sdk.Config{CoordinatorURL: srv.URL})

	res, err := s.TrainRounds(2)
	if err != nil {
		t.Fatalf("TrainRounds failed: %v", err)
	}
	if len(res.Records) != 2 {
		t.Errorf("expected 2 records, got %d", len(res.Records))
	}
	if res.Version.Version != 1 {
		t.Errorf("unexpected model version: %d", res.Version.Version)
	}
}

func TestPredictErrorOnUnexpectedCode(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	s := sdk.NewSDK(sdk.Config{CoordinatorURL: srv.URL})

	if _, err := s.Predict([]float64{1, 2}); err == nil {
		t.Error("expected error for non-201 response")
	}
}
