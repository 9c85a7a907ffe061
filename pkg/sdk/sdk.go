package sdk

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
)

const CTJSON string = "application/json"

type SDK interface {
	// TrainRounds runs n federated rounds and checkpoints the result.
	//
	// example:
	//  result, _ := sdk.TrainRounds(5)
	//  fmt.Println(result)
	TrainRounds(n int) (TrainResult, error)

	// Evaluate scores the current global model on the held-out set.
	//
	// example:
	//  metrics, _ := sdk.Evaluate()
	//  fmt.Println(metrics)
	Evaluate() (Metrics, error)

	// Predict scores a single feature vector.
	//
	// example:
	//  p, _ := sdk.Predict([]float64{0.1, 0.2, 0.3})
	//  fmt.Println(p)
	Predict(features []float64) (Prediction, error)

	// History lists the committed round records.
	//
	// example:
	//  records, _ := sdk.History()
	//  fmt.Println(records)
	History() ([]RoundRecord, error)

	// Stats reports aggregate service counters.
	//
	// example:
	//  stats, _ := sdk.Stats()
	//  fmt.Println(stats)
	Stats() (Stats, error)

	// SaveModel persists the current global model as a new version.
	//
	// example:
	//  v, _ := sdk.SaveModel()
	//  fmt.Println(v)
	SaveModel() (ModelVersion, error)

	// ListModels lists saved model versions.
	//
	// example:
	//  versions, _ := sdk.ListModels()
	//  fmt.Println(versions)
	ListModels() ([]ModelVersion, error)

	// GetModel gets a model version by number.
	//
	// example:
	//  v, _ := sdk.GetModel(2)
	//  fmt.Println(v)
	GetModel(version int) (ModelVersion, error)

	// LatestModel gets the most recent model version.
	//
	// example:
	//  v, _ := sdk.LatestModel()
	//  fmt.Println(v)
	LatestModel() (ModelVersion, error)

	// Health checks service liveness.
	//
	// example:
	//  ok, _ := sdk.Health()
	//  fmt.Println(ok)
	Health() (Health, error)
}

type artemisSDK struct {
	coordinatorURL string
	client         *http.Client
}

type Config struct {
	CoordinatorURL  string
	TLSVerification bool
}

func NewSDK(cfg Config) SDK {
	return &artemisSDK{
		coordinatorURL: cfg.CoordinatorURL,
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					InsecureSkipVerify: !cfg.TLSVerification,
				},
			},
		},
	}
}

func (sdk *artemisSDK) processRequest(method, reqURL string, data []byte, expectedRespCode int) ([]byte, error) {
	req, err := http.NewRequest(method, reqURL, bytes.NewReader(data))
	if err != nil {
		return []byte{}, err
	}

	req.Header.Add("Content-Type", CTJSON)

	resp, err := sdk.client.Do(req)
	if err != nil {
		return []byte{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return []byte{}, err
	}

	if resp.StatusCode != expectedRespCode {
		return []byte{}, fmt.Errorf("unexpected response code: %d", resp.StatusCode)
	}

	return body, nil
}
