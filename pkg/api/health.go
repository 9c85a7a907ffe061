package api

import (
	"encoding/json"
	"net/http"
)

// Version is set at build time through ldflags.
var Version = "0.1.0"

type healthInfo struct {
	Status     string `json:"status"`
	Service    string `json:"service"`
	InstanceID string `json:"instance_id"`
	Version    string `json:"version"`
}

// Health returns a handler reporting service liveness.
func Health(service, instanceID string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		res := healthInfo{
			Status:     "pass",
			Service:    service,
			InstanceID: instanceID,
			Version:    Version,
		}
		w.Header().Set("Content-Type", "application/health+json")
		w.WriteHeader(http.StatusOK)
		if err := json.NewEncoder(w).Encode(res); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
