package api

import (
	"net/http"
	"strconv"

	"github.com/artemis-health/artemis/coordinator"
	"github.com/artemis-health/artemis/model"
	"github.com/artemis-health/artemis/pkg/api"
	"github.com/artemis-health/artemis/round"
)

var (
	_ api.Response = (*roundsResponse)(nil)
	_ api.Response = (*evaluateResponse)(nil)
	_ api.Response = (*predictResponse)(nil)
	_ api.Response = (*historyResponse)(nil)
	_ api.Response = (*statsResponse)(nil)
	_ api.Response = (*versionResponse)(nil)
	_ api.Response = (*listVersionsResponse)(nil)
)

type roundsResponse struct {
	Records []round.Record `json:"records"`
	Version model.Version  `json:"model_version"`
}

func (r roundsResponse) Code() int {
	return http.StatusOK
}

func (r roundsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (r roundsResponse) Empty() bool {
	return false
}

type evaluateResponse struct {
	Metrics model.Metrics `json:"metrics"`
}

func (e evaluateResponse) Code() int {
	return http.StatusOK
}

func (e evaluateResponse) Headers() map[string]string {
	return map[string]string{}
}

func (e evaluateResponse) Empty() bool {
	return false
}

type predictResponse struct {
	model.Prediction
}

func (p predictResponse) Code() int {
	return http.StatusCreated
}

func (p predictResponse) Headers() map[string]string {
	return map[string]string{}
}

func (p predictResponse) Empty() bool {
	return false
}

type historyResponse struct {
	History []round.Record `json:"history"`
}

func (h historyResponse) Code() int {
	return http.StatusOK
}

func (h historyResponse) Headers() map[string]string {
	return map[string]string{}
}

func (h historyResponse) Empty() bool {
	return false
}

type statsResponse struct {
	coordinator.Stats
}

func (s statsResponse) Code() int {
	return http.StatusOK
}

func (s statsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (s statsResponse) Empty() bool {
	return false
}

type versionResponse struct {
	model.Version
	created bool
}

func (v versionResponse) Code() int {
	if v.created {
		return http.StatusCreated
	}

	return http.StatusOK
}

func (v versionResponse) Headers() map[string]string {
	if v.created {
		return map[string]string{
			"Location": "/models/" + strconv.Itoa(v.Version.Version),
		}
	}

	return map[string]string{}
}

func (v versionResponse) Empty() bool {
	return false
}

type listVersionsResponse struct {
	Versions []model.Version `json:"versions"`
}

func (l listVersionsResponse) Code() int {
	return http.StatusOK
}

func (l listVersionsResponse) Headers() map[string]string {
	return map[string]string{}
}

func (l listVersionsResponse) Empty() bool {
	return false
}
