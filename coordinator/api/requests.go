package api

import (
	pkgerrors "github.com/artemis-health/artemis/pkg/errors"
)

type runRoundsReq struct {
	Rounds int `json:"rounds"`
}

func (r *runRoundsReq) validate() error {
	if r.Rounds < 1 {
		return pkgerrors.ErrInvalidRounds
	}

	return nil
}

type predictReq struct {
	Features []float64 `json:"features"`
}

func (p *predictReq) validate() error {
	if len(p.Features) == 0 {
		return pkgerrors.ErrInvalidData
	}

	return nil
}

type versionReq struct {
	version int
}

func (v *versionReq) validate() error {
	if v.version < 1 {
		return pkgerrors.ErrInvalidData
	}

	return nil
}

type emptyReq struct{}
