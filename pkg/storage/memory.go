package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/artemis-health/artemis/model"
	"github.com/artemis-health/artemis/round"
)

type inMemoryHistory struct {
	mu      sync.Mutex
	records []round.Record
}

func NewInMemoryHistory() HistoryStore {
	return &inMemoryHistory{}
}

func (s *inMemoryHistory) Append(_ context.Context, rec round.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) > 0 && rec.Round <= s.records[len(s.records)-1].Round {
		return fmt.Errorf("%w: got round %d after %d", ErrNonMonotonic, rec.Round, s.records[len(s.records)-1].Round)
	}

	rec.Train = rec.Train.Clone()
	rec.Test = rec.Test.Clone()
	s.records = append(s.records, rec)

	return nil
}

func (s *inMemoryHistory) List(_ context.Context) ([]round.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]round.Record, len(s.records))
	for i, rec := range s.records {
		rec.Train = rec.Train.Clone()
		rec.Test = rec.Test.Clone()
		out[i] = rec
	}

	return out, nil
}

type inMemoryCheckpoints struct {
	mu       sync.Mutex
	versions []model.Version
	params   map[int]model.ParameterSet
}

func NewInMemoryCheckpoints() CheckpointStore {
	return &inMemoryCheckpoints{
		params: make(map[int]model.ParameterSet),
	}
}

func (s *inMemoryCheckpoints) Save(_ context.Context, params model.ParameterSet) (model.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := model.Version{
		Version:   len(s.versions) + 1,
		CreatedAt: time.Now().UTC(),
	}
	v.Ref = fmt.Sprintf("mem://models/v%d", v.Version)
	s.versions = append(s.versions, v)
	s.params[v.Version] = params.Clone()

	return v, nil
}

func (s *inMemoryCheckpoints) Get(_ context.Context, version int) (model.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if version < 1 || version > len(s.versions) {
		return model.Version{}, fmt.Errorf("%w: version %d", ErrNotFound, version)
	}

	return s.versions[version-1], nil
}

func (s *inMemoryCheckpoints) Latest(_ context.Context) (model.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.versions) == 0 {
		return model.Version{}, ErrNoVersions
	}

	return s.versions[len(s.versions)-1], nil
}

func (s *inMemoryCheckpoints) List(_ context.Context) ([]model.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Version, len(s.versions))
	copy(out, s.versions)

	return out, nil
}

func (s *inMemoryCheckpoints) Load(_ context.Context, version int) (model.ParameterSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	params, ok := s.params[version]
	if !ok {
		return nil, fmt.Errorf("%w: version %d", ErrNotFound, version)
	}

	return params.Clone(), nil
}

type inMemoryPredictions struct {
	mu    sync.Mutex
	count uint64
}

func NewInMemoryPredictions() PredictionStore {
	return &inMemoryPredictions{}
}

func (s *inMemoryPredictions) Record(_ context.Context, _ model.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.count++

	return nil
}

func (s *inMemoryPredictions) Count(_ context.Context) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.count, nil
}
