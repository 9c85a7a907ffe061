package hospital

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/0x6flab/namegenerator"

	"github.com/artemis-health/artemis/model"
	"github.com/artemis-health/artemis/pkg/trainer"
)

var (
	ErrNotInitialized = errors.New("node not initialized for this round")
	ErrEmptyParams    = errors.New("empty global parameters")
)

var namegen = namegenerator.NewGenerator()

// Node is one federation participant: a private dataset plus the local
// training capability. Its raw data never leaves the node; only trained
// parameters and scalar metrics are reported back.
type Node struct {
	id      int
	name    string
	trainer trainer.LocalTrainer
	data    trainer.Dataset

	mu      sync.Mutex
	working model.ParameterSet
}

// New creates a node over a non-empty private dataset. Unnamed nodes are
// given a generated name.
func New(id int, name string, t trainer.LocalTrainer, data trainer.Dataset) (*Node, error) {
	if data.Len() == 0 {
		return nil, trainer.ErrEmptyDataset
	}
	if name == "" {
		name = namegen.Generate()
	}

	return &Node{
		id:      id,
		name:    name,
		trainer: t,
		data:    data,
	}, nil
}

func (n *Node) ID() int {
	return n.id
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) NumSamples() int {
	return n.data.Len()
}

// Validate checks the private dataset against the model's configured
// feature width.
func (n *Node) Validate(width int) error {
	if err := n.data.Validate(width); err != nil {
		return fmt.Errorf("hospital %q: %w", n.name, err)
	}

	return nil
}

// Initialize deep-copies the global parameters into a private working set
// for the coming round. Calling it again simply resets the working set, so
// repeated initialization is safe.
func (n *Node) Initialize(global model.ParameterSet) error {
	if len(global) == 0 {
		return ErrEmptyParams
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.working = global.Clone()

	return nil
}

// LocalTrain trains on the private dataset starting from the working copy
// installed by Initialize. The working copy is consumed: it is discarded
// whether training succeeds or fails, so each round needs a fresh
// Initialize call.
func (n *Node) LocalTrain(ctx context.Context) (model.ParameterSet, int, model.Metrics, error) {
	n.mu.Lock()
	working := n.working
	n.working = nil
	n.mu.Unlock()

	if working == nil {
		return nil, 0, nil, fmt.Errorf("%w: hospital %q", ErrNotInitialized, n.name)
	}

	params, samples, metrics, err := n.trainer.Train(ctx, working, n.data)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("hospital %q: %w", n.name, err)
	}

	return params, samples, metrics, nil
}
