package errors

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrInvalidData = errors.New("invalid data type")

	// ErrConfiguration covers construction-time failures: zero nodes,
	// dataset width disagreeing with the model input width, empty
	// held-out set. Surfaced before any round runs.
	ErrConfiguration = errors.New("invalid federation configuration")

	// ErrTraining and ErrEvaluation abort only the in-flight round. The
	// coordinator stays usable at the previous round number.
	ErrTraining   = errors.New("local training failed")
	ErrEvaluation = errors.New("evaluation failed")

	// ErrPersistence means the round record was not durably appended,
	// so the round is not committed.
	ErrPersistence = errors.New("persistence failed")

	ErrInvalidRounds  = errors.New("rounds must be a positive integer")
	ErrNotInitialized = errors.New("model not initialized")
	ErrFeatureShape   = errors.New("feature vector width mismatch")
)
