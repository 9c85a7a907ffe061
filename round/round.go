package round

import (
	"time"

	"github.com/artemis-health/artemis/model"
)

// Record is the persisted outcome of one committed federated round.
// Records are write-once and appended in strictly increasing round order.
type Record struct {
	Round     int           `json:"round"`
	Train     model.Metrics `json:"train_metrics"`
	Test      model.Metrics `json:"test_metrics"`
	CreatedAt time.Time     `json:"created_at"`
}
