package recorder

import "YieldBoard/internal/model"

// Recorder persists per-run history for monitoring.
type Recorder interface {
	RecordRun(summary *model.RunSummary) error
	Close() error
}
