package recorder

import "YieldBoard/internal/model"

// NoopRecorder discards all records. Used when no database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *model.RunSummary) error { return nil }

func (n *NoopRecorder) Close() error { return nil }
