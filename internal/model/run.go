package model

import "time"

// SchedulePolicy describes the fixed update cadence shown to dashboard users.
type SchedulePolicy struct {
	Days        string `json:"days"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

// ScheduleStamp is the shape of last_update.json. Overwritten every run.
type ScheduleStamp struct {
	LastUpdate          time.Time      `json:"lastUpdate"`
	AutoUpdateEnabled   bool           `json:"autoUpdateEnabled"`
	NextScheduledUpdate time.Time      `json:"nextScheduledUpdate"`
	Schedule            SchedulePolicy `json:"schedule"`
}

// RunSummary collects per-run statistics for the recorder and notifier.
type RunSummary struct {
	Source         string
	StartedAt      time.Time
	Duration       time.Duration
	ReitsFetched   int
	ReitsTotal     int
	ReitsProcessed int
	EtfsFetched    int
	EtfsTotal      int
	EtfsProcessed  int
	NextUpdate     time.Time
}
