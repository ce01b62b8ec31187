package dto

import "time"

// SchedulerHealth aggregates the counts the health endpoint reports
type SchedulerHealth struct {
	Status               string    `json:"status"`
	TotalContracts       int       `json:"total_contracts"`
	ActiveContracts      int       `json:"active_contracts"`
	OverdueContracts     int       `json:"overdue_contracts"`
	PendingNotifications int       `json:"pending_notifications"`
	CheckedAt            time.Time `json:"checked_at"`
}

// JobRunSummary reports one run of a scheduler job
type JobRunSummary struct {
	Job        string    `json:"job"`
	Processed  int       `json:"processed"`
	Failed     int       `json:"failed"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
