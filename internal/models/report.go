package models

import "time"

type ReportStatus string

const (
	ReportPending ReportStatus = "pending"
	ReportKept    ReportStatus = "kept"
	ReportRemoved ReportStatus = "removed"
	ReportBlocked ReportStatus = "blocked"
)

// ReportAction is the admin decision on a report.
type ReportAction string

const (
	ActionKeep   ReportAction = "keep"
	ActionRemove ReportAction = "remove"
	ActionBlock  ReportAction = "block"
)

type Report struct {
	ID           string       `json:"id"`
	ObjectID     string       `json:"object_id"`
	ObjectName   string       `json:"object_name"`
	ReporterID   string       `json:"reporter_id"`
	ReporterName string       `json:"reporter_name"`
	Reason       string       `json:"reason"`
	Status       ReportStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
}

type Ack struct {
	ReportID   string
	ReceivedAt time.Time
}

type Stats struct {
	TotalObjects   int
	Lost           int
	Found          int
	Returned       int
	PendingReports int
	Users          int
}
