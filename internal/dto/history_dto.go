package dto

import "time"

// Attendance statuses reported by the history aggregator.
const (
	StatusPresent = "Present"
	StatusAbsent  = "Absent"
)

// HistoryEntry is a derived present/absent verdict for one student against one
// completed session. Date is the check-in time when present, otherwise the
// session's start time.
type HistoryEntry struct {
	SessionCode string    `json:"sessionCode"`
	Subject     string    `json:"subject"`
	Date        time.Time `json:"date"`
	Status      string    `json:"status"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
}

// HistoryResponse wraps the full report for one student, most recent first.
type HistoryResponse struct {
	Entries  []HistoryEntry `json:"entries"`
	CacheHit bool           `json:"cache_hit,omitempty"`
}
