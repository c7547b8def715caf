package domain

import "time"

// ReportConfig is a named, saved report definition owned by one user:
// the selected export columns plus the filters and sort to re-run it with.
// SelectedColumns and Filters are stored as JSON in the database.
type ReportConfig struct {
	ID              int64             `json:"id"`
	UserID          string            `json:"user_id"`
	Name            string            `json:"name"`
	SelectedColumns []string          `json:"selected_columns"`
	Filters         map[string]string `json:"filters"`
	SortBy          string            `json:"sort_by"`
	SortOrder       string            `json:"sort_order"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// AuditEntry is one row of the record-change trail: who did what to which
// record, with the changed fields serialized by the audit service.
type AuditEntry struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"` // "create", "update", "delete"
	RecordID  int64     `json:"record_id"`
	Changes   string    `json:"changes,omitempty"` // JSON object of new values
	CreatedAt time.Time `json:"created_at"`
}
