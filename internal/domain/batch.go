package domain

// SkipReason explains why one CSV row was excluded from a batch.
// Line is the 1-indexed line number in the uploaded file (the header is
// line 1). Field is empty when the reason is not tied to a single field.
type SkipReason struct {
	Line   int    `json:"line"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// BatchResult is the per-upload outcome report. It is built once per CSV
// upload and returned to the caller; nothing persists it.
type BatchResult struct {
	Created     int          `json:"created_count"`
	Skipped     int          `json:"skipped_count"`
	SkipReasons []SkipReason `json:"skip_reasons,omitempty"`
}

// AddSkip records one skipped row.
func (b *BatchResult) AddSkip(line int, field, reason string) {
	b.Skipped++
	b.SkipReasons = append(b.SkipReasons, SkipReason{Line: line, Field: field, Reason: reason})
}
