package models

import "time"

// SkippedRow explains why a CSV row was not imported. Row numbers are
// 1-based and count the header line.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type ImportResult struct {
	Message       string       `json:"message"`
	ImportedCount int          `json:"imported_count"`
	SkippedCount  int          `json:"skipped_count"`
	Skipped       []SkippedRow `json:"skipped"`
	UploadedAt    time.Time    `json:"uploaded_at"`
}
