package store

import "time"

// ImportBatch is one uploaded file stored in the embedded database.
type ImportBatch struct {
	ID         string
	SourceType string
	FileName   string
	Rows       int
	ImportedAt time.Time
}

type ImportedRecord struct {
	BatchID  string
	RowIndex int
	Payload  map[string]any
}
