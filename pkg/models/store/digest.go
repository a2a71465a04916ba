package store

import "time"

// DigestRun records one digest delivery attempt.
type DigestRun struct {
	Report     string
	AnchorDate time.Time
	Recipients int
	SentAt     time.Time
	Error      *string
}
