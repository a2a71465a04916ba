package domain

import "fmt"

// SchemaError reports a source whose columns cannot be mapped onto its canonical schema.
type SchemaError struct {
	SourceType string
	Reason     string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error for source %q: %s", e.SourceType, e.Reason)
}

// ValidationError reports a report request that references unknown roles, periods or metrics.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
