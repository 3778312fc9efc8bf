package simulator

import "fmt"

// ValidationError reports an out-of-range parameter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ConfigError reports a portfolio entry that lacks the fields it needs.
type ConfigError struct {
	Index  int
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("portfolio config: %s", e.Reason)
	}
	return fmt.Sprintf("portfolio entry %d: %s", e.Index, e.Reason)
}

// LengthMismatchError reports a portfolio entry whose path length differs
// from the first entry's.
type LengthMismatchError struct {
	Index int
	Want  int
	Got   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("portfolio entry %d: path length %d does not match %d", e.Index, e.Got, e.Want)
}

func invalid(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}
