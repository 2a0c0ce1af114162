package helper

import "fmt"

// NewError wraps an error with the action that failed.
// The action should be a short lowercase phrase (e.g. "scan", "load entities sql").
func NewError(action string, err error) error {
	return fmt.Errorf("error in %v: %w", action, err)
}
