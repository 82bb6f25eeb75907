package aws

import "fmt"

// InventoryError wraps a failure to list the tagged fleet. The caller
// treats it as an empty fleet and ends the run quietly.
type InventoryError struct {
	TagKey string
	Region string
	Err    error
}

func (e *InventoryError) Error() string {
	return fmt.Sprintf("error listing instances tagged %q in %s: %v", e.TagKey, e.Region, e.Err)
}

func (e *InventoryError) Unwrap() error {
	return e.Err
}

// ControlCommandError wraps a failed start or stop call for one instance.
// It never aborts processing of the remaining instances.
type ControlCommandError struct {
	Op         string
	InstanceID string
	Err        error
}

func (e *ControlCommandError) Error() string {
	return fmt.Sprintf("error issuing %s for instance %s: %v", e.Op, e.InstanceID, e.Err)
}

func (e *ControlCommandError) Unwrap() error {
	return e.Err
}
