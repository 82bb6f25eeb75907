package models

import (
	"encoding/json"
	"fmt"
)

// Recognized trigger targets
const (
	TargetEC2 = "ec2"
	TargetRDS = "rds"
	TargetAll = "all"
)

// TriggerEvent is the payload the external scheduler passes to an invocation
type TriggerEvent struct {
	Target string `json:"target"`
}

// NormalizedTarget returns the event target, defaulting to "all" when unset
func (e TriggerEvent) NormalizedTarget() string {
	if e.Target == "" {
		return TargetAll
	}
	return e.Target
}

// ValidTarget reports whether the event names a recognized target
func (e TriggerEvent) ValidTarget() bool {
	switch e.NormalizedTarget() {
	case TargetEC2, TargetRDS, TargetAll:
		return true
	}
	return false
}

// ParseTriggerEvent decodes a scheduler event payload
func ParseTriggerEvent(data []byte) (TriggerEvent, error) {
	var event TriggerEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return TriggerEvent{}, fmt.Errorf("error parsing trigger event: %w", err)
	}
	return event, nil
}
