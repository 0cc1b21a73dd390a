package model

import "strings"

// Status is the loading completion state of a load.
type Status string

// Load completion states.
const (
	StatusPending   Status = "PENDING"
	StatusCompleted Status = "COMPLETED"
)

// completedFlag is the literal the sheet uses to mark a finished loading.
const completedFlag = "SIM"

// ParseStatus maps a completion flag cell to a Status. Only "SIM", ignoring
// case and surrounding whitespace, means completed.
func ParseStatus(flag string) Status {
	if strings.ToUpper(strings.TrimSpace(flag)) == completedFlag {
		return StatusCompleted
	}
	return StatusPending
}

// IsCompleted reports whether the status is StatusCompleted.
func (s Status) IsCompleted() bool {
	return s == StatusCompleted
}
