package model

import (
	"errors"
	"strings"
)

// ErrInvalidStatus is returned when storing a status outside AllStatuses.
var ErrInvalidStatus = errors.New("invalid course status")

// Status is a student's progress on a single course.
type Status string

const (
	StatusNone       Status = "none"
	StatusPlanned    Status = "planned"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// AllStatuses lists statuses in cycle order.
var AllStatuses = []Status{StatusNone, StatusPlanned, StatusInProgress, StatusCompleted}

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusNone, StatusPlanned, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Next returns the status that follows s in the cycle none → planned →
// in-progress → completed → none.
func (s Status) Next() Status {
	for i, st := range AllStatuses {
		if st == s {
			return AllStatuses[(i+1)%len(AllStatuses)]
		}
	}
	return StatusPlanned
}

// ParseStatus accepts the canonical values plus a few spellings people type
// on the command line ("in_progress", "inprogress", "done", "").
func ParseStatus(raw string) (Status, bool) {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "", "none":
		return StatusNone, true
	case "planned", "plan":
		return StatusPlanned, true
	case "in-progress", "in_progress", "inprogress", "active":
		return StatusInProgress, true
	case "completed", "complete", "done":
		return StatusCompleted, true
	}
	return Status(s), false
}
