package models

import (
	"errors"
	"fmt"
)

// JobStatus is the lifecycle state of a job. Any valid status may follow any
// other; there is no transition graph.
type JobStatus int

const (
	StatusScheduled JobStatus = iota + 1
	StatusActive
	StatusInvoicing
	StatusToPriced
	StatusCompleted
)

var ErrInvalidJobStatus = errors.New("invalid job status")

var statusNames = map[JobStatus]string{
	StatusScheduled: "Scheduled",
	StatusActive:    "Active",
	StatusInvoicing: "Invoicing",
	StatusToPriced:  "ToPriced",
	StatusCompleted: "Completed",
}

// JobStatuses returns every status in declaration order.
func JobStatuses() []JobStatus {
	return []JobStatus{StatusScheduled, StatusActive, StatusInvoicing, StatusToPriced, StatusCompleted}
}

func (s JobStatus) Valid() bool {
	_, ok := statusNames[s]
	return ok
}

// String returns the enum member name.
func (s JobStatus) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("JobStatus(%d)", int(s))
}

// Display returns the human label shown to API clients.
func (s JobStatus) Display() string {
	if s == StatusToPriced {
		return "To Be Priced"
	}
	return s.String()
}

// ParseJobStatus converts a raw integer into a JobStatus.
func ParseJobStatus(v int) (JobStatus, error) {
	s := JobStatus(v)
	if !s.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidJobStatus, v)
	}
	return s, nil
}
