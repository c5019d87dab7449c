// Package policy decides whether a user may perform an action on a job or
// job note. Rules are pure predicates over already loaded entities.
package policy

import (
	"errors"
	"fmt"

	"github.com/garnizeh/jobdesk/pkg/models"
)

const (
	JobView       = "job.view"
	JobUpdate     = "job.update"
	JobDelete     = "job.delete"
	JobNoteUpdate = "job_note.update"
)

// UnauthorizedMessage is the client facing text for a denied action.
const UnauthorizedMessage = "This action is unauthorized."

var ErrUnauthorized = errors.New(UnauthorizedMessage)

// Subject carries the entities an action is checked against. Note is only
// required for job_note actions.
type Subject struct {
	User *models.User
	Job  *models.Job
	Note *models.JobNote
}

type Rule func(s Subject) bool

func sameBusiness(s Subject) bool {
	return s.User != nil && s.Job != nil && s.User.BusinessID == s.Job.BusinessID
}

func noteBelongsToJob(s Subject) bool {
	return sameBusiness(s) && s.Note != nil && s.Note.JobID == s.Job.ID
}

var rules = map[string]Rule{
	JobView:       sameBusiness,
	JobUpdate:     sameBusiness,
	JobDelete:     sameBusiness,
	JobNoteUpdate: noteBelongsToJob,
}

// Allows reports whether action is permitted. Unknown actions are denied.
func Allows(action string, s Subject) bool {
	rule, ok := rules[action]
	if !ok {
		return false
	}
	return rule(s)
}

// Authorize returns an error wrapping ErrUnauthorized when action is denied.
func Authorize(action string, s Subject) error {
	if Allows(action, s) {
		return nil
	}
	return fmt.Errorf("%s: %w", action, ErrUnauthorized)
}
