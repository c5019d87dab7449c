package models

import "time"

// Domain models matching the database schema in db/migrations/0001_init.sql

type Business struct {
	ID        int64      `json:"id" db:"id"`
	Label     string     `json:"label" db:"label"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

type User struct {
	ID           int64      `json:"id" db:"id"`
	BusinessID   int64      `json:"business_id" db:"business_id"`
	FirstName    string     `json:"first_name" db:"first_name"`
	LastName     string     `json:"last_name" db:"last_name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Job is a unit of work owned by a business. Notes and Contacts stay nil until
// explicitly loaded.
type Job struct {
	ID          int64        `json:"id" db:"id"`
	BusinessID  int64        `json:"business_id" db:"business_id"`
	Label       string       `json:"label" db:"label"`
	Description string       `json:"description" db:"description"`
	Status      JobStatus    `json:"status" db:"status"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time   `json:"deleted_at,omitempty" db:"deleted_at"`
	Notes       []JobNote    `json:"notes,omitempty" db:"-"`
	Contacts    []JobContact `json:"contacts,omitempty" db:"-"`
}

type JobContact struct {
	ID                  int64      `json:"id" db:"id"`
	JobID               int64      `json:"job_id" db:"job_id"`
	FirstName           string     `json:"first_name" db:"first_name"`
	LastName            string     `json:"last_name" db:"last_name"`
	ContactNumber       string     `json:"contact_number" db:"contact_number"`
	PreferredTimeToCall string     `json:"preferred_time_to_call" db:"preferred_time_to_call"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt           *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// JobNote is free text attached to a job. CreatedByUserID never changes after
// creation.
type JobNote struct {
	ID              int64      `json:"id" db:"id"`
	JobID           int64      `json:"job_id" db:"job_id"`
	CreatedByUserID int64      `json:"created_by_user_id" db:"created_by_user_id"`
	Note            string     `json:"note" db:"note"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
	Author          *User      `json:"author,omitempty" db:"-"`
}

// Auditable entity names stored in audits.auditable_type.
const (
	AuditableBusiness   = "business"
	AuditableUser       = "user"
	AuditableJob        = "job"
	AuditableJobContact = "job_contact"
	AuditableJobNote    = "job_note"
)

// Audit events.
const (
	AuditCreated = "created"
	AuditUpdated = "updated"
)

type AuditRecord struct {
	ID          int64          `json:"id" db:"id"`
	ActorUserID *int64         `json:"actor_user_id,omitempty" db:"actor_user_id"`
	Auditable   string         `json:"auditable_type" db:"auditable_type"`
	AuditableID int64          `json:"auditable_id" db:"auditable_id"`
	Event       string         `json:"event" db:"event"`
	OldValues   map[string]any `json:"old_values" db:"old_values"`
	NewValues   map[string]any `json:"new_values" db:"new_values"`
	RequestID   string         `json:"request_id,omitempty" db:"request_id"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}
