package model

import "time"

// Package model contains the record-store domain models.
// They carry no database tags and are shared across layers.

// Group is a membership group mirrored from the directory.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	DN        string    `json:"dn"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// User is a person record that group memberships point at.
type User struct {
	ID        string    `json:"id"`
	UserName  string    `json:"user_name"`
	DN        string    `json:"dn"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// Sync run statuses.
const (
	SyncSucceeded = "succeeded"
	SyncFailed    = "failed"
)

// SyncRun records one reconciliation of a group.
type SyncRun struct {
	ID         string    `json:"id"`
	GroupID    string    `json:"group_id"`
	GroupName  string    `json:"group_name"`
	Status     string    `json:"status"`
	Recursive  bool      `json:"recursive"`
	DryRun     bool      `json:"dry_run"`
	Added      int       `json:"added"`
	Removed    int       `json:"removed"`
	Unmatched  int       `json:"unmatched"`
	Error      string    `json:"error,omitempty"`
	ReportKey  string    `json:"report_key,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
