package audit

import "time"

// ActorType identifies who performed an action.
type ActorType string

const (
	ActorUser   ActorType = "user"
	ActorSystem ActorType = "system"
)

// Action describes what was done.
type Action string

const (
	ActionRecordDeleted    Action = "record_deleted"
	ActionCredentialsSaved Action = "credentials_saved"
	ActionQueueEnqueued    Action = "queue_enqueued"
	ActionQueueProcessed   Action = "queue_processed"
	ActionQueueFailed      Action = "queue_failed"
	ActionQueueRemoved     Action = "queue_removed"
	ActionQueueAccepted    Action = "queue_accepted"
	ActionDataRestored     Action = "data_restored"
	ActionDataSeeded       Action = "data_seeded"
)

// Scope describes the part of the system an action applies to.
type Scope string

const (
	ScopeCrew      Scope = "crew"
	ScopeHistory   Scope = "history"
	ScopeInventory Scope = "inventory"
	ScopeTools     Scope = "tools"
	ScopeQueue     Scope = "queue"
	ScopeData      Scope = "data"
)

// Entry is a single audit trail record.
type Entry struct {
	ID        string
	Timestamp time.Time
	ActorType ActorType
	ActorID   string
	Action    Action
	Scope     Scope
	TargetID  string
	Summary   string
	Detail    string
}
