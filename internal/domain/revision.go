package domain

import (
	"context"
	"time"
)

// RevisionAction is the kind of mutation a revision documents.
type RevisionAction string

const (
	ActionInsert RevisionAction = "INSERT"
	ActionUpdate RevisionAction = "UPDATE"
	ActionDelete RevisionAction = "DELETE"
)

// Valid reports whether a is a recognised revision action.
func (a RevisionAction) Valid() bool {
	switch a {
	case ActionInsert, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

// Snapshot is the full field state of one record at a point in time, keyed by
// column name.
type Snapshot map[string]any

// Revision is one immutable audit record of a single mutation to a tracked
// resource. Revisions are write-once: they are created in the same
// transaction as the mutation they document and never updated or deleted.
type Revision struct {
	ID            int64
	Resource      Resource
	RecordID      string // stringified key, composite keys joined with ":"
	ActorID       *int64 // nil for system-initiated mutations
	Action        RevisionAction
	Before        Snapshot // nil on insert
	After         Snapshot // nil on delete
	ChangedFields []string // sorted
	CreatedAt     time.Time
}

// RevisionFilter narrows a revision listing for the audit display API. Zero
// values mean "no constraint".
type RevisionFilter struct {
	Resource Resource
	RecordID string
	ActorID  *int64
	Since    time.Time
	Until    time.Time
	Field    string // match revisions whose changed_fields contain this field
	Limit    int
	Offset   int
}

// RevisionRepository is the append-only store for revisions. There is
// deliberately no update or delete operation.
type RevisionRepository interface {
	Create(ctx context.Context, rev *Revision) error
	List(ctx context.Context, filter RevisionFilter) ([]*Revision, error)
	GetByID(ctx context.Context, id int64) (*Revision, error)
}
