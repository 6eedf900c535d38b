package domain

import "context"

// RosterOutcome reports whether a reconcile wrote anything.
type RosterOutcome string

const (
	RosterChanged  RosterOutcome = "changed"
	RosterNoChange RosterOutcome = "no-change"
)

// Roster names, used in logs and metrics.
const (
	RosterInvitations = "invitations"
	RosterSquad       = "squad"
)

// RosterChange is the result of reconciling one roster of an event.
// swagger:model RosterChange
type RosterChange struct {
	PreviousCount  int           `json:"previous_count"`
	AddedCount     int           `json:"added_count"`
	RemovedCount   int           `json:"removed_count"`
	TotalCount     int           `json:"total_count"`
	Success        bool          `json:"success"`
	Updated        RosterOutcome `json:"updated"`
	AddedUserIDs   []string      `json:"added_user_ids"`
	RemovedUserIDs []string      `json:"removed_user_ids"`
}

// Transactor runs fn inside a single store transaction. Nested calls join the outer one.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// RosterObserver receives reconcile outcomes and classified store failures.
type RosterObserver interface {
	ReconcileFinished(roster string, outcome RosterOutcome)
	StoreFailed(kind ErrorKind)
}
