package services

import (
	"context"
	"fmt"
	"time"

	"teamhub/internal/domain"
)

// rosterStore is the part of a roster table the reconciler reads and deletes through.
// EventInvitationRepository and SquadRepository both satisfy it.
type rosterStore interface {
	ListUserIDs(ctx context.Context, eventID string) ([]string, error)
	DeleteByUsers(ctx context.Context, eventID string, userIDs []string) ([]string, error)
	CountByEventID(ctx context.Context, eventID string) (int, error)
}

// insertFunc writes one row per user id with the roster's defaults.
type insertFunc func(ctx context.Context, eventID string, userIDs []string, at time.Time) error

// rosterReconciler applies an add/remove diff to one roster table.
type rosterReconciler struct {
	name     string
	store    rosterStore
	insert   insertFunc
	tx       domain.Transactor
	observer domain.RosterObserver
}

// reconcile runs read, delete, insert and count in one transaction. Ids in toAdd that are
// already members are skipped; toRemove is passed to the store as given and the removed
// count is what the store actually deleted.
func (r *rosterReconciler) reconcile(ctx context.Context, eventID string, toAdd, toRemove []string, at time.Time) (*domain.RosterChange, error) {
	var change *domain.RosterChange
	err := r.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := r.store.ListUserIDs(ctx, eventID)
		if err != nil {
			return fmt.Errorf("list %s: %w", r.name, err)
		}
		newIDs := subtract(unique(toAdd), current)
		removeIDs := unique(toRemove)

		change = &domain.RosterChange{
			PreviousCount:  len(current),
			TotalCount:     len(current),
			Updated:        domain.RosterNoChange,
			AddedUserIDs:   []string{},
			RemovedUserIDs: []string{},
		}
		if len(newIDs) == 0 && len(removeIDs) == 0 {
			return nil
		}

		if len(removeIDs) > 0 {
			removed, err := r.store.DeleteByUsers(ctx, eventID, removeIDs)
			if err != nil {
				return fmt.Errorf("remove from %s: %w", r.name, err)
			}
			change.RemovedUserIDs = removed
			change.RemovedCount = len(removed)
		}
		if len(newIDs) > 0 {
			if err := r.insert(ctx, eventID, newIDs, at); err != nil {
				return fmt.Errorf("add to %s: %w", r.name, err)
			}
			change.AddedUserIDs = newIDs
			change.AddedCount = len(newIDs)
		}

		total, err := r.store.CountByEventID(ctx, eventID)
		if err != nil {
			return fmt.Errorf("count %s: %w", r.name, err)
		}
		change.TotalCount = total
		change.Success = change.AddedCount > 0 || change.RemovedCount > 0
		if change.Success {
			change.Updated = domain.RosterChanged
		}
		return nil
	})
	if err != nil {
		observeStoreError(r.observer, err)
		return nil, err
	}
	r.observer.ReconcileFinished(r.name, change.Updated)
	return change, nil
}

// unique drops duplicates, keeping first-seen order.
func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// subtract returns the ids of a that are not in b.
func subtract(a, b []string) []string {
	skip := make(map[string]struct{}, len(b))
	for _, id := range b {
		skip[id] = struct{}{}
	}
	out := make([]string, 0, len(a))
	for _, id := range a {
		if _, ok := skip[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}

func observeStoreError(o domain.RosterObserver, err error) {
	if kind := domain.KindOf(err); kind != domain.KindUnknown {
		o.StoreFailed(kind)
	}
}

type noopObserver struct{}

func (noopObserver) ReconcileFinished(string, domain.RosterOutcome) {}
func (noopObserver) StoreFailed(domain.ErrorKind)                   {}

func observerOrNoop(o domain.RosterObserver) domain.RosterObserver {
	if o == nil {
		return noopObserver{}
	}
	return o
}
