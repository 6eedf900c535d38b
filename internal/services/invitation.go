package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"teamhub/internal/domain"
)

type invitationService struct {
	invitationRepo domain.EventInvitationRepository
	tx             domain.Transactor
	observer       domain.RosterObserver
	contextTimeout time.Duration
	now            func() time.Time
}

// NewInvitationService returns an InvitationService. observer may be nil.
func NewInvitationService(invitationRepo domain.EventInvitationRepository, tx domain.Transactor, observer domain.RosterObserver, timeout time.Duration) domain.InvitationService {
	return &invitationService{
		invitationRepo: invitationRepo,
		tx:             tx,
		observer:       observerOrNoop(observer),
		contextTimeout: timeout,
		now:            time.Now,
	}
}

func (s *invitationService) ReconcileInvitations(ctx context.Context, eventID, inviterID string, toAdd, toRemove []string) (*domain.RosterChange, error) {
	if eventID == "" {
		return nil, domain.ErrEventIDRequired
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	r := &rosterReconciler{
		name:  domain.RosterInvitations,
		store: s.invitationRepo,
		insert: func(ctx context.Context, eventID string, userIDs []string, at time.Time) error {
			return s.invitationRepo.CreatePending(ctx, eventID, userIDs, inviterID, at)
		},
		tx:       s.tx,
		observer: s.observer,
	}
	return r.reconcile(ctx, eventID, toAdd, toRemove, s.now())
}

func (s *invitationService) ListInvitations(ctx context.Context, eventID string) ([]*domain.EventInvitation, error) {
	if eventID == "" {
		return nil, domain.ErrEventIDRequired
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	invs, err := s.invitationRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	if invs == nil {
		invs = []*domain.EventInvitation{}
	}
	return invs, nil
}

// Respond records a member's answer. Only the status column changes.
func (s *invitationService) Respond(ctx context.Context, eventID, userID string, status domain.InvitationStatus) (*domain.EventInvitation, error) {
	if eventID == "" {
		return nil, domain.ErrEventIDRequired
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", domain.ErrInvalidInput)
	}
	if !status.IsResponse() {
		return nil, fmt.Errorf("%w: %q is not a response", domain.ErrInvalidInput, status)
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	inv, err := s.invitationRepo.UpdateStatus(ctx, eventID, userID, status)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		observeStoreError(s.observer, err)
		return nil, fmt.Errorf("update invitation status: %w", err)
	}
	return inv, nil
}
