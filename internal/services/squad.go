package services

import (
	"context"
	"fmt"
	"time"

	"teamhub/internal/domain"
)

type squadService struct {
	squadRepo      domain.SquadRepository
	tx             domain.Transactor
	observer       domain.RosterObserver
	contextTimeout time.Duration
	now            func() time.Time
}

// NewSquadService returns a SquadService. observer may be nil.
func NewSquadService(squadRepo domain.SquadRepository, tx domain.Transactor, observer domain.RosterObserver, timeout time.Duration) domain.SquadService {
	return &squadService{
		squadRepo:      squadRepo,
		tx:             tx,
		observer:       observerOrNoop(observer),
		contextTimeout: timeout,
		now:            time.Now,
	}
}

// UpdateSquad reconciles the squad. PreMatchMessage overwrites the notes of every added row.
func (s *squadService) UpdateSquad(ctx context.Context, sel domain.SquadSelection) (*domain.RosterChange, error) {
	if sel.EventID == "" {
		return nil, domain.ErrEventIDRequired
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	r := &rosterReconciler{
		name:  domain.RosterSquad,
		store: s.squadRepo,
		insert: func(ctx context.Context, eventID string, userIDs []string, at time.Time) error {
			return s.squadRepo.CreateSelected(ctx, eventID, userIDs, sel.SelectedBy, sel.PreMatchMessage, at)
		},
		tx:       s.tx,
		observer: s.observer,
	}
	return r.reconcile(ctx, sel.EventID, sel.Add, sel.Remove, s.now())
}

func (s *squadService) ListSquad(ctx context.Context, eventID string) ([]*domain.SquadMember, error) {
	if eventID == "" {
		return nil, domain.ErrEventIDRequired
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	members, err := s.squadRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list squad: %w", err)
	}
	if members == nil {
		members = []*domain.SquadMember{}
	}
	return members, nil
}
