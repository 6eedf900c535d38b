package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/multierr"

	"teamhub/internal/domain"
)

type eventService struct {
	eventRepo       domain.EventRepository
	participantRepo domain.EventParticipantRepository
	invitationRepo  domain.EventInvitationRepository
	invitations     domain.InvitationService
	tx              domain.Transactor
	observer        domain.RosterObserver
	logger          *slog.Logger
	contextTimeout  time.Duration
	now             func() time.Time
}

func NewEventService(eventRepo domain.EventRepository,
	participantRepo domain.EventParticipantRepository,
	invitationRepo domain.EventInvitationRepository,
	invitations domain.InvitationService,
	tx domain.Transactor,
	observer domain.RosterObserver,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	if logger == nil {
		logger = slog.Default()
	}
	return &eventService{
		eventRepo:       eventRepo,
		participantRepo: participantRepo,
		invitationRepo:  invitationRepo,
		invitations:     invitations,
		tx:              tx,
		observer:        observerOrNoop(observer),
		logger:          logger,
		contextTimeout:  timeout,
		now:             time.Now,
	}
}

// CreateEvent stores the event and seeds its participants and invitations.
// Seeding failures are logged and do not fail the call.
func (s *eventService) CreateEvent(ctx context.Context, draft domain.EventDraft, actorID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := domain.CheckEventTimes(draft.StartTime, draft.EndTime); err != nil {
		observeStoreError(s.observer, err)
		return nil, err
	}

	now := s.now()
	event := &domain.Event{
		TeamID:    draft.TeamID,
		CreatedBy: actorID,
		Status:    domain.EventStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	draft.ApplyTo(event)

	if err := s.eventRepo.Create(ctx, event); err != nil {
		observeStoreError(s.observer, err)
		return nil, fmt.Errorf("create event: %w", err)
	}

	if err := s.seed(ctx, event.ID, draft.Members, draft.Leaders, actorID, now); err != nil {
		failures := multierr.Errors(err)
		for _, f := range failures {
			observeStoreError(s.observer, f)
		}
		s.logger.WarnContext(ctx, "event seeding incomplete",
			"event_id", event.ID,
			"failures", len(failures),
			"error", err,
		)
	}
	return event, nil
}

// seed adds a participant per member (player) and leader (coach), then one pending
// invitation per distinct id. Each insert is independent so one failure does not stop the rest.
func (s *eventService) seed(ctx context.Context, eventID string, members, leaders []string, actorID string, at time.Time) error {
	var errs error
	for _, p := range []struct {
		role domain.ParticipantRole
		ids  []string
	}{
		{domain.RolePlayer, members},
		{domain.RoleCoach, leaders},
	} {
		for _, id := range unique(p.ids) {
			err := s.participantRepo.Add(ctx, &domain.EventParticipant{EventID: eventID, UserID: id, Role: p.role})
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("add %s %s: %w", p.role, id, err))
			}
		}
	}
	for _, id := range unique(append(append([]string{}, members...), leaders...)) {
		inv := &domain.EventInvitation{
			EventID:   eventID,
			UserID:    id,
			InvitedBy: actorID,
			InvitedAt: at,
			Status:    domain.InvitationPending,
		}
		if err := s.invitationRepo.Create(ctx, inv); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("invite %s: %w", id, err))
		}
	}
	return errs
}

func (s *eventService) GetEvent(ctx context.Context, eventID string) (*domain.Event, error) {
	if eventID == "" {
		return nil, domain.ErrEventIDRequired
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

// UpdateEvent applies form to the event and reconciles its invitations in one transaction.
func (s *eventService) UpdateEvent(ctx context.Context, eventID string, form domain.EventDraft, actorID string, addIDs, removeIDs []string) (*domain.Event, *domain.RosterChange, error) {
	if eventID == "" {
		return nil, nil, domain.ErrEventIDRequired
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := domain.CheckEventTimes(form.StartTime, form.EndTime); err != nil {
		observeStoreError(s.observer, err)
		return nil, nil, err
	}

	var (
		updated *domain.Event
		change  *domain.RosterChange
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		event, err := s.eventRepo.GetByID(ctx, eventID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("get event: %w", err)
		}
		form.ApplyTo(event)
		event.UpdatedAt = s.now()

		updated, err = s.eventRepo.Update(ctx, event)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.ErrNotFound
			}
			observeStoreError(s.observer, err)
			return fmt.Errorf("update event: %w", err)
		}

		change, err = s.invitations.ReconcileInvitations(ctx, eventID, actorID, addIDs, removeIDs)
		if err != nil {
			return fmt.Errorf("reconcile invitations: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, change, nil
}

// CancelEvent marks the event cancelled. Cancelling again overwrites reason, actor and time.
func (s *eventService) CancelEvent(ctx context.Context, eventID, actorID, reason string) (*domain.Event, error) {
	if eventID == "" {
		return nil, domain.ErrEventIDRequired
	}
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if reason == "" {
		reason = domain.DefaultCancelReason
	}
	event, err := s.eventRepo.Cancel(ctx, eventID, actorID, reason, s.now())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		observeStoreError(s.observer, err)
		return nil, fmt.Errorf("cancel event: %w", err)
	}
	return event, nil
}
