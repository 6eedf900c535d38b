package controllers

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"teamhub/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

const (
	testEventID = "3f1c2a9e-8b7d-4c6e-9a51-2d0f4e6b8c11"
	testTeamID  = "6a0b9c8d-7e6f-4a5b-8c9d-0e1f2a3b4c5d"
	testActorID = "user-123"
	memberA     = "11111111-1111-4111-8111-111111111111"
	memberB     = "22222222-2222-4222-8222-222222222222"
	memberC     = "33333333-3333-4333-8333-333333333333"
)

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	event  *domain.Event
	change *domain.RosterChange
	err    error

	lastDraft  domain.EventDraft
	lastActor  string
	lastID     string
	lastAdd    []string
	lastRemove []string
	lastReason string
}

func (f *fakeEventService) CreateEvent(_ context.Context, draft domain.EventDraft, actorID string) (*domain.Event, error) {
	f.lastDraft, f.lastActor = draft, actorID
	if f.err != nil {
		return nil, f.err
	}
	e := &domain.Event{ID: testEventID, TeamID: draft.TeamID, CreatedBy: actorID, Status: domain.EventStatusActive}
	draft.ApplyTo(e)
	return e, nil
}

func (f *fakeEventService) GetEvent(_ context.Context, eventID string) (*domain.Event, error) {
	f.lastID = eventID
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) UpdateEvent(_ context.Context, eventID string, form domain.EventDraft, actorID string, addIDs, removeIDs []string) (*domain.Event, *domain.RosterChange, error) {
	f.lastID, f.lastDraft, f.lastActor, f.lastAdd, f.lastRemove = eventID, form, actorID, addIDs, removeIDs
	if f.err != nil {
		return nil, nil, f.err
	}
	e := &domain.Event{ID: eventID, Status: domain.EventStatusActive}
	form.ApplyTo(e)
	return e, f.change, nil
}

func (f *fakeEventService) CancelEvent(_ context.Context, eventID, actorID, reason string) (*domain.Event, error) {
	f.lastID, f.lastActor, f.lastReason = eventID, actorID, reason
	if f.err != nil {
		return nil, f.err
	}
	if reason == "" {
		reason = domain.DefaultCancelReason
	}
	e := *f.event
	e.Status = domain.EventStatusCancelled
	e.CancelledReason = &reason
	e.CancelledBy = &actorID
	return &e, nil
}

// fakeInvitationService implements domain.InvitationService.
type fakeInvitationService struct {
	change      *domain.RosterChange
	invitations []*domain.EventInvitation
	responded   *domain.EventInvitation
	err         error
	listErr     error

	lastEventID  string
	lastInviter  string
	lastAdd      []string
	lastRemove   []string
	lastUserID   string
	lastResponse domain.InvitationStatus
}

func (f *fakeInvitationService) ReconcileInvitations(_ context.Context, eventID, inviterID string, toAdd, toRemove []string) (*domain.RosterChange, error) {
	f.lastEventID, f.lastInviter, f.lastAdd, f.lastRemove = eventID, inviterID, toAdd, toRemove
	if f.err != nil {
		return nil, f.err
	}
	return f.change, nil
}

func (f *fakeInvitationService) ListInvitations(_ context.Context, eventID string) ([]*domain.EventInvitation, error) {
	f.lastEventID = eventID
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.invitations, nil
}

func (f *fakeInvitationService) Respond(_ context.Context, eventID, userID string, status domain.InvitationStatus) (*domain.EventInvitation, error) {
	f.lastEventID, f.lastUserID, f.lastResponse = eventID, userID, status
	if f.err != nil {
		return nil, f.err
	}
	return f.responded, nil
}

// fakeSquadService implements domain.SquadService.
type fakeSquadService struct {
	change  *domain.RosterChange
	members []*domain.SquadMember
	err     error
	lastSel domain.SquadSelection
}

func (f *fakeSquadService) UpdateSquad(_ context.Context, sel domain.SquadSelection) (*domain.RosterChange, error) {
	f.lastSel = sel
	if f.err != nil {
		return nil, f.err
	}
	return f.change, nil
}

func (f *fakeSquadService) ListSquad(_ context.Context, eventID string) ([]*domain.SquadMember, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.members, nil
}

type sentNotification struct {
	userID      string
	templateKey string
	vars        map[string]string
	related     domain.RelatedEntity
}

// fakeNotifier implements domain.NotificationSender and records every call.
type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentNotification
	err  error
}

func (f *fakeNotifier) Send(_ context.Context, userID, templateKey string, vars map[string]string, related domain.RelatedEntity) (*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentNotification{userID: userID, templateKey: templateKey, vars: vars, related: related})
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Notification{UserID: userID, TemplateKey: templateKey}, nil
}

// recipients returns the user ids notified with templateKey, in send order.
func (f *fakeNotifier) recipients(templateKey string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := make([]string, 0)
	for _, s := range f.sent {
		if s.templateKey == templateKey {
			ids = append(ids, s.userID)
		}
	}
	return ids
}
