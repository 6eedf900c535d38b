package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"teamhub/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID      map[string]*domain.Event
	nextID    int
	createErr error
	updateErr error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{byID: make(map[string]*domain.Event), nextID: 1}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	stored := *e
	f.byID[e.ID] = &stored
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *e
	return &out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if _, ok := f.byID[e.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	stored := *e
	f.byID[e.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeEventRepo) snapshot() func() {
	saved := make(map[string]*domain.Event, len(f.byID))
	for id, e := range f.byID {
		copied := *e
		saved[id] = &copied
	}
	nextID := f.nextID
	return func() {
		f.byID = saved
		f.nextID = nextID
	}
}

func (f *fakeEventRepo) Cancel(ctx context.Context, eventID, actorID, reason string, at time.Time) (*domain.Event, error) {
	e, ok := f.byID[eventID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if actorID == "" {
		return nil, &domain.StoreError{Kind: domain.KindNotNull, Code: "23502", Table: domain.TableEvents,
			Constraint: domain.ConstraintEventCancelledBy}
	}
	e.Status = domain.EventStatusCancelled
	e.CancelledReason = &reason
	e.CancelledAt = &at
	e.CancelledBy = &actorID
	e.UpdatedAt = at
	out := *e
	return &out, nil
}

// memRoster is an in-memory roster table keyed by (event, user) with a unique constraint.
type memRoster struct {
	mu         sync.Mutex
	constraint string
	rows       map[string]map[string]struct{}
	writes     int
	// raceInsert, when set, is inserted just before the next insert to mimic a concurrent writer.
	raceInsert string
	insertErr  error
}

func newMemRoster(constraint string) *memRoster {
	return &memRoster{constraint: constraint, rows: make(map[string]map[string]struct{})}
}

func (m *memRoster) seed(eventID string, userIDs ...string) {
	if m.rows[eventID] == nil {
		m.rows[eventID] = make(map[string]struct{})
	}
	for _, id := range userIDs {
		m.rows[eventID][id] = struct{}{}
	}
}

func (m *memRoster) ids(eventID string) []string {
	out := make([]string, 0, len(m.rows[eventID]))
	for id := range m.rows[eventID] {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (m *memRoster) ListUserIDs(ctx context.Context, eventID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ids(eventID), nil
}

func (m *memRoster) DeleteByUsers(ctx context.Context, eventID string, userIDs []string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	removed := []string{}
	for _, id := range userIDs {
		if _, ok := m.rows[eventID][id]; ok {
			delete(m.rows[eventID], id)
			removed = append(removed, id)
		}
	}
	return removed, nil
}

func (m *memRoster) CountByEventID(ctx context.Context, eventID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows[eventID]), nil
}

func (m *memRoster) insert(eventID string, userIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	if m.insertErr != nil {
		return m.insertErr
	}
	if m.raceInsert != "" {
		m.seed(eventID, m.raceInsert)
		m.raceInsert = ""
	}
	for _, id := range userIDs {
		if _, ok := m.rows[eventID][id]; ok {
			return &domain.StoreError{Kind: domain.KindUnique, Code: "23505", Constraint: m.constraint}
		}
	}
	m.seed(eventID, userIDs...)
	return nil
}

func (m *memRoster) snapshot() func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := make(map[string]map[string]struct{}, len(m.rows))
	for ev, users := range m.rows {
		saved[ev] = make(map[string]struct{}, len(users))
		for id := range users {
			saved[ev][id] = struct{}{}
		}
	}
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.rows = saved
	}
}

// fakeInvitationRepo is an in-memory EventInvitationRepository.
type fakeInvitationRepo struct {
	*memRoster
	byKey     map[string]*domain.EventInvitation
	invitedBy map[string]string
	createErr func(userID string) error
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{
		memRoster: newMemRoster(domain.ConstraintInvitationUnique),
		byKey:     make(map[string]*domain.EventInvitation),
		invitedBy: make(map[string]string),
	}
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *domain.EventInvitation) error {
	if f.createErr != nil {
		if err := f.createErr(inv.UserID); err != nil {
			return err
		}
	}
	if err := f.insert(inv.EventID, []string{inv.UserID}); err != nil {
		return err
	}
	stored := *inv
	f.byKey[inv.EventID+"/"+inv.UserID] = &stored
	return nil
}

func (f *fakeInvitationRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventInvitation, error) {
	var out []*domain.EventInvitation
	for _, id := range f.ids(eventID) {
		if inv, ok := f.byKey[eventID+"/"+id]; ok {
			out = append(out, inv)
			continue
		}
		out = append(out, &domain.EventInvitation{EventID: eventID, UserID: id, Status: domain.InvitationPending})
	}
	return out, nil
}

func (f *fakeInvitationRepo) CreatePending(ctx context.Context, eventID string, userIDs []string, invitedBy string, at time.Time) error {
	if invitedBy == "" {
		f.writes++
		return &domain.StoreError{Kind: domain.KindNotNull, Code: "23502", Table: domain.TableEventInvitations}
	}
	if err := f.insert(eventID, userIDs); err != nil {
		return err
	}
	for _, id := range userIDs {
		f.byKey[eventID+"/"+id] = &domain.EventInvitation{
			EventID: eventID, UserID: id, InvitedBy: invitedBy, InvitedAt: at, Status: domain.InvitationPending,
		}
	}
	return nil
}

func (f *fakeInvitationRepo) UpdateStatus(ctx context.Context, eventID, userID string, status domain.InvitationStatus) (*domain.EventInvitation, error) {
	inv, ok := f.byKey[eventID+"/"+userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	inv.Status = status
	out := *inv
	return &out, nil
}

// fakeSquadRepo is an in-memory SquadRepository.
type fakeSquadRepo struct {
	*memRoster
	notes      map[string]*string
	selectedBy map[string]string
}

func newFakeSquadRepo() *fakeSquadRepo {
	return &fakeSquadRepo{
		memRoster:  newMemRoster(domain.ConstraintSquadUnique),
		notes:      make(map[string]*string),
		selectedBy: make(map[string]string),
	}
}

func (f *fakeSquadRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.SquadMember, error) {
	var out []*domain.SquadMember
	for _, id := range f.ids(eventID) {
		out = append(out, &domain.SquadMember{
			EventID: eventID, UserID: id, SelectionNotes: f.notes[eventID+"/"+id], SelectedBy: f.selectedBy[eventID+"/"+id],
		})
	}
	return out, nil
}

func (f *fakeSquadRepo) CreateSelected(ctx context.Context, eventID string, userIDs []string, selectedBy, notes string, at time.Time) error {
	if err := f.insert(eventID, userIDs); err != nil {
		return err
	}
	for _, id := range userIDs {
		var n *string
		if notes != "" {
			v := notes
			n = &v
		}
		f.notes[eventID+"/"+id] = n
		f.selectedBy[eventID+"/"+id] = selectedBy
	}
	return nil
}

// snapshotter is an in-memory table that can be restored to an earlier state.
type snapshotter interface {
	snapshot() func()
}

// fakeTransactor runs fn directly and restores the given tables when fn fails.
type fakeTransactor struct {
	tables []snapshotter
	calls  int
	depth  int
}

func (f *fakeTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	if f.depth > 0 {
		return fn(ctx)
	}
	var restores []func()
	for _, t := range f.tables {
		restores = append(restores, t.snapshot())
	}
	f.depth++
	err := fn(ctx)
	f.depth--
	if err != nil {
		for _, restore := range restores {
			restore()
		}
	}
	return err
}

type fakeParticipantRepo struct {
	added []*domain.EventParticipant
	err   func(p *domain.EventParticipant) error
}

func (f *fakeParticipantRepo) Add(ctx context.Context, p *domain.EventParticipant) error {
	if f.err != nil {
		if err := f.err(p); err != nil {
			return err
		}
	}
	f.added = append(f.added, p)
	return nil
}

func (f *fakeParticipantRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.EventParticipant, error) {
	var out []*domain.EventParticipant
	for _, p := range f.added {
		if p.EventID == eventID {
			out = append(out, p)
		}
	}
	return out, nil
}

// recordingObserver counts reconcile outcomes and store error kinds.
type recordingObserver struct {
	outcomes map[string]int
	kinds    map[domain.ErrorKind]int
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{outcomes: map[string]int{}, kinds: map[domain.ErrorKind]int{}}
}

func (o *recordingObserver) ReconcileFinished(roster string, outcome domain.RosterOutcome) {
	o.outcomes[roster+"/"+string(outcome)]++
}

func (o *recordingObserver) StoreFailed(kind domain.ErrorKind) {
	o.kinds[kind]++
}

type fakeNotificationRepo struct {
	created []*domain.Notification
	err     error
}

func (f *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	if f.err != nil {
		return f.err
	}
	n.ID = fmt.Sprintf("n-%d", len(f.created)+1)
	f.created = append(f.created, n)
	return nil
}

type fakeMemberRepo struct {
	byID map[string]*domain.Member
}

func (f *fakeMemberRepo) GetByID(ctx context.Context, id string) (*domain.Member, error) {
	if m, ok := f.byID[id]; ok {
		return m, nil
	}
	return nil, domain.ErrNotFound
}

type fakeEmailService struct {
	sent []*domain.NotificationEmailData
	err  error
}

func (f *fakeEmailService) SendNotification(ctx context.Context, data *domain.NotificationEmailData) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}
