package db

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryDB provides database operations backed by process memory.
// Every mutation runs under a single store-wide lock, so the bed count and
// one-selection-per-user checks are never interleaved.
type MemoryDB struct {
	mu          sync.RWMutex
	accounts    map[string]Account
	emailIndex  map[string]string
	sessions    map[string]Session
	camps       map[string]Camp
	selections  map[string]CampSelection // keyed by user ID
	assignments []VolunteerAssignment
	feed        *changeFeed
}

var _ Database = (*MemoryDB)(nil)

// NewMemoryDB creates an empty in-memory database. Camps are added with SeedCamps.
func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		accounts:   make(map[string]Account),
		emailIndex: make(map[string]string),
		sessions:   make(map[string]Session),
		camps:      make(map[string]Camp),
		selections: make(map[string]CampSelection),
		feed:       newChangeFeed(),
	}
}

// Close is a no-op for the in-memory database
func (m *MemoryDB) Close() {}

func emailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// InsertAccount stores a new user and profile
func (m *MemoryDB) InsertAccount(_ context.Context, account *Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := emailKey(account.User.Email)
	if _, exists := m.emailIndex[key]; exists {
		return ErrDuplicateEmail
	}
	if _, exists := m.accounts[account.User.ID]; exists {
		return NewError(KindInvalidInput, "user %s already exists", account.User.ID)
	}

	m.accounts[account.User.ID] = *account
	m.emailIndex[key] = account.User.ID
	return nil
}

// GetAccountByEmail retrieves an account by its (case-insensitive) email
func (m *MemoryDB) GetAccountByEmail(_ context.Context, email string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.emailIndex[emailKey(email)]
	if !ok {
		return nil, NewError(KindNotFound, "no user with email %s", email)
	}
	account := m.accounts[id]
	return &account, nil
}

// GetAccountByID retrieves an account by user ID
func (m *MemoryDB) GetAccountByID(_ context.Context, id string) (*Account, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	account, ok := m.accounts[id]
	if !ok {
		return nil, NewError(KindNotFound, "user %s not found", id)
	}
	return &account, nil
}

// InsertSession stores a new session
func (m *MemoryDB) InsertSession(_ context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.accounts[session.UserID]; !ok {
		return NewError(KindNotFound, "user %s not found", session.UserID)
	}
	stored := *session
	stored.Account = nil
	m.sessions[session.Token] = stored
	return nil
}

// GetSession retrieves a session by token
func (m *MemoryDB) GetSession(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[token]
	if !ok {
		return nil, NewError(KindNotFound, "session not found")
	}
	return &session, nil
}

// DeleteSession removes a session. Unknown tokens are ignored.
func (m *MemoryDB) DeleteSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

// SeedCamps inserts camps that do not exist yet. Existing camps are left untouched.
func (m *MemoryDB) SeedCamps(_ context.Context, camps []Camp) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range camps {
		if _, exists := m.camps[c.ID]; exists {
			continue
		}
		m.camps[c.ID] = cloneCamp(c)
	}
	return nil
}

// GetCamps returns all camps ordered by creation time, annotated with their creator
func (m *MemoryDB) GetCamps(_ context.Context) ([]CampListing, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	listings := make([]CampListing, 0, len(m.camps))
	for _, c := range m.camps {
		listings = append(listings, m.listingLocked(c))
	}

	sort.Slice(listings, func(i, j int) bool {
		if !listings[i].CreatedAt.Equal(listings[j].CreatedAt) {
			return listings[i].CreatedAt.Before(listings[j].CreatedAt)
		}
		return listings[i].ID < listings[j].ID
	})

	return listings, nil
}

// GetCamp retrieves a single camp
func (m *MemoryDB) GetCamp(_ context.Context, id string) (*Camp, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.camps[id]
	if !ok {
		return nil, NewError(KindNotFound, "camp %s not found", id)
	}
	c = cloneCamp(c)
	return &c, nil
}

// InsertCamp stores a new camp and returns it with its creator annotation
func (m *MemoryDB) InsertCamp(_ context.Context, camp *Camp) (*CampListing, error) {
	m.mu.Lock()
	if _, exists := m.camps[camp.ID]; exists {
		m.mu.Unlock()
		return nil, NewError(KindInvalidInput, "camp %s already exists", camp.ID)
	}
	m.camps[camp.ID] = cloneCamp(*camp)
	listing := m.listingLocked(m.camps[camp.ID])
	m.feed.enqueue(change(TableCamp, OpInsert, camp.ID))
	m.mu.Unlock()

	m.feed.deliver()
	return &listing, nil
}

// DeleteCamp removes a volunteer-added camp and every selection referencing it
func (m *MemoryDB) DeleteCamp(_ context.Context, id string) error {
	m.mu.Lock()
	c, ok := m.camps[id]
	if !ok {
		m.mu.Unlock()
		return NewError(KindNotFound, "camp %s not found", id)
	}
	if c.IsDefault() {
		m.mu.Unlock()
		return NewError(KindForbidden, "cannot delete default camps")
	}

	var events []ChangeEvent
	for userID, sel := range m.selections {
		if sel.CampID == id {
			delete(m.selections, userID)
			events = append(events, change(TableCampSelection, OpDelete, sel.ID))
		}
	}
	delete(m.camps, id)
	m.feed.enqueue(append(events, change(TableCamp, OpDelete, id))...)
	m.mu.Unlock()

	m.feed.deliver()
	return nil
}

// SelectCamp reserves one bed for the selection's user
func (m *MemoryDB) SelectCamp(_ context.Context, selection *CampSelection) error {
	m.mu.Lock()
	if _, exists := m.selections[selection.UserID]; exists {
		m.mu.Unlock()
		return ErrAlreadyReserved
	}

	c, ok := m.camps[selection.CampID]
	if !ok {
		m.mu.Unlock()
		return NewError(KindNotFound, "camp %s not found", selection.CampID)
	}
	if c.Beds <= 0 {
		m.mu.Unlock()
		return ErrNoCapacity
	}

	c.Beds--
	m.camps[c.ID] = c
	m.selections[selection.UserID] = *selection
	m.feed.enqueue(
		change(TableCamp, OpUpdate, c.ID),
		change(TableCampSelection, OpInsert, selection.ID),
	)
	m.mu.Unlock()

	m.feed.deliver()
	return nil
}

// CancelCampSelection releases the user's bed. The camp's bed count never
// rises above its original capacity.
func (m *MemoryDB) CancelCampSelection(_ context.Context, userID string) error {
	m.mu.Lock()
	sel, ok := m.selections[userID]
	if !ok {
		m.mu.Unlock()
		return NewError(KindNotFound, "no camp selection found")
	}

	events := make([]ChangeEvent, 0, 2)
	if c, ok := m.camps[sel.CampID]; ok {
		c.Beds = min(c.Beds+1, c.OriginalBeds)
		m.camps[c.ID] = c
		events = append(events, change(TableCamp, OpUpdate, c.ID))
	}
	delete(m.selections, userID)
	events = append(events, change(TableCampSelection, OpDelete, sel.ID))
	m.feed.enqueue(events...)
	m.mu.Unlock()

	m.feed.deliver()
	return nil
}

// GetUserCampSelection returns the user's selection with its camp, or nil if none
func (m *MemoryDB) GetUserCampSelection(_ context.Context, userID string) (*CampSelectionWithCamp, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sel, ok := m.selections[userID]
	if !ok {
		return nil, nil
	}

	result := &CampSelectionWithCamp{CampSelection: sel}
	if c, ok := m.camps[sel.CampID]; ok {
		c = cloneCamp(c)
		result.Camp = &c
	}
	return result, nil
}

// InsertVolunteerAssignment records a volunteer assignment for an existing camp
func (m *MemoryDB) InsertVolunteerAssignment(_ context.Context, assignment *VolunteerAssignment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.camps[assignment.CampID]; !ok {
		return NewError(KindNotFound, "camp %s not found", assignment.CampID)
	}
	m.assignments = append(m.assignments, *assignment)
	return nil
}

// GetVolunteerAssignments returns the volunteer's assignments in insertion order
func (m *MemoryDB) GetVolunteerAssignments(_ context.Context, volunteerID string) ([]AssignmentWithCamp, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := []AssignmentWithCamp{}
	for _, a := range m.assignments {
		if a.VolunteerID != volunteerID {
			continue
		}
		entry := AssignmentWithCamp{VolunteerAssignment: a}
		if c, ok := m.camps[a.CampID]; ok {
			c = cloneCamp(c)
			entry.Camp = &c
		}
		result = append(result, entry)
	}
	return result, nil
}

// SubscribeToCamps registers a handler for camp changes
func (m *MemoryDB) SubscribeToCamps(ctx context.Context, handler ChangeHandler) (Unsubscribe, error) {
	return m.feed.subscribe(ctx, TableCamp, handler), nil
}

// SubscribeToCampSelections registers a handler for camp selection changes
func (m *MemoryDB) SubscribeToCampSelections(ctx context.Context, handler ChangeHandler) (Unsubscribe, error) {
	return m.feed.subscribe(ctx, TableCampSelection, handler), nil
}

// listingLocked annotates a camp with its creator's profile. Caller holds m.mu.
func (m *MemoryDB) listingLocked(c Camp) CampListing {
	listing := CampListing{Camp: cloneCamp(c)}
	if c.IsDefault() || c.AddedByUserID == nil {
		return listing
	}
	if account, ok := m.accounts[*c.AddedByUserID]; ok {
		profile := account.Profile
		listing.AddedByUser = &profile
	}
	return listing
}

func cloneCamp(c Camp) Camp {
	c.Resources = append([]string(nil), c.Resources...)
	if c.AddedByUserID != nil {
		id := *c.AddedByUserID
		c.AddedByUserID = &id
	}
	return c
}

func change(table string, op ChangeOp, id string) ChangeEvent {
	return ChangeEvent{Table: table, Op: op, RecordID: id, At: time.Now().UTC()}
}
