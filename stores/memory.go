package stores

import (
	"context"
	"sort"
	"sync"
	"time"

	"houseshow-backend/models"
	"houseshow-backend/services"
)

// MemoryBookingStore is a process-local BookingStore. Reads hand out copies;
// Transition commits only if the stored state still matches what fn saw.
type MemoryBookingStore struct {
	mu       sync.RWMutex
	bookings map[string]*models.Booking
	events   map[string][]models.BookingEvent
	nextID   uint
}

func NewMemoryBookingStore() *MemoryBookingStore {
	return &MemoryBookingStore{
		bookings: make(map[string]*models.Booking),
		events:   make(map[string][]models.BookingEvent),
	}
}

func (s *MemoryBookingStore) Create(_ context.Context, b *models.Booking, ev *models.BookingEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.bookings[b.ID]; ok {
		return services.NewValidationError("id", "already exists")
	}
	s.bookings[b.ID] = b.Clone()
	if ev != nil {
		ev.BookingID = b.ID
		s.appendEvent(ev)
	}
	return nil
}

func (s *MemoryBookingStore) Get(_ context.Context, id string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.bookings[id]
	if !ok {
		return nil, services.ErrBookingNotFound
	}
	return b.Clone(), nil
}

func (s *MemoryBookingStore) List(_ context.Context, f services.ListFilter) ([]models.Booking, error) {
	f = f.Normalize()
	s.mu.RLock()
	matched := make([]models.Booking, 0)
	for _, b := range s.bookings {
		if f.PartyID != "" && !b.IsParty(f.PartyID) {
			continue
		}
		if f.Status != nil && b.Status != *f.Status {
			continue
		}
		matched = append(matched, *b.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].RequestedAt.Equal(matched[j].RequestedAt) {
			return matched[i].RequestedAt.After(matched[j].RequestedAt)
		}
		return matched[i].ID < matched[j].ID
	})

	start := f.Offset()
	if start >= len(matched) {
		return []models.Booking{}, nil
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], nil
}

func (s *MemoryBookingStore) Events(_ context.Context, bookingID string) ([]models.BookingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.BookingEvent, len(s.events[bookingID]))
	copy(out, s.events[bookingID])
	return out, nil
}

func (s *MemoryBookingStore) ListDueForCompletion(_ context.Context, before time.Time, limit int) ([]models.Booking, error) {
	s.mu.RLock()
	var out []models.Booking
	for _, b := range s.bookings {
		if b.Status == models.BookingStatusConfirmed && !b.RequestedDate.After(before) {
			out = append(out, *b.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].RequestedDate.Before(out[j].RequestedDate) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// Transition runs fn on a private copy without holding the lock, then commits
// it only if the stored booking has not moved on.
func (s *MemoryBookingStore) Transition(ctx context.Context, id string, fn services.TransitionFunc) (*models.Booking, error) {
	working, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	prev := working.Token()
	ev, err := fn(working)
	if err != nil {
		return nil, err
	}
	working.Version = prev.Version + 1

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.bookings[id]
	if !ok {
		return nil, services.ErrBookingNotFound
	}
	if current.Token() != prev {
		return nil, &services.ConcurrencyConflictError{BookingID: id}
	}
	s.bookings[id] = working.Clone()
	if ev != nil {
		ev.BookingID = id
		s.appendEvent(ev)
	}
	return working, nil
}

func (s *MemoryBookingStore) appendEvent(ev *models.BookingEvent) {
	s.nextID++
	ev.ID = s.nextID
	s.events[ev.BookingID] = append(s.events[ev.BookingID], *ev)
}

// MemoryUserStore keeps users in a map keyed by id.
type MemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]models.User)}
}

func (s *MemoryUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return services.ErrEmailTaken
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, services.ErrUserNotFound
	}
	return &u, nil
}

func (s *MemoryUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, services.ErrUserNotFound
}

// MemoryPushTokenStore keeps device tokens per user.
type MemoryPushTokenStore struct {
	mu     sync.RWMutex
	tokens map[string][]models.PushToken
}

func NewMemoryPushTokenStore() *MemoryPushTokenStore {
	return &MemoryPushTokenStore{tokens: make(map[string][]models.PushToken)}
}

func (s *MemoryPushTokenStore) Upsert(_ context.Context, t *models.PushToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.tokens[t.UserID]
	for i := range list {
		if list[i].Token == t.Token {
			list[i].DeviceInfo = t.DeviceInfo
			list[i].UpdatedAt = t.UpdatedAt
			return nil
		}
	}
	s.tokens[t.UserID] = append(list, *t)
	return nil
}

func (s *MemoryPushTokenStore) Delete(_ context.Context, userID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.tokens[userID]
	for i := range list {
		if list[i].Token == token {
			s.tokens[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *MemoryPushTokenStore) TokensForUsers(_ context.Context, userIDs []string) (map[string][]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string][]string, len(userIDs))
	for _, id := range userIDs {
		for _, t := range s.tokens[id] {
			out[id] = append(out[id], t.Token)
		}
	}
	return out, nil
}
