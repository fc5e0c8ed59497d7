package services

import (
	"context"
	"time"

	"houseshow-backend/models"
)

// TransitionFunc mutates a freshly read booking and returns the history row
// describing the change. Returning an error aborts the write.
type TransitionFunc func(b *models.Booking) (*models.BookingEvent, error)

// BookingStore persists bookings. Transition runs fn against the current row
// and commits only if nobody else changed the row in between; otherwise it
// returns *ConcurrencyConflictError.
type BookingStore interface {
	Create(ctx context.Context, b *models.Booking, ev *models.BookingEvent) error
	Get(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context, f ListFilter) ([]models.Booking, error)
	Events(ctx context.Context, bookingID string) ([]models.BookingEvent, error)
	ListDueForCompletion(ctx context.Context, before time.Time, limit int) ([]models.Booking, error)
	Transition(ctx context.Context, id string, fn TransitionFunc) (*models.Booking, error)
}

type ListFilter struct {
	// PartyID restricts results to bookings where the user is artist or host.
	// Empty means all bookings.
	PartyID string
	Status  *models.BookingStatus
	Page    int
	Limit   int
}

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Normalize clamps paging to sane values.
func (f ListFilter) Normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageLimit
	}
	if f.Limit > maxPageLimit {
		f.Limit = maxPageLimit
	}
	return f
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type PushTokenStore interface {
	Upsert(ctx context.Context, t *models.PushToken) error
	Delete(ctx context.Context, userID, token string) error
	TokensForUsers(ctx context.Context, userIDs []string) (map[string][]string, error)
}
