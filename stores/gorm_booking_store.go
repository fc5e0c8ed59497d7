package stores

import (
	"context"
	"errors"
	"fmt"
	"time"

	mysql "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"houseshow-backend/models"
	"houseshow-backend/services"
)

const (
	mysqlErrDuplicateEntry  = 1062
	mysqlErrNoReferencedRow = 1452
)

// GormBookingStore keeps bookings and their history in MySQL.
type GormBookingStore struct {
	db *gorm.DB
}

func NewGormBookingStore(db *gorm.DB) *GormBookingStore {
	return &GormBookingStore{db: db}
}

func (s *GormBookingStore) Create(ctx context.Context, b *models.Booking, ev *models.BookingEvent) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(b).Error; err != nil {
			var myErr *mysql.MySQLError
			if errors.As(err, &myErr) && myErr.Number == mysqlErrNoReferencedRow {
				return services.NewValidationError("host_id", "refers to an unknown user")
			}
			return fmt.Errorf("create booking: %w", err)
		}
		if ev != nil {
			ev.BookingID = b.ID
			if err := tx.Create(ev).Error; err != nil {
				return fmt.Errorf("record booking event: %w", err)
			}
		}
		return nil
	})
}

func (s *GormBookingStore) Get(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, services.ErrBookingNotFound
		}
		return nil, fmt.Errorf("load booking: %w", err)
	}
	return &b, nil
}

func (s *GormBookingStore) List(ctx context.Context, f services.ListFilter) ([]models.Booking, error) {
	f = f.Normalize()
	q := s.db.WithContext(ctx).Model(&models.Booking{})
	if f.PartyID != "" {
		q = q.Where("artist_id = ? OR host_id = ?", f.PartyID, f.PartyID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}

	var out []models.Booking
	err := q.Order("requested_at DESC").Order("id").
		Offset(f.Offset()).
		Limit(f.Limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return out, nil
}

func (s *GormBookingStore) Events(ctx context.Context, bookingID string) ([]models.BookingEvent, error) {
	var out []models.BookingEvent
	err := s.db.WithContext(ctx).
		Where("booking_id = ?", bookingID).
		Order("created_at ASC").Order("id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list booking events: %w", err)
	}
	return out, nil
}

// ListDueForCompletion returns CONFIRMED bookings dated on or before the given
// instant. The caller decides per booking whether the show has really ended.
func (s *GormBookingStore) ListDueForCompletion(ctx context.Context, before time.Time, limit int) ([]models.Booking, error) {
	var out []models.Booking
	err := s.db.WithContext(ctx).
		Where("status = ? AND requested_date <= ?", models.BookingStatusConfirmed, before).
		Order("requested_date ASC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list bookings due for completion: %w", err)
	}
	return out, nil
}

// Transition locks the row, applies fn and writes the result back guarded by
// the state it was read in.
func (s *GormBookingStore) Transition(ctx context.Context, id string, fn services.TransitionFunc) (*models.Booking, error) {
	var out *models.Booking
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&b, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return services.ErrBookingNotFound
			}
			return fmt.Errorf("lock booking: %w", err)
		}

		prev := b.Token()
		ev, err := fn(&b)
		if err != nil {
			return err
		}
		b.Version = prev.Version + 1

		if err := writeTransition(tx, &b, prev); err != nil {
			return err
		}
		if ev != nil {
			ev.BookingID = b.ID
			if err := tx.Create(ev).Error; err != nil {
				return fmt.Errorf("record booking event: %w", err)
			}
		}
		out = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// writeTransition persists the mutable columns of b only if the row is still
// in state prev.
func writeTransition(tx *gorm.DB, b *models.Booking, prev models.StateToken) error {
	res := tx.Model(&models.Booking{}).
		Where("id = ? AND version = ? AND status = ? AND door_fee_status = ?",
			b.ID, prev.Version, prev.Status, prev.DoorFeeStatus).
		Updates(map[string]any{
			"status":                b.Status,
			"door_fee_status":       b.DoorFeeStatus,
			"door_fee_cents":        b.DoorFee,
			"host_response":         b.HostResponse,
			"responded_at":          b.RespondedAt,
			"confirmation_deadline": b.ConfirmationDeadline,
			"confirmed_at":          b.ConfirmedAt,
			"completed_at":          b.CompletedAt,
			"rejected_at":           b.RejectedAt,
			"cancelled_at":          b.CancelledAt,
			"cancelled_by":          b.CancelledBy,
			"cancel_reason":         b.CancelReason,
			"version":               b.Version,
			"updated_at":            b.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update booking: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return &services.ConcurrencyConflictError{BookingID: b.ID}
	}
	return nil
}
