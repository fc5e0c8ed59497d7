// services/booking_service.go
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"houseshow-backend/models"
)

const DefaultConfirmationWindow = 72 * time.Hour

// ---------------------------
// Inputs
// ---------------------------

type CreateBookingInput struct {
	ArtistID           string          `json:"artist_id" validate:"required"`
	HostID             string          `json:"host_id" validate:"required,nefield=ArtistID"`
	RequestedDate      string          `json:"requested_date" validate:"required,datetime=2006-01-02"`
	RequestedTime      *string         `json:"requested_time,omitempty" validate:"omitnil,datetime=15:04"`
	EstimatedDuration  *int            `json:"estimated_duration,omitempty" validate:"omitnil,gt=0,lte=1440"`
	ExpectedAttendance *int            `json:"expected_attendance,omitempty" validate:"omitnil,gte=0"`
	DoorFee            *models.Money   `json:"door_fee,omitempty" validate:"omitnil,gte=0"`
	ArtistMessage      *string         `json:"artist_message,omitempty" validate:"omitnil,max=2000"`
	LodgingRequested   bool            `json:"lodging_requested"`
	LodgingDetails     json.RawMessage `json:"lodging_details,omitempty"`
}

type RespondInput struct {
	Decision        Decision      `json:"decision" validate:"required,oneof=approve reject"`
	HostResponse    *string       `json:"host_response,omitempty" validate:"omitnil,max=2000"`
	ProposedDoorFee *models.Money `json:"proposed_door_fee,omitempty" validate:"omitnil,gte=0"`
}

type ResolveDoorFeeInput struct {
	Decision FeeDecision `json:"decision" validate:"required,oneof=accept decline"`
}

type CounterDoorFeeInput struct {
	DoorFee *models.Money `json:"door_fee" validate:"required,gte=0"`
	Note    *string       `json:"note,omitempty" validate:"omitnil,max=2000"`
}

type CancelInput struct {
	Reason *string `json:"reason,omitempty" validate:"omitnil,max=2000"`
}

// ---------------------------
// Service
// ---------------------------

// BookingService runs the booking lifecycle. Every mutation is a single
// store transition; notifications go out only after it has been committed.
type BookingService struct {
	store              BookingStore
	users              UserStore
	notifier           Notifier
	log                *zap.SugaredLogger
	now                func() time.Time
	confirmationWindow time.Duration
}

type BookingOption func(*BookingService)

func WithClock(now func() time.Time) BookingOption {
	return func(s *BookingService) { s.now = now }
}

// WithUserDirectory makes Create check that host_id names an existing host.
func WithUserDirectory(users UserStore) BookingOption {
	return func(s *BookingService) { s.users = users }
}

func WithConfirmationWindow(d time.Duration) BookingOption {
	return func(s *BookingService) {
		if d > 0 {
			s.confirmationWindow = d
		}
	}
}

func NewBookingService(store BookingStore, notifier Notifier, log *zap.SugaredLogger, opts ...BookingOption) *BookingService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	s := &BookingService{
		store:              store,
		notifier:           notifier,
		log:                log,
		now:                func() time.Time { return time.Now().UTC() },
		confirmationWindow: DefaultConfirmationWindow,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a PENDING booking on behalf of the artist named in the input.
func (s *BookingService) Create(ctx context.Context, actor Actor, in CreateBookingInput) (*models.Booking, error) {
	in.ArtistID = strings.TrimSpace(in.ArtistID)
	in.HostID = strings.TrimSpace(in.HostID)

	verr := validateInput(in)
	if actor.Role != models.RoleArtist || actor.UserID != in.ArtistID {
		verr.Add("artist_id", "must be the requesting artist")
	}
	lodging := normalizeJSON(in.LodgingDetails)
	if lodging != nil {
		if !json.Valid(lodging) {
			verr.Add("lodging_details", "must be valid JSON")
		} else if !in.LodgingRequested {
			verr.Add("lodging_details", "requires lodging_requested")
		}
	}
	if !verr.empty() {
		return nil, verr
	}
	if err := s.checkHost(ctx, in.HostID); err != nil {
		return nil, err
	}

	date, err := time.Parse(models.DateLayout, in.RequestedDate)
	if err != nil {
		return nil, NewValidationError("requested_date", err.Error())
	}

	now := s.now()
	b := &models.Booking{
		ID:                 uuid.NewString(),
		ArtistID:           in.ArtistID,
		HostID:             in.HostID,
		RequestedDate:      date,
		RequestedTime:      in.RequestedTime,
		EstimatedDuration:  in.EstimatedDuration,
		ExpectedAttendance: in.ExpectedAttendance,
		ArtistDoorFee:      in.DoorFee.Clone(),
		DoorFee:            in.DoorFee.Clone(),
		DoorFeeStatus:      models.DoorFeeStatusNone,
		Status:             models.BookingStatusPending,
		ArtistMessage:      in.ArtistMessage,
		LodgingRequested:   in.LodgingRequested,
		LodgingDetails:     lodging,
		RequestedAt:        now,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	ev := newEvent(b, "", actor, OpCreate, in.ArtistMessage, now)
	if err := s.store.Create(ctx, b, ev); err != nil {
		return nil, err
	}

	s.log.Infow("booking created",
		"booking_id", b.ID,
		"artist_id", b.ArtistID,
		"host_id", b.HostID,
		"requested_date", in.RequestedDate,
	)
	s.publish(b, "", OpCreate, actor, now)
	return b, nil
}

func (s *BookingService) checkHost(ctx context.Context, hostID string) error {
	if s.users == nil {
		return nil
	}
	u, err := s.users.GetByID(ctx, hostID)
	if errors.Is(err, ErrUserNotFound) {
		return NewValidationError("host_id", "unknown user")
	}
	if err != nil {
		return fmt.Errorf("look up host: %w", err)
	}
	if u.Role != models.RoleHost {
		return NewValidationError("host_id", "must be a host")
	}
	return nil
}

// Respond records the host's approval or rejection of a PENDING booking.
func (s *BookingService) Respond(ctx context.Context, actor Actor, id string, in RespondInput) (*models.Booking, error) {
	verr := validateInput(in)
	if in.Decision == DecisionReject && in.ProposedDoorFee != nil {
		verr.Add("proposed_door_fee", "only allowed when approving")
	}
	if !verr.empty() {
		return nil, verr
	}
	return s.transition(ctx, actor, id, OpRespond, in.HostResponse, func(b *models.Booking, now time.Time) error {
		return applyRespond(b, in, now, s.confirmationWindow)
	})
}

// ResolveDoorFee accepts or declines the fee offer awaiting the actor's answer.
func (s *BookingService) ResolveDoorFee(ctx context.Context, actor Actor, id string, in ResolveDoorFeeInput) (*models.Booking, error) {
	if verr := validateInput(in); !verr.empty() {
		return nil, verr
	}
	return s.transition(ctx, actor, id, OpResolveDoorFee, nil, func(b *models.Booking, now time.Time) error {
		return applyResolveDoorFee(b, partyRole(b, actor), in.Decision, now)
	})
}

// CounterDoorFee answers the pending fee offer with a different amount and
// hands the turn to the other party.
func (s *BookingService) CounterDoorFee(ctx context.Context, actor Actor, id string, in CounterDoorFeeInput) (*models.Booking, error) {
	if verr := validateInput(in); !verr.empty() {
		return nil, verr
	}
	return s.transition(ctx, actor, id, OpCounterDoorFee, in.Note, func(b *models.Booking, _ time.Time) error {
		return applyCounterDoorFee(b, partyRole(b, actor), *in.DoorFee)
	})
}

func (s *BookingService) Confirm(ctx context.Context, actor Actor, id string) (*models.Booking, error) {
	return s.transition(ctx, actor, id, OpConfirm, nil, func(b *models.Booking, now time.Time) error {
		return applyConfirm(b, now)
	})
}

func (s *BookingService) Cancel(ctx context.Context, actor Actor, id string, in CancelInput) (*models.Booking, error) {
	if verr := validateInput(in); !verr.empty() {
		return nil, verr
	}
	return s.transition(ctx, actor, id, OpCancel, in.Reason, func(b *models.Booking, now time.Time) error {
		return applyCancel(b, actor, in.Reason, now)
	})
}

// MarkCompleted closes a CONFIRMED booking once the show has happened.
func (s *BookingService) MarkCompleted(ctx context.Context, actor Actor, id string) (*models.Booking, error) {
	return s.transition(ctx, actor, id, OpMarkCompleted, nil, func(b *models.Booking, now time.Time) error {
		return applyMarkCompleted(b, now)
	})
}

func (s *BookingService) Get(ctx context.Context, actor Actor, id string) (*models.Booking, error) {
	b, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(b, actor, OpView); err != nil {
		return nil, err
	}
	return b, nil
}

// List returns the actor's bookings. Admins see every booking.
func (s *BookingService) List(ctx context.Context, actor Actor, f ListFilter) ([]models.Booking, error) {
	if actor.IsZero() {
		return nil, unauthorized(actor, OpView)
	}
	if f.Status != nil && !f.Status.IsValid() {
		return nil, NewValidationError("status", fmt.Sprintf("unknown status %q", *f.Status))
	}
	f.PartyID = ""
	if !actor.isPrivileged() {
		f.PartyID = actor.UserID
	}
	return s.store.List(ctx, f.Normalize())
}

// History returns the transition log of a booking, oldest first.
func (s *BookingService) History(ctx context.Context, actor Actor, id string) ([]models.BookingEvent, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.store.Events(ctx, id)
}

// ---------------------------
// helpers
// ---------------------------

func (s *BookingService) transition(
	ctx context.Context,
	actor Actor,
	id string,
	op Operation,
	note *string,
	mutate func(b *models.Booking, now time.Time) error,
) (*models.Booking, error) {
	if actor.IsZero() {
		return nil, unauthorized(actor, op)
	}

	var (
		from models.BookingStatus
		now  time.Time
	)
	updated, err := s.store.Transition(ctx, id, func(b *models.Booking) (*models.BookingEvent, error) {
		if err := authorize(b, actor, op); err != nil {
			return nil, err
		}
		from = b.Status
		now = s.now()
		if err := mutate(b, now); err != nil {
			return nil, err
		}
		if !CanTransition(from, b.Status) {
			return nil, fmt.Errorf("booking %s: %s produced illegal transition %s -> %s", b.ID, op, from, b.Status)
		}
		b.UpdatedAt = now
		return newEvent(b, from, actor, op, note, now), nil
	})
	if err != nil {
		if IsConcurrencyConflictError(err) {
			s.log.Warnw("booking transition lost a race", "booking_id", id, "op", op, "actor", actor.UserID)
		}
		return nil, err
	}

	s.log.Infow("booking transition",
		"booking_id", updated.ID,
		"op", op,
		"from", from,
		"to", updated.Status,
		"door_fee_status", updated.DoorFeeStatus,
		"actor", actor.UserID,
	)
	s.publish(updated, from, op, actor, now)
	return updated, nil
}

func (s *BookingService) publish(b *models.Booking, from models.BookingStatus, op Operation, actor Actor, at time.Time) {
	s.notifier.Publish(TransitionNotice{
		BookingID:     b.ID,
		From:          from,
		To:            b.Status,
		DoorFeeStatus: b.DoorFeeStatus,
		DoorFee:       b.DoorFee.Clone(),
		Operation:     op,
		ActorID:       actor.UserID,
		ActorRole:     actor.Role,
		ArtistID:      b.ArtistID,
		HostID:        b.HostID,
		OccurredAt:    at,
	})
}

func newEvent(b *models.Booking, from models.BookingStatus, actor Actor, op Operation, note *string, at time.Time) *models.BookingEvent {
	return &models.BookingEvent{
		BookingID:     b.ID,
		FromStatus:    from,
		ToStatus:      b.Status,
		DoorFeeStatus: b.DoorFeeStatus,
		DoorFee:       b.DoorFee.Clone(),
		ActorID:       actor.UserID,
		ActorRole:     actor.Role,
		Operation:     string(op),
		Note:          note,
		CreatedAt:     at,
	}
}

func normalizeJSON(raw json.RawMessage) datatypes.JSON {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return datatypes.JSON(trimmed)
}
