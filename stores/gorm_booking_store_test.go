package stores

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"houseshow-backend/config"
	"houseshow-backend/models"
	"houseshow-backend/services"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, config.Migrate(db))
	for _, u := range []models.User{
		{ID: "artist-1", DisplayName: "Artist", Email: "artist@example.com", Role: models.RoleArtist},
		{ID: "host-1", DisplayName: "Host", Email: "host@example.com", Role: models.RoleHost},
	} {
		require.NoError(t, db.Create(&u).Error)
	}
	return db
}

func newStoredBooking(t *testing.T, s *GormBookingStore, date time.Time, ask *models.Money) *models.Booking {
	t.Helper()
	now := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	b := &models.Booking{
		ID:            uuid.NewString(),
		ArtistID:      "artist-1",
		HostID:        "host-1",
		RequestedDate: date,
		ArtistDoorFee: ask,
		DoorFee:       ask.Clone(),
		Status:        models.BookingStatusPending,
		RequestedAt:   now,
		Version:       1,
	}
	ev := &models.BookingEvent{ToStatus: models.BookingStatusPending, ActorID: "artist-1", ActorRole: models.RoleArtist, Operation: "create", CreatedAt: now}
	require.NoError(t, s.Create(context.Background(), b, ev))
	return b
}

func approveFn(fee models.Money) services.TransitionFunc {
	return func(b *models.Booking) (*models.BookingEvent, error) {
		if b.Status != models.BookingStatusPending {
			return nil, &services.InvalidStateError{BookingID: b.ID, Status: b.Status}
		}
		from := b.Status
		b.Status = models.BookingStatusApproved
		b.DoorFee = &fee
		b.DoorFeeStatus = models.DoorFeeStatusPendingArtist
		return &models.BookingEvent{FromStatus: from, ToStatus: b.Status, DoorFeeStatus: b.DoorFeeStatus, DoorFee: &fee, Operation: "respond"}, nil
	}
}

func TestGormBookingStore_CreateAndGet(t *testing.T) {
	s := NewGormBookingStore(newTestDB(t))
	ctx := context.Background()
	b := newStoredBooking(t, s, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), models.NewMoney(1500))

	got, err := s.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, got.Status)
	assert.Equal(t, models.DoorFeeStatusNone, got.DoorFeeStatus)
	require.NotNil(t, got.ArtistDoorFee)
	assert.Equal(t, models.Money(1500), *got.ArtistDoorFee)
	assert.Equal(t, 1, got.Version)
	assert.Equal(t, "2025-06-01", got.RequestedDate.UTC().Format(models.DateLayout))

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, services.ErrBookingNotFound)

	events, err := s.Events(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "create", events[0].Operation)
}

func TestGormBookingStore_Transition(t *testing.T) {
	s := NewGormBookingStore(newTestDB(t))
	ctx := context.Background()
	b := newStoredBooking(t, s, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), models.NewMoney(1500))

	updated, err := s.Transition(ctx, b.ID, approveFn(2500))
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusApproved, updated.Status)
	assert.Equal(t, 2, updated.Version)

	got, err := s.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusApproved, got.Status)
	assert.Equal(t, models.DoorFeeStatusPendingArtist, got.DoorFeeStatus)
	assert.Equal(t, models.Money(2500), *got.DoorFee)
	assert.Equal(t, models.Money(1500), *got.ArtistDoorFee)
	assert.Equal(t, 2, got.Version)

	events, err := s.Events(ctx, b.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.BookingStatusPending, events[1].FromStatus)
	assert.Equal(t, models.BookingStatusApproved, events[1].ToStatus)

	// the guard fails against the fresh row, nothing is written
	_, err = s.Transition(ctx, b.ID, approveFn(3000))
	assert.True(t, services.IsInvalidStateError(err))
	events, err = s.Events(ctx, b.ID)
	require.NoError(t, err)
	assert.Len(t, events, 2)

	_, err = s.Transition(ctx, "missing", approveFn(1))
	assert.ErrorIs(t, err, services.ErrBookingNotFound)
}

func TestWriteTransition_StaleTokenConflicts(t *testing.T) {
	db := newTestDB(t)
	s := NewGormBookingStore(db)
	ctx := context.Background()
	b := newStoredBooking(t, s, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), nil)

	stale, err := s.Get(ctx, b.ID)
	require.NoError(t, err)
	prev := stale.Token()

	_, err = s.Transition(ctx, b.ID, approveFn(2000))
	require.NoError(t, err)

	stale.Status = models.BookingStatusCancelled
	stale.Version = prev.Version + 1
	err = writeTransition(db.WithContext(ctx), stale, prev)
	assert.True(t, services.IsConcurrencyConflictError(err))

	got, err := s.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusApproved, got.Status)
}

func TestGormBookingStore_ListAndDue(t *testing.T) {
	s := NewGormBookingStore(newTestDB(t))
	ctx := context.Background()

	june1 := newStoredBooking(t, s, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), nil)
	june9 := newStoredBooking(t, s, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), nil)
	confirm := func(b *models.Booking) (*models.BookingEvent, error) {
		b.Status = models.BookingStatusConfirmed
		return nil, nil
	}
	for _, b := range []*models.Booking{june1, june9} {
		_, err := s.Transition(ctx, b.ID, confirm)
		require.NoError(t, err)
	}
	newStoredBooking(t, s, time.Date(2025, 5, 20, 0, 0, 0, 0, time.UTC), nil)

	all, err := s.List(ctx, services.ListFilter{PartyID: "host-1"})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := s.List(ctx, services.ListFilter{PartyID: "host-2"})
	require.NoError(t, err)
	assert.Empty(t, none)

	confirmed := models.BookingStatusConfirmed
	onlyConfirmed, err := s.List(ctx, services.ListFilter{Status: &confirmed, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, onlyConfirmed, 1)

	due, err := s.ListDueForCompletion(ctx, time.Date(2025, 6, 5, 0, 0, 0, 0, time.UTC), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, june1.ID, due[0].ID)
}

func TestGormUserStore(t *testing.T) {
	s := NewGormUserStore(newTestDB(t))
	ctx := context.Background()
	u := &models.User{ID: uuid.NewString(), DisplayName: "Porch", Email: "porch@example.com", Role: models.RoleHost}
	require.NoError(t, s.Create(ctx, u))

	byEmail, err := s.GetByEmail(ctx, "porch@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := s.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleHost, byID.Role)

	_, err = s.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestGormPushTokenStore(t *testing.T) {
	s := NewGormPushTokenStore(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, s.Upsert(ctx, &models.PushToken{UserID: "host-1", Token: "a"}))
	require.NoError(t, s.Upsert(ctx, &models.PushToken{UserID: "host-1", Token: "a"}))
	require.NoError(t, s.Upsert(ctx, &models.PushToken{UserID: "host-1", Token: "b"}))
	require.NoError(t, s.Upsert(ctx, &models.PushToken{UserID: "artist-1", Token: "c"}))

	tokens, err := s.TokensForUsers(ctx, []string{"host-1"})
	require.NoError(t, err)
	assert.Equal(t, map[string][]string{"host-1": {"a", "b"}}, tokens)

	require.NoError(t, s.Delete(ctx, "host-1", "a"))
	tokens, err = s.TokensForUsers(ctx, []string{"host-1", "artist-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, tokens["host-1"])
	assert.Equal(t, []string{"c"}, tokens["artist-1"])
}
