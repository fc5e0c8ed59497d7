package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"houseshow-backend/models"
	"houseshow-backend/services"
)

func (f *fixture) confirmed(t *testing.T, in services.CreateBookingInput) *models.Booking {
	t.Helper()
	ctx := context.Background()
	in.ArtistID = artist.UserID
	in.HostID = host.UserID
	b, err := f.svc.Create(ctx, artist, in)
	require.NoError(t, err)
	f.approve(t, b.ID, nil)
	b, err = f.svc.Confirm(ctx, artist, b.ID)
	require.NoError(t, err)
	return b
}

func TestCompletionSweeper_CompletesEndedShows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := "20:00"
	duration := 90

	allDay := f.confirmed(t, services.CreateBookingInput{RequestedDate: "2025-06-01"})
	evening := f.confirmed(t, services.CreateBookingInput{
		RequestedDate:     "2025-06-03",
		RequestedTime:     &start,
		EstimatedDuration: &duration,
	})
	stillPending := f.create(t, nil)

	sweeper := services.NewCompletionSweeper(f.svc, f.store, time.Minute, nil)

	n, err := sweeper.Sweep(ctx, time.Date(2025, 6, 1, 22, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = sweeper.Sweep(ctx, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = sweeper.Sweep(ctx, time.Date(2025, 6, 3, 21, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = sweeper.Sweep(ctx, time.Date(2025, 6, 3, 21, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	for id, want := range map[string]models.BookingStatus{
		allDay.ID:       models.BookingStatusCompleted,
		evening.ID:      models.BookingStatusCompleted,
		stillPending.ID: models.BookingStatusPending,
	} {
		b, err := f.store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, b.Status)
	}

	events, err := f.store.Events(ctx, allDay.ID)
	require.NoError(t, err)
	last := events[len(events)-1]
	assert.Equal(t, services.SystemActor.UserID, last.ActorID)
	assert.Equal(t, models.RoleSystem, last.ActorRole)
}

func TestCompletionSweeper_RunStopsWithContext(t *testing.T) {
	f := newFixture(t)
	sweeper := services.NewCompletionSweeper(f.svc, f.store, 5*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}
}

func TestCompletionSweeper_DisabledReturnsImmediately(t *testing.T) {
	f := newFixture(t)
	sweeper := services.NewCompletionSweeper(f.svc, f.store, 0, nil)

	done := make(chan struct{})
	go func() {
		sweeper.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("disabled sweeper kept running")
	}
}
