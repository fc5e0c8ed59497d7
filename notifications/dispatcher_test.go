package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"houseshow-backend/models"
	"houseshow-backend/services"
)

type recordingSink struct {
	mu   sync.Mutex
	got  []services.TransitionNotice
	err  error
	seen chan struct{}
}

func newRecordingSink() *recordingSink {
	return &recordingSink{seen: make(chan struct{}, 100)}
}

func (s *recordingSink) Name() string { return "recording" }

func (s *recordingSink) Deliver(_ context.Context, n services.TransitionNotice) error {
	s.mu.Lock()
	s.got = append(s.got, n)
	s.mu.Unlock()
	s.seen <- struct{}{}
	return s.err
}

func (s *recordingSink) ids() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.got))
	for _, n := range s.got {
		out = append(out, n.BookingID)
	}
	return out
}

type panickingSink struct{}

func (panickingSink) Name() string { return "panicking" }

func (panickingSink) Deliver(context.Context, services.TransitionNotice) error {
	panic("boom")
}

func notice(id string) services.TransitionNotice {
	return services.TransitionNotice{BookingID: id, To: models.BookingStatusApproved, ArtistID: "a", HostID: "h", ActorID: "h"}
}

func TestDispatcher_DeliversToEverySink(t *testing.T) {
	first, second := newRecordingSink(), newRecordingSink()
	first.err = errors.New("smtp down")
	d := NewDispatcher(4, nil, panickingSink{}, first, second)

	ctx, cancel := context.WithCancel(context.Background())
	go d.Run(ctx)

	d.Publish(notice("b1"))
	for _, s := range []*recordingSink{first, second} {
		select {
		case <-s.seen:
		case <-time.After(time.Second):
			t.Fatal("notice was not delivered")
		}
	}
	assert.Equal(t, []string{"b1"}, first.ids())
	assert.Equal(t, []string{"b1"}, second.ids())

	cancel()
	<-d.Done()
}

func TestDispatcher_DropsWhenFullAndDrainsOnStop(t *testing.T) {
	sink := newRecordingSink()
	d := NewDispatcher(2, nil, sink)

	d.Publish(notice("b1"))
	d.Publish(notice("b2"))
	d.Publish(notice("b3")) // queue full, dropped

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Run(ctx)

	select {
	case <-d.Done():
	default:
		t.Fatal("Done not closed after Run returned")
	}
	assert.Equal(t, []string{"b1", "b2"}, sink.ids())

	d.Publish(notice("b4"))
	require.Len(t, d.queue, 0)
	assert.Equal(t, []string{"b1", "b2"}, sink.ids())
}

type countingSink struct{ n atomic.Int64 }

func (*countingSink) Name() string { return "counting" }

func (s *countingSink) Deliver(context.Context, services.TransitionNotice) error {
	s.n.Add(1)
	return nil
}

func TestDispatcher_PublishRacingShutdownIsNeverLostSilently(t *testing.T) {
	for i := 0; i < 20; i++ {
		core, logs := observer.New(zap.WarnLevel)
		sink := &countingSink{}
		d := NewDispatcher(1024, zap.New(core).Sugar(), sink)

		ctx, cancel := context.WithCancel(context.Background())
		go d.Run(ctx)

		const total = 500
		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < total; j++ {
				d.Publish(notice(fmt.Sprintf("b%d", j)))
			}
		}()
		cancel()
		wg.Wait()
		<-d.Done()

		dropped := logs.FilterMessage("notification dropped after shutdown").Len()
		assert.Equal(t, int64(total), sink.n.Load()+int64(dropped))
		assert.Len(t, d.queue, 0)
	}
}
