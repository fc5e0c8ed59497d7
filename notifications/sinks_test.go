package notifications

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/9ssi7/exponent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	mail "gopkg.in/mail.v2"

	"houseshow-backend/models"
	"houseshow-backend/services"
	"houseshow-backend/stores"
)

type fakeMailer struct {
	sent []*mail.Message
	err  error
}

func (f *fakeMailer) DialAndSend(m ...*mail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

type fakePush struct {
	msgs []*exponent.Message
}

func (f *fakePush) Publish(_ context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error) {
	f.msgs = append(f.msgs, msgs...)
	return nil, nil
}

func seededUsers(t *testing.T) *stores.MemoryUserStore {
	t.Helper()
	users := stores.NewMemoryUserStore()
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &models.User{ID: "artist-1", DisplayName: "The Weeknights", Email: "band@example.com", Role: models.RoleArtist}))
	require.NoError(t, users.Create(ctx, &models.User{ID: "host-1", DisplayName: "Porch", Email: "porch@example.com", Role: models.RoleHost}))
	return users
}

func approvedNotice() services.TransitionNotice {
	return services.TransitionNotice{
		BookingID:     "b1",
		From:          models.BookingStatusPending,
		To:            models.BookingStatusApproved,
		DoorFeeStatus: models.DoorFeeStatusPendingArtist,
		DoorFee:       models.NewMoney(2500),
		Operation:     services.OpRespond,
		ActorID:       "host-1",
		ActorRole:     models.RoleHost,
		ArtistID:      "artist-1",
		HostID:        "host-1",
	}
}

func TestMailSink_SendsToCounterParty(t *testing.T) {
	mailer := &fakeMailer{}
	sink := NewMailSink(MailConfig{Username: "bookings@example.com", FromName: "House Shows"}, seededUsers(t), zap.NewNop().Sugar())
	sink.sender = mailer

	require.NoError(t, sink.Deliver(context.Background(), approvedNotice()))
	require.Len(t, mailer.sent, 1)

	msg := mailer.sent[0]
	assert.Equal(t, []string{"band@example.com"}, msg.GetHeader("To"))
	assert.Equal(t, []string{"Booking Approved"}, msg.GetHeader("Subject"))

	var buf bytes.Buffer
	_, err := msg.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "$25.00")
}

func TestMailSink_ComposeFlattensLineBreaks(t *testing.T) {
	sink := NewMailSink(MailConfig{Username: "bookings@example.com"}, seededUsers(t), zap.NewNop().Sugar())
	to := &models.User{DisplayName: "Rob\rBcc: x\nJones", Email: "rob@example.com"}

	m := sink.compose(to, Message{Title: "Booking Approved\nBcc: evil@example.com", Body: "See you there."})
	assert.Equal(t, []string{"Booking Approved Bcc: evil@example.com"}, m.GetHeader("Subject"))
	assert.Empty(t, m.GetHeader("Bcc"))

	var buf bytes.Buffer
	_, err := m.WriteTo(&buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Hi Rob Bcc: x Jones,")
}

func TestMailSink_MockModeAndErrors(t *testing.T) {
	sink := NewMailSink(MailConfig{}, seededUsers(t), zap.NewNop().Sugar())
	assert.Nil(t, sink.sender)
	assert.NoError(t, sink.Deliver(context.Background(), approvedNotice()))

	sink.sender = &fakeMailer{err: errors.New("connection refused")}
	err := sink.Deliver(context.Background(), approvedNotice())
	assert.ErrorContains(t, err, "connection refused")

	n := approvedNotice()
	n.ArtistID = "ghost"
	err = sink.Deliver(context.Background(), n)
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}

func TestPushSink_BuildsExpoMessages(t *testing.T) {
	ctx := context.Background()
	tokens := stores.NewMemoryPushTokenStore()
	require.NoError(t, tokens.Upsert(ctx, &models.PushToken{UserID: "artist-1", Token: "ExponentPushToken[a]"}))
	require.NoError(t, tokens.Upsert(ctx, &models.PushToken{UserID: "artist-1", Token: "ExponentPushToken[b]"}))
	require.NoError(t, tokens.Upsert(ctx, &models.PushToken{UserID: "host-1", Token: "ExponentPushToken[h]"}))

	push := &fakePush{}
	sink := NewPushSink(push, tokens)
	require.NoError(t, sink.Deliver(ctx, approvedNotice()))

	require.Len(t, push.msgs, 2)
	for _, m := range push.msgs {
		require.Len(t, m.To, 1)
		assert.NotEqual(t, exponent.Token("ExponentPushToken[h]"), *m.To[0])
		assert.Equal(t, "Booking Approved", m.Title)
		assert.Equal(t, "b1", m.Data["bookingId"])
		assert.Equal(t, string(models.BookingStatusApproved), m.Data["status"])
	}
}

func TestPushSink_NoTokensNoPublish(t *testing.T) {
	push := &fakePush{}
	sink := NewPushSink(push, stores.NewMemoryPushTokenStore())
	require.NoError(t, sink.Deliver(context.Background(), approvedNotice()))
	assert.Empty(t, push.msgs)
}

func TestDescribe(t *testing.T) {
	n := approvedNotice()
	assert.Equal(t, "Booking Approved", describe(n).Title)

	n.Operation = services.OpCounterDoorFee
	n.From = models.BookingStatusApproved
	assert.Equal(t, "New Door Fee Offer", describe(n).Title)

	n.Operation = services.OpResolveDoorFee
	n.DoorFeeStatus = models.DoorFeeStatusAgreed
	assert.Equal(t, "Door Fee Agreed", describe(n).Title)

	n.To = models.BookingStatusRejected
	assert.Equal(t, "Door Fee Declined", describe(n).Title)

	n.From = models.BookingStatusPending
	assert.Equal(t, "Booking Rejected", describe(n).Title)

	assert.Equal(t, "no charge set", feeText(nil))
}
