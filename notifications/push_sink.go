package notifications

import (
	"context"

	"github.com/9ssi7/exponent"

	"houseshow-backend/services"
)

// PushSender is the part of the exponent client the sink needs.
type PushSender interface {
	Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error)
}

type TokenLookup interface {
	TokensForUsers(ctx context.Context, userIDs []string) (map[string][]string, error)
}

// NewExpoClient builds the Expo push client. The access token is optional.
func NewExpoClient(accessToken string) *exponent.Client {
	if accessToken == "" {
		return exponent.NewClient()
	}
	return exponent.NewClient(exponent.WithAccessToken(accessToken))
}

// PushSink sends an Expo push to every registered device of the counter-party.
type PushSink struct {
	sender PushSender
	tokens TokenLookup
}

func NewPushSink(sender PushSender, tokens TokenLookup) *PushSink {
	return &PushSink{sender: sender, tokens: tokens}
}

func (s *PushSink) Name() string { return "push" }

func (s *PushSink) Deliver(ctx context.Context, n services.TransitionNotice) error {
	byUser, err := s.tokens.TokensForUsers(ctx, n.Recipients())
	if err != nil {
		return err
	}

	content := describe(n)
	var msgs []*exponent.Message
	for _, tokens := range byUser {
		for _, t := range tokens {
			token := exponent.Token(t)
			msgs = append(msgs, &exponent.Message{
				To:    []*exponent.Token{&token},
				Title: content.Title,
				Body:  content.Body,
				// the app routes on these when the notification is tapped
				Data: map[string]string{
					"type":      "booking",
					"status":    string(n.To),
					"bookingId": n.BookingID,
					"screen":    "booking-details-screen",
				},
			})
		}
	}
	if len(msgs) == 0 {
		return nil
	}

	_, err = s.sender.Publish(ctx, msgs)
	return err
}
