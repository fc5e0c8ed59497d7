package notifications

import (
	"context"

	"go.uber.org/zap"

	"houseshow-backend/services"
)

type LogSink struct {
	log *zap.SugaredLogger
}

func NewLogSink(log *zap.SugaredLogger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Name() string { return "log" }

func (s *LogSink) Deliver(_ context.Context, n services.TransitionNotice) error {
	s.log.Infow("booking notice",
		"booking_id", n.BookingID,
		"from", n.From,
		"to", n.To,
		"door_fee_status", n.DoorFeeStatus,
		"actor", n.ActorID,
		"recipients", n.Recipients(),
	)
	return nil
}
