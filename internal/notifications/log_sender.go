package notifications

import (
	"context"
	"hotelbook/pkg/logger"
	"hotelbook/pkg/model"
)

// LogSender records the notification in the structured log only.
type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Name() string { return "log" }

func (s *LogSender) Send(_ context.Context, b *model.Booking) error {
	subject, _ := FormatEmail(b)
	s.log.Info(subject,
		"booking_id", b.ID,
		"hotel_id", b.HotelID,
		"guest_name", b.GuestName,
		"guest_email", b.GuestEmail,
		"created_by", b.CreatedBy,
		"start_date", b.StartDate.String(),
		"end_date", b.EndDate.String(),
	)
	return nil
}
