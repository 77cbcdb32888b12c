package notifications

import (
	"context"
	"fmt"
	"hotelbook/pkg/config"
	"hotelbook/pkg/model"

	"github.com/wneessen/go-mail"
)

const emailSubject = "New Booking Created"

// FormatEmail renders the support notice for a new booking.
func FormatEmail(b *model.Booking) (subject, body string) {
	body = fmt.Sprintf("New booking created.\n\nHotel ID: %s\nGuest Name: %s\nGuest Email: %s\nBooked By (Staff ID): %s\nDates: %s -> %s",
		b.HotelID,
		b.GuestName,
		b.GuestEmail,
		b.CreatedBy,
		b.StartDate,
		b.EndDate,
	)
	return emailSubject, body
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// SMTPConfigFrom reads the SMTP settings and support address from cfg.
func SMTPConfigFrom(cfg *config.Config) SMTPConfig {
	return SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		To:       cfg.SupportEmail,
	}
}

type mailer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// EmailSender mails the support address over SMTP.
type EmailSender struct {
	client mailer
	from   string
	to     string
}

func NewEmailSender(cfg SMTPConfig) (*EmailSender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client for %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	return &EmailSender{client: client, from: cfg.From, to: cfg.To}, nil
}

func (s *EmailSender) Name() string { return "smtp" }

func (s *EmailSender) Send(ctx context.Context, b *model.Booking) error {
	msg, err := s.buildMessage(b)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send booking email: %w", err)
	}
	return nil
}

func (s *EmailSender) buildMessage(b *model.Booking) (*mail.Msg, error) {
	subject, body := FormatEmail(b)

	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", s.from, err)
	}
	if err := msg.To(s.to); err != nil {
		return nil, fmt.Errorf("invalid support address %q: %w", s.to, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)
	return msg, nil
}
