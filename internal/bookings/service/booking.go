package service

import (
	"context"
	"errors"
	"fmt"
	bookingserrors "hotelbook/internal/bookings/errors"
	"hotelbook/internal/bookings/lock"
	"hotelbook/internal/bookings/repository"
	"hotelbook/internal/bookings/validator"
	"hotelbook/internal/notifications"
	"hotelbook/pkg/config"
	apperrors "hotelbook/pkg/errors"
	"hotelbook/pkg/logger"
	"hotelbook/pkg/model"
	"hotelbook/pkg/sanitizer"
	"time"
)

type BookingService interface {
	// CreateBooking commits a stay for the hotel unless it overlaps an
	// existing booking. callerID is recorded as the booking's creator.
	CreateBooking(ctx context.Context, hotelID, callerID string, req *model.BookingRequest) (*model.Booking, error)
	// GetBookings lists the hotel's bookings ordered by start date.
	GetBookings(ctx context.Context, hotelID string) ([]*model.Booking, error)
}

type Option func(*bookingService)

// WithClock overrides the source of createdAt timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *bookingService) {
		s.now = now
	}
}

type bookingService struct {
	repo      repository.BookingRepository
	locker    lock.Locker
	validator *validator.BookingValidator
	notifier  notifications.Notifier
	log       *logger.Logger
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	locker lock.Locker,
	validator *validator.BookingValidator,
	notifier notifications.Notifier,
	cfg *config.Config,
	opts ...Option,
) BookingService {
	s := &bookingService{
		repo:      repo,
		locker:    locker,
		validator: validator,
		notifier:  notifier,
		log:       cfg.Log,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *bookingService) CreateBooking(ctx context.Context, hotelID, callerID string, req *model.BookingRequest) (*model.Booking, error) {
	hotelID = sanitizer.SanitizeID(hotelID)
	if hotelID == "" {
		return nil, apperrors.InvalidInput("Hotel ID cannot be empty")
	}
	if callerID == "" {
		return nil, apperrors.Unauthorized("Caller identity is required")
	}

	req = s.sanitize(req)
	if err := s.validate(req); err != nil {
		return nil, err
	}

	start, end := *req.StartDate, *req.EndDate
	if !start.Before(end) {
		s.log.Warn("Rejected booking with invalid date range",
			"hotel_id", hotelID,
			"start_date", start.String(),
			"end_date", end.String(),
		)
		return nil, apperrors.InvalidRange("startDate must be before endDate").WithCause(bookingserrors.ErrInvalidRange)
	}

	booking, err := s.commit(ctx, hotelID, callerID, req)
	if err != nil {
		return nil, err
	}

	s.log.Info("Booking created successfully",
		"booking_id", booking.ID,
		"hotel_id", booking.HotelID,
		"caller_id", callerID,
		"start_date", booking.StartDate.String(),
		"end_date", booking.EndDate.String(),
	)

	s.notifier.Notify(booking)
	return booking, nil
}

// commit runs the overlap check and the insert while holding the hotel's
// lock, so two overlapping requests cannot both pass the check. Both run
// under the lock's context and are abandoned once its lease runs out.
func (s *bookingService) commit(ctx context.Context, hotelID, callerID string, req *model.BookingRequest) (*model.Booking, error) {
	lockCtx, unlock, err := s.locker.Lock(ctx, hotelID)
	if err != nil {
		s.log.Error("Failed to acquire hotel booking lock", "hotel_id", hotelID, "error", err)
		if ctx.Err() != nil {
			return nil, apperrors.Timeout("Timed out waiting to book this hotel, please retry").WithCause(err)
		}
		return nil, apperrors.Internal("Failed to acquire hotel booking lock", err)
	}
	defer unlock()

	start, end := *req.StartDate, *req.EndDate
	if err := s.verifyNoOverlap(lockCtx, hotelID, start, end); err != nil {
		if !errors.Is(err, bookingserrors.ErrConflict) && leaseExpired(ctx, lockCtx) {
			return nil, s.leaseExpiredError(hotelID, err)
		}
		return nil, err
	}

	booking := &model.Booking{
		HotelID:    hotelID,
		CreatedBy:  callerID,
		GuestName:  req.GuestName,
		GuestEmail: req.GuestEmail,
		StartDate:  start,
		EndDate:    end,
		CreatedAt:  s.now().UTC().Truncate(time.Millisecond),
	}

	if leaseExpired(ctx, lockCtx) {
		return nil, s.leaseExpiredError(hotelID, lockCtx.Err())
	}
	saved, err := s.repo.Save(lockCtx, booking)
	if err != nil {
		if leaseExpired(ctx, lockCtx) {
			return nil, s.leaseExpiredError(hotelID, err)
		}
		s.log.Error("Failed to save booking", "hotel_id", hotelID, "error", err)
		return nil, apperrors.Internal("Failed to save booking", err)
	}
	return saved, nil
}

// leaseExpired reports whether the lock's context ended while the caller's
// did not, which only happens when the lease deadline passed.
func leaseExpired(ctx, lockCtx context.Context) bool {
	return lockCtx.Err() != nil && ctx.Err() == nil
}

func (s *bookingService) leaseExpiredError(hotelID string, err error) error {
	s.log.Error("Hotel booking lock lease expired before the booking was saved", "hotel_id", hotelID, "error", err)
	return apperrors.Timeout("Booking lock lease expired before the booking was saved, please retry").
		WithCause(fmt.Errorf("%w: %w", bookingserrors.ErrLeaseExpired, err))
}

func (s *bookingService) GetBookings(ctx context.Context, hotelID string) ([]*model.Booking, error) {
	hotelID = sanitizer.SanitizeID(hotelID)
	if hotelID == "" {
		return nil, apperrors.InvalidInput("Hotel ID cannot be empty")
	}

	bookings, err := s.repo.ListByHotel(ctx, hotelID)
	if err != nil {
		s.log.Error("Failed to list bookings", "hotel_id", hotelID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	if bookings == nil {
		bookings = []*model.Booking{}
	}

	s.log.Debug("Bookings listed", "hotel_id", hotelID, "count", len(bookings))
	return bookings, nil
}

// --- Helpers ---

func (s *bookingService) sanitize(req *model.BookingRequest) *model.BookingRequest {
	if req == nil {
		return nil
	}
	clean := *req
	clean.GuestName = sanitizer.SanitizeGuestName(clean.GuestName)
	clean.GuestEmail = sanitizer.SanitizeEmail(clean.GuestEmail)
	return &clean
}

func (s *bookingService) validate(req *model.BookingRequest) error {
	err := s.validator.Validate(req)
	if err == nil {
		return nil
	}

	s.log.Warn("Booking validation failed", "error", err)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Booking validation failed", verrs.Details())
	}
	return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
}

func (s *bookingService) verifyNoOverlap(ctx context.Context, hotelID string, start, end model.Date) error {
	existing, err := s.repo.FindOverlapping(ctx, hotelID, start, end)
	if err != nil {
		s.log.Error("Failed to check existing bookings", "hotel_id", hotelID, "error", err)
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.Overlaps(start, end) {
			s.log.Info("Booking conflict detected",
				"hotel_id", hotelID,
				"conflicting_booking_id", b.ID,
				"conflicting_start", b.StartDate.String(),
				"conflicting_end", b.EndDate.String(),
				"requested_start", start.String(),
				"requested_end", end.String(),
			)
			return apperrors.Conflict("Booking dates overlap with existing booking").WithCause(bookingserrors.ErrConflict)
		}
	}
	return nil
}
