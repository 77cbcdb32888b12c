package repository

import (
	"context"
	"fmt"
	bookingserrors "hotelbook/internal/bookings/errors"
	"hotelbook/pkg/config"
	"hotelbook/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "bookings"
)

type BookingRepository interface {
	// ListByHotel returns every booking of the hotel ordered by start date.
	ListByHotel(ctx context.Context, hotelID string) ([]*model.Booking, error)
	// FindOverlapping returns the bookings of the hotel whose stay intersects [start, end).
	FindOverlapping(ctx context.Context, hotelID string, start, end model.Date) ([]*model.Booking, error)
	// Save persists a new booking and returns it with its ID assigned.
	Save(ctx context.Context, booking *model.Booking) (*model.Booking, error)
}

type mongoBookingRepository struct {
	readTimeout  time.Duration
	writeTimeout time.Duration
	collection   *mongo.Collection
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	return NewMongoBookingRepositoryFromDB(cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.ReadTimeout, cfg.WriteTimeout)
}

func NewMongoBookingRepositoryFromDB(db *mongo.Database, readTimeout, writeTimeout time.Duration) BookingRepository {
	return &mongoBookingRepository{
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
		collection:   db.Collection(CollectionName),
	}
}

// withTimeout bounds the call by timeout without extending a shorter caller deadline.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoBookingRepository) ListByHotel(ctx context.Context, hotelID string) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.readTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{
		{Key: "start_date", Value: 1},
		{Key: "_id", Value: 1},
	})

	return r.find(ctx, bson.M{"hotel_id": hotelID}, opts)
}

func (r *mongoBookingRepository) FindOverlapping(ctx context.Context, hotelID string, start, end model.Date) ([]*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.readTimeout)
	defer cancel()

	return r.find(ctx, buildOverlapFilter(hotelID, start, end), options.Find().SetSort(bson.D{{Key: "start_date", Value: 1}}))
}

func (r *mongoBookingRepository) Save(ctx context.Context, booking *model.Booking) (*model.Booking, error) {
	ctx, cancel := withTimeout(ctx, r.writeTimeout)
	defer cancel()

	saved := *booking
	saved.ID = ""
	result, err := r.collection.InsertOne(ctx, &saved)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to insert booking: %w", bookingserrors.ErrStorage, err)
	}

	oid, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected inserted id type %T", bookingserrors.ErrStorage, result.InsertedID)
	}
	saved.ID = oid.Hex()
	return &saved, nil
}

func (r *mongoBookingRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*model.Booking, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find bookings: %w", bookingserrors.ErrStorage, err)
	}
	defer cursor.Close(ctx)

	bookings := make([]*model.Booking, 0)
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("%w: failed to decode bookings: %w", bookingserrors.ErrStorage, err)
	}

	return bookings, nil
}

// buildOverlapFilter matches stays [s, e) with s < end and e > start.
func buildOverlapFilter(hotelID string, start, end model.Date) bson.M {
	return bson.M{
		"hotel_id":   hotelID,
		"start_date": bson.M{"$lt": end},
		"end_date":   bson.M{"$gt": start},
	}
}
