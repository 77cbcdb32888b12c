package repository

import (
	"context"
	"errors"
	"fmt"
	"hotelbook/pkg/config"
	"hotelbook/pkg/model"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionName = "hotels"

var (
	ErrHotelNotFound = errors.New("hotel not found")
	ErrStorage       = errors.New("hotel storage failure")
)

type HotelRepository interface {
	FindByID(ctx context.Context, id string) (*model.Hotel, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
	// Save upserts the hotel by ID.
	Save(ctx context.Context, hotel *model.Hotel) error
	List(ctx context.Context) ([]*model.Hotel, error)
}

type mongoHotelRepository struct {
	timeout    time.Duration
	collection *mongo.Collection
}

func NewMongoHotelRepository(cfg *config.Config) HotelRepository {
	return NewMongoHotelRepositoryFromDB(cfg.Client.Mongo.Database(cfg.MongoDatabaseName), cfg.ReadTimeout)
}

func NewMongoHotelRepositoryFromDB(db *mongo.Database, timeout time.Duration) HotelRepository {
	return &mongoHotelRepository{
		timeout:    timeout,
		collection: db.Collection(CollectionName),
	}
}

func (r *mongoHotelRepository) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var hotel model.Hotel
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&hotel)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("%w: %s", ErrHotelNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to find hotel %s: %w", ErrStorage, id, err)
	}
	return &hotel, nil
}

func (r *mongoHotelRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("%w: failed to check hotel %s: %w", ErrStorage, id, err)
	}
	return count > 0, nil
}

func (r *mongoHotelRepository) Save(ctx context.Context, hotel *model.Hotel) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": hotel.ID}, hotel, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: failed to save hotel %s: %w", ErrStorage, hotel.ID, err)
	}
	return nil
}

func (r *mongoHotelRepository) List(ctx context.Context) ([]*model.Hotel, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list hotels: %w", ErrStorage, err)
	}
	defer cursor.Close(ctx)

	hotels := []*model.Hotel{}
	if err := cursor.All(ctx, &hotels); err != nil {
		return nil, fmt.Errorf("%w: failed to decode hotels: %w", ErrStorage, err)
	}
	return hotels, nil
}
