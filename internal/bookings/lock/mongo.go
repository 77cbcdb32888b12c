package lock

import (
	"context"
	"hotelbook/pkg/logger"
	"hotelbook/pkg/model"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const LockCollectionName = "hotel_locks"

// MongoLocker uses one advisory document per hotel in the hotel_locks
// collection. The unique _id makes the insert the acquisition point; a
// document whose expires_at has passed belongs to a crashed holder and is
// taken over.
type MongoLocker struct {
	collection *mongo.Collection
	ttl        time.Duration
	log        *logger.Logger
	now        func() time.Time
}

func NewMongoLocker(db *mongo.Database, ttl time.Duration, log *logger.Logger) *MongoLocker {
	return &MongoLocker{
		collection: db.Collection(LockCollectionName),
		ttl:        ttl,
		log:        log,
		now:        time.Now,
	}
}

func (l *MongoLocker) Lock(ctx context.Context, hotelID string) (context.Context, Unlock, error) {
	id := lockKey(hotelID)
	owner := uuid.NewString()

	var acquiredAt time.Time
	err := acquireWithBackoff(ctx, hotelID, func(ctx context.Context) (bool, error) {
		now := l.now().UTC()
		_, err := l.collection.InsertOne(ctx, &model.HotelLock{
			ID:        id,
			Owner:     owner,
			ExpiresAt: now.Add(l.ttl),
			CreatedAt: now,
		})
		if err == nil {
			acquiredAt = now
			return true, nil
		}
		if !mongo.IsDuplicateKeyError(err) {
			return false, err
		}

		// Expired holder: clear it so the next attempt can insert.
		if _, err := l.collection.DeleteOne(ctx, bson.M{"_id": id, "expires_at": bson.M{"$lt": now}}); err != nil {
			return false, err
		}
		return false, nil
	})
	if err != nil {
		return nil, nil, err
	}

	leaseCtx, cancelLease := leaseContext(ctx, acquiredAt, l.ttl)
	var once sync.Once
	return leaseCtx, func() {
		once.Do(func() {
			cancelLease()
			ctx, cancel := context.WithTimeout(context.Background(), l.ttl)
			defer cancel()
			if _, err := l.collection.DeleteOne(ctx, bson.M{"_id": id, "owner": owner}); err != nil {
				l.log.Warn("Failed to release hotel lock", "hotel_id", hotelID, "lock_id", id, "error", err)
			}
		})
	}, nil
}
