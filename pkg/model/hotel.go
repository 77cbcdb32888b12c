package model

import "time"

const (
	HotelStatusActive = "ACTIVE"
)

type Hotel struct {
	ID     string `json:"id" bson:"_id"`
	Name   string `json:"name" bson:"name"`
	City   string `json:"city" bson:"city"`
	Status string `json:"status" bson:"status"`
}

// HotelLock is an advisory lock document that serializes booking creation per hotel
type HotelLock struct {
	ID        string    `bson:"_id" json:"id"`
	Owner     string    `bson:"owner" json:"owner"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
