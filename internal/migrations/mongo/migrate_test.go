package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestCollections(t *testing.T) {
	defs := Collections()
	names := map[string]CollectionDef{}
	for _, def := range defs {
		names[def.Name] = def
		if def.Validator == nil {
			t.Errorf("%s has no validator", def.Name)
		}
	}
	for _, want := range []string{"hotels", "bookings", "hotel_locks"} {
		if _, ok := names[want]; !ok {
			t.Errorf("missing collection %s", want)
		}
	}

	bookings := names["bookings"]
	if len(bookings.Indexes) != 1 {
		t.Fatalf("bookings indexes = %d, want 1", len(bookings.Indexes))
	}
	idx := bookings.Indexes[0]
	if idx.Options == nil || idx.Options.Name == nil || *idx.Options.Name != HotelDateIndexName {
		t.Errorf("bookings index is not named %s", HotelDateIndexName)
	}
	keys, ok := idx.Keys.(bson.D)
	if !ok || len(keys) != 3 || keys[0].Key != "hotel_id" || keys[1].Key != "start_date" || keys[2].Key != "end_date" {
		t.Errorf("bookings index keys = %v", idx.Keys)
	}

	locks := names["hotel_locks"]
	ttl := locks.Indexes[0].Options
	if ttl == nil || ttl.ExpireAfterSeconds == nil || *ttl.ExpireAfterSeconds != 0 {
		t.Errorf("hotel_locks must expire documents at expires_at")
	}
}
