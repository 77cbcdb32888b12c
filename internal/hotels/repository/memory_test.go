package repository

import (
	"context"
	"errors"
	"hotelbook/pkg/model"
	"testing"
)

func TestMemoryHotelRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryHotelRepository()

	if _, err := repo.FindByID(ctx, "HOTEL_001"); !errors.Is(err, ErrHotelNotFound) {
		t.Fatalf("FindByID() on empty repo error = %v, want ErrHotelNotFound", err)
	}

	for _, h := range []*model.Hotel{
		{ID: "HOTEL_002", Name: "The Oberoi", City: "Delhi", Status: model.HotelStatusActive},
		{ID: "HOTEL_001", Name: "Taj Palace", City: "Mumbai", Status: model.HotelStatusActive},
	} {
		if err := repo.Save(ctx, h); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}

	exists, err := repo.ExistsByID(ctx, "HOTEL_002")
	if err != nil || !exists {
		t.Errorf("ExistsByID() = %v, %v", exists, err)
	}

	hotel, err := repo.FindByID(ctx, "HOTEL_001")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	hotel.Name = "mutated"

	hotels, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(hotels) != 2 || hotels[0].ID != "HOTEL_001" || hotels[1].ID != "HOTEL_002" {
		t.Fatalf("List() = %+v", hotels)
	}
	if hotels[0].Name != "Taj Palace" {
		t.Errorf("stored hotel was mutated through a returned pointer")
	}
}

func TestMemoryHotelRepository_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewMemoryHotelRepository().List(ctx); !errors.Is(err, ErrStorage) {
		t.Errorf("List() error = %v, want ErrStorage", err)
	}
}
