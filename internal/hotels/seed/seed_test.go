package seed

import (
	"context"
	"errors"
	"hotelbook/internal/hotels/repository"
	"hotelbook/pkg/logger"
	"hotelbook/pkg/model"
	"testing"
)

type mockHotelRepository struct {
	existsByIDFunc func(ctx context.Context, id string) (bool, error)
	saveFunc       func(ctx context.Context, hotel *model.Hotel) error
}

func (m *mockHotelRepository) FindByID(context.Context, string) (*model.Hotel, error) {
	return nil, repository.ErrHotelNotFound
}

func (m *mockHotelRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return m.existsByIDFunc(ctx, id)
}

func (m *mockHotelRepository) Save(ctx context.Context, hotel *model.Hotel) error {
	return m.saveFunc(ctx, hotel)
}

func (m *mockHotelRepository) List(context.Context) ([]*model.Hotel, error) {
	return nil, nil
}

func TestSeed_Idempotent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryHotelRepository()
	log := logger.NewNop()

	first, err := Seed(ctx, repo, DefaultHotels(), log)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if len(first.Created) != 5 || len(first.Skipped) != 0 {
		t.Errorf("first run = %+v, want 5 created", first)
	}

	second, err := Seed(ctx, repo, DefaultHotels(), log)
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if len(second.Created) != 0 || len(second.Skipped) != 5 {
		t.Errorf("second run = %+v, want 5 skipped", second)
	}

	hotel, err := repo.FindByID(ctx, "HOTEL_004")
	if err != nil {
		t.Fatalf("FindByID() error = %v", err)
	}
	if hotel.Name != "Leela Palace" || hotel.City != "Bengaluru" || hotel.Status != model.HotelStatusActive {
		t.Errorf("HOTEL_004 = %+v", hotel)
	}
}

func TestSeed_KeepsExistingHotels(t *testing.T) {
	var saved []string
	repo := &mockHotelRepository{
		existsByIDFunc: func(_ context.Context, id string) (bool, error) {
			return id == "HOTEL_001", nil
		},
		saveFunc: func(_ context.Context, hotel *model.Hotel) error {
			saved = append(saved, hotel.ID)
			return nil
		},
	}

	result, err := Seed(context.Background(), repo, DefaultHotels(), logger.NewNop())
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	if len(saved) != 4 || saved[0] != "HOTEL_002" {
		t.Errorf("saved = %v", saved)
	}
	if len(result.Skipped) != 1 || result.Skipped[0] != "HOTEL_001" {
		t.Errorf("skipped = %v", result.Skipped)
	}
}

func TestSeed_StopsOnStorageError(t *testing.T) {
	boom := errors.New("boom")
	repo := &mockHotelRepository{
		existsByIDFunc: func(context.Context, string) (bool, error) { return false, nil },
		saveFunc:       func(context.Context, *model.Hotel) error { return boom },
	}

	result, err := Seed(context.Background(), repo, DefaultHotels(), logger.NewNop())
	if !errors.Is(err, boom) {
		t.Errorf("Seed() error = %v, want boom", err)
	}
	if len(result.Created) != 0 {
		t.Errorf("created = %v", result.Created)
	}
}
