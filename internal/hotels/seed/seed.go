package seed

import (
	"context"
	"fmt"
	"hotelbook/internal/hotels/repository"
	"hotelbook/pkg/logger"
	"hotelbook/pkg/model"
)

// DefaultHotels is the fixed registry loaded by Seed.
func DefaultHotels() []model.Hotel {
	return []model.Hotel{
		{ID: "HOTEL_001", Name: "Taj Palace", City: "Mumbai", Status: model.HotelStatusActive},
		{ID: "HOTEL_002", Name: "The Oberoi", City: "Delhi", Status: model.HotelStatusActive},
		{ID: "HOTEL_003", Name: "ITC Grand Chola", City: "Chennai", Status: model.HotelStatusActive},
		{ID: "HOTEL_004", Name: "Leela Palace", City: "Bengaluru", Status: model.HotelStatusActive},
		{ID: "HOTEL_005", Name: "Hyatt Regency", City: "Pune", Status: model.HotelStatusActive},
	}
}

type Result struct {
	Created []string
	Skipped []string
}

// Seed inserts every hotel that is not already registered. Existing
// hotels are left untouched, so running it twice is harmless.
func Seed(ctx context.Context, repo repository.HotelRepository, hotels []model.Hotel, log *logger.Logger) (Result, error) {
	var result Result

	for i := range hotels {
		hotel := hotels[i]

		exists, err := repo.ExistsByID(ctx, hotel.ID)
		if err != nil {
			return result, fmt.Errorf("failed to check hotel %s: %w", hotel.ID, err)
		}
		if exists {
			log.Info("Hotel already exists", "hotel_id", hotel.ID)
			result.Skipped = append(result.Skipped, hotel.ID)
			continue
		}

		if err := repo.Save(ctx, &hotel); err != nil {
			return result, fmt.Errorf("failed to seed hotel %s: %w", hotel.ID, err)
		}
		log.Info("Seeded hotel", "hotel_id", hotel.ID, "name", hotel.Name, "city", hotel.City)
		result.Created = append(result.Created, hotel.ID)
	}

	log.Info("Hotel seeding completed", "created", len(result.Created), "skipped", len(result.Skipped))
	return result, nil
}
