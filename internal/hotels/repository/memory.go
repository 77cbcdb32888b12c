package repository

import (
	"context"
	"fmt"
	"hotelbook/pkg/model"
	"sort"
	"sync"
)

type memoryHotelRepository struct {
	mu     sync.RWMutex
	hotels map[string]model.Hotel
}

func NewMemoryHotelRepository() HotelRepository {
	return &memoryHotelRepository{hotels: make(map[string]model.Hotel)}
}

func (r *memoryHotelRepository) FindByID(ctx context.Context, id string) (*model.Hotel, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	hotel, ok := r.hotels[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHotelNotFound, id)
	}
	return &hotel, nil
}

func (r *memoryHotelRepository) ExistsByID(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.hotels[id]
	return ok, nil
}

func (r *memoryHotelRepository) Save(ctx context.Context, hotel *model.Hotel) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrStorage, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.hotels[hotel.ID] = *hotel
	return nil
}

func (r *memoryHotelRepository) List(ctx context.Context) ([]*model.Hotel, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	hotels := make([]*model.Hotel, 0, len(r.hotels))
	for _, h := range r.hotels {
		hotel := h
		hotels = append(hotels, &hotel)
	}
	sort.Slice(hotels, func(i, j int) bool { return hotels[i].ID < hotels[j].ID })
	return hotels, nil
}
