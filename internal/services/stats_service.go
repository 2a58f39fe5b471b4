package services

import (
	"context"

	"easyserve/internal/models"
	"easyserve/internal/repositories"
)

type StatsService struct {
	UserRepo     *repositories.UserRepository
	ProviderRepo *repositories.ProviderRepository
	BookingRepo  *repositories.BookingRepository
	CategoryRepo *repositories.CategoryRepository
}

func (s *StatsService) GetStats(ctx context.Context) (models.Stats, error) {
	users, err := s.UserRepo.CountUsers(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	providers, err := s.ProviderRepo.CountProviders(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	bookings, err := s.BookingRepo.CountBookings(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	categories, err := s.CategoryRepo.CountCategories(ctx)
	if err != nil {
		return models.Stats{}, err
	}

	return models.Stats{
		Users:      users,
		Providers:  providers,
		Bookings:   bookings,
		Categories: categories,
	}, nil
}
