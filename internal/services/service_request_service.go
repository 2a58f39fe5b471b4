package services

import (
	"context"
	"time"

	"easyserve/internal/models"
	"easyserve/internal/repositories"
)

type ServiceRequestService struct {
	RequestRepo  *repositories.ServiceRequestRepository
	CategoryRepo *repositories.CategoryRepository
	UserRepo     *repositories.UserRepository
	ProviderRepo *repositories.ProviderRepository
}

// CreateServiceRequest validates the pricing mode and denormalizes the user
// and category names onto the request row.
func (s *ServiceRequestService) CreateServiceRequest(ctx context.Context, sr models.ServiceRequest) (models.ServiceRequest, error) {
	switch sr.RequestType {
	case models.RequestTypeFixed:
		if sr.FixedAmount == nil || *sr.FixedAmount <= 0 {
			return models.ServiceRequest{}, models.ErrInvalidAmount
		}
		sr.BiddingEndDate = nil
	case models.RequestTypeBidding:
		sr.FixedAmount = nil
		if sr.BiddingEndDate != nil && sr.BiddingEndDate.Before(time.Now()) {
			return models.ServiceRequest{}, models.ErrBiddingClosed
		}
	default:
		return models.ServiceRequest{}, models.ErrInvalidRequestType
	}

	user, err := s.UserRepo.GetUserByID(ctx, sr.UserID)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	sr.UserName = user.Name

	category, err := s.CategoryRepo.GetCategoryByID(ctx, sr.CategoryID)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	sr.CategoryName = category.Name

	return s.RequestRepo.CreateServiceRequest(ctx, sr)
}

func (s *ServiceRequestService) GetServiceRequestByID(ctx context.Context, id int) (models.ServiceRequest, error) {
	return s.RequestRepo.GetServiceRequestByID(ctx, id)
}

func (s *ServiceRequestService) GetServiceRequests(ctx context.Context, filter models.RequestFilter) ([]models.ServiceRequest, error) {
	return s.RequestRepo.GetServiceRequests(ctx, filter)
}

// AcceptFixedRequest lets a provider take a fixed price request directly,
// creating the booking in the same transaction.
func (s *ServiceRequestService) AcceptFixedRequest(ctx context.Context, requestID, providerID int) (models.ServiceRequest, models.Booking, error) {
	provider, err := s.ProviderRepo.GetProviderByID(ctx, providerID)
	if err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}
	return s.RequestRepo.AcceptFixedRequest(ctx, requestID, provider.ID, provider.Name)
}

// CancelExpiredBiddingRequests is invoked by the background cleaner.
func (s *ServiceRequestService) CancelExpiredBiddingRequests(ctx context.Context, now time.Time) (int64, error) {
	return s.RequestRepo.CancelExpiredBiddingRequests(ctx, now)
}
