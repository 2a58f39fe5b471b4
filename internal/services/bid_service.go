package services

import (
	"context"
	"time"

	"easyserve/internal/fsm"
	"easyserve/internal/models"
	"easyserve/internal/repositories"
)

type BidService struct {
	BidRepo      *repositories.BidRepository
	RequestRepo  *repositories.ServiceRequestRepository
	ProviderRepo *repositories.ProviderRepository
}

// PlaceBid validates the request state and the bidding window before handing
// off to the repository, which guards against duplicate bids.
func (s *BidService) PlaceBid(ctx context.Context, bid models.Bid) (models.Bid, error) {
	if bid.ProposedAmount <= 0 {
		return models.Bid{}, models.ErrInvalidAmount
	}
	if len(bid.Attachments) > models.MaxBidAttachments {
		return models.Bid{}, models.ErrTooManyAttachments
	}

	sr, err := s.RequestRepo.GetServiceRequestByID(ctx, bid.ServiceRequestID)
	if err != nil {
		return models.Bid{}, err
	}
	if sr.RequestType != models.RequestTypeBidding {
		return models.Bid{}, models.ErrNotBiddingRequest
	}
	if sr.Status != fsm.RequestOpen && sr.Status != fsm.RequestBidding {
		return models.Bid{}, models.ErrBiddingClosed
	}
	if sr.BiddingEndDate != nil && time.Now().After(*sr.BiddingEndDate) {
		return models.Bid{}, models.ErrBiddingClosed
	}

	provider, err := s.ProviderRepo.GetProviderByID(ctx, bid.ProviderID)
	if err != nil {
		return models.Bid{}, err
	}
	bid.ProviderName = provider.Name

	return s.BidRepo.CreateBid(ctx, bid)
}

// AcceptBid assigns the request to the bid's provider. Only the requester may
// accept, and only one bid ever wins.
func (s *BidService) AcceptBid(ctx context.Context, bidID, userID int) (models.ServiceRequest, models.Booking, error) {
	bid, err := s.BidRepo.GetBidByID(ctx, bidID)
	if err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}
	sr, err := s.RequestRepo.GetServiceRequestByID(ctx, bid.ServiceRequestID)
	if err != nil {
		return models.ServiceRequest{}, models.Booking{}, err
	}
	if sr.UserID != userID {
		return models.ServiceRequest{}, models.Booking{}, models.ErrForbidden
	}

	return s.BidRepo.AcceptBid(ctx, bidID)
}

// GetBidsForRequest lists bids on a request, cheapest first. Only the
// requester sees the full list.
func (s *BidService) GetBidsForRequest(ctx context.Context, requestID, userID int) ([]models.Bid, error) {
	sr, err := s.RequestRepo.GetServiceRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if sr.UserID != userID {
		return nil, models.ErrForbidden
	}
	return s.BidRepo.GetBidsByRequest(ctx, requestID)
}

func (s *BidService) GetBidsByProvider(ctx context.Context, providerID int) ([]models.Bid, error) {
	return s.BidRepo.GetBidsByProvider(ctx, providerID)
}
