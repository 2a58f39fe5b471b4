package services

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"easyserve/internal/models"
	"easyserve/internal/repositories"
	"easyserve/utils"
)

type ProviderService struct {
	ProviderRepo *repositories.ProviderRepository
	CategoryRepo *repositories.CategoryRepository
	UserRepo     *repositories.UserRepository
	TokenManager *utils.Manager
}

func (s *ProviderService) SignUp(ctx context.Context, provider models.Provider) (models.Provider, models.Tokens, error) {
	_, err := s.ProviderRepo.GetProviderByEmail(ctx, provider.Email)
	if err == nil {
		return models.Provider{}, models.Tokens{}, models.ErrDuplicateEmail
	}
	if !errors.Is(err, models.ErrProviderNotFound) {
		return models.Provider{}, models.Tokens{}, err
	}

	category, err := s.CategoryRepo.GetCategoryByID(ctx, provider.CategoryID)
	if err != nil {
		return models.Provider{}, models.Tokens{}, err
	}
	provider.CategoryName = category.Name

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(provider.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.Provider{}, models.Tokens{}, err
	}
	provider.Password = string(hashedPassword)

	provider, err = s.ProviderRepo.CreateProvider(ctx, provider)
	if err != nil {
		return models.Provider{}, models.Tokens{}, err
	}

	tokens, err := s.issueTokens(ctx, provider.ID)
	if err != nil {
		return models.Provider{}, models.Tokens{}, err
	}

	provider.Password = ""
	return provider, tokens, nil
}

func (s *ProviderService) SignIn(ctx context.Context, req models.SignInRequest) (models.Tokens, error) {
	provider, err := s.ProviderRepo.GetProviderByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, models.ErrProviderNotFound) {
			return models.Tokens{}, models.ErrInvalidCredentials
		}
		return models.Tokens{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(provider.Password), []byte(req.Password)); err != nil {
		return models.Tokens{}, models.ErrInvalidCredentials
	}

	return s.issueTokens(ctx, provider.ID)
}

func (s *ProviderService) GetProviderByID(ctx context.Context, id int) (models.Provider, error) {
	return s.ProviderRepo.GetProviderByID(ctx, id)
}

func (s *ProviderService) GetProviders(ctx context.Context, filter models.ProviderFilterRequest) ([]models.Provider, error) {
	return s.ProviderRepo.GetProviders(ctx, filter)
}

// issueTokens mirrors the user flow; provider sessions live in the same table
// distinguished by role.
func (s *ProviderService) issueTokens(ctx context.Context, providerID int) (models.Tokens, error) {
	accessToken, err := s.TokenManager.NewJWT(providerID, models.WalletOwnerProvider, accessTokenTTL)
	if err != nil {
		return models.Tokens{}, err
	}
	refreshToken, err := s.TokenManager.NewRefreshToken()
	if err != nil {
		return models.Tokens{}, err
	}

	err = s.UserRepo.SaveSession(ctx, models.Session{
		UserID:       providerID,
		Role:         models.WalletOwnerProvider,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(refreshTokenTTL),
	})
	if err != nil {
		return models.Tokens{}, err
	}

	return models.Tokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
