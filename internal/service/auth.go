package service

import (
	"context"
	"fmt"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/logger"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/repository"
	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/security"
)

type authService struct {
	profiles repository.ProfileRepository
	tokens   security.TokenManager
}

func NewAuthService(profiles repository.ProfileRepository, tokens security.TokenManager) AuthService {
	return &authService{profiles: profiles, tokens: tokens}
}

// RefreshToken issues a new token pair for the holder of a valid refresh token.
// The role is re-read from the profile so role changes apply on the next refresh.
func (s *authService) RefreshToken(ctx context.Context, userID string) (*TokenPair, error) {
	logger.EnterMethod("authService.RefreshToken", "userID", userID)

	profile, err := s.profiles.GetByID(ctx, userID)
	if err != nil {
		if domain.IsKind(err, domain.KindNotFound) {
			err = domain.ErrUnauthorized.With("unknown user")
		}
		logger.ExitMethodWithError("authService.RefreshToken", err, "userID", userID)
		return nil, err
	}

	pair, err := s.issue(profile)
	if err != nil {
		logger.ExitMethodWithError("authService.RefreshToken", err, "userID", userID)
		return nil, err
	}

	logger.ExitMethod("authService.RefreshToken", "userID", userID, "role", profile.Role)
	return pair, nil
}

func (s *authService) issue(p *domain.Profile) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(p.ID, p.Email, p.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(p.ID, p.Email)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
