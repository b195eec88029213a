package grpc

import (
	"context"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// RefreshToken is reached with a refresh token; the interceptor has already
// resolved its subject into "user-id".
func (h *AuthHandler) RefreshToken(ctx context.Context, req *RefreshTokenRequest) (*service.TokenPair, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return h.authSvc.RefreshToken(ctx, userID)
}
