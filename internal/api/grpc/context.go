package grpc

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/GlobalCitizenshipFoundation/global-gateway-sub001/internal/domain"
)

// GetUserIDFromContext extracts the user ID from the gRPC metadata.
// It expects a header named "user-id".
func GetUserIDFromContext(ctx context.Context) (string, error) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", status.Errorf(codes.Unauthenticated, "metadata is not provided")
	}

	userIDs := md.Get("user-id")
	if len(userIDs) == 0 || userIDs[0] == "" {
		return "", status.Errorf(codes.Unauthenticated, "user_id is not provided in metadata")
	}
	return userIDs[0], nil
}

// GetActorFromContext resolves the caller from the "user-id" and "user-role"
// headers the auth interceptor injects.
func GetActorFromContext(ctx context.Context) (domain.Actor, error) {
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return domain.Actor{}, err
	}
	md, _ := metadata.FromIncomingContext(ctx)
	var role string
	if roles := md.Get("user-role"); len(roles) > 0 {
		role = roles[0]
	}
	return domain.Actor{UserID: userID, Role: role}, nil
}
