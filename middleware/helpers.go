package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// GetUserIDFromContext достаёт идентификатор пользователя из claims,
// положенных Authenticate.
func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return 0, errors.New("user claims not found in context or invalid type")
	}

	userIDClaim, ok := claims[jwtClaimUserID]
	if !ok {
		return 0, fmt.Errorf("missing '%s' claim in token", jwtClaimUserID)
	}

	// JSON-числа приходят из jwt.Parse как float64.
	userIDFloat, ok := userIDClaim.(float64)
	if !ok {
		return 0, fmt.Errorf("invalid type for '%s' claim: expected number, got %T", jwtClaimUserID, userIDClaim)
	}
	if userIDFloat != float64(int(userIDFloat)) {
		return 0, fmt.Errorf("'%s' claim is not an integer: %f", jwtClaimUserID, userIDFloat)
	}

	userID := int(userIDFloat)
	if userID <= 0 {
		return 0, fmt.Errorf("invalid user ID value in '%s' claim: %d", jwtClaimUserID, userID)
	}

	return userID, nil
}

// IsAdminFromContext сообщает, помечен ли токен запроса флагом is_admin.
// Отсутствие claims трактуется как обычный пользователь.
func IsAdminFromContext(ctx context.Context) bool {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return false
	}
	isAdmin, ok := claims[jwtClaimIsAdmin].(bool)
	return ok && isAdmin
}
