package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/goalpost-app/tournament-platform/models"
	"github.com/golang-jwt/jwt/v4"
)

const (
	jwtClaimUserID = "user_id"
	jwtClaimRole   = "role"
)

func GetUserIDFromContext(ctx context.Context) (int, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return 0, errors.New("user claims not found in context")
	}

	userIDClaim, ok := claims[jwtClaimUserID]
	if !ok {
		return 0, fmt.Errorf("missing %q claim in token", jwtClaimUserID)
	}

	// Numbers decode as float64; tolerate a string form too.
	switch v := userIDClaim.(type) {
	case float64:
		id := int(v)
		if float64(id) != v || id <= 0 {
			return 0, fmt.Errorf("invalid user id in %q claim", jwtClaimUserID)
		}
		return id, nil
	case string:
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			return 0, fmt.Errorf("invalid user id in %q claim", jwtClaimUserID)
		}
		return id, nil
	default:
		return 0, fmt.Errorf("unexpected type %T for %q claim", userIDClaim, jwtClaimUserID)
	}
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return "", errors.New("user claims not found in context")
	}

	roleClaim, ok := claims[jwtClaimRole]
	if !ok {
		return "", fmt.Errorf("missing %q claim in token", jwtClaimRole)
	}
	roleStr, ok := roleClaim.(string)
	if !ok {
		return "", fmt.Errorf("unexpected type %T for %q claim", roleClaim, jwtClaimRole)
	}

	role := models.UserRole(roleStr)
	switch role {
	case models.RoleAdmin, models.RoleOrganizer:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role value in claim: %q", roleStr)
	}
}
