package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/groveboard/grove-backend/internal/common"
	"github.com/groveboard/grove-backend/internal/domain"
	"github.com/groveboard/grove-backend/pkg/jwt"
)

const actorKey = "actor"

// JWTAuth requires a valid bearer token and stores the actor in context.
func JWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			common.ErrorResponse(c, 401, "Missing authorization header", nil)
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			common.ErrorResponse(c, 401, "Invalid authorization header format", nil)
			c.Abort()
			return
		}

		claims, err := jwtManager.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrExpiredToken) {
				common.ErrorResponse(c, 401, "Token expired", err)
			} else {
				common.ErrorResponse(c, 401, "Invalid token", err)
			}
			c.Abort()
			return
		}

		c.Set(actorKey, &domain.Actor{
			ID:    claims.MemberID,
			Name:  claims.Name,
			Email: claims.Email,
			Level: claims.Level,
		})
		c.Next()
	}
}

// OptionalJWTAuth resolves the actor from a bearer token when present and
// valid; otherwise the request proceeds as a guest. Boards that allow
// guest posting rely on this.
func OptionalJWTAuth(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				if claims, err := jwtManager.VerifyToken(parts[1]); err == nil {
					c.Set(actorKey, &domain.Actor{
						ID:    claims.MemberID,
						Name:  claims.Name,
						Email: claims.Email,
						Level: claims.Level,
					})
				}
			}
		}
		c.Next()
	}
}

// GetActor extracts the actor from context. A request with no (or
// invalid) credentials acts as the guest actor.
func GetActor(c *gin.Context) *domain.Actor {
	v, exists := c.Get(actorKey)
	if !exists {
		return domain.Guest()
	}
	if actor, ok := v.(*domain.Actor); ok {
		return actor
	}
	return domain.Guest()
}
