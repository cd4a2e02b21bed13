package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"kyc-desk.backend/internal/domain/entities"
	domainerrors "kyc-desk.backend/internal/domain/errors"
	"kyc-desk.backend/pkg/jwt"
	"kyc-desk.backend/pkg/redis"
)

const (
	// AuthorizationHeader is the header key for authorization
	AuthorizationHeader = "Authorization"
	// BearerPrefix is the prefix for bearer tokens
	BearerPrefix = "Bearer "
	// SessionIDHeader carries a server-side session id instead of a token
	SessionIDHeader = "X-Session-ID"
	// AccountIDKey is the context key for the account ID
	AccountIDKey = "accountId"
	// UsernameKey is the context key for the username
	UsernameKey = "username"
	// RoleKey is the context key for the account role
	RoleKey = "accountRole"
	// SessionIDKey is the context key for the session id, when present
	SessionIDKey = "sessionId"
)

// SessionResolver resolves a session id to its token pair and can rotate the
// pair when the held access token has expired
type SessionResolver interface {
	GetSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
	RefreshSession(ctx context.Context, sessionID string) (*redis.SessionData, error)
}

// AuthMiddleware authenticates a request with either a bearer access token or
// an X-Session-ID header. Session requests with an expired access token get
// one transparent rotation before being rejected.
func AuthMiddleware(jwtService *jwt.JWTService, sessions SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthorizationHeader)
		if authHeader != "" {
			if !strings.HasPrefix(authHeader, BearerPrefix) {
				abortUnauthorized(c, "invalid authorization format, use: Bearer <token>")
				return
			}

			claims, err := jwtService.ValidateAccessToken(strings.TrimPrefix(authHeader, BearerPrefix))
			if err != nil {
				if errors.Is(err, jwt.ErrExpiredToken) {
					abortUnauthorized(c, "token has expired")
					return
				}
				abortUnauthorized(c, "invalid token")
				return
			}

			setIdentity(c, claims)
			c.Next()
			return
		}

		sessionID := c.GetHeader(SessionIDHeader)
		if sessionID == "" || sessions == nil {
			abortUnauthorized(c, "authorization required")
			return
		}

		session, err := sessions.GetSession(c.Request.Context(), sessionID)
		if err != nil {
			abortUnauthorized(c, "invalid session")
			return
		}

		claims, err := jwtService.ValidateAccessToken(session.AccessToken)
		if errors.Is(err, jwt.ErrExpiredToken) {
			session, err = sessions.RefreshSession(c.Request.Context(), sessionID)
			if err == nil {
				claims, err = jwtService.ValidateAccessToken(session.AccessToken)
			}
		}
		if err != nil {
			abortUnauthorized(c, "invalid session")
			return
		}

		c.Set(SessionIDKey, sessionID)
		setIdentity(c, claims)
		c.Next()
	}
}

func setIdentity(c *gin.Context, claims *jwt.Claims) {
	c.Set(AccountIDKey, claims.AccountID)
	c.Set(UsernameKey, claims.Username)
	c.Set(RoleKey, claims.Role)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"code":    domainerrors.CodeUnauthorized,
		"message": message,
	})
}

// GetAccountID gets the authenticated account ID from context
func GetAccountID(c *gin.Context) (uuid.UUID, bool) {
	id, exists := c.Get(AccountIDKey)
	if !exists {
		return uuid.Nil, false
	}
	return id.(uuid.UUID), true
}

// GetUsername gets the authenticated username from context
func GetUsername(c *gin.Context) (string, bool) {
	username, exists := c.Get(UsernameKey)
	if !exists {
		return "", false
	}
	return username.(string), true
}

// GetRole gets the authenticated account role from context
func GetRole(c *gin.Context) (entities.Role, bool) {
	role, exists := c.Get(RoleKey)
	if !exists {
		return "", false
	}
	return entities.Role(role.(string)), true
}

// GetSessionID gets the session id from context, if the request came in via
// a session
func GetSessionID(c *gin.Context) string {
	id, exists := c.Get(SessionIDKey)
	if !exists {
		return ""
	}
	return id.(string)
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(roles ...entities.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := GetRole(c)
		if !exists {
			abortUnauthorized(c, "account role not found")
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"code":    domainerrors.CodeForbidden,
			"message": "insufficient permissions",
		})
	}
}

// RequireOfficer creates a middleware that requires the OFFICER role
func RequireOfficer() gin.HandlerFunc {
	return RequireRole(entities.RoleOfficer)
}
