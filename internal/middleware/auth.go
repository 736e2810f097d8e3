package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"stockpilot/internal/apierror"
	"stockpilot/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

const (
	ClaimsKey     = "claims"
	SessionCookie = "session"

	revokedKeyPrefix = "session:revoked:"
)

// JWTClaims are the custom claims embedded in every session token.
type JWTClaims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// SessionAuth validates the session identity on every protected route. The
// token is read from the session cookie (browser flows) or a Bearer header
// (API clients). Tokens revoked at logout are rejected via the Redis
// denylist; without Redis, revocation degrades to cookie deletion only.
//
// apiMode controls the failure shape: JSON 401 for the API surface, a
// redirect to /login for HTML pages.
func SessionAuth(secret string, rdb *redis.Client, apiMode bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := tokenFromRequest(c)
		if tokenStr == "" {
			reject(c, apiMode)
			return
		}

		claims := &JWTClaims{}
		token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			reject(c, apiMode)
			return
		}

		if rdb != nil && claims.ID != "" {
			if n, err := rdb.Exists(c.Request.Context(), revokedKeyPrefix+claims.ID).Result(); err == nil && n > 0 {
				reject(c, apiMode)
				return
			}
		}

		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

func reject(c *gin.Context, apiMode bool) {
	if apiMode {
		c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("Authentication required"))
		return
	}
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}

// RequireRole rejects API requests whose session role is not in the allowed list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*JWTClaims)
		if !ok || !allowed[claims.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("Access denied"))
			return
		}
		c.Next()
	}
}

// RequireAdminPage is the HTML-surface variant of the role gate: non-admins
// are bounced back to the dashboard instead of receiving a JSON 403.
func RequireAdminPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := c.MustGet(ClaimsKey).(*JWTClaims)
		if !ok || claims.Role != model.RoleAdmin {
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetClaims is a helper to retrieve typed claims from the Gin context.
func GetClaims(c *gin.Context) *JWTClaims {
	claims, _ := c.MustGet(ClaimsKey).(*JWTClaims)
	return claims
}

// RevokeToken adds the token's jti to the denylist until its natural expiry.
// A nil Redis client makes this a no-op.
func RevokeToken(ctx context.Context, rdb *redis.Client, claims *JWTClaims) error {
	if rdb == nil || claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Hour
	if claims.ExpiresAt != nil {
		if remaining := time.Until(claims.ExpiresAt.Time); remaining > 0 {
			ttl = remaining
		}
	}
	return rdb.Set(ctx, revokedKeyPrefix+claims.ID, "1", ttl).Err()
}
