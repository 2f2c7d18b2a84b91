package middleware

import (
	"net/http"
	"strings"
	"time"

	"canteen-api/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
)

const (
	claimsKey     = "session"
	sessionErrKey = "session_error"
)

type Claims struct {
	UserID    uint            `json:"user_id"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	CanteenID *uint           `json:"canteen_id,omitempty"`
	jwt.RegisteredClaims
}

// Sessions issues and checks the server-side session token handed out at login.
type Sessions struct {
	secret  []byte
	ttl     time.Duration
	enforce bool
}

func NewSessions(secret string, ttl time.Duration, enforce bool) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl, enforce: enforce}
}

// GenerateToken creates a signed JWT for a given user
func (s *Sessions) GenerateToken(user *models.User) (string, error) {
	claims := Claims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		CanteenID: user.CanteenID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Sessions) parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// Attach reads an optional bearer session and puts its claims on the context.
// It never rejects a request: a missing or unusable token leaves the caller
// anonymous, and RoleRequired decides on the routes that need a session.
func (s *Sessions) Attach() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.Next()
			return
		}
		claims, err := s.parse(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.Set(sessionErrKey, err)
			c.Next()
			return
		}
		c.Set(claimsKey, claims)
		l := zerolog.Ctx(c.Request.Context()).With().Uint("user_id", claims.UserID).Logger()
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
		c.Next()
	}
}

// RoleRequired enforces that caller has one of the allowed roles. It is a no-op
// while enforcement is off.
func (s *Sessions) RoleRequired(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.enforce {
			c.Next()
			return
		}
		claims, ok := GetClaims(c)
		if !ok {
			if _, bad := c.Get(sessionErrKey); bad {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required (Bearer <token>)"})
			return
		}
		for _, r := range roles {
			if claims.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error": "Access denied. Required role(s): " + rolesString(roles),
		})
	}
}

func rolesString(roles []models.UserRole) string {
	s := make([]string, len(roles))
	for i, r := range roles {
		s[i] = string(r)
	}
	return strings.Join(s, ", ")
}

// GetClaims extracts the caller's session claims, if any
func GetClaims(c *gin.Context) (*Claims, bool) {
	val, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}
