package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const sessionScope = "unlocked"

var ErrInvalidSession = errors.New("invalid or expired session")

type Claims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Sessions issues the short-lived tokens handed out after a successful unlock.
type Sessions struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	return &Sessions{key: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Sessions) Issue() (string, time.Time, error) {
	now := s.now()
	exp := now.Add(s.ttl)
	claims := &Claims{
		Scope: sessionScope,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return token, exp, nil
}

func (s *Sessions) Parse(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.key, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid || claims.Scope != sessionScope {
		return nil, ErrInvalidSession
	}
	return claims, nil
}

// LockState reports whether the app is protected by a PIN.
type LockState interface {
	IsPinSet() (bool, error)
}

func bearer(c *gin.Context) string {
	authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	// browsers cannot set headers on a websocket handshake
	if strings.HasPrefix(c.Request.URL.Path, "/ws/") {
		return c.Query("token")
	}
	return ""
}

// PinSession guards the data routes. While no PIN is configured the app is
// open; once one is set every request needs a token from /pin/unlock.
func PinSession(sessions *Sessions, lock LockState, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		set, err := lock.IsPinSet()
		if err != nil {
			log.Error("read pin state", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Could not read security settings"})
			return
		}
		if !set {
			c.Next()
			return
		}

		tokenStr := bearer(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "App is locked"})
			return
		}
		if _, err := sessions.Parse(tokenStr); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Next()
	}
}
