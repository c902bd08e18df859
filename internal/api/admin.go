package api

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	adminIssuer   = "skillpilot"
	adminAudience = "preview"
)

// AdminClaims identify the operator behind a preview request.
type AdminClaims struct {
	jwt.RegisteredClaims
}

// IssueAdminToken mints an HS256 preview token for subject, signed with
// secret and valid for ttl.
func IssueAdminToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("admin secret is empty")
	}
	if ttl <= 0 {
		return "", errors.New("token ttl must be positive")
	}
	now := time.Now().UTC()
	claims := AdminClaims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    adminIssuer,
		Subject:   subject,
		Audience:  jwt.ClaimStrings{adminAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseAdminToken verifies a preview token and returns its claims.
func ParseAdminToken(secret, token string) (*AdminClaims, error) {
	claims := &AdminClaims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return []byte(secret), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(adminIssuer),
		jwt.WithAudience(adminAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// adminOnly accepts a bearer preview token or the raw secret in
// X-Admin-Token. An empty secret disables the guarded routes.
func adminOnly(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authorizeAdmin(c, secret) {
			forbid(c)
			return
		}
		c.Next()
	}
}

// authorizeAdmin checks the admin credentials on c and records the operator
// under the "admin" key.
func authorizeAdmin(c *gin.Context, secret string) bool {
	if secret == "" {
		return false
	}
	if bearer, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
		claims, err := ParseAdminToken(secret, bearer)
		if err != nil {
			return false
		}
		c.Set("admin", claims.Subject)
		return true
	}
	if subtle.ConstantTimeCompare([]byte(c.GetHeader("X-Admin-Token")), []byte(secret)) != 1 {
		return false
	}
	c.Set("admin", "token")
	return true
}

func forbid(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": gin.H{"message": "Forbidden"}})
}
