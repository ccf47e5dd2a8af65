package middleware

import (
	"errors"
	"net/http"
	"strings"

	"api/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	participantKey = "participant_id"
	adminKey       = "is_admin"
)

// Claims is the shape of the tokens the membership platform's auth service
// signs. This API never issues tokens; it only verifies them and lifts the
// participant identity out.
type Claims struct {
	Admin bool `json:"admin"`
	jwt.RegisteredClaims
}

func tokenFromRequest(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := c.Cookie("auth_token"); err == nil {
		return cookie
	}
	return ""
}

func parseToken(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(config.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}

// AuthMiddleware rejects requests without a valid participant token and
// stores the verified identity in the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}
		claims, err := parseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(participantKey, claims.Subject)
		c.Set(adminKey, claims.Admin)
		c.Next()
	}
}

// OptionalAuthMiddleware lifts the participant identity out of a valid
// token when one is present, but never rejects the request. Used on public
// read paths that personalize their response for members.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := tokenFromRequest(c); token != "" {
			if claims, err := parseToken(token); err == nil {
				c.Set(participantKey, claims.Subject)
				c.Set(adminKey, claims.Admin)
			}
		}
		c.Next()
	}
}

// AdminMiddleware must run after AuthMiddleware; it rejects participants
// without the admin claim.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(adminKey) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Administrator access required"})
			return
		}
		c.Next()
	}
}

// GetParticipantFromRequest returns the verified participant id stored by
// AuthMiddleware. It writes the error response itself, so handlers can
// just return on error.
func GetParticipantFromRequest(c *gin.Context) (string, error) {
	id := c.GetString(participantKey)
	if id == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No authenticated participant"})
		return "", errors.New("no authenticated participant")
	}
	return id, nil
}
