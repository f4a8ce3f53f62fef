package server

import (
	"net/http"
	"strings"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	errs "github.com/techagentng/wefixsa/errors"
	"github.com/techagentng/wefixsa/models"
	"github.com/techagentng/wefixsa/server/response"
	"github.com/techagentng/wefixsa/services/jwt"
)

// Authorize resolves the bearer token into the calling user
func (s *Server) Authorize() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := getTokenFromHeader(c)
		if accessToken == "" {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		revoked, err := s.AuthService.IsTokenRevoked(c.Request.Context(), accessToken)
		if err != nil {
			zap.S().Errorw("error checking token blacklist", "error", err)
			respondAndAbort(c, "", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		if revoked {
			respondAndAbort(c, "Access token is blacklisted", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		claims, err := jwt.ValidateAndGetClaims(accessToken, s.Config.JWTSecret)
		if err != nil {
			respondAndAbort(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}

		user, err := s.AuthService.FindUser(c.Request.Context(), claims.Username, claims.UserType)
		if err != nil {
			respondAndAbort(c, "user not found", errs.Status(err), nil, errs.New(err.Error(), errs.Status(err)))
			return
		}

		c.Set("user", user)
		c.Set("username", user.Username)
		c.Set("access_token", accessToken)
		c.Set("token_expires_at", claims.ExpiresAt)
		c.Next()
	}
}

// RequireAdmin must run after Authorize
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := userFromContext(c)
		if !ok || !user.IsAdmin() {
			respondAndAbort(c, "admin access required", http.StatusForbidden, nil, errs.ErrForbidden)
			return
		}
		c.Next()
	}
}

func limitRateByClientIP(store ratelimit.Store) gin.HandlerFunc {
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: errs.ErrorHandler,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
}

// respondAndAbort calls response.JSON and aborts the Context
func respondAndAbort(c *gin.Context, message string, status int, data interface{}, e *errs.Error) {
	response.JSON(c, message, status, data, e)
	c.Abort()
}

// getTokenFromHeader returns the token string in the authorization header
func getTokenFromHeader(c *gin.Context) string {
	authHeader := c.Request.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func userFromContext(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}
