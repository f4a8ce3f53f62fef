package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	errs "github.com/techagentng/wefixsa/errors"
	"github.com/techagentng/wefixsa/models"
	"github.com/techagentng/wefixsa/server/response"
)

func (s *Server) handleGetCatalog() gin.HandlerFunc {
	return func(c *gin.Context) {
		response.JSON(c, "catalog retrieved successfully", http.StatusOK, models.GetCatalog(), nil)
	}
}

func (s *Server) handleSignup() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request models.SignupRequest
		if err := decode(c, &request); err != nil {
			response.JSON(c, "", errs.ErrBadRequest.Status, nil, err)
			return
		}

		user, err := s.AuthService.SignupCitizen(c.Request.Context(), &request)
		if err != nil {
			response.JSON(c, "", errs.Status(err), nil, err)
			return
		}
		response.JSON(c, "signup successful", http.StatusCreated, user, nil)
	}
}

func (s *Server) handleLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		var loginRequest models.LoginRequest
		if err := decode(c, &loginRequest); err != nil {
			response.JSON(c, "", errs.ErrBadRequest.Status, nil, err)
			return
		}

		user, err := s.AuthService.Login(c.Request.Context(), &loginRequest)
		if err != nil {
			response.JSON(c, "", errs.Status(err), nil, err)
			return
		}
		loginResponse, err := s.AuthService.IssueToken(user)
		if err != nil {
			response.JSON(c, "", errs.Status(err), nil, err)
			return
		}
		zap.S().Infow("user logged in", "username", user.Username, "type", user.Type)
		response.JSON(c, "login successful", http.StatusOK, loginResponse, nil)
	}
}

func (s *Server) handleLogout() gin.HandlerFunc {
	return func(c *gin.Context) {
		accessToken := c.GetString("access_token")
		expiresAt := c.GetTime("token_expires_at")
		if expiresAt.IsZero() {
			expiresAt = time.Now().Add(s.Config.TokenTTL)
		}

		if err := s.AuthService.RevokeToken(c.Request.Context(), accessToken, expiresAt); err != nil {
			zap.S().Errorw("error adding access token to blacklist", "error", err)
			respondAndAbort(c, "Logout failed", http.StatusInternalServerError, nil, errs.ErrInternalServerError)
			return
		}
		response.JSON(c, "logout successful", http.StatusOK, nil, nil)
	}
}

func (s *Server) handleShowProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := userFromContext(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}
		response.JSON(c, "user profile retrieved successfully", http.StatusOK, user, nil)
	}
}

func (s *Server) handleEditProfile() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := userFromContext(c)
		if !ok {
			response.JSON(c, "", http.StatusUnauthorized, nil, errs.ErrUnauthorized)
			return
		}
		if user.IsAdmin() {
			response.JSON(c, "admin profile is configured by the server", http.StatusForbidden, nil, errs.ErrForbidden)
			return
		}

		var update models.ProfileUpdate
		if err := decode(c, &update); err != nil {
			response.JSON(c, "", errs.ErrBadRequest.Status, nil, err)
			return
		}

		updated, err := s.AuthService.UpdateCitizen(c.Request.Context(), user.Username, &update)
		if err != nil {
			response.JSON(c, "", errs.Status(err), nil, err)
			return
		}
		response.JSON(c, "profile updated successfully", http.StatusOK, updated, nil)
	}
}
