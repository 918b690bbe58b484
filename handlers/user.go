package handlers

import (
	"errors"
	"net/http"
	"strings"

	"transylvania/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type signUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SignUpHandler registers a new profile and returns a session token.
func SignUpHandler(svc user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req signUpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		result, err := svc.SignUp(c.Request.Context(), req.Email, req.Username, req.Password)
		if err != nil {
			if errors.Is(err, user.ErrEmailTaken) {
				c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
				return
			}
			logger.Error("Failed to sign up", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

// SignInHandler authenticates a profile and returns a session token.
func SignInHandler(svc user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req signInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		result, err := svc.SignIn(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, user.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
				return
			}
			logger.Error("Failed to sign in", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in"})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// SignOutHandler revokes the caller's cached session token.
func SignOutHandler(svc user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if err := svc.SignOut(c.Request.Context(), token); err != nil {
			logger.Error("Failed to sign out", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign out"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
	}
}

type updateProfileRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateProfileHandler updates the authenticated profile's username/password.
func UpdateProfileHandler(svc user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		var req updateProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
			return
		}

		profile, err := svc.UpdateProfile(c.Request.Context(), c.GetString("profileID"), req.Username, req.Password)
		if err != nil {
			logger.Error("Failed to update profile", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

// DeleteProfileHandler removes the authenticated profile and revokes its token.
func DeleteProfileHandler(svc user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		profileID := c.GetString("profileID")
		if err := svc.DeleteProfile(c.Request.Context(), profileID); err != nil {
			logger.Error("Failed to delete profile", zap.String("profileID", profileID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete profile"})
			return
		}
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		_ = svc.SignOut(c.Request.Context(), token)
		c.JSON(http.StatusOK, gin.H{"message": "Profile deleted"})
	}
}

// GetProfileHandler returns the authenticated profile.
func GetProfileHandler(svc user.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := getLogger(c)

		profileID := c.GetString("profileID")
		profile, err := svc.GetProfile(c.Request.Context(), profileID)
		if err != nil {
			logger.Error("Failed to get profile", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
			return
		}
		if profile == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Profile not found"})
			return
		}
		profile.PasswordHash = ""
		c.JSON(http.StatusOK, profile)
	}
}
