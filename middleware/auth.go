package middleware

import (
	"net/http"
	"strings"

	profileRepo "transylvania/database/repository/profile"
	"transylvania/utils"

	"github.com/gin-gonic/gin"
)

// JWTAuthMiddleware authenticates requests via a Bearer token. The hashed
// token is checked against the auth cache first; on a miss the subject claim
// is verified against the profile store and the cache entry is restored.
func JWTAuthMiddleware(profiles profileRepo.ProfileRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		subject, err := utils.ExtractSubjectFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		ctx := c.Request.Context()
		cacheKey := utils.AuthCachePrefix + utils.HashToken(tokenString)
		cache := utils.GetAuthCacheClient()

		if cached, err := cache.Get(ctx, cacheKey).Result(); err == nil && cached == subject {
			c.Set("profileID", subject)
			c.Next()
			return
		}

		// Cache miss (or restart): fall back to the profile store.
		profile, err := profiles.GetByID(ctx, subject)
		if err != nil || profile == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Token subject not found"})
			return
		}
		_ = cache.Set(ctx, cacheKey, profile.ID, utils.AuthCacheTTL).Err()

		c.Set("profileID", profile.ID)
		c.Next()
	}
}

// AdminMiddleware requires an authenticated profile with the admin flag set.
// It must run after JWTAuthMiddleware.
func AdminMiddleware(profiles profileRepo.ProfileRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		profileID := c.GetString("profileID")
		if profileID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		profile, err := profiles.GetByID(c.Request.Context(), profileID)
		if err != nil || profile == nil || !profile.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Set("isAdmin", true)
		c.Next()
	}
}
