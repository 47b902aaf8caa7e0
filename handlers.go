package main

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"

	"bankline/models"
	"bankline/pkg/apierr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)
	authGroup := r.Group("")
	authGroup.Use(authMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.GET("/dashboard", dashboardHandler)
	authGroup.GET("/transactions", listTransactionsHandler)
	authGroup.POST("/transactions", createTransactionHandler)
	authGroup.GET("/transactions/summary", summaryHandler)
	authGroup.GET("/transactions/:id", getTransactionHandler)
	authGroup.PUT("/transactions/:id", updateTransactionHandler)
	authGroup.DELETE("/transactions/:id", deleteTransactionHandler)
	authGroup.GET("/users/me", getCurrentUserHandler)
	authGroup.PUT("/users/me", updateCurrentUserHandler)
	authGroup.DELETE("/users/me", deleteCurrentUserHandler)
}

// fail normalizes any error into the {message} envelope with its status.
func fail(c *gin.Context, err error) {
	ae := apierr.From(err)
	c.JSON(ae.Status, gin.H{"message": ae.Message})
}

// authMiddleware accepts either a static API key (X-API-Key header) or a
// Bearer JWT. JWT callers are bound to the user id in the token; API-key
// callers name the acting user per request.
func authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if key := c.GetHeader("X-API-Key"); key != "" {
			if cfg.APIKey != "" && subtle.ConstantTimeCompare([]byte(key), []byte(cfg.APIKey)) == 1 {
				c.Set("apiKey", true)
				c.Next()
				return
			}
			fail(c, apierr.Unauthorized("invalid api key"))
			c.Abort()
			return
		}
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			fail(c, apierr.Unauthorized("missing or invalid Authorization header"))
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			fail(c, apierr.Unauthorized("invalid token"))
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			fail(c, apierr.Unauthorized("invalid claims"))
			c.Abort()
			return
		}
		sub, ok := claims["sub"].(float64)
		if !ok || sub <= 0 {
			fail(c, apierr.Unauthorized("invalid claims"))
			c.Abort()
			return
		}
		c.Set("userID", uint(sub))
		c.Next()
	}
}

// actingUserID resolves the user every query must be scoped to: the token
// subject for session callers, an explicit user_id parameter for API-key
// callers.
func actingUserID(c *gin.Context) (uint, error) {
	if v, ok := c.Get("userID"); ok {
		return v.(uint), nil
	}
	if v := c.Query("user_id"); v != "" {
		id, err := parseID(v)
		if err != nil {
			return 0, apierr.Validation("invalid user_id")
		}
		return id, nil
	}
	return 0, apierr.Validation("user_id required")
}

func meHandler(c *gin.Context) {
	uid, err := actingUserID(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": uid})
}

func registerHandler(c *gin.Context) {
	var req struct {
		Name            string `json:"name" binding:"required"`
		Email           string `json:"email" binding:"required"`
		Password        string `json:"password" binding:"required"`
		PrivacyAccepted bool   `json:"privacy_accepted"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apierr.Validation(err.Error()))
		return
	}
	user, err := RegisterUser(req.Name, req.Email, req.Password, req.PrivacyAccepted)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user registered successfully", "id": user.ID})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apierr.Validation(err.Error()))
		return
	}
	user, err := Authenticate(req.Email, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	tokenString, err := signAccessToken(user.ID, 24*time.Hour)
	if err != nil {
		fail(c, apierr.Internal("failed to generate token"))
		return
	}
	refreshToken, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		fail(c, apierr.Internal("failed to create refresh token"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// signAccessToken mints an HS256 JWT whose subject is the stable user id
// used to scope every transaction query.
func signAccessToken(userID uint, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(ttl).Unix(),
	})
	return token.SignedString(jwtSecret)
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(userID uint) (string, error) {
	gdb, err := getDB()
	if err != nil {
		return "", err
	}
	// generate random 32-byte token (hex)
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	// hash for storage
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	rt := models.RefreshToken{UserID: userID, TokenHash: th, ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := gdb.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

// helper to find refresh token record by raw token string
func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	gdb, err := getDB()
	if err != nil {
		return nil, err
	}
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := gdb.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apierr.Validation(err.Error()))
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		fail(c, apierr.Unauthorized("invalid or expired refresh token"))
		return
	}
	gdb, err := getDB()
	if err != nil {
		fail(c, err)
		return
	}
	var user models.User
	if err := gdb.First(&user, rt.UserID).Error; err != nil {
		fail(c, apierr.Unauthorized("user not found"))
		return
	}
	tokenString, err := signAccessToken(user.ID, 15*time.Minute)
	if err != nil {
		fail(c, apierr.Internal("failed to generate token"))
		return
	}
	// rotate refresh token: the old one must be revoked before its
	// replacement exists, otherwise a failed revoke would leave both valid
	if err := gdb.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true).Error; err != nil {
		fail(c, apierr.Internal("failed to rotate refresh token"))
		return
	}
	newRT, err := createAndStoreRefreshToken(user.ID)
	if err != nil {
		fail(c, apierr.Internal("failed to rotate refresh token"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apierr.Validation(err.Error()))
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		fail(c, apierr.NotFound("refresh token not found"))
		return
	}
	gdb, err := getDB()
	if err != nil {
		fail(c, err)
		return
	}
	rt.Revoked = true
	if err := gdb.Save(rt).Error; err != nil {
		fail(c, apierr.Internal("failed to revoke token"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}
