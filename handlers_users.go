package main

import (
	"net/http"
	"strings"

	"bankline/models"
	"bankline/pkg/apierr"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type userResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// resolveUser loads the account the request acts on. Session callers always
// resolve to themselves; API-key callers address a user by user_id or email.
func resolveUser(c *gin.Context) (*models.User, error) {
	gdb, err := getDB()
	if err != nil {
		return nil, err
	}
	if _, isKey := c.Get("apiKey"); isKey {
		if email := c.Query("email"); email != "" {
			var user models.User
			if err := gdb.Where("email = ?", normalizeEmail(email)).First(&user).Error; err != nil {
				return nil, apierr.NotFound("user not found")
			}
			return &user, nil
		}
	}
	uid, err := actingUserID(c)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := gdb.First(&user, uid).Error; err != nil {
		return nil, apierr.NotFound("user not found")
	}
	return &user, nil
}

func getCurrentUserHandler(c *gin.Context) {
	user, err := resolveUser(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

// updateCurrentUserHandler edits the profile. Fields are optional; a new
// email must still be unique, a new password goes through the same policy
// and hashing as registration.
func updateCurrentUserHandler(c *gin.Context) {
	user, err := resolveUser(c)
	if err != nil {
		fail(c, err)
		return
	}
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, apierr.Validation(err.Error()))
		return
	}
	gdb, err := getDB()
	if err != nil {
		fail(c, err)
		return
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		user.Name = name
	}
	if req.Email != "" {
		email := normalizeEmail(req.Email)
		if !strings.Contains(email, "@") {
			fail(c, apierr.Validation("valid email required"))
			return
		}
		user.Email = email
	}
	if req.Password != "" {
		if len(req.Password) < 6 {
			fail(c, apierr.Validation("password too short (min 6)"))
			return
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			fail(c, err)
			return
		}
		user.HashedPassword = hashed
	}
	if err := gdb.Save(user).Error; err != nil {
		fail(c, err) // duplicate email maps to conflict
		return
	}
	c.JSON(http.StatusOK, userResponse{ID: user.ID, Name: user.Name, Email: user.Email})
}

// deleteCurrentUserHandler removes the account. Whether the user's
// transactions go with it is a deployment policy (USER_DELETE_CASCADE);
// the default retains them, matching the historical behavior.
func deleteCurrentUserHandler(c *gin.Context) {
	user, err := resolveUser(c)
	if err != nil {
		fail(c, err)
		return
	}
	gdb, err := getDB()
	if err != nil {
		fail(c, err)
		return
	}
	err = gdb.Transaction(func(tx *gorm.DB) error {
		if cfg.DeleteCascade {
			if err := tx.Where("user_id = ?", user.ID).Delete(&models.Transaction{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "account deleted"})
}
