package main

import (
	"errors"
	"log"
	"strings"

	"bankline/models"
	"bankline/pkg/apierr"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is the single rejection signal for every failed
// login, so callers cannot tell a missing account from a wrong password.
var ErrInvalidCredentials = apierr.Unauthorized("invalid credentials")

// dummyHash is a real bcrypt hash compared against when no account matches
// the email, so that path costs the same as a wrong-password compare and
// account existence does not leak through response timing.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// normalizeEmail lowercases and trims an email for lookup and storage.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// RegisterUser creates an account. The email is stored normalized; the
// privacy policy must have been accepted.
func RegisterUser(name, email, password string, privacyAccepted bool) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	if name == "" {
		return nil, apierr.Validation("name required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, apierr.Validation("valid email required")
	}
	if len(password) < 6 { // basic password policy
		return nil, apierr.Validation("password too short (min 6)")
	}
	if !privacyAccepted {
		return nil, apierr.Validation("privacy policy must be accepted")
	}
	gdb, err := getDB()
	if err != nil {
		return nil, err
	}
	// pre-check existing (optimistic)
	var existing models.User
	if err := gdb.Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, apierr.Conflict("email already registered")
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := models.User{Name: name, Email: email, HashedPassword: hashedPassword, PrivacyAccepted: true}
	if err := gdb.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || apierr.IsUniqueConstraint(err) { // race condition after initial check
			return nil, apierr.Conflict("email already registered")
		}
		return nil, err
	}
	return &user, nil
}

// Authenticate decides whether (email, password) matches an account.
// Structurally empty credentials are rejected before any DB or hash work;
// every other failure burns one bcrypt compare and returns the identical
// rejection. Unexpected lookup errors also reject (fail closed).
func Authenticate(email, password string) (models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return models.User{}, ErrInvalidCredentials
	}
	gdb, err := getDB()
	if err != nil {
		log.Printf("auth: db unavailable: %v", err)
		return models.User{}, ErrInvalidCredentials
	}
	var user models.User
	if err := gdb.Where("email = ?", email).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("auth: lookup failed: %v", err)
		}
		return models.User{}, checkCredentials(nil, password)
	}
	if err := checkCredentials(&user, password); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// checkCredentials compares the supplied password against the stored hash,
// or against dummyHash when no user was found so both paths do equal work.
func checkCredentials(user *models.User, password string) error {
	if user == nil {
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(user.HashedPassword, []byte(password)); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}
