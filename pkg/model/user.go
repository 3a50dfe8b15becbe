package model

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User is a registered account. The API key itself is never stored.
type User struct {
	ID         string    `gorm:"column:id;primaryKey" json:"id"`
	Email      string    `gorm:"column:email" json:"email"`
	APIKeyHash string    `gorm:"column:api_key_hash" json:"-"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

// GenerateAPIKey returns a random URL-safe API key.
func GenerateAPIKey() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashAPIKey hashes an API key for storage.
func HashAPIKey(apiKey string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckAPIKey reports whether apiKey matches the stored hash.
func (u User) CheckAPIKey(apiKey string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.APIKeyHash), []byte(apiKey)) == nil
}
