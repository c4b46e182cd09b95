package models

import "time"

const (
	ProviderLocal = "local"
	ProviderOIDC  = "oidc"
)

type User struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex" json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Provider     string    `json:"provider"`
	CreatedAt    time.Time `json:"created_at"`
}
