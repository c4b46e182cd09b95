package models

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Profile carries the authorization role for a user. It is created lazily on
// first access, keyed by the unique user column.
type Profile struct {
	ID     uint   `gorm:"primaryKey" json:"-"`
	UserID string `gorm:"uniqueIndex;not null" json:"user_id"`
	Role   string `gorm:"not null;default:user" json:"role"`
}
