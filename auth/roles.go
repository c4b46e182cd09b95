package auth

import (
	"gorm.io/gorm"

	"github.com/TalgatovAka/shop-api/config"
	"github.com/TalgatovAka/shop-api/models"
)

// ApplyRole makes sure the user has a profile and returns the effective
// role. Identities on the break-glass allow-list are unconditionally
// promoted to admin — never demoted — and the change is persisted
// immediately. Called on every registration and login.
func ApplyRole(db *gorm.DB, user *models.User, admins config.Admins) (string, error) {
	profile, err := getOrCreateProfile(db, user.ID)
	if err != nil {
		return "", err
	}

	if profile.Role != models.RoleAdmin && admins.Allows(user.Email, user.Username) {
		if err := db.Model(profile).Update("role", models.RoleAdmin).Error; err != nil {
			return "", err
		}
		profile.Role = models.RoleAdmin
	}

	return profile.Role, nil
}

// RoleOf is the single accessor behind every role check. The profile is
// created lazily with the default role, so identities provisioned
// out-of-band (e.g. by the identity provider) resolve cleanly.
func RoleOf(db *gorm.DB, userID string) (string, error) {
	profile, err := getOrCreateProfile(db, userID)
	if err != nil {
		return "", err
	}
	return profile.Role, nil
}

func getOrCreateProfile(db *gorm.DB, userID string) (*models.Profile, error) {
	var profile models.Profile
	err := db.Where(models.Profile{UserID: userID}).
		Attrs(models.Profile{Role: models.RoleUser}).
		FirstOrCreate(&profile).Error
	if err != nil {
		// A concurrent first access may win the insert race; the unique
		// user column guarantees the row exists now.
		if ferr := db.Where("user_id = ?", userID).First(&profile).Error; ferr == nil {
			return &profile, nil
		}
		return nil, err
	}
	return &profile, nil
}
