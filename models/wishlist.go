package models

import "time"

// Wishlist is a per-user set of favorited products. Membership lives in the
// wishlist_products join table; no quantities, no duplicates.
type Wishlist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"uniqueIndex" json:"user_id"`
	Products  []Product `gorm:"many2many:wishlist_products;constraint:OnDelete:CASCADE" json:"products"`
	CreatedAt time.Time `json:"created_at"`
}

// WishlistJoinTable is the name gorm gives the membership join table; raw
// queries against it (toggle lookups, cascades) share this constant.
const WishlistJoinTable = "wishlist_products"
