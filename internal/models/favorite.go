package models

// Favorite bookmarks a listing for a buyer. At most one row exists per
// (user, land) pair.
type Favorite struct {
	BaseModel

	UserID string `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_land" json:"user_id"`
	User   *User  `json:"user,omitempty"`

	LandID string `gorm:"type:uuid;not null;uniqueIndex:idx_favorites_user_land" json:"land_id"`
	Land   *Land  `json:"land,omitempty"`
}
