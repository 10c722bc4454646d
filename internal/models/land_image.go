package models

// LandImage stores a single photo attached to a listing.
type LandImage struct {
	BaseModel

	LandID string `gorm:"type:uuid;index;not null" json:"land_id"`

	URL       string `gorm:"type:text;not null" json:"url"`
	AltText   string `gorm:"type:varchar(200)" json:"alt_text"`
	IsPrimary bool   `gorm:"default:false" json:"is_primary"`
	Order     int    `gorm:"column:sort_order;default:0" json:"order"`
}
