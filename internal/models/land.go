package models

// Property types offered on the marketplace.
const (
	PropertyResidential  = "residential"
	PropertyCommercial   = "commercial"
	PropertyAgricultural = "agricultural"
	PropertyRecreational = "recreational"
)

// Listing lifecycle statuses.
const (
	ListingStatusDraft    = "draft"
	ListingStatusPending  = "pending"
	ListingStatusApproved = "approved"
	ListingStatusRejected = "rejected"
	ListingStatusSold     = "sold"
)

// Land is a property-for-sale record owned by a seller. Listings start as
// drafts and only become publicly visible once an admin approves them.
type Land struct {
	BaseModel

	OwnerID string `gorm:"type:uuid;index;not null" json:"owner_id"`
	Owner   *User  `json:"owner,omitempty"`

	Title       string  `gorm:"type:varchar(200);not null" json:"title"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"type:decimal(12,2)" json:"price"`
	SizeAcres   float64 `gorm:"type:decimal(10,2)" json:"size_acres"`
	Location    string  `gorm:"type:varchar(200)" json:"location"`
	Address     string  `gorm:"type:text" json:"address"`

	PropertyType string `gorm:"type:varchar(20);index" json:"property_type"`
	Status       string `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	IsApproved   bool   `gorm:"default:false" json:"is_approved"`
	AdminNotes   string `gorm:"type:text" json:"admin_notes"`

	Images []LandImage `gorm:"foreignKey:LandID" json:"images,omitempty"`
}

// ValidPropertyType reports whether the supplied value is a known property type.
func ValidPropertyType(propertyType string) bool {
	switch propertyType {
	case PropertyResidential, PropertyCommercial, PropertyAgricultural, PropertyRecreational:
		return true
	}
	return false
}
