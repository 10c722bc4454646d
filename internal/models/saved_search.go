package models

import (
	"net/url"
	"strconv"
)

// SavedSearch stores a buyer's reusable listing filter.
type SavedSearch struct {
	BaseModel

	UserID string `gorm:"type:uuid;index;not null" json:"user_id"`

	Name               string `gorm:"type:varchar(100);not null" json:"name"`
	SearchQuery        string `gorm:"type:varchar(200)" json:"search_query"`
	LocationFilter     string `gorm:"type:varchar(200)" json:"location_filter"`
	PropertyTypeFilter string `gorm:"type:varchar(20)" json:"property_type_filter"`

	MinPrice *float64 `json:"min_price"`
	MaxPrice *float64 `json:"max_price"`
	MinSize  *float64 `json:"min_size"`
	MaxSize  *float64 `json:"max_size"`

	EmailAlerts bool `gorm:"default:true" json:"email_alerts"`
	IsActive    bool `gorm:"default:true" json:"is_active"`
}

// QueryString renders the saved filters as listing-search query parameters.
func (s *SavedSearch) QueryString() string {
	params := url.Values{}
	if s.SearchQuery != "" {
		params.Set("search", s.SearchQuery)
	}
	if s.LocationFilter != "" {
		params.Set("location", s.LocationFilter)
	}
	if s.PropertyTypeFilter != "" {
		params.Set("property_type", s.PropertyTypeFilter)
	}
	if s.MinPrice != nil {
		params.Set("min_price", strconv.FormatFloat(*s.MinPrice, 'f', -1, 64))
	}
	if s.MaxPrice != nil {
		params.Set("max_price", strconv.FormatFloat(*s.MaxPrice, 'f', -1, 64))
	}
	if s.MinSize != nil {
		params.Set("min_size", strconv.FormatFloat(*s.MinSize, 'f', -1, 64))
	}
	if s.MaxSize != nil {
		params.Set("max_size", strconv.FormatFloat(*s.MaxSize, 'f', -1, 64))
	}
	return params.Encode()
}
