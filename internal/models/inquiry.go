package models

import "time"

// Inquiry lifecycle states, derived from the read flag and response fields.
const (
	InquiryStateNew       = "new"
	InquiryStateRead      = "read"
	InquiryStateResponded = "responded"
)

// Inquiry is a buyer-authored question about a listing. The seller may view it
// (IsRead) and answer it (SellerResponse). An empty SellerResponse is the
// explicit "pending" sentinel, never null.
type Inquiry struct {
	BaseModel

	BuyerID string `gorm:"type:uuid;index;not null" json:"buyer_id"`
	Buyer   *User  `json:"buyer,omitempty"`

	LandID string `gorm:"type:uuid;index;not null" json:"land_id"`
	Land   *Land  `json:"land,omitempty"`

	Subject string `gorm:"type:varchar(200);not null" json:"subject"`
	Message string `gorm:"type:text;not null" json:"message"`

	IsRead         bool       `gorm:"default:false;index" json:"is_read"`
	SellerResponse string     `gorm:"type:text;not null;default:''" json:"seller_response"`
	ResponseDate   *time.Time `json:"response_date"`
}

// Responded reports whether the seller has saved an answer.
func (i *Inquiry) Responded() bool {
	return i.SellerResponse != ""
}

// State derives the lifecycle state from the stored fields.
func (i *Inquiry) State() string {
	switch {
	case i.Responded():
		return InquiryStateResponded
	case i.IsRead:
		return InquiryStateRead
	default:
		return InquiryStateNew
	}
}
