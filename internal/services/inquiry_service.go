package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/landhub/landhub/internal/models"
	"github.com/landhub/landhub/internal/notifications"
	apperrors "github.com/landhub/landhub/pkg/errors"
	"github.com/landhub/landhub/pkg/metrics"
)

// duplicateInquiryWindow is how long a buyer must wait before sending another
// inquiry about the same listing.
const duplicateInquiryWindow = 24 * time.Hour

// InquiryDTO represents the API-friendly inquiry payload.
type InquiryDTO struct {
	ID             string          `json:"id"`
	BuyerID        string          `json:"buyer_id"`
	BuyerName      string          `json:"buyer_name,omitempty"`
	LandID         string          `json:"land_id"`
	LandTitle      string          `json:"land_title,omitempty"`
	Subject        string          `json:"subject"`
	Message        string          `json:"message"`
	IsRead         bool            `json:"is_read"`
	SellerResponse string          `json:"seller_response"`
	ResponseDate   *time.Time      `json:"response_date,omitempty"`
	State          string          `json:"state"`
	CreatedAt      time.Time       `json:"created_at"`
	Raw            *models.Inquiry `json:"-"`
}

// SubmitInquiryInput defines the attributes of a new buyer inquiry.
type SubmitInquiryInput struct {
	BuyerID string
	LandID  string
	Subject string `json:"subject" validate:"required,min=5,max=200"`
	Message string `json:"message" validate:"required,min=10"`
}

// RespondInquiryInput carries the seller's answer to an inquiry.
type RespondInquiryInput struct {
	Response string `json:"response" validate:"required,min=10"`
}

// ListInquiriesInput defines filters for the seller inquiry views.
type ListInquiriesInput struct {
	UserID string
	Filter string // "", "unread", "pending", "responded"
	Search string
	Limit  int
	Offset int
}

// InquiryStats summarizes a seller's inquiry workload.
type InquiryStats struct {
	Total     int64 `json:"total"`
	Unread    int64 `json:"unread"`
	Pending   int64 `json:"pending"`
	Responded int64 `json:"responded"`
}

// InquiryService manages the buyer-to-seller inquiry workflow. State is
// derived from the stored fields, never set directly: responding forces the
// read flag, and an empty response string means pending.
type InquiryService struct {
	db         *gorm.DB
	dispatcher *notifications.Dispatcher
}

// NewInquiryService constructs an InquiryService.
func NewInquiryService(db *gorm.DB, dispatcher *notifications.Dispatcher) (*InquiryService, error) {
	if db == nil {
		return nil, errors.New("inquiry service: db is required")
	}
	if dispatcher == nil {
		return nil, errors.New("inquiry service: dispatcher is required")
	}
	return &InquiryService{db: db, dispatcher: dispatcher}, nil
}

// Submit records a buyer inquiry about an approved listing and notifies the
// seller. The inquiry row and its notification are written in one
// transaction.
func (s *InquiryService) Submit(ctx context.Context, input SubmitInquiryInput) (*InquiryDTO, error) {
	ctx = ensureContext(ctx)

	buyerID := strings.TrimSpace(input.BuyerID)
	if buyerID == "" {
		return nil, errors.New("inquiry service: buyer id is required")
	}

	var land models.Land
	if err := s.db.WithContext(ctx).
		Preload("Owner").
		First(&land, "id = ?", strings.TrimSpace(input.LandID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("inquiry service: load listing: %w", err)
	}

	if land.Status != models.ListingStatusApproved {
		return nil, apperrors.ErrListingNotAvailable
	}
	if land.OwnerID == buyerID {
		return nil, apperrors.NewBadRequest("You cannot send an inquiry about your own listing")
	}

	var recent int64
	since := time.Now().UTC().Add(-duplicateInquiryWindow)
	if err := s.db.WithContext(ctx).
		Model(&models.Inquiry{}).
		Where("buyer_id = ? AND land_id = ? AND created_at > ?", buyerID, land.ID, since).
		Count(&recent).Error; err != nil {
		return nil, fmt.Errorf("inquiry service: check recent inquiries: %w", err)
	}
	if recent > 0 {
		return nil, apperrors.ErrDuplicateInquiry
	}

	inquiry := models.Inquiry{
		BuyerID: buyerID,
		LandID:  land.ID,
		Subject: strings.TrimSpace(input.Subject),
		Message: strings.TrimSpace(input.Message),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inquiry).Error; err != nil {
			return fmt.Errorf("inquiry service: create inquiry: %w", err)
		}
		inquiry.Land = &land
		if _, err := s.dispatcher.WithTx(tx).NewInquiry(ctx, &inquiry); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.InquiryTransitions.WithLabelValues("submitted").Inc()
	dto := mapInquiry(inquiry)
	return &dto, nil
}

// GetForSeller loads an inquiry addressed to the seller's listing and marks it
// read as a side effect of viewing, moving new inquiries into the read state.
func (s *InquiryService) GetForSeller(ctx context.Context, sellerID, inquiryID string) (*InquiryDTO, error) {
	ctx = ensureContext(ctx)

	inquiry, err := s.loadForSeller(ctx, sellerID, inquiryID)
	if err != nil {
		return nil, err
	}

	if !inquiry.IsRead {
		if err := s.db.WithContext(ctx).Model(inquiry).
			Update("is_read", true).Error; err != nil {
			return nil, fmt.Errorf("inquiry service: mark read: %w", err)
		}
		inquiry.IsRead = true
		metrics.InquiryTransitions.WithLabelValues("read").Inc()
	}

	dto := mapInquiry(*inquiry)
	return &dto, nil
}

// GetForBuyer loads one of the buyer's own inquiries.
func (s *InquiryService) GetForBuyer(ctx context.Context, buyerID, inquiryID string) (*InquiryDTO, error) {
	ctx = ensureContext(ctx)

	var inquiry models.Inquiry
	if err := s.db.WithContext(ctx).
		Preload("Land").
		Preload("Buyer").
		Where("id = ? AND buyer_id = ?", inquiryID, buyerID).
		First(&inquiry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("inquiry service: load inquiry: %w", err)
	}

	dto := mapInquiry(inquiry)
	return &dto, nil
}

// MarkRead flips an inquiry into the read state without responding. Already
// read inquiries pass through unchanged.
func (s *InquiryService) MarkRead(ctx context.Context, sellerID, inquiryID string) (*InquiryDTO, error) {
	ctx = ensureContext(ctx)

	inquiry, err := s.loadForSeller(ctx, sellerID, inquiryID)
	if err != nil {
		return nil, err
	}

	if !inquiry.IsRead {
		if err := s.db.WithContext(ctx).Model(inquiry).
			Update("is_read", true).Error; err != nil {
			return nil, fmt.Errorf("inquiry service: mark read: %w", err)
		}
		inquiry.IsRead = true
		metrics.InquiryTransitions.WithLabelValues("read").Inc()
	}

	dto := mapInquiry(*inquiry)
	return &dto, nil
}

// Respond stores the seller's answer, forces the read flag, stamps the
// response time, and notifies the buyer. All writes share one transaction so
// a responded inquiry always has its notification. Responding again
// overwrites the previous answer and refreshes the timestamp.
func (s *InquiryService) Respond(ctx context.Context, sellerID, inquiryID, response string) (*InquiryDTO, error) {
	ctx = ensureContext(ctx)

	response = strings.TrimSpace(response)
	if response == "" {
		return nil, apperrors.NewBadRequest("A response message is required")
	}

	inquiry, err := s.loadForSeller(ctx, sellerID, inquiryID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(inquiry).
			Updates(map[string]any{
				"is_read":         true,
				"seller_response": response,
				"response_date":   now,
			}).Error; err != nil {
			return fmt.Errorf("inquiry service: save response: %w", err)
		}

		inquiry.IsRead = true
		inquiry.SellerResponse = response
		inquiry.ResponseDate = &now

		if _, err := s.dispatcher.WithTx(tx).InquiryResponse(ctx, inquiry); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.InquiryTransitions.WithLabelValues("responded").Inc()
	dto := mapInquiry(*inquiry)
	return &dto, nil
}

// ListForSeller returns inquiries about the seller's listings, newest first,
// with optional state filtering and subject/message/buyer search.
func (s *InquiryService) ListForSeller(ctx context.Context, input ListInquiriesInput) ([]InquiryDTO, error) {
	ctx = ensureContext(ctx)
	sellerID := strings.TrimSpace(input.UserID)
	if sellerID == "" {
		return nil, errors.New("inquiry service: seller id is required")
	}

	query := s.sellerScope(ctx, sellerID).
		Preload("Land").
		Preload("Buyer")

	switch input.Filter {
	case "", "all":
	case "unread":
		query = query.Where("inquiries.is_read = ?", false)
	case "pending":
		query = query.Where("inquiries.seller_response = ?", "")
	case "responded":
		query = query.Where("inquiries.seller_response <> ?", "")
	default:
		return nil, apperrors.NewBadRequest("Unknown inquiry filter")
	}

	if search := strings.TrimSpace(input.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.
			Joins("JOIN users ON users.id = inquiries.buyer_id").
			Where("inquiries.subject LIKE ? OR inquiries.message LIKE ? OR users.username LIKE ?",
				pattern, pattern, pattern)
	}

	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	var rows []models.Inquiry
	if err := query.
		Order("inquiries.created_at DESC").
		Limit(limit).
		Offset(max(0, input.Offset)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("inquiry service: list inquiries: %w", err)
	}

	return mapInquiryRows(rows), nil
}

// ListForBuyer returns the buyer's own inquiries, newest first.
func (s *InquiryService) ListForBuyer(ctx context.Context, input ListInquiriesInput) ([]InquiryDTO, error) {
	ctx = ensureContext(ctx)
	buyerID := strings.TrimSpace(input.UserID)
	if buyerID == "" {
		return nil, errors.New("inquiry service: buyer id is required")
	}

	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	var rows []models.Inquiry
	if err := s.db.WithContext(ctx).
		Preload("Land").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Limit(limit).
		Offset(max(0, input.Offset)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("inquiry service: list inquiries: %w", err)
	}

	return mapInquiryRows(rows), nil
}

// StatsForSeller aggregates the seller's inquiry counts per workflow state.
func (s *InquiryService) StatsForSeller(ctx context.Context, sellerID string) (*InquiryStats, error) {
	ctx = ensureContext(ctx)
	sellerID = strings.TrimSpace(sellerID)
	if sellerID == "" {
		return nil, errors.New("inquiry service: seller id is required")
	}

	stats := &InquiryStats{}
	counts := []struct {
		dest  *int64
		scope func(*gorm.DB) *gorm.DB
	}{
		{&stats.Total, func(q *gorm.DB) *gorm.DB { return q }},
		{&stats.Unread, func(q *gorm.DB) *gorm.DB { return q.Where("inquiries.is_read = ?", false) }},
		{&stats.Pending, func(q *gorm.DB) *gorm.DB { return q.Where("inquiries.seller_response = ?", "") }},
		{&stats.Responded, func(q *gorm.DB) *gorm.DB { return q.Where("inquiries.seller_response <> ?", "") }},
	}

	for _, c := range counts {
		if err := c.scope(s.sellerScope(ctx, sellerID)).Count(c.dest).Error; err != nil {
			return nil, fmt.Errorf("inquiry service: count inquiries: %w", err)
		}
	}
	return stats, nil
}

func (s *InquiryService) sellerScope(ctx context.Context, sellerID string) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.Inquiry{}).
		Joins("JOIN lands ON lands.id = inquiries.land_id").
		Where("lands.owner_id = ?", sellerID)
}

func (s *InquiryService) loadForSeller(ctx context.Context, sellerID, inquiryID string) (*models.Inquiry, error) {
	sellerID = strings.TrimSpace(sellerID)
	if sellerID == "" {
		return nil, errors.New("inquiry service: seller id is required")
	}

	var inquiry models.Inquiry
	if err := s.db.WithContext(ctx).
		Preload("Land").
		Preload("Buyer").
		Joins("JOIN lands ON lands.id = inquiries.land_id").
		Where("inquiries.id = ? AND lands.owner_id = ?", inquiryID, sellerID).
		First(&inquiry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("inquiry service: load inquiry: %w", err)
	}
	return &inquiry, nil
}

func mapInquiryRows(rows []models.Inquiry) []InquiryDTO {
	items := make([]InquiryDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapInquiry(row))
	}
	return items
}

func mapInquiry(row models.Inquiry) InquiryDTO {
	dto := InquiryDTO{
		ID:             row.ID,
		BuyerID:        row.BuyerID,
		LandID:         row.LandID,
		Subject:        row.Subject,
		Message:        row.Message,
		IsRead:         row.IsRead,
		SellerResponse: row.SellerResponse,
		ResponseDate:   row.ResponseDate,
		State:          row.State(),
		CreatedAt:      row.CreatedAt,
		Raw:            &row,
	}
	if row.Buyer != nil {
		dto.BuyerName = row.Buyer.DisplayName()
	}
	if row.Land != nil {
		dto.LandTitle = row.Land.Title
	}
	return dto
}
