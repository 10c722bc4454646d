package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/landhub/landhub/internal/models"
	"github.com/landhub/landhub/internal/notifications"
	apperrors "github.com/landhub/landhub/pkg/errors"
	"github.com/landhub/landhub/pkg/logger"
)

// ListingDTO represents the API-friendly listing payload.
type ListingDTO struct {
	ID           string       `json:"id"`
	OwnerID      string       `json:"owner_id"`
	OwnerName    string       `json:"owner_name,omitempty"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Price        float64      `json:"price"`
	SizeAcres    float64      `json:"size_acres"`
	Location     string       `json:"location"`
	Address      string       `json:"address,omitempty"`
	PropertyType string       `json:"property_type"`
	Status       string       `json:"status"`
	IsApproved   bool         `json:"is_approved"`
	AdminNotes   string       `json:"admin_notes,omitempty"`
	Images       []ImageDTO   `json:"images,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	Raw          *models.Land `json:"-"`
}

// ImageDTO represents a listing photo.
type ImageDTO struct {
	ID        string `json:"id"`
	URL       string `json:"url"`
	AltText   string `json:"alt_text,omitempty"`
	IsPrimary bool   `json:"is_primary"`
	Order     int    `json:"order"`
}

// AddImageInput defines a photo attachment for a listing.
type AddImageInput struct {
	URL       string `json:"url" validate:"required,max=500"`
	AltText   string `json:"alt_text" validate:"max=200"`
	IsPrimary bool   `json:"is_primary"`
	Order     int    `json:"order" validate:"gte=0"`
}

// CreateListingInput defines the attributes of a new draft listing.
type CreateListingInput struct {
	OwnerID      string
	Title        string  `json:"title" validate:"required,min=5,max=200"`
	Description  string  `json:"description" validate:"required,min=20"`
	Price        float64 `json:"price" validate:"required,gt=0"`
	SizeAcres    float64 `json:"size_acres" validate:"required,gt=0"`
	Location     string  `json:"location" validate:"required"`
	Address      string  `json:"address"`
	PropertyType string  `json:"property_type" validate:"required"`
}

// UpdateListingInput defines a partial listing update. Nil fields are left
// untouched.
type UpdateListingInput struct {
	Title        *string  `json:"title" validate:"omitempty,min=5,max=200"`
	Description  *string  `json:"description" validate:"omitempty,min=20"`
	Price        *float64 `json:"price" validate:"omitempty,gt=0"`
	SizeAcres    *float64 `json:"size_acres" validate:"omitempty,gt=0"`
	Location     *string  `json:"location"`
	Address      *string  `json:"address"`
	PropertyType *string  `json:"property_type"`
}

// BrowseListingsInput filters the public catalogue of approved listings.
type BrowseListingsInput struct {
	Search       string
	Location     string
	PropertyType string
	MinPrice     *float64
	MaxPrice     *float64
	MinSize      *float64
	MaxSize      *float64
	Limit        int
	Offset       int
}

// ListingService manages the seller listing lifecycle and the public
// catalogue. Moderation decisions flow through it so the status change and
// its seller notification commit together.
type ListingService struct {
	db         *gorm.DB
	dispatcher *notifications.Dispatcher
}

// NewListingService constructs a ListingService.
func NewListingService(db *gorm.DB, dispatcher *notifications.Dispatcher) (*ListingService, error) {
	if db == nil {
		return nil, errors.New("listing service: db is required")
	}
	if dispatcher == nil {
		return nil, errors.New("listing service: dispatcher is required")
	}
	return &ListingService{db: db, dispatcher: dispatcher}, nil
}

// Create records a new draft listing for the seller.
func (s *ListingService) Create(ctx context.Context, input CreateListingInput) (*ListingDTO, error) {
	ctx = ensureContext(ctx)

	ownerID := strings.TrimSpace(input.OwnerID)
	if ownerID == "" {
		return nil, errors.New("listing service: owner id is required")
	}
	if !models.ValidPropertyType(input.PropertyType) {
		return nil, apperrors.NewBadRequest("Unknown property type")
	}

	land := models.Land{
		OwnerID:      ownerID,
		Title:        strings.TrimSpace(input.Title),
		Description:  strings.TrimSpace(input.Description),
		Price:        input.Price,
		SizeAcres:    input.SizeAcres,
		Location:     strings.TrimSpace(input.Location),
		Address:      strings.TrimSpace(input.Address),
		PropertyType: input.PropertyType,
		Status:       models.ListingStatusDraft,
	}

	if err := s.db.WithContext(ctx).Create(&land).Error; err != nil {
		return nil, fmt.Errorf("listing service: create listing: %w", err)
	}

	dto := mapListing(land)
	return &dto, nil
}

// Update applies a partial edit to one of the seller's listings. Editing an
// approved listing pulls it back to draft so it passes moderation again.
func (s *ListingService) Update(ctx context.Context, ownerID, landID string, input UpdateListingInput) (*ListingDTO, error) {
	ctx = ensureContext(ctx)

	land, err := s.loadOwned(ctx, ownerID, landID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Title != nil {
		updates["title"] = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		updates["description"] = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		updates["price"] = *input.Price
	}
	if input.SizeAcres != nil {
		updates["size_acres"] = *input.SizeAcres
	}
	if input.Location != nil {
		updates["location"] = strings.TrimSpace(*input.Location)
	}
	if input.Address != nil {
		updates["address"] = strings.TrimSpace(*input.Address)
	}
	if input.PropertyType != nil {
		if !models.ValidPropertyType(*input.PropertyType) {
			return nil, apperrors.NewBadRequest("Unknown property type")
		}
		updates["property_type"] = *input.PropertyType
	}

	if len(updates) == 0 {
		dto := mapListing(*land)
		return &dto, nil
	}

	if land.Status == models.ListingStatusApproved {
		updates["status"] = models.ListingStatusDraft
		updates["is_approved"] = false
	}

	if err := s.db.WithContext(ctx).Model(land).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("listing service: update listing: %w", err)
	}

	refreshed, err := s.loadOwned(ctx, ownerID, landID)
	if err != nil {
		return nil, err
	}
	dto := mapListing(*refreshed)
	return &dto, nil
}

// AddImage attaches a photo record to one of the seller's listings. Marking
// an image primary demotes any existing primary.
func (s *ListingService) AddImage(ctx context.Context, ownerID, landID string, input AddImageInput) (*ImageDTO, error) {
	ctx = ensureContext(ctx)

	if strings.TrimSpace(input.URL) == "" {
		return nil, apperrors.NewBadRequest("Image URL is required")
	}

	land, err := s.loadOwned(ctx, ownerID, landID)
	if err != nil {
		return nil, err
	}

	image := models.LandImage{
		LandID:    land.ID,
		URL:       strings.TrimSpace(input.URL),
		AltText:   strings.TrimSpace(input.AltText),
		IsPrimary: input.IsPrimary,
		Order:     input.Order,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if image.IsPrimary {
			if err := tx.Model(&models.LandImage{}).
				Where("land_id = ? AND is_primary = ?", land.ID, true).
				Update("is_primary", false).Error; err != nil {
				return fmt.Errorf("listing service: demote primary image: %w", err)
			}
		}
		if err := tx.Create(&image).Error; err != nil {
			return fmt.Errorf("listing service: add image: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := mapImage(image)
	return &dto, nil
}

// Delete removes one of the seller's listings along with its images.
func (s *ListingService) Delete(ctx context.Context, ownerID, landID string) error {
	ctx = ensureContext(ctx)

	land, err := s.loadOwned(ctx, ownerID, landID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("land_id = ?", land.ID).Delete(&models.LandImage{}).Error; err != nil {
			return fmt.Errorf("listing service: delete images: %w", err)
		}
		if err := tx.Delete(land).Error; err != nil {
			return fmt.Errorf("listing service: delete listing: %w", err)
		}
		return nil
	})
}

// SubmitForApproval moves a draft or rejected listing into the moderation
// queue and fans out a pending notification to every admin. Admin
// notification failures do not block the submission.
func (s *ListingService) SubmitForApproval(ctx context.Context, ownerID, landID string) (*ListingDTO, error) {
	ctx = ensureContext(ctx)

	land, err := s.loadOwned(ctx, ownerID, landID)
	if err != nil {
		return nil, err
	}

	if land.Status != models.ListingStatusDraft && land.Status != models.ListingStatusRejected {
		return nil, apperrors.NewBadRequest("Only draft or rejected listings can be submitted for approval")
	}

	if err := s.db.WithContext(ctx).Model(land).
		Updates(map[string]any{
			"status":      models.ListingStatusPending,
			"admin_notes": "",
		}).Error; err != nil {
		return nil, fmt.Errorf("listing service: submit listing: %w", err)
	}
	land.Status = models.ListingStatusPending
	land.AdminNotes = ""

	if _, err := s.dispatcher.ListingPendingApproval(ctx, land); err != nil {
		logger.WithModule("listings").Warn("admin notification fan-out incomplete",
			zap.String("land_id", land.ID),
			zap.Error(err))
	}

	dto := mapListing(*land)
	return &dto, nil
}

// Approve publishes a pending listing and notifies its seller. The status
// change and the notification commit in one transaction.
func (s *ListingService) Approve(ctx context.Context, landID string) (*ListingDTO, error) {
	ctx = ensureContext(ctx)

	land, err := s.loadPending(ctx, landID)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(land).
			Updates(map[string]any{
				"status":      models.ListingStatusApproved,
				"is_approved": true,
			}).Error; err != nil {
			return fmt.Errorf("listing service: approve listing: %w", err)
		}
		land.Status = models.ListingStatusApproved
		land.IsApproved = true

		if _, err := s.dispatcher.WithTx(tx).ListingApproved(ctx, land); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := mapListing(*land)
	return &dto, nil
}

// Reject declines a pending listing, records the moderator's notes, and
// notifies the seller in the same transaction.
func (s *ListingService) Reject(ctx context.Context, landID, adminNotes string) (*ListingDTO, error) {
	ctx = ensureContext(ctx)

	land, err := s.loadPending(ctx, landID)
	if err != nil {
		return nil, err
	}

	adminNotes = strings.TrimSpace(adminNotes)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(land).
			Updates(map[string]any{
				"status":      models.ListingStatusRejected,
				"is_approved": false,
				"admin_notes": adminNotes,
			}).Error; err != nil {
			return fmt.Errorf("listing service: reject listing: %w", err)
		}
		land.Status = models.ListingStatusRejected
		land.IsApproved = false
		land.AdminNotes = adminNotes

		if _, err := s.dispatcher.WithTx(tx).ListingRejected(ctx, land, adminNotes); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := mapListing(*land)
	return &dto, nil
}

// MarkSold closes an approved listing.
func (s *ListingService) MarkSold(ctx context.Context, ownerID, landID string) (*ListingDTO, error) {
	ctx = ensureContext(ctx)

	land, err := s.loadOwned(ctx, ownerID, landID)
	if err != nil {
		return nil, err
	}
	if land.Status != models.ListingStatusApproved {
		return nil, apperrors.NewBadRequest("Only approved listings can be marked as sold")
	}

	if err := s.db.WithContext(ctx).Model(land).
		Update("status", models.ListingStatusSold).Error; err != nil {
		return nil, fmt.Errorf("listing service: mark sold: %w", err)
	}
	land.Status = models.ListingStatusSold

	dto := mapListing(*land)
	return &dto, nil
}

// GetPublic loads one approved listing with its owner and images.
func (s *ListingService) GetPublic(ctx context.Context, landID string) (*ListingDTO, error) {
	ctx = ensureContext(ctx)

	var land models.Land
	if err := s.db.WithContext(ctx).
		Preload("Owner").
		Preload("Images", func(q *gorm.DB) *gorm.DB { return q.Order("sort_order ASC") }).
		Where("id = ? AND status = ?", landID, models.ListingStatusApproved).
		First(&land).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("listing service: load listing: %w", err)
	}

	dto := mapListing(land)
	return &dto, nil
}

// GetForOwner loads one of the seller's own listings regardless of status.
func (s *ListingService) GetForOwner(ctx context.Context, ownerID, landID string) (*ListingDTO, error) {
	ctx = ensureContext(ctx)

	land, err := s.loadOwned(ctx, ownerID, landID)
	if err != nil {
		return nil, err
	}
	dto := mapListing(*land)
	return &dto, nil
}

// ListForOwner returns the seller's listings, newest first.
func (s *ListingService) ListForOwner(ctx context.Context, ownerID string) ([]ListingDTO, error) {
	ctx = ensureContext(ctx)
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, errors.New("listing service: owner id is required")
	}

	var rows []models.Land
	if err := s.db.WithContext(ctx).
		Preload("Images").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing service: list listings: %w", err)
	}

	return mapListingRows(rows), nil
}

// ListPending returns the moderation queue, oldest submission first.
func (s *ListingService) ListPending(ctx context.Context) ([]ListingDTO, error) {
	ctx = ensureContext(ctx)

	var rows []models.Land
	if err := s.db.WithContext(ctx).
		Preload("Owner").
		Where("status = ?", models.ListingStatusPending).
		Order("updated_at ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing service: list pending: %w", err)
	}

	return mapListingRows(rows), nil
}

// Browse returns approved listings matching the public catalogue filters.
func (s *ListingService) Browse(ctx context.Context, input BrowseListingsInput) ([]ListingDTO, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).
		Preload("Images").
		Where("status = ?", models.ListingStatusApproved)

	if search := strings.TrimSpace(input.Search); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", pattern, pattern)
	}
	if location := strings.TrimSpace(input.Location); location != "" {
		query = query.Where("location LIKE ?", "%"+location+"%")
	}
	if propertyType := strings.TrimSpace(input.PropertyType); propertyType != "" {
		if !models.ValidPropertyType(propertyType) {
			return nil, apperrors.NewBadRequest("Unknown property type")
		}
		query = query.Where("property_type = ?", propertyType)
	}
	if input.MinPrice != nil {
		query = query.Where("price >= ?", *input.MinPrice)
	}
	if input.MaxPrice != nil {
		query = query.Where("price <= ?", *input.MaxPrice)
	}
	if input.MinSize != nil {
		query = query.Where("size_acres >= ?", *input.MinSize)
	}
	if input.MaxSize != nil {
		query = query.Where("size_acres <= ?", *input.MaxSize)
	}

	limit := input.Limit
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	var rows []models.Land
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(max(0, input.Offset)).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing service: browse listings: %w", err)
	}

	return mapListingRows(rows), nil
}

func (s *ListingService) loadOwned(ctx context.Context, ownerID, landID string) (*models.Land, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return nil, errors.New("listing service: owner id is required")
	}

	var land models.Land
	if err := s.db.WithContext(ctx).
		Preload("Images").
		Where("id = ? AND owner_id = ?", landID, ownerID).
		First(&land).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("listing service: load listing: %w", err)
	}
	return &land, nil
}

func (s *ListingService) loadPending(ctx context.Context, landID string) (*models.Land, error) {
	var land models.Land
	if err := s.db.WithContext(ctx).
		Preload("Owner").
		First(&land, "id = ?", strings.TrimSpace(landID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("listing service: load listing: %w", err)
	}
	if land.Status != models.ListingStatusPending {
		return nil, apperrors.NewBadRequest("Listing is not awaiting moderation")
	}
	return &land, nil
}

func mapListingRows(rows []models.Land) []ListingDTO {
	items := make([]ListingDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapListing(row))
	}
	return items
}

func mapListing(row models.Land) ListingDTO {
	dto := ListingDTO{
		ID:           row.ID,
		OwnerID:      row.OwnerID,
		Title:        row.Title,
		Description:  row.Description,
		Price:        row.Price,
		SizeAcres:    row.SizeAcres,
		Location:     row.Location,
		Address:      row.Address,
		PropertyType: row.PropertyType,
		Status:       row.Status,
		IsApproved:   row.IsApproved,
		AdminNotes:   row.AdminNotes,
		CreatedAt:    row.CreatedAt,
		Raw:          &row,
	}
	if row.Owner != nil {
		dto.OwnerName = row.Owner.DisplayName()
	}
	for _, image := range row.Images {
		dto.Images = append(dto.Images, mapImage(image))
	}
	return dto
}

func mapImage(row models.LandImage) ImageDTO {
	return ImageDTO{
		ID:        row.ID,
		URL:       row.URL,
		AltText:   row.AltText,
		IsPrimary: row.IsPrimary,
		Order:     row.Order,
	}
}
