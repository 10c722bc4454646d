package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/landhub/landhub/internal/models"
	apperrors "github.com/landhub/landhub/pkg/errors"
)

// SavedSearchDTO represents a stored listing filter.
type SavedSearchDTO struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	SearchQuery  string    `json:"search_query,omitempty"`
	Location     string    `json:"location,omitempty"`
	PropertyType string    `json:"property_type,omitempty"`
	MinPrice     *float64  `json:"min_price,omitempty"`
	MaxPrice     *float64  `json:"max_price,omitempty"`
	MinSize      *float64  `json:"min_size,omitempty"`
	MaxSize      *float64  `json:"max_size,omitempty"`
	EmailAlerts  bool      `json:"email_alerts"`
	IsActive     bool      `json:"is_active"`
	QueryString  string    `json:"query_string"`
	CreatedAt    time.Time `json:"created_at"`
}

// SaveSearchInput defines a saved search to create or replace.
type SaveSearchInput struct {
	UserID       string
	Name         string   `json:"name" validate:"required,min=2,max=100"`
	SearchQuery  string   `json:"search_query" validate:"max=200"`
	Location     string   `json:"location" validate:"max=200"`
	PropertyType string   `json:"property_type"`
	MinPrice     *float64 `json:"min_price" validate:"omitempty,gte=0"`
	MaxPrice     *float64 `json:"max_price" validate:"omitempty,gte=0"`
	MinSize      *float64 `json:"min_size" validate:"omitempty,gte=0"`
	MaxSize      *float64 `json:"max_size" validate:"omitempty,gte=0"`
	EmailAlerts  bool     `json:"email_alerts"`
}

// SavedSearchService manages buyer saved searches.
type SavedSearchService struct {
	db *gorm.DB
}

// NewSavedSearchService constructs a SavedSearchService.
func NewSavedSearchService(db *gorm.DB) (*SavedSearchService, error) {
	if db == nil {
		return nil, errors.New("saved search service: db is required")
	}
	return &SavedSearchService{db: db}, nil
}

// Create stores a new saved search for the user.
func (s *SavedSearchService) Create(ctx context.Context, input SaveSearchInput) (*SavedSearchDTO, error) {
	ctx = ensureContext(ctx)

	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return nil, errors.New("saved search service: user id is required")
	}
	if input.PropertyType != "" && !models.ValidPropertyType(input.PropertyType) {
		return nil, apperrors.NewBadRequest("Unknown property type")
	}
	if input.MinPrice != nil && input.MaxPrice != nil && *input.MinPrice > *input.MaxPrice {
		return nil, apperrors.NewBadRequest("Minimum price exceeds maximum price")
	}

	search := models.SavedSearch{
		UserID:             userID,
		Name:               strings.TrimSpace(input.Name),
		SearchQuery:        strings.TrimSpace(input.SearchQuery),
		LocationFilter:     strings.TrimSpace(input.Location),
		PropertyTypeFilter: input.PropertyType,
		MinPrice:           input.MinPrice,
		MaxPrice:           input.MaxPrice,
		MinSize:            input.MinSize,
		MaxSize:            input.MaxSize,
		EmailAlerts:        input.EmailAlerts,
		IsActive:           true,
	}

	if err := s.db.WithContext(ctx).Create(&search).Error; err != nil {
		return nil, fmt.Errorf("saved search service: create search: %w", err)
	}

	dto := mapSavedSearch(search)
	return &dto, nil
}

// ListForUser returns the user's saved searches, newest first.
func (s *SavedSearchService) ListForUser(ctx context.Context, userID string) ([]SavedSearchDTO, error) {
	ctx = ensureContext(ctx)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("saved search service: user id is required")
	}

	var rows []models.SavedSearch
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("saved search service: list searches: %w", err)
	}

	items := make([]SavedSearchDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapSavedSearch(row))
	}
	return items, nil
}

// ToggleActive flips the active flag on one of the user's saved searches.
func (s *SavedSearchService) ToggleActive(ctx context.Context, userID, searchID string) (*SavedSearchDTO, error) {
	ctx = ensureContext(ctx)

	search, err := s.loadOwned(ctx, userID, searchID)
	if err != nil {
		return nil, err
	}

	next := !search.IsActive
	if err := s.db.WithContext(ctx).Model(search).
		Update("is_active", next).Error; err != nil {
		return nil, fmt.Errorf("saved search service: toggle search: %w", err)
	}
	search.IsActive = next

	dto := mapSavedSearch(*search)
	return &dto, nil
}

// Delete removes one of the user's saved searches.
func (s *SavedSearchService) Delete(ctx context.Context, userID, searchID string) error {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", searchID, strings.TrimSpace(userID)).
		Delete(&models.SavedSearch{})
	if result.Error != nil {
		return fmt.Errorf("saved search service: delete search: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Matches runs the saved filter against the approved catalogue through the
// provided listing service.
func (s *SavedSearchService) Matches(ctx context.Context, listings *ListingService, userID, searchID string) ([]ListingDTO, error) {
	ctx = ensureContext(ctx)

	search, err := s.loadOwned(ctx, userID, searchID)
	if err != nil {
		return nil, err
	}

	return listings.Browse(ctx, BrowseListingsInput{
		Search:       search.SearchQuery,
		Location:     search.LocationFilter,
		PropertyType: search.PropertyTypeFilter,
		MinPrice:     search.MinPrice,
		MaxPrice:     search.MaxPrice,
		MinSize:      search.MinSize,
		MaxSize:      search.MaxSize,
	})
}

func (s *SavedSearchService) loadOwned(ctx context.Context, userID, searchID string) (*models.SavedSearch, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("saved search service: user id is required")
	}

	var search models.SavedSearch
	if err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", searchID, userID).
		First(&search).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("saved search service: load search: %w", err)
	}
	return &search, nil
}

func mapSavedSearch(row models.SavedSearch) SavedSearchDTO {
	return SavedSearchDTO{
		ID:           row.ID,
		Name:         row.Name,
		SearchQuery:  row.SearchQuery,
		Location:     row.LocationFilter,
		PropertyType: row.PropertyTypeFilter,
		MinPrice:     row.MinPrice,
		MaxPrice:     row.MaxPrice,
		MinSize:      row.MinSize,
		MaxSize:      row.MaxSize,
		EmailAlerts:  row.EmailAlerts,
		IsActive:     row.IsActive,
		QueryString:  row.QueryString(),
		CreatedAt:    row.CreatedAt,
	}
}
