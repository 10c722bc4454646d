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
)

// FavoriteDTO represents a bookmarked listing.
type FavoriteDTO struct {
	ID        string      `json:"id"`
	LandID    string      `json:"land_id"`
	Listing   *ListingDTO `json:"listing,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// ToggleResult reports the outcome of a favorite toggle.
type ToggleResult struct {
	Favorited bool         `json:"favorited"`
	Favorite  *FavoriteDTO `json:"favorite,omitempty"`
}

// FavoriteService manages buyer bookmarks. Favoriting notifies the listing
// owner; unfavoriting is silent.
type FavoriteService struct {
	db         *gorm.DB
	dispatcher *notifications.Dispatcher
}

// NewFavoriteService constructs a FavoriteService.
func NewFavoriteService(db *gorm.DB, dispatcher *notifications.Dispatcher) (*FavoriteService, error) {
	if db == nil {
		return nil, errors.New("favorite service: db is required")
	}
	if dispatcher == nil {
		return nil, errors.New("favorite service: dispatcher is required")
	}
	return &FavoriteService{db: db, dispatcher: dispatcher}, nil
}

// Toggle adds the listing to the user's favorites, or removes it when
// already present. Only approved listings can be favorited. The favorite row
// and the owner notification are written in one transaction.
func (s *FavoriteService) Toggle(ctx context.Context, userID, landID string) (*ToggleResult, error) {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("favorite service: user id is required")
	}

	var existing models.Favorite
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND land_id = ?", userID, strings.TrimSpace(landID)).
		First(&existing).Error
	switch {
	case err == nil:
		if err := s.db.WithContext(ctx).Delete(&existing).Error; err != nil {
			return nil, fmt.Errorf("favorite service: remove favorite: %w", err)
		}
		return &ToggleResult{Favorited: false}, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("favorite service: load favorite: %w", err)
	}

	var land models.Land
	if err := s.db.WithContext(ctx).
		Preload("Owner").
		Where("id = ? AND status = ?", strings.TrimSpace(landID), models.ListingStatusApproved).
		First(&land).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("favorite service: load listing: %w", err)
	}

	favorite := models.Favorite{UserID: userID, LandID: land.ID}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&favorite).Error; err != nil {
			return fmt.Errorf("favorite service: create favorite: %w", err)
		}
		favorite.Land = &land
		if land.OwnerID != userID {
			if _, err := s.dispatcher.WithTx(tx).PropertyFavorited(ctx, &favorite); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return &ToggleResult{Favorited: true}, nil
		}
		return nil, err
	}

	dto := mapFavorite(favorite)
	return &ToggleResult{Favorited: true, Favorite: &dto}, nil
}

// ListForUser returns the user's favorites, newest first, with listings
// attached.
func (s *FavoriteService) ListForUser(ctx context.Context, userID string) ([]FavoriteDTO, error) {
	ctx = ensureContext(ctx)
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("favorite service: user id is required")
	}

	var rows []models.Favorite
	if err := s.db.WithContext(ctx).
		Preload("Land").
		Preload("Land.Images").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("favorite service: list favorites: %w", err)
	}

	items := make([]FavoriteDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapFavorite(row))
	}
	return items, nil
}

// IsFavorited reports whether the user has bookmarked the listing.
func (s *FavoriteService) IsFavorited(ctx context.Context, userID, landID string) (bool, error) {
	ctx = ensureContext(ctx)

	var count int64
	if err := s.db.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ? AND land_id = ?", strings.TrimSpace(userID), strings.TrimSpace(landID)).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("favorite service: count favorites: %w", err)
	}
	return count > 0, nil
}

func mapFavorite(row models.Favorite) FavoriteDTO {
	dto := FavoriteDTO{
		ID:        row.ID,
		LandID:    row.LandID,
		CreatedAt: row.CreatedAt,
	}
	if row.Land != nil {
		listing := mapListing(*row.Land)
		dto.Listing = &listing
	}
	return dto
}
