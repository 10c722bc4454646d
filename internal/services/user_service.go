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
	"github.com/landhub/landhub/pkg/crypto"
	apperrors "github.com/landhub/landhub/pkg/errors"
)

// UserDTO represents the API-friendly user payload.
type UserDTO struct {
	ID          string    `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	DisplayName string    `json:"display_name"`
	Phone       string    `json:"phone,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Avatar      string    `json:"avatar,omitempty"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
}

// RegisterInput defines a new account. Role defaults to buyer; admin accounts
// are never self-registered.
type RegisterInput struct {
	Username  string `json:"username" validate:"required,min=3,max=30,alphanum"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"max=50"`
	LastName  string `json:"last_name" validate:"max=50"`
	Role      string `json:"role" validate:"omitempty,oneof=buyer seller"`
}

// UpdateProfileInput defines a partial profile edit.
type UpdateProfileInput struct {
	FirstName *string `json:"first_name" validate:"omitempty,max=50"`
	LastName  *string `json:"last_name" validate:"omitempty,max=50"`
	Phone     *string `json:"phone" validate:"omitempty,max=15"`
	Bio       *string `json:"bio"`
	Avatar    *string `json:"avatar"`
}

// UserService manages accounts: registration, authentication, profile edits,
// and admin-side account management.
type UserService struct {
	db         *gorm.DB
	dispatcher *notifications.Dispatcher
}

// NewUserService constructs a UserService.
func NewUserService(db *gorm.DB, dispatcher *notifications.Dispatcher) (*UserService, error) {
	if db == nil {
		return nil, errors.New("user service: db is required")
	}
	if dispatcher == nil {
		return nil, errors.New("user service: dispatcher is required")
	}
	return &UserService{db: db, dispatcher: dispatcher}, nil
}

// Register creates a new account and delivers the role-specific welcome
// notification in the same transaction. The welcome is guarded by an
// existence check so re-running a failed registration flow never duplicates
// it.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*UserDTO, error) {
	ctx = ensureContext(ctx)

	username := strings.ToLower(strings.TrimSpace(input.Username))
	email := strings.ToLower(strings.TrimSpace(input.Email))
	role := defaultIfEmpty(input.Role, models.RoleBuyer)
	if role == models.RoleAdmin || !models.ValidRole(role) {
		return nil, apperrors.NewBadRequest("Role must be buyer or seller")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("user service: check username: %w", err)
	}
	if count > 0 {
		return nil, apperrors.ErrUsernameTaken
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("user service: check email: %w", err)
	}
	if count > 0 {
		return nil, apperrors.ErrEmailTaken
	}

	hashed, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("user service: hash password: %w", err)
	}

	user := models.User{
		Username:  username,
		Email:     email,
		Password:  hashed,
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Role:      role,
		IsActive:  true,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return fmt.Errorf("user service: create user: %w", err)
		}
		return s.sendWelcome(ctx, s.dispatcher.WithTx(tx), &user)
	})
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, err
	}

	dto := mapUser(user)
	return &dto, nil
}

// Authenticate verifies the credentials and returns the account. The
// username field also accepts the registered email. Deactivated accounts
// cannot sign in.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*UserDTO, error) {
	ctx = ensureContext(ctx)

	identifier := strings.ToLower(strings.TrimSpace(username))
	if identifier == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("user service: load user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, password) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, apperrors.ErrForbidden
	}

	dto := mapUser(user)
	return &dto, nil
}

// Get loads an account by id.
func (s *UserService) Get(ctx context.Context, userID string) (*UserDTO, error) {
	ctx = ensureContext(ctx)

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := mapUser(*user)
	return &dto, nil
}

// UpdateProfile applies a partial profile edit. Nil fields are untouched.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*UserDTO, error) {
	ctx = ensureContext(ctx)

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*input.LastName)
	}
	if input.Phone != nil {
		updates["phone"] = strings.TrimSpace(*input.Phone)
	}
	if input.Bio != nil {
		updates["bio"] = strings.TrimSpace(*input.Bio)
	}
	if input.Avatar != nil {
		updates["avatar"] = strings.TrimSpace(*input.Avatar)
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("user service: update profile: %w", err)
		}
		user, err = s.load(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	dto := mapUser(*user)
	return &dto, nil
}

// List returns accounts for the admin view, optionally filtered by role.
func (s *UserService) List(ctx context.Context, role string) ([]UserDTO, error) {
	ctx = ensureContext(ctx)

	query := s.db.WithContext(ctx).Model(&models.User{})
	if role = strings.TrimSpace(role); role != "" {
		if !models.ValidRole(role) {
			return nil, apperrors.NewBadRequest("Unknown role")
		}
		query = query.Where("role = ?", role)
	}

	var rows []models.User
	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("user service: list users: %w", err)
	}

	items := make([]UserDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, mapUser(row))
	}
	return items, nil
}

// SetActive activates or deactivates an account.
func (s *UserService) SetActive(ctx context.Context, userID string, active bool) (*UserDTO, error) {
	ctx = ensureContext(ctx)

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	if user.IsActive != active {
		if err := s.db.WithContext(ctx).Model(user).
			Update("is_active", active).Error; err != nil {
			return nil, fmt.Errorf("user service: set active: %w", err)
		}
		user.IsActive = active
	}

	dto := mapUser(*user)
	return &dto, nil
}

func (s *UserService) sendWelcome(ctx context.Context, dispatcher *notifications.Dispatcher, user *models.User) error {
	has, err := dispatcher.HasWelcome(ctx, user.ID)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = dispatcher.Welcome(ctx, user)
	return err
}

func (s *UserService) load(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		First(&user, "id = ?", strings.TrimSpace(userID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("user service: load user: %w", err)
	}
	return &user, nil
}

func mapUser(row models.User) UserDTO {
	return UserDTO{
		ID:          row.ID,
		Username:    row.Username,
		Email:       row.Email,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		DisplayName: row.DisplayName(),
		Phone:       row.Phone,
		Bio:         row.Bio,
		Avatar:      row.Avatar,
		Role:        row.Role,
		IsActive:    row.IsActive,
		CreatedAt:   row.CreatedAt,
	}
}
