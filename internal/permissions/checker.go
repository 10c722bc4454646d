package permissions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	apperrors "github.com/landhub/landhub/pkg/errors"

	"github.com/landhub/landhub/internal/models"
)

// ErrUnknownCapability is returned when a check names a capability that is
// not part of the registry.
var ErrUnknownCapability = errors.New("capability checker: unknown capability")

// Decision is the outcome of a capability check. Role is carried so callers
// such as handlers and URL resolution can branch on it without a second load.
type Decision struct {
	Allowed bool
	Role    string
}

// Checker evaluates user capabilities against the role registry.
type Checker struct {
	db *gorm.DB
}

// NewChecker constructs a capability checker backed by the provided database.
func NewChecker(db *gorm.DB) (*Checker, error) {
	if db == nil {
		return nil, errors.New("capability checker: db is required")
	}
	return &Checker{db: db}, nil
}

// Check determines whether the user may exercise the capability. Deactivated
// users are denied everything regardless of role.
func (c *Checker) Check(ctx context.Context, userID, capability string) (Decision, error) {
	ctx = ensureContext(ctx)

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return Decision{}, errors.New("capability checker: user id is required")
	}
	capability = strings.TrimSpace(capability)
	if !KnownCapability(capability) {
		return Decision{}, fmt.Errorf("%w %q", ErrUnknownCapability, capability)
	}

	var user models.User
	if err := c.db.WithContext(ctx).
		Select("id", "role", "is_active").
		First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Decision{}, apperrors.ErrNotFound
		}
		return Decision{}, fmt.Errorf("capability checker: load user: %w", err)
	}

	if !user.IsActive {
		return Decision{Allowed: false, Role: user.Role}, nil
	}

	return Decision{Allowed: RoleHas(user.Role, capability), Role: user.Role}, nil
}

func ensureContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
