package permissions

import (
	"sort"

	"github.com/landhub/landhub/internal/models"
)

// Capability identifiers. Capabilities are fixed per role rather than stored
// per user: the marketplace has exactly three roles and their grants never
// change at runtime.
const (
	CapListingCreate         = "listing.create"
	CapListingModerate       = "listing.moderate"
	CapInquiryCreate         = "inquiry.create"
	CapInquiryRespond        = "inquiry.respond"
	CapFavoriteManage        = "favorite.manage"
	CapSearchSave            = "search.save"
	CapNotificationView      = "notification.view"
	CapNotificationBroadcast = "notification.broadcast"
	CapUserManage            = "user.manage"
)

var roleCapabilities = map[string]map[string]struct{}{
	models.RoleAdmin: {
		CapListingModerate:       {},
		CapUserManage:            {},
		CapNotificationBroadcast: {},
		CapNotificationView:      {},
	},
	models.RoleSeller: {
		CapListingCreate:    {},
		CapInquiryRespond:   {},
		CapNotificationView: {},
	},
	models.RoleBuyer: {
		CapInquiryCreate:    {},
		CapFavoriteManage:   {},
		CapSearchSave:       {},
		CapNotificationView: {},
	},
}

// KnownCapability reports whether the identifier is part of the capability set.
func KnownCapability(capability string) bool {
	for _, grants := range roleCapabilities {
		if _, ok := grants[capability]; ok {
			return true
		}
	}
	return false
}

// RoleHas reports whether the role is granted the capability.
func RoleHas(role, capability string) bool {
	grants, ok := roleCapabilities[role]
	if !ok {
		return false
	}
	_, ok = grants[capability]
	return ok
}

// RoleCapabilities returns the sorted capability identifiers granted to a role.
func RoleCapabilities(role string) []string {
	grants, ok := roleCapabilities[role]
	if !ok {
		return nil
	}

	ids := make([]string, 0, len(grants))
	for id := range grants {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
