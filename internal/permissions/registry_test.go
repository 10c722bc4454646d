package permissions

import (
	"testing"

	"github.com/landhub/landhub/internal/models"
)

func TestKnownCapability(t *testing.T) {
	for _, capability := range []string{
		CapListingCreate, CapListingModerate,
		CapInquiryCreate, CapInquiryRespond,
		CapFavoriteManage, CapSearchSave,
		CapNotificationView, CapNotificationBroadcast,
		CapUserManage,
	} {
		if !KnownCapability(capability) {
			t.Fatalf("expected %q to be known", capability)
		}
	}

	if KnownCapability("listing.delete") {
		t.Fatal("unexpected capability recognized")
	}
}

func TestRoleHas(t *testing.T) {
	if !RoleHas(models.RoleAdmin, CapNotificationBroadcast) {
		t.Fatal("admin should broadcast")
	}
	if RoleHas(models.RoleBuyer, CapNotificationBroadcast) {
		t.Fatal("buyer must not broadcast")
	}
	if RoleHas("ghost", CapNotificationView) {
		t.Fatal("unknown role must have no grants")
	}
}

func TestRoleCapabilitiesSorted(t *testing.T) {
	caps := RoleCapabilities(models.RoleBuyer)
	if len(caps) != 4 {
		t.Fatalf("expected 4 buyer capabilities, got %d", len(caps))
	}
	for i := 1; i < len(caps); i++ {
		if caps[i-1] >= caps[i] {
			t.Fatalf("capabilities not sorted: %v", caps)
		}
	}

	if RoleCapabilities("ghost") != nil {
		t.Fatal("unknown role should return nil")
	}
}
