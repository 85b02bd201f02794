package authz

import (
	"errors"
	"testing"

	"github.com/bookquest/bookquest-api/internal/core/domain"
)

func TestRequireRole(t *testing.T) {
	vendor := domain.Identity{UserID: "u1", Role: domain.RoleVendor}

	if err := RequireRole(vendor, domain.RoleVendor); err != nil {
		t.Fatalf("expected vendor to pass, got %v", err)
	}
	if err := RequireRole(vendor, domain.RoleReader, domain.RoleVendor); err != nil {
		t.Fatalf("expected vendor to pass with multiple roles, got %v", err)
	}

	reader := domain.Identity{UserID: "u2", Role: domain.RoleReader}
	if err := RequireRole(reader, domain.RoleVendor); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := RequireRole(domain.Identity{}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden with no roles, got %v", err)
	}
}

func TestRequireOwner(t *testing.T) {
	owner := domain.Identity{UserID: "owner", Role: domain.RoleReader}

	if err := RequireOwner(owner, "owner"); err != nil {
		t.Fatalf("expected owner to pass, got %v", err)
	}
	if err := RequireOwner(owner, "someone-else"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	// An empty identity never owns anything, not even an unowned resource.
	if err := RequireOwner(domain.Identity{}, ""); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for empty identity, got %v", err)
	}
}
