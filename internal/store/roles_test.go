package store

import (
	"errors"
	"fmt"
	"testing"
)

func TestRoleCapabilities(t *testing.T) {
	t.Parallel()

	cases := []struct {
		role       Role
		capability Capability
		want       bool
	}{
		{RoleGuest, CapCreateRecipe, false},
		{RoleGuest, CapDeleteRecipe, false},
		{RoleRegistered, CapCreateRecipe, true},
		{RoleRegistered, CapDeleteRecipe, true},
		{RoleRegistered, CapEditRecipe, false},
		{RoleRegistered, CapPurgeRecipe, false},
		{RoleRegistered, CapViewInactive, false},
		{RoleAdmin, CapEditRecipe, true},
		{RoleAdmin, CapPurgeRecipe, true},
		{RoleAdmin, CapViewInactive, true},
		{Role(42), CapCreateRecipe, false},
	}

	for _, tt := range cases {
		tt := tt
		t.Run(fmt.Sprintf("%s/%s", tt.role, tt.capability), func(t *testing.T) {
			t.Parallel()
			if got := tt.role.Can(tt.capability); got != tt.want {
				t.Fatalf("%s.Can(%q) = %t, want %t", tt.role, tt.capability, got, tt.want)
			}
		})
	}
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, role := range []Role{RoleGuest, RoleRegistered, RoleAdmin} {
		parsed, err := ParseRole(role.String())
		if err != nil {
			t.Fatalf("ParseRole(%q) returned error: %v", role, err)
		}
		if parsed != role {
			t.Fatalf("ParseRole(%q) = %s", role, parsed)
		}
	}

	if got, err := ParseRole(" ADMIN "); err != nil || got != RoleAdmin {
		t.Fatalf("ParseRole should ignore case and space, got %s, %v", got, err)
	}

	if _, err := ParseRole("admn"); err == nil {
		t.Fatal("expected error for misspelled role")
	}
}

func TestTypedErrorsMatchSentinels(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	cases := []struct {
		err  error
		want error
	}{
		{newValidationError("title is required"), ErrValidation},
		{&PermissionError{Role: RoleGuest, Capability: CapEditRecipe}, ErrPermission},
		{&NotFoundError{Entity: "recipe", ID: 3}, ErrNotFound},
		{persistence("create recipe", cause), ErrPersistence},
		{fmt.Errorf("handler: %w", &NotFoundError{Entity: "meal plan", ID: 1}), ErrNotFound},
	}

	for _, tt := range cases {
		if !errors.Is(tt.err, tt.want) {
			t.Fatalf("errors.Is(%v, %v) = false", tt.err, tt.want)
		}
	}

	if !errors.Is(persistence("create recipe", cause), cause) {
		t.Fatal("persistence error should unwrap to its cause")
	}
}

func TestPersistenceKeepsTypedErrors(t *testing.T) {
	t.Parallel()

	notFound := &NotFoundError{Entity: "recipe", ID: 9}
	if got := persistence("update recipe", notFound); got != notFound {
		t.Fatalf("expected typed error to pass through, got %v", got)
	}
	if persistence("noop", nil) != nil {
		t.Fatal("expected nil for nil error")
	}

	wrapped := persistence("outer", persistence("inner", errors.New("boom")))
	var pe *PersistenceError
	if !errors.As(wrapped, &pe) || pe.Op != "inner" {
		t.Fatalf("expected inner persistence error to be kept, got %v", wrapped)
	}
}
