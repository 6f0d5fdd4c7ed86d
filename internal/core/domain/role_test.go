package domain

import (
	"errors"
	"testing"
)

func TestHasPermission_RankComparison(t *testing.T) {
	for _, actor := range Roles {
		for _, required := range Roles {
			want := actor.Rank() >= required.Rank()
			if actor == RoleAdmin {
				want = true
			}
			if got := HasPermission(actor, required); got != want {
				t.Errorf("HasPermission(%s, %s) = %v, want %v", actor, required, got, want)
			}
		}
	}
}

func TestHasPermission_AdminOverride(t *testing.T) {
	for _, required := range []Role{RoleAgent, RoleChef, RoleResponsable, RoleAdmin, "auditor", ""} {
		if !HasPermission(RoleAdmin, required) {
			t.Errorf("admin must be allowed for required=%q", required)
		}
	}
}

func TestHasPermission_UnknownRoleNeverSufficient(t *testing.T) {
	for _, required := range Roles {
		if HasPermission("guest", required) {
			t.Errorf("unknown role must not satisfy %s", required)
		}
		if HasPermission("", required) {
			t.Errorf("empty role must not satisfy %s", required)
		}
	}
	if HasPermission(RoleResponsable, "auditor") {
		t.Error("unknown required role must not be satisfiable by non-admin")
	}
}

func TestRole_Rank(t *testing.T) {
	cases := map[Role]int{
		RoleAgent:       1,
		RoleChef:        2,
		RoleResponsable: 3,
		RoleAdmin:       4,
		"Admin":         0,
		"":              0,
	}
	for r, want := range cases {
		if got := r.Rank(); got != want {
			t.Errorf("%q.Rank() = %d, want %d", r, got, want)
		}
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole("responsable")
	if err != nil || r != RoleResponsable {
		t.Fatalf("ParseRole(responsable) = %q, %v", r, err)
	}
	if _, err := ParseRole("superuser"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestCan_PolicyTable(t *testing.T) {
	cases := []struct {
		op   Operation
		role Role
		want bool
	}{
		{OpViewDossiers, RoleAgent, true},
		{OpViewDossiers, RoleChef, true},
		{OpCreateDossier, RoleAgent, true},
		{OpCreateDossier, RoleChef, false},
		{OpCreateDossier, RoleResponsable, false},
		{OpEditDossier, RoleAgent, false},
		{OpEditDossier, RoleChef, false},
		{OpEditDossier, RoleResponsable, true},
		{OpDeleteDossier, RoleChef, false},
		{OpDeleteDossier, RoleResponsable, true},
		{OpManageUsers, RoleResponsable, false},
		{OpManageServices, RoleResponsable, false},
		{OpViewDossiers, "guest", false},
	}
	for _, tc := range cases {
		if got := Can(tc.role, tc.op); got != tc.want {
			t.Errorf("Can(%s, %s) = %v, want %v", tc.role, tc.op, got, tc.want)
		}
	}
}

func TestCan_AdminAllowedEverywhere(t *testing.T) {
	for _, op := range []Operation{OpViewDossiers, OpCreateDossier, OpEditDossier, OpDeleteDossier, OpManageUsers, OpManageServices, "report.export"} {
		if !Can(RoleAdmin, op) {
			t.Errorf("admin must be allowed %s", op)
		}
	}
}

// A chef asking to delete is refused; an admin is accepted whatever the row says.
func TestCan_DeleteScenario(t *testing.T) {
	chef := Actor{ID: "2", Role: RoleChef}
	admin := Actor{ID: "4", Role: RoleAdmin}

	if chef.Can(OpDeleteDossier) {
		t.Error("chef must not delete dossiers")
	}
	if !admin.Can(OpDeleteDossier) {
		t.Error("admin must delete dossiers")
	}
}

func TestAllowedRoles_ReturnsCopy(t *testing.T) {
	row := AllowedRoles(OpCreateDossier)
	row[0] = RoleChef
	if Can(RoleChef, OpCreateDossier) {
		t.Fatal("mutating the returned row must not change the policy")
	}
}

func TestPermittedOperations(t *testing.T) {
	if got := PermittedOperations(RoleAdmin); len(got) != len(Operations) {
		t.Fatalf("admin should hold every operation, got %v", got)
	}

	got := PermittedOperations(RoleChef)
	if len(got) != 1 || got[0] != OpViewDossiers {
		t.Fatalf("chef should only view dossiers, got %v", got)
	}

	if got := PermittedOperations(Role("guest")); len(got) != 0 {
		t.Fatalf("unknown role should hold nothing, got %v", got)
	}
}
