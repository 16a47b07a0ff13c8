package authorize

import "testing"

func TestIsValidDomain(t *testing.T) {
	tests := []struct {
		name     string
		domain   Domain
		expected bool
	}{
		{"sys domain", DomainSys, true},
		{"wildcard domain", WildcardDomain, true},
		{"empty domain", Domain(""), false},
		{"clinic domain", Domain("clinic:550e8400-e29b-41d4-a716-446655440000"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsValidDomain(tt.domain); got != tt.expected {
				t.Errorf("IsValidDomain(%q) = %v, want %v", tt.domain, got, tt.expected)
			}
		})
	}
}

func TestRoleFor(t *testing.T) {
	tests := []struct {
		in     string
		want   Role
		wantOK bool
	}{
		{"PATIENT", RolePatient, true},
		{"doctor", RoleDoctor, true},
		{" Staff ", RoleStaff, true},
		{"ADMIN", RoleAdmin, true},
		{"NURSE", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := RoleFor(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("RoleFor(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("RoleFor(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultPoliciesUseKnownValues(t *testing.T) {
	for _, p := range DefaultPolicies() {
		if _, ok := KnownRoles[p.Subject]; !ok {
			t.Errorf("unknown role in policy %+v", p)
		}
		if _, ok := KnownResources[p.Object]; !ok && p.Object != WildcardResource {
			t.Errorf("unknown resource in policy %+v", p)
		}
		if _, ok := KnownActions[p.Action]; !ok && p.Action != WildcardAction {
			t.Errorf("unknown action in policy %+v", p)
		}
	}
}
