package authorize

import (
	"strings"
)

type Action string
type Resource string
type Role string
type Domain string

// ----------------------------
// Actions
// ----------------------------

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"

	// Workflow actions
	ActionReview Action = "review" // approve / decline

	WildcardAction Action = "*"
)

var KnownActions = map[Action]struct{}{
	ActionCreate: {}, ActionRead: {}, ActionUpdate: {}, ActionDelete: {}, ActionList: {},
	ActionReview: {},
}

// ----------------------------
// Resources
// ----------------------------

const (
	WildcardResource Resource = "*"

	// Identity
	ResourceUser    Resource = "user"
	ResourceSession Resource = "session"

	// People
	ResourcePatient Resource = "patient"
	ResourceDoctor  Resource = "doctor"

	// Scheduling
	ResourceSchedule          Resource = "schedule"
	ResourceOverride          Resource = "override"
	ResourceAppointment       Resource = "appointment"
	ResourceAppointmentStatus Resource = "appointment_status"

	// Hospital catalog
	ResourceBranch    Resource = "branch"
	ResourceMedicine  Resource = "medicine"
	ResourceInventory Resource = "inventory"
	ResourceBill      Resource = "bill"
	ResourceRoom      Resource = "room"
	ResourceLabTest   Resource = "lab_test"

	ResourceDashboard Resource = "dashboard"
	ResourceSystem    Resource = "system"
)

var KnownResources = map[Resource]struct{}{
	ResourceUser: {}, ResourceSession: {},
	ResourcePatient: {}, ResourceDoctor: {},
	ResourceSchedule: {}, ResourceOverride: {}, ResourceAppointment: {}, ResourceAppointmentStatus: {},
	ResourceBranch: {}, ResourceMedicine: {}, ResourceInventory: {}, ResourceBill: {}, ResourceRoom: {}, ResourceLabTest: {},
	ResourceDashboard: {}, ResourceSystem: {},
}

// ----------------------------
// Roles
// ----------------------------
//
// These are the policy subjects users are grouped into. Every hospital role
// lives in the sys domain.

const (
	WildcardRole Role = "*"

	RolePatient Role = "role:patient"
	RoleDoctor  Role = "role:doctor"
	RoleStaff   Role = "role:staff"
	RoleAdmin   Role = "role:admin"
)

var KnownRoles = map[Role]struct{}{
	RolePatient: {},
	RoleDoctor:  {},
	RoleStaff:   {},
	RoleAdmin:   {},
}

// RoleFor maps a user's account role ("PATIENT", "admin", ...) to its policy role.
func RoleFor(accountRole string) (Role, bool) {
	r := Role("role:" + strings.ToLower(strings.TrimSpace(accountRole)))
	_, ok := KnownRoles[r]
	return r, ok
}

// ----------------------------
// Domains
// ----------------------------

const (
	DomainSys      Domain = "sys"
	WildcardDomain Domain = "*"
)

// IsValidDomain checks whether d is a recognised domain string.
func IsValidDomain(d Domain) bool {
	return d == DomainSys || d == WildcardDomain
}

// ----------------------------
// Casbin tuple helpers
// ----------------------------

type PolicyEffect string

const (
	EffectAllow PolicyEffect = "allow"
	EffectDeny  PolicyEffect = "deny"
)

// GroupSubject is the g.sub in Casbin: a concrete user id.
type GroupSubject string

// Permission rows: p, role, domain, resource, action, eft
type PermissionPolicy struct {
	Subject Role
	Domain  Domain
	Object  Resource
	Action  Action
	Effect  PolicyEffect
}
