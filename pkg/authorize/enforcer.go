package authorize

import (
	"fmt"
	"sync/atomic"

	casbin "github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// ModelText is the RBAC-with-domains model. Users are grouped into roles per
// domain (g); roles may inherit from roles (g2); deny rules win over allow.
const ModelText = `[request_definition]
r = sub, dom, obj, act

[policy_definition]
p = sub, dom, obj, act, eft

[role_definition]
g = _, _, _
g2 = _, _

[policy_effect]
e = some(where (p.eft == allow)) && !some(where (p.eft == deny))

[matchers]
m = (g(r.sub, p.sub, r.dom) || g2(r.sub, p.sub)) && (p.dom == "*" || p.dom == r.dom) && (p.obj == "*" || keyMatch2(r.obj, p.obj)) && (p.act == "*" || keyMatch(r.act, p.act))
`

// policyLoadHealthy is false after seeding the policy table failed.
var policyLoadHealthy atomic.Bool

func init() {
	policyLoadHealthy.Store(true)
}

// IsPolicyHealthy feeds the readiness endpoint.
func IsPolicyHealthy() bool {
	return policyLoadHealthy.Load()
}

func markPolicyHealth(ok bool) {
	policyLoadHealthy.Store(ok)
}

// NewEnforcer builds an enforcer with no persistence adapter. Policies are
// static and seeded at startup by SeedDefaultPolicies; user-role links are
// added as users sign in. Without an adapter casbin never loads policy, so the
// role managers for g and g2 are built here or every g() lookup panics.
func NewEnforcer() (*casbin.DistributedEnforcer, error) {
	m, err := model.NewModelFromString(ModelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewDistributedEnforcer(m)
	if err != nil {
		return nil, err
	}
	if err := e.BuildRoleLinks(); err != nil {
		return nil, fmt.Errorf("build role links: %w", err)
	}
	e.EnableEnforce(true)

	return e, nil
}
