package authorize

import "github.com/Alijeyrad/stgeorge_backend/config"

type Config struct {
	// EnableAudit wraps the enforcer with decision logging.
	EnableAudit bool

	// AdminBypass lets RoleAdmin members skip policy evaluation.
	AdminBypass bool
}

func DefaultConfig() Config {
	return Config{
		EnableAudit: true,
		AdminBypass: false,
	}
}

func FromCentralConfig(c config.AuthorizationConfig) Config {
	return Config{
		EnableAudit: c.EnableAudit,
		AdminBypass: c.AdminBypass,
	}
}
