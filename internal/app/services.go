package app

import (
	"time"

	"go.uber.org/fx"

	"github.com/Alijeyrad/stgeorge_backend/config"
	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/appointment"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/catalog"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/dashboard"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/doctor"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/override"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/patient"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/scheduling"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/session"
	"github.com/Alijeyrad/stgeorge_backend/internal/service/user"
	"github.com/Alijeyrad/stgeorge_backend/internal/store"
	"github.com/Alijeyrad/stgeorge_backend/pkg/authorize"
	"github.com/Alijeyrad/stgeorge_backend/pkg/events"
	"github.com/Alijeyrad/stgeorge_backend/pkg/observability"
	"github.com/Alijeyrad/stgeorge_backend/pkg/util/codes"
)

// ServiceModule provides all application service dependencies.
var ServiceModule = fx.Module("services",
	fx.Provide(
		ProvideSessionService,
		ProvideUserService,
		ProvidePatientService,
		ProvideDoctorService,
		ProvideSchedulingService,
		ProvideOverrideService,
		ProvideAppointmentService,
		ProvideCatalogService,
		ProvideDashboardService,
	),
)

func ProvideSessionService(s *store.Store, repos *repository.Repositories, authz authorize.IAuthorization, cfg *config.Config) session.Service {
	return session.New(session.Deps{
		Store: s,
		Repos: repos,
		Authz: authz,
		TTL:   time.Duration(cfg.Session.TTLMinutes) * time.Minute,
	})
}

func ProvideUserService(repos *repository.Repositories, sessions session.Service) user.Service {
	return user.New(repos, sessions)
}

func ProvidePatientService(repos *repository.Repositories, sessions session.Service) patient.Service {
	return patient.New(repos, sessions)
}

func ProvideDoctorService(repos *repository.Repositories) doctor.Service {
	return doctor.New(repos)
}

func ProvideSchedulingService(repos *repository.Repositories, metrics *observability.DomainMetrics) scheduling.Service {
	return scheduling.New(repos, metrics)
}

func ProvideOverrideService(
	repos *repository.Repositories,
	authz authorize.IAuthorization,
	pub events.Publisher,
	metrics *observability.DomainMetrics,
) override.Service {
	return override.New(override.Deps{Repos: repos, Authz: authz, Events: pub, Metrics: metrics})
}

func ProvideAppointmentService(
	repos *repository.Repositories,
	slots scheduling.Service,
	authz authorize.IAuthorization,
	pub events.Publisher,
	metrics *observability.DomainMetrics,
	cfg *config.Config,
) appointment.Service {
	return appointment.New(appointment.Deps{
		Repos:   repos,
		Slots:   slots,
		Authz:   authz,
		Events:  pub,
		Metrics: metrics,
		Numbers: codes.FromCentralConfig(cfg),
	})
}

func ProvideCatalogService(repos *repository.Repositories) catalog.Service {
	return catalog.New(repos)
}

func ProvideDashboardService(repos *repository.Repositories, appointments appointment.Service) dashboard.Service {
	return dashboard.New(repos, appointments, nil)
}
