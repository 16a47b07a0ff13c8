package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	"github.com/Alijeyrad/stgeorge_backend/config"
	"github.com/Alijeyrad/stgeorge_backend/internal/api/http/handler"
	"github.com/Alijeyrad/stgeorge_backend/internal/api/http/middleware"
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
)

// Module provides the Router to the fx graph.
var Module = fx.Module("router", fx.Provide(NewRouter))

type Params struct {
	fx.In

	Cfg            *config.Config
	Store          *store.Store
	Auth           authorize.IAuthorization
	SessionSvc     session.Service
	UserSvc        user.Service
	PatientSvc     patient.Service
	DoctorSvc      doctor.Service
	SchedulingSvc  scheduling.Service
	OverrideSvc    override.Service
	AppointmentSvc appointment.Service
	CatalogSvc     catalog.Service
	DashboardSvc   dashboard.Service
}

type Router struct {
	p Params
}

func NewRouter(p Params) *Router {
	return &Router{p: p}
}

type permFunc = func(authorize.Resource, authorize.Action) fiber.Handler

func (r *Router) Register(app *fiber.App) {
	// 1. Health & Metrics
	r.registerSystemRoutes(app)

	// 2. Initialize Middlewares
	sessionRequired := middleware.SessionRequired(r.p.SessionSvc)

	// Permission helper
	requirePerm := func(res authorize.Resource, act authorize.Action) fiber.Handler {
		return middleware.RequirePermission(r.p.Auth, res, act)
	}

	// 3. Initialize Handlers
	sessionH := handler.NewSessionHandler(r.p.SessionSvc)
	userH := handler.NewUserHandler(r.p.UserSvc)
	patientH := handler.NewPatientHandler(r.p.PatientSvc)
	doctorH := handler.NewDoctorHandler(r.p.DoctorSvc, r.p.SchedulingSvc)
	scheduleH := handler.NewScheduleHandler(r.p.SchedulingSvc, r.p.DoctorSvc)
	overrideH := handler.NewOverrideHandler(r.p.OverrideSvc, r.p.DoctorSvc)
	appointmentH := handler.NewAppointmentHandler(r.p.AppointmentSvc, r.p.PatientSvc)
	catalogH := handler.NewCatalogHandler(r.p.CatalogSvc)
	dashboardH := handler.NewDashboardHandler(r.p.DashboardSvc)

	api := app.Group("/api/v1")

	// 4. Delegate to sub-files
	r.registerSessionRoutes(api, sessionH, sessionRequired)
	r.registerUserRoutes(api, userH, sessionRequired, requirePerm)
	r.registerPatientRoutes(api, patientH, sessionRequired, requirePerm)
	r.registerDoctorRoutes(api, doctorH, scheduleH, sessionRequired, requirePerm)
	r.registerOverrideRoutes(api, overrideH, sessionRequired, requirePerm)
	r.registerAppointmentRoutes(api, appointmentH, sessionRequired, requirePerm)
	r.registerCatalogRoutes(api, catalogH, sessionRequired, requirePerm)
	api.Get("/dashboard", sessionRequired, requirePerm(authorize.ResourceDashboard, authorize.ActionRead), dashboardH.Summary)
}

func (r *Router) registerSystemRoutes(app *fiber.App) {
	app.Get(healthcheck.LivenessEndpoint, healthcheck.New())
	app.Get(healthcheck.ReadinessEndpoint, healthcheck.New(healthcheck.Config{
		Probe: func(c fiber.Ctx) bool {
			return authorize.IsPolicyHealthy() && r.p.Store.Ping(c.Context()) == nil
		},
	}))
	app.Get(healthcheck.StartupEndpoint, healthcheck.New())

	if r.p.Cfg.Observability.Enabled && r.p.Cfg.Observability.Metrics.Enabled {
		path := r.p.Cfg.Observability.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.Handler()))
	}
}
