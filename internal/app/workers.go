package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"github.com/Alijeyrad/stgeorge_backend/internal/repository"
	"github.com/Alijeyrad/stgeorge_backend/pkg/constants"
	"github.com/Alijeyrad/stgeorge_backend/pkg/events"
)

// WorkerModule registers all NATS event workers.
var WorkerModule = fx.Module("workers",
	fx.Invoke(RegisterWorkers),
)

type WorkerParams struct {
	fx.In

	Lc    fx.Lifecycle
	NC    *nats.Conn `optional:"true"`
	Repos *repository.Repositories
}

func RegisterWorkers(p WorkerParams) {
	if p.NC == nil {
		slog.Debug("workers: nats disabled, not subscribing")
		return
	}
	var subs []*nats.Subscription
	p.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			subs = append(subs, startAppointmentWorker(p.NC, p.Repos)...)
			subs = append(subs, startOverrideWorker(p.NC, p.Repos)...)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			for _, s := range subs {
				_ = s.Unsubscribe()
			}
			return nil
		},
	})
}

func subscribe(nc *nats.Conn, worker, base string, fn func(ctx context.Context, subjectID, payload string)) *nats.Subscription {
	sub, err := nc.Subscribe(base+".*", func(msg *nats.Msg) {
		fn(context.Background(), events.SubjectID(msg.Subject), strings.TrimSpace(string(msg.Data)))
	})
	if err != nil {
		slog.Error(worker+": subscribe failed", "subject", base, "err", err)
		return nil
	}
	return sub
}

// ---------------------------------------------------------------------------
// appointment_worker
// ---------------------------------------------------------------------------

func startAppointmentWorker(nc *nats.Conn, repos *repository.Repositories) []*nats.Subscription {
	created := subscribe(nc, "appointment_worker", constants.SubjectAppointmentCreated, func(ctx context.Context, doctorID, apptID string) {
		appt, err := repos.Appointments.FindByID(ctx, apptID)
		if err != nil {
			slog.Warn("appointment_worker: appointment not found", "id", apptID, "err", err)
			return
		}
		slog.Info("appointment_worker: appointment booked",
			"appointment_id", appt.ID,
			"appointment_no", appt.AppointmentNo,
			"doctor_id", doctorID,
			"date", appt.AppointmentDate,
			"start", appt.StartTime,
		)
	})

	status := subscribe(nc, "appointment_worker", constants.SubjectAppointmentStatus, func(ctx context.Context, apptID, _ string) {
		appt, err := repos.Appointments.FindByID(ctx, apptID)
		if err != nil {
			slog.Warn("appointment_worker: appointment not found", "id", apptID, "err", err)
			return
		}
		slog.Info("appointment_worker: status changed", "appointment_id", appt.ID, "status", appt.Status)
	})

	slog.Info("appointment_worker: started")
	return compact(created, status)
}

// ---------------------------------------------------------------------------
// override_worker
// ---------------------------------------------------------------------------

func startOverrideWorker(nc *nats.Conn, repos *repository.Repositories) []*nats.Subscription {
	handler := func(action string) func(ctx context.Context, doctorID, overrideID string) {
		return func(ctx context.Context, doctorID, overrideID string) {
			o, err := repos.Overrides.FindByID(ctx, overrideID)
			if err != nil {
				slog.Warn("override_worker: override not found", "id", overrideID, "err", err)
				return
			}
			slog.Info("override_worker: override "+action,
				"override_id", o.ID,
				"doctor_id", doctorID,
				"date", o.Date,
				"type", o.Type,
				"status", o.Status,
			)
		}
	}

	submitted := subscribe(nc, "override_worker", constants.SubjectOverrideSubmitted, handler("submitted"))
	reviewed := subscribe(nc, "override_worker", constants.SubjectOverrideReviewed, handler("reviewed"))

	slog.Info("override_worker: started")
	return compact(submitted, reviewed)
}

func compact(subs ...*nats.Subscription) []*nats.Subscription {
	out := subs[:0]
	for _, s := range subs {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}
