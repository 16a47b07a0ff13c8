// Package store keeps each entity type as one JSON array under a fixed key
// and exposes typed helpers over a pluggable blob Backend.
package store

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/Alijeyrad/stgeorge_backend/internal/store"

var (
	ErrNotFound       = errors.New("record not found")
	ErrTooManyRetries = errors.New("store update retries exhausted")
	ErrClosed         = errors.New("store is closed")
)

type Collection string

const (
	Users           Collection = "users"
	Patients        Collection = "patients"
	Doctors         Collection = "doctors"
	Appointments    Collection = "appointments"
	WeeklySchedules Collection = "weekly-schedules"
	Overrides       Collection = "overrides"
	Branches        Collection = "branches"
	Medicines       Collection = "medicines"
	Inventory       Collection = "inventory"
	Bills           Collection = "bills"
	Rooms           Collection = "rooms"
	LabTestTypes    Collection = "lab-test-types"
)

var AllCollections = []Collection{
	Users, Patients, Doctors, Appointments, WeeklySchedules, Overrides,
	Branches, Medicines, Inventory, Bills, Rooms, LabTestTypes,
}

// SessionKey is the key of a single session value.
func SessionKey(sessionID string) string {
	return "session:" + sessionID
}

// UserSessionsKey holds the ids of every open session of one user.
func UserSessionsKey(userID string) string {
	return "user-sessions:" + userID
}

// UpdateFunc receives the current blob (nil when the key is absent) and
// returns the blob to write. Returning nil bytes and a nil error skips the
// write. Backends may call it more than once, so it must not keep state
// between calls.
type UpdateFunc func(current []byte) ([]byte, error)

// Backend stores opaque blobs by key.
type Backend interface {
	// Load returns nil, nil when the key does not exist.
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, data []byte) error
	// Update is an atomic read-modify-write of one key.
	Update(ctx context.Context, key string, fn UpdateFunc) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// Store is the shared handle services receive. It is safe for concurrent use
// as long as its Backend is.
type Store struct {
	backend Backend
	tracer  trace.Tracer
}

func New(b Backend) *Store {
	return &Store{backend: b, tracer: otel.Tracer(tracerName)}
}

func (s *Store) Backend() Backend { return s.backend }

func (s *Store) Ping(ctx context.Context) error { return s.backend.Ping(ctx) }

func (s *Store) Close() error { return s.backend.Close() }

func (s *Store) startSpan(ctx context.Context, op, key string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "store."+op, trace.WithAttributes(attribute.String("store.key", key)))
}
