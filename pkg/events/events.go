// Package events publishes domain events on NATS subjects of the form
// "<base>.<entity id>". Payloads are the bare id of the record that changed;
// subscribers load the record themselves.
package events

import (
	"log/slog"
	"strings"

	"github.com/nats-io/nats.go"
)

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subject string, data []byte) error
}

var _ Publisher = (*nats.Conn)(nil)

// Nop drops every event. Used when NATS is disabled.
type Nop struct{}

func (Nop) Publish(string, []byte) error { return nil }

func Subject(base, id string) string {
	return base + "." + id
}

// SubjectID returns the trailing id of a subject built by Subject.
func SubjectID(subject string) string {
	if i := strings.LastIndexByte(subject, '.'); i >= 0 {
		return subject[i+1:]
	}
	return subject
}

// Emit publishes payload on base.key. Delivery is best effort: a failure is
// logged and never fails the operation that produced the event.
func Emit(p Publisher, base, key, payload string) {
	if p == nil {
		return
	}
	subject := Subject(base, key)
	if err := p.Publish(subject, []byte(payload)); err != nil {
		slog.Warn("event publish failed", "subject", subject, "err", err)
	}
}
