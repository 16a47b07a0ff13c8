package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type recorder struct {
	subjects []string
	payloads []string
	err      error
}

func (r *recorder) Publish(subject string, data []byte) error {
	r.subjects = append(r.subjects, subject)
	r.payloads = append(r.payloads, string(data))
	return r.err
}

func TestSubject(t *testing.T) {
	s := Subject("stgeorge.appointment.created", "doc_1")
	assert.Equal(t, "stgeorge.appointment.created.doc_1", s)
	assert.Equal(t, "doc_1", SubjectID(s))
	assert.Equal(t, "plain", SubjectID("plain"))
}

func TestEmit(t *testing.T) {
	r := &recorder{}
	Emit(r, "stgeorge.override.reviewed", "doc_1", "ov_1")
	assert.Equal(t, []string{"stgeorge.override.reviewed.doc_1"}, r.subjects)
	assert.Equal(t, []string{"ov_1"}, r.payloads)

	// A failing publisher does not panic and is not retried.
	r = &recorder{err: errors.New("nats: connection closed")}
	Emit(r, "a", "b", "c")
	assert.Len(t, r.subjects, 1)

	Emit(nil, "a", "b", "c")
	assert.NoError(t, Nop{}.Publish("a", nil))
}
