package authorize

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/Alijeyrad/stgeorge_backend/pkg/reqctx"
)

func auditLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			t.Fatalf("bad log line %q: %v", line, err)
		}
		out = append(out, m)
	}
	return out
}

func TestAuditedAuthorization_Decision(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	auth := NewAuditedAuthorization(newTestAuth(t, DefaultConfig()), logger)

	ctx := context.Background()
	if err := AssignAccountRole(ctx, auth, "u_desk", RoleStaff); err != nil {
		t.Fatal(err)
	}
	if err := AssignAccountRole(ctx, auth, "u_pat", RolePatient); err != nil {
		t.Fatal(err)
	}
	buf.Reset()

	ctx = reqctx.WithRequestMeta(ctx, &reqctx.RequestMeta{RequestID: "req-1"})
	ctx = reqctx.WithActor(ctx, reqctx.Actor{UserID: "u_desk", Role: "STAFF", SessionID: "s1"})

	if _, err := auth.Enforce(ctx, "u_pat", DomainSys, ResourceAppointmentStatus, ActionUpdate); err != nil {
		t.Fatal(err)
	}

	lines := auditLines(t, &buf)
	if len(lines) != 1 {
		t.Fatalf("got %d audit lines, want 1: %s", len(lines), buf.String())
	}
	got := lines[0]

	checks := map[string]any{
		"msg":        eventDecision,
		"level":      "WARN",
		"subject":    "u_pat",
		"resource":   string(ResourceAppointmentStatus),
		"action":     string(ActionUpdate),
		"allowed":    false,
		"on_behalf":  true,
		"request_id": "req-1",
	}
	for k, want := range checks {
		if got[k] != want {
			t.Errorf("%s = %v, want %v", k, got[k], want)
		}
	}

	actor, ok := got["actor"].(map[string]any)
	if !ok {
		t.Fatalf("actor group missing: %v", got)
	}
	if actor["user_id"] != "u_desk" || actor["role"] != "STAFF" || actor["session_id"] != "s1" {
		t.Errorf("actor = %v", actor)
	}
}

func TestAuditedAuthorization_RoleChangeAndErrors(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	auth := NewAuditedAuthorization(newTestAuth(t, DefaultConfig()), logger)
	ctx := reqctx.WithActor(context.Background(), reqctx.Actor{UserID: "u1", Role: "DOCTOR"})

	if _, err := auth.AddRoleForUserInDomain(ctx, "u1", RoleDoctor, DomainSys); err != nil {
		t.Fatal(err)
	}
	if _, err := auth.Enforce(ctx, "u1", DomainSys, Resource("ward"), ActionRead); err == nil {
		t.Fatal("expected unknown resource error")
	}

	lines := auditLines(t, &buf)
	if len(lines) != 2 {
		t.Fatalf("got %d audit lines, want 2: %s", len(lines), buf.String())
	}

	grant := lines[0]
	if grant["msg"] != eventRoleChange || grant["op"] != "grant" || grant["granted_role"] != string(RoleDoctor) {
		t.Errorf("role change line = %v", grant)
	}
	if _, ok := grant["on_behalf"]; ok {
		t.Error("self-service change should not be flagged on_behalf")
	}

	failed := lines[1]
	if failed["level"] != "ERROR" || failed["resource"] != "ward" {
		t.Errorf("error line = %v", failed)
	}
	if msg, _ := failed["error"].(string); !strings.Contains(msg, "unknown resource") {
		t.Errorf("error = %q", msg)
	}
}

func TestAuditedAuthorization_PermissionChangesStayQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	auth := NewAuditedAuthorization(newTestAuth(t, DefaultConfig()), logger)

	if _, err := auth.AddPermission(context.Background(), RoleStaff, DomainSys, ResourceRoom, ActionDelete, EffectDeny); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("permission change logged at info: %s", buf.String())
	}
}
