package audit

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)
	logger.hostname = "host1"
	logger.pid = 42
	logger.now = func() time.Time { return time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC) }

	logger.Log(AuthenticateEvent{
		Login:             "alice@example.com",
		ClientIP:          "192.168.1.1",
		AuthenticatorName: "authn",
		Success:           true,
	})

	want := `<86>1 2024-05-06T07:08:09.000Z host1 footprint 42 authn ` +
		`[action@32473 operation="authenticate" result="success"]` +
		`[auth@32473 authenticator="authn" user="alice@example.com"]` +
		`[client@32473 ip="192.168.1.1"] ` +
		"alice@example.com successfully authenticated with authenticator authn\n"
	if got := buf.String(); got != want {
		t.Errorf("Log() =\n%q\nwant\n%q", got, want)
	}
}

func TestAuthenticateEvent(t *testing.T) {
	tests := []struct {
		name    string
		event   AuthenticateEvent
		wantMsg string
		wantSev Severity
	}{
		{
			name: "successful authentication",
			event: AuthenticateEvent{
				Login:             "alice@example.com",
				ClientIP:          "10.0.0.1",
				AuthenticatorName: "authn",
				Success:           true,
			},
			wantMsg: "successfully authenticated",
			wantSev: SeverityInfo,
		},
		{
			name: "failed authentication",
			event: AuthenticateEvent{
				Login:             "alice@example.com",
				ClientIP:          "10.0.0.1",
				AuthenticatorName: "authn",
				ErrorMessage:      "authentication failed",
			},
			wantMsg: "failed to authenticate with authenticator authn: authentication failed",
			wantSev: SeverityWarning,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !strings.Contains(tt.event.Message(), tt.wantMsg) {
				t.Errorf("Message() = %v, want to contain %v", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != FacilityAuthPriv {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), FacilityAuthPriv)
			}
			if tt.event.MessageID() != "authn" {
				t.Errorf("MessageID() = %v, want 'authn'", tt.event.MessageID())
			}
		})
	}
}

func TestEntryEvents(t *testing.T) {
	tests := []struct {
		name      string
		event     Event
		wantMsgID string
		wantMsg   string
		wantSev   Severity
	}{
		{
			name:      "create",
			event:     EntryCreateEvent{UserID: "u1", EntryID: "e1", Date: "2024-05-06", Total: 12.345, Success: true},
			wantMsgID: "entry-create",
			wantMsg:   "u1 logged 12.35 kg CO2 for 2024-05-06",
			wantSev:   SeverityInfo,
		},
		{
			name:      "create failure",
			event:     EntryCreateEvent{UserID: "u1", Date: "2024-05-06", ErrorMessage: "db down"},
			wantMsgID: "entry-create",
			wantMsg:   "u1 failed to log an entry for 2024-05-06: db down",
			wantSev:   SeverityWarning,
		},
		{
			name:      "import",
			event:     EntryImportEvent{UserID: "u1", Imported: 3, Rejected: 1},
			wantMsgID: "entry-import",
			wantMsg:   "u1 imported 3 entries (1 rows rejected)",
			wantSev:   SeverityNotice,
		},
		{
			name:      "delete",
			event:     EntryDeleteEvent{UserID: "u1", EntryID: "e1", Success: true},
			wantMsgID: "entry-delete",
			wantMsg:   "u1 deleted entry e1",
			wantSev:   SeverityNotice,
		},
		{
			name:      "goal",
			event:     GoalUpdateEvent{UserID: "u1", WeeklyTarget: 15},
			wantMsgID: "goal-update",
			wantMsg:   "u1 set weekly target to 15.00 kg CO2",
			wantSev:   SeverityInfo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.event.MessageID() != tt.wantMsgID {
				t.Errorf("MessageID() = %v, want %v", tt.event.MessageID(), tt.wantMsgID)
			}
			if tt.event.Message() != tt.wantMsg {
				t.Errorf("Message() = %q, want %q", tt.event.Message(), tt.wantMsg)
			}
			if tt.event.Severity() != tt.wantSev {
				t.Errorf("Severity() = %v, want %v", tt.event.Severity(), tt.wantSev)
			}
			if tt.event.Facility() != FacilityUser {
				t.Errorf("Facility() = %v, want %v", tt.event.Facility(), FacilityUser)
			}
			if tt.event.StructuredData()[SDIDAuth]["user"] != "u1" {
				t.Errorf("StructuredData auth.user = %v, want 'u1'", tt.event.StructuredData()[SDIDAuth]["user"])
			}
		})
	}
}

func TestAuditorToggle(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)
	auditor := New(logger, nil, nil)

	auditor.SetEnabled(false)
	auditor.Log(context.Background(), GoalUpdateEvent{UserID: "u1", WeeklyTarget: 10})
	if buf.Len() != 0 {
		t.Errorf("expected no output while disabled, got %q", buf.String())
	}

	auditor.SetEnabled(true)
	auditor.Log(context.Background(), GoalUpdateEvent{UserID: "u1", WeeklyTarget: 10})
	if !strings.Contains(buf.String(), "goal-update") {
		t.Errorf("expected goal-update line, got %q", buf.String())
	}

	var nilAuditor *Auditor
	if nilAuditor.Enabled() {
		t.Error("nil auditor must report disabled")
	}
	nilAuditor.Log(context.Background(), GoalUpdateEvent{})
}

func TestAuditorPersistFailureIsLogged(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectExec(`INSERT INTO audit_messages`).WillReturnError(context.DeadlineExceeded)

	core, logs := observer.New(zap.WarnLevel)
	var buf bytes.Buffer
	logger := NewLogger()
	logger.SetWriter(&buf)
	auditor := New(logger, NewStore(db), zap.New(core))

	auditor.Log(context.Background(), EntryDeleteEvent{UserID: "u1", EntryID: "e1", Success: true})

	if buf.Len() == 0 {
		t.Error("expected syslog line even when persistence fails")
	}
	if logs.FilterMessage("failed to persist audit event").Len() != 1 {
		t.Errorf("expected one warning, got %v", logs.All())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestFormatStructuredDataEmpty(t *testing.T) {
	if got := formatStructuredData(nil); got != "" {
		t.Errorf("formatStructuredData(nil) = %q, want empty", got)
	}
}

func TestEscapeSDValue(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"simple", `"simple"`},
		{`with"quote`, `"with\"quote"`},
		{`with\backslash`, `"with\\backslash"`},
		{`with]bracket`, `"with\]bracket"`},
		{`all"special\chars]`, `"all\"special\\chars\]"`},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := escapeSDValue(tt.input)
			if got != tt.want {
				t.Errorf("escapeSDValue(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
