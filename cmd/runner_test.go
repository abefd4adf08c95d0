package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/evently/evently/internal/models"
	"github.com/evently/evently/internal/services"
	"github.com/evently/evently/internal/session"
	"github.com/evently/evently/internal/shared"
	tu "github.com/evently/evently/internal/testing"
	"github.com/urfave/cli/v3"
)

func TestNewRunner(t *testing.T) {
	t.Run("With All Dependencies Provided", func(t *testing.T) {
		config := shared.DefaultConfig()
		logger := shared.NewLogger(nil)
		output := &bytes.Buffer{}
		store := session.NewMemoryStore()
		gateway := services.NewGateway(services.GatewayOpts{Credentials: store})

		runner := NewRunner(RunnerOpts{
			Config:  config,
			Logger:  logger,
			Output:  output,
			Store:   store,
			Gateway: gateway,
		})

		if runner.config != config {
			t.Error("expected config to be set")
		}
		if runner.logger != logger {
			t.Error("expected logger to be set")
		}
		if runner.output != output {
			t.Error("expected output to be set")
		}
		if runner.gateway != gateway {
			t.Error("expected gateway to be set")
		}
		if runner.sessions == nil || runner.guard == nil || runner.events == nil {
			t.Error("expected session manager, guard, and events API to be built")
		}
	})

	t.Run("With Nil Config Uses Defaults", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})

		if runner.config == nil {
			t.Error("expected default config to be set")
		}
		if runner.output != os.Stdout {
			t.Error("expected output to default to os.Stdout")
		}
		if runner.store == nil {
			t.Error("expected a fallback store")
		}
	})
}

func TestWriteJSON(t *testing.T) {
	t.Run("Writes Compact JSON", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output})

		if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "{\"key\":\"value\"}\n" {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("Write Failure", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

		if err := runner.writeJSON(map[string]string{"key": "value"}, false); err == nil {
			t.Error("expected error from failing writer")
		}
		if err := runner.writePlain("hello"); err == nil {
			t.Error("expected error from failing writer")
		}
	})
}

// testRunner builds a Runner wired to a fake API server and returns it with
// its output buffer.
func testRunner(t *testing.T, handler http.HandlerFunc) (*Runner, *bytes.Buffer) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	output := &bytes.Buffer{}
	store := session.NewMemoryStore()
	runner := NewRunner(RunnerOpts{
		Store: store,
		Gateway: services.NewGateway(services.GatewayOpts{
			BaseURL:     server.URL,
			Credentials: store,
		}),
		Output: output,
		Logger: shared.NewLogger(&bytes.Buffer{}),
	})
	return runner, output
}

func runCommand(t *testing.T, r *Runner, args ...string) error {
	t.Helper()
	app := &cli.Command{Name: "evently", Commands: r.register()}
	return app.Run(context.Background(), append([]string{"evently"}, args...))
}

func TestAuthCommands(t *testing.T) {
	t.Run("Login Then Whoami Then Logout", func(t *testing.T) {
		runner, output := testRunner(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/user/login" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]any{
				"token": "tok-123",
				"user":  map[string]string{"_id": "u1", "name": "Ada", "email": "ada@example.com"},
			})
		})

		if err := runCommand(t, runner, "auth", "login", "--email", "ada@example.com", "--password", "pw"); err != nil {
			t.Fatalf("login failed: %v", err)
		}
		if !strings.Contains(output.String(), "Signed in as Ada") {
			t.Errorf("unexpected output: %q", output.String())
		}
		if !runner.sessions.IsAuthenticated() {
			t.Error("expected authenticated session")
		}

		output.Reset()
		if err := runCommand(t, runner, "auth", "whoami"); err != nil {
			t.Fatalf("whoami failed: %v", err)
		}
		if !strings.Contains(output.String(), "Ada <ada@example.com>") {
			t.Errorf("unexpected output: %q", output.String())
		}

		output.Reset()
		if err := runCommand(t, runner, "auth", "logout"); err != nil {
			t.Fatalf("logout failed: %v", err)
		}
		if runner.sessions.IsAuthenticated() {
			t.Error("expected anonymous session after logout")
		}

		output.Reset()
		if err := runCommand(t, runner, "auth", "whoami"); err != nil {
			t.Fatalf("whoami failed: %v", err)
		}
		if !strings.Contains(output.String(), "Not signed in") {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("Rejected Login Prints Message Without Failing", func(t *testing.T) {
		runner, output := testRunner(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"message": "Incorrect password"}`))
		})

		if err := runCommand(t, runner, "auth", "login", "--email", "ada@example.com", "--password", "nope"); err != nil {
			t.Fatalf("expected graceful handling, got %v", err)
		}
		if !strings.Contains(output.String(), "Incorrect password") {
			t.Errorf("expected server's message in output, got %q", output.String())
		}
		if runner.sessions.IsAuthenticated() {
			t.Error("rejected login must stay anonymous")
		}
	})
}

func seedSession(t *testing.T, r *Runner) {
	t.Helper()
	err := r.store.Set(models.Session{
		Token: "tok-123",
		User:  &models.Profile{ID: "u1", Name: "Ada"},
	})
	if err != nil {
		t.Fatalf("failed to seed session: %v", err)
	}
}

func TestEventsCommands(t *testing.T) {
	listing := map[string]any{"data": []any{map[string]any{
		"_id":           "ev1",
		"eventTitle":    "Go Meetup",
		"name":          "Ada",
		"dateTime":      "2026-09-15T18:30:00Z",
		"location":      "Community Hall",
		"description":   "Monthly meetup",
		"attendeeCount": 3,
	}}}

	t.Run("List Requires Authentication", func(t *testing.T) {
		runner, _ := testRunner(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request should reach the server")
		})

		err := runCommand(t, runner, "events", "list")
		if err == nil {
			t.Fatal("expected error for anonymous listing")
		}
		if !strings.Contains(err.Error(), "auth login") {
			t.Errorf("expected login hint, got %v", err)
		}
	})

	t.Run("List", func(t *testing.T) {
		runner, output := testRunner(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/events/all" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
				t.Errorf("expected bearer header, got %q", got)
			}
			json.NewEncoder(w).Encode(listing)
		})
		seedSession(t, runner)

		if err := runCommand(t, runner, "events", "list"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if !strings.Contains(output.String(), "Go Meetup") {
			t.Errorf("expected event in output, got %q", output.String())
		}
	})

	t.Run("List With Filter Flag", func(t *testing.T) {
		runner, _ := testRunner(t, func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("filter"); got != "today" {
				t.Errorf("expected filter=today, got %q", got)
			}
			json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
		})
		seedSession(t, runner)

		if err := runCommand(t, runner, "events", "list", "--filter", "today"); err != nil {
			t.Fatalf("list failed: %v", err)
		}
	})

	t.Run("List Rejects Unknown Filter", func(t *testing.T) {
		runner, _ := testRunner(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request should reach the server")
		})
		seedSession(t, runner)

		if err := runCommand(t, runner, "events", "list", "--filter", "someday"); err == nil {
			t.Error("expected error for unknown filter value")
		}
	})

	t.Run("Join", func(t *testing.T) {
		runner, output := testRunner(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/events/join" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
				"_id": "ev1", "eventTitle": "Go Meetup", "attendeeCount": 4,
			}})
		})
		seedSession(t, runner)

		if err := runCommand(t, runner, "events", "join", "ev1"); err != nil {
			t.Fatalf("join failed: %v", err)
		}
		if !strings.Contains(output.String(), "4 attendees") {
			t.Errorf("expected server's count in output, got %q", output.String())
		}
	})

	t.Run("Delete Aborts Without Confirmation", func(t *testing.T) {
		runner, output := testRunner(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request should reach the server")
		})
		seedSession(t, runner)
		runner.input = strings.NewReader("n\n")

		if err := runCommand(t, runner, "events", "delete", "ev1"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if !strings.Contains(output.String(), "Aborted") {
			t.Errorf("expected abort notice, got %q", output.String())
		}
	})

	t.Run("Delete With Yes Flag Skips Prompt", func(t *testing.T) {
		deleted := false
		runner, output := testRunner(t, func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodDelete && r.URL.Path == "/events/ev1" {
				deleted = true
			}
			w.WriteHeader(http.StatusOK)
		})
		seedSession(t, runner)

		if err := runCommand(t, runner, "events", "delete", "ev1", "--yes"); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if !deleted {
			t.Error("expected DELETE request")
		}
		if !strings.Contains(output.String(), "Event deleted") {
			t.Errorf("unexpected output: %q", output.String())
		}
	})

	t.Run("Create Reports Field Errors Locally", func(t *testing.T) {
		runner, output := testRunner(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no request should reach the server")
		})
		seedSession(t, runner)

		err := runCommand(t, runner, "events", "create",
			"--title", "Go Meetup",
			"--date", "2099-01-01 10:00",
			"--location", "Hall",
			"--description", "short")
		if err == nil {
			t.Fatal("expected validation error")
		}
		if !strings.Contains(output.String(), "Description must be at least 10 characters") {
			t.Errorf("expected field message, got %q", output.String())
		}
	})
}
