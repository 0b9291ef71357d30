package videos

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/streamdesk/streamdesk/internal/models"
)

// captureOutput helps capture stdout during command execution.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()

	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	fn()

	_ = w.Close()
	os.Stdout = old

	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	return buf.String()
}

func TestListVideos_TableOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/videos" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Fatalf("unexpected auth header: %s", got)
		}
		last := "v-1"
		_ = json.NewEncoder(w).Encode(map[string]any{
			"videos": []models.Video{
				{ID: "v-2", Title: "Second Video", Duration: "02:30"},
				{ID: "v-1", Title: "First Video", Duration: "01:15"},
			},
			"hasMore": true,
			"lastId":  &last,
		})
	}))
	defer srv.Close()

	_ = os.Setenv("STREAMDESK_API_URL", srv.URL)
	_ = os.Setenv("STREAMDESK_TOKEN", "test-token")
	defer os.Unsetenv("STREAMDESK_API_URL")
	defer os.Unsetenv("STREAMDESK_TOKEN")

	cmd := listVideosCmd()

	out := captureOutput(t, func() {
		cmd.Run(cmd, []string{})
	})

	if !strings.Contains(out, "Second Video") || !strings.Contains(out, "First Video") {
		t.Fatalf("expected video titles in output, got: %s", out)
	}
	if !strings.Contains(out, "--last-id v-1") {
		t.Fatalf("expected cursor hint in output, got: %s", out)
	}
}

func TestListVideos_JSONOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"videos":  []models.Video{{ID: "v-1", Title: "Only Video"}},
			"hasMore": false,
			"lastId":  nil,
		})
	}))
	defer srv.Close()

	_ = os.Setenv("STREAMDESK_API_URL", srv.URL)
	_ = os.Setenv("STREAMDESK_TOKEN", "test-token")
	defer os.Unsetenv("STREAMDESK_API_URL")
	defer os.Unsetenv("STREAMDESK_TOKEN")

	cmd := listVideosCmd()
	_ = cmd.Flags().Set("json", "true")

	out := captureOutput(t, func() {
		cmd.Run(cmd, []string{})
	})

	if !strings.Contains(out, `"title": "Only Video"`) {
		t.Fatalf("expected JSON output, got: %s", out)
	}
}
