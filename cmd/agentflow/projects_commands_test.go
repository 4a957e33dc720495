package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"agentflow/internal/editorapi"
)

func TestProjectsListRendersTable(t *testing.T) {
	backend := newFakeBackend(t)
	backend.Respond(http.MethodGet, "/api/editor/projects", http.StatusOK,
		`[{"id":1,"name":"Trailer","status":"ready","duration":12.5},{"id":"b2","name":"Vlog","status":"in_progress"}]`)

	out, _, err := runCLI(t, backend.URL(), "projects", "list")
	if err != nil {
		t.Fatalf("projects list: %v", err)
	}
	requireContains(t, out, "Trailer")
	requireContains(t, out, "12.50s")
	requireContains(t, out, "In Progress")
	requireContains(t, out, "b2")
}

func TestProjectsListJSONPassesBodyThrough(t *testing.T) {
	backend := newFakeBackend(t)
	backend.Respond(http.MethodGet, "/api/editor/projects", http.StatusOK,
		`{"projects":[{"id":1,"name":"One","custom":{"x":1}}],"total":1}`)

	out, _, err := runCLI(t, backend.URL(), "--json", "projects", "list")
	if err != nil {
		t.Fatalf("projects list: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if decoded["total"] != float64(1) {
		t.Fatalf("expected unmodelled field to survive, got %v", decoded)
	}
}

func TestProjectsListFailureReportsFixedMessage(t *testing.T) {
	backend := newFakeBackend(t)
	backend.Respond(http.MethodGet, "/api/editor/projects", http.StatusInternalServerError, `{"detail":"db down"}`)

	_, _, err := runCLI(t, backend.URL(), "projects", "list")
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, editorapi.ErrRequestFailed) {
		t.Fatalf("expected request failure, got %v", err)
	}
	if err.Error() != "Failed to fetch projects (HTTP 500)" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if strings.Contains(err.Error(), "db down") {
		t.Fatal("backend body must not leak into the error")
	}
}

func TestProjectsShowFetchesDetailsConcurrently(t *testing.T) {
	backend := newFakeBackend(t)
	backend.Respond(http.MethodGet, "/api/editor/projects/7", http.StatusOK,
		`{"id":7,"name":"Launch","status":"ready","video_filename":"launch.mp4","width":1920,"height":1080}`)
	backend.Respond(http.MethodGet, "/api/editor/projects/7/waveform", http.StatusOK,
		`{"filename":"launch.png","channels":2,"peaks":[0.1,0.5,0.2]}`)
	backend.Respond(http.MethodGet, "/api/editor/projects/7/renders", http.StatusOK,
		`{"renders":[{"render_id":"r9","status":"completed","progress":100,"output_filename":"launch-final.mp4"}]}`)

	out, _, err := runCLI(t, backend.URL(), "projects", "show", "7")
	if err != nil {
		t.Fatalf("projects show: %v", err)
	}
	requireContains(t, out, "Launch")
	requireContains(t, out, "1920x1080")
	requireContains(t, out, backend.URL()+"/api/editor/videos/launch.mp4")
	requireContains(t, out, "3 peaks, 2 channel(s)")
	requireContains(t, out, "r9")
	requireContains(t, out, "launch-final.mp4")

	if got := len(backend.Requests()); got != 3 {
		t.Fatalf("expected 3 requests, got %d", got)
	}
}

func TestProjectsShowToleratesMissingWaveform(t *testing.T) {
	backend := newFakeBackend(t)
	backend.Respond(http.MethodGet, "/api/editor/projects/7", http.StatusOK, `{"id":7,"name":"Launch"}`)
	backend.Respond(http.MethodGet, "/api/editor/projects/7/renders", http.StatusOK, `[]`)

	out, _, err := runCLI(t, backend.URL(), "--json", "projects", "show", "7")
	if err != nil {
		t.Fatalf("projects show: %v", err)
	}
	var decoded map[string]json.RawMessage
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if _, ok := decoded["waveform"]; ok {
		t.Fatalf("missing waveform must be omitted, got %s", out)
	}
	if string(decoded["renders"]) != "[]" {
		t.Fatalf("unexpected renders %s", decoded["renders"])
	}
}

func TestProjectsShowFailsWhenProjectMissing(t *testing.T) {
	backend := newFakeBackend(t)
	_, _, err := runCLI(t, backend.URL(), "projects", "show", "404")
	if !editorapi.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	requireContains(t, err.Error(), "Failed to fetch project")
}

func TestProjectsCreateUploadsVideo(t *testing.T) {
	backend := newFakeBackend(t)
	var fields atomic.Value
	backend.Handle(http.MethodPost, "/api/editor/projects", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		file := r.MultipartForm.File["video_file"]
		if len(file) != 1 {
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		fields.Store(r.FormValue("name") + "|" + r.FormValue("description") + "|" + file[0].Filename)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":42,"name":"holiday"}`))
	})

	video := filepath.Join(t.TempDir(), "holiday.mov")
	if err := os.WriteFile(video, []byte("frames"), 0o644); err != nil {
		t.Fatalf("write video: %v", err)
	}

	out, _, err := runCLI(t, backend.URL(), "projects", "create", "--video", video, "-d", "Summer")
	if err != nil {
		t.Fatalf("projects create: %v", err)
	}
	requireContains(t, out, "Created project 42 (holiday)")
	if got, _ := fields.Load().(string); got != "holiday|Summer|holiday.mov" {
		t.Fatalf("unexpected form fields %q", got)
	}
}

func TestProjectsCreateRequiresVideo(t *testing.T) {
	_, _, err := runCLI(t, "http://127.0.0.1:1", "projects", "create", "--name", "x")
	if err == nil || !strings.Contains(err.Error(), "--video") {
		t.Fatalf("expected missing video error, got %v", err)
	}
}

func TestProjectsUpdateSendsChangedFlagsOnly(t *testing.T) {
	backend := newFakeBackend(t)
	backend.Respond(http.MethodPut, "/api/editor/projects/3", http.StatusOK, `{"id":3,"name":"Renamed"}`)

	out, _, err := runCLI(t, backend.URL(), "projects", "update", "3", "--name", "Renamed", "--timeline", `{"clips":[]}`)
	if err != nil {
		t.Fatalf("projects update: %v", err)
	}
	requireContains(t, out, "Updated project 3")

	reqs := backend.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected one request, got %d", len(reqs))
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal([]byte(reqs[0].Body), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(body) != 2 || string(body["name"]) != `"Renamed"` || string(body["timeline"]) != `{"clips":[]}` {
		t.Fatalf("unexpected update body %s", reqs[0].Body)
	}
}

func TestProjectsUpdateRejectsEmptyUpdate(t *testing.T) {
	_, _, err := runCLI(t, "http://127.0.0.1:1", "projects", "update", "3")
	if err == nil || !strings.Contains(err.Error(), "nothing to update") {
		t.Fatalf("expected empty update error, got %v", err)
	}
}

func TestProjectsUpdateRejectsInvalidTimeline(t *testing.T) {
	_, _, err := runCLI(t, "http://127.0.0.1:1", "projects", "update", "3", "--timeline", "{oops")
	if err == nil || !strings.Contains(err.Error(), "not valid JSON") {
		t.Fatalf("expected invalid timeline error, got %v", err)
	}
}

func TestProjectsDeletePrintsBackendMessage(t *testing.T) {
	backend := newFakeBackend(t)
	backend.Respond(http.MethodDelete, "/api/editor/projects/9", http.StatusOK, `{"success":true,"message":"Project 9 deleted"}`)

	out, _, err := runCLI(t, backend.URL(), "projects", "delete", "9")
	if err != nil {
		t.Fatalf("projects delete: %v", err)
	}
	requireContains(t, out, "Project 9 deleted")
}

func TestWaveformCommand(t *testing.T) {
	backend := newFakeBackend(t)
	backend.Respond(http.MethodGet, "/api/editor/projects/5/waveform", http.StatusOK,
		`{"filename":"five.png","sample_rate":44100,"channels":1,"duration":3,"peaks":[0.2,0.4]}`)

	out, _, err := runCLI(t, backend.URL(), "waveform", "5")
	if err != nil {
		t.Fatalf("waveform: %v", err)
	}
	requireContains(t, out, "44100")
	requireContains(t, out, backend.URL()+"/api/editor/waveforms/five.png")
}
