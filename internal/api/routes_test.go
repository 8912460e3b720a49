package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/qcut/timeline-agent/internal/db"
	"github.com/qcut/timeline-agent/internal/project"
	"github.com/qcut/timeline-agent/internal/selection"
	"github.com/qcut/timeline-agent/internal/timeline"
)

const testToken = "test-token-1234567890"

func newTestRouter(t *testing.T) (*chi.Mux, *project.Service) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	database, err := db.New(filepath.Join(t.TempDir(), "agent.db"), logger)
	if err != nil {
		t.Fatalf("db.New() error = %v", err)
	}
	t.Cleanup(func() { database.Close() })

	repo := project.NewRepository(database.Conn())
	if err := repo.SetConfig(context.Background(), AuthTokenConfigKey, testToken); err != nil {
		t.Fatalf("SetConfig() error = %v", err)
	}

	svc := project.NewService(repo, selection.NewTracker(), logger)

	router := NewRouter(ServerConfig{
		Port:       0,
		Service:    svc,
		Repository: repo,
		Logger:     logger,
		StartTime:  time.Now(),
		Version:    "test",
	})
	return router, svc
}

func doRequest(t *testing.T, router *chi.Mux, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+testToken)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeJSONBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response body: %v (body: %s)", err, rr.Body.String())
	}
	return body
}

// createTestProject creates a project through the API and installs a
// two-track timeline with one 10s video element and one 10s audio element.
func createTestProject(t *testing.T, router *chi.Mux) string {
	t.Helper()

	rr := doRequest(t, router, http.MethodPost, "/projects", CreateProjectRequest{Name: "Test Project"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create project status = %d, body = %s", rr.Code, rr.Body.String())
	}
	projectID, _ := decodeJSONBody(t, rr)["id"].(string)
	if projectID == "" {
		t.Fatal("create project response missing id")
	}

	tl := &timeline.Timeline{
		Name:   "Test Project",
		Width:  1920,
		Height: 1080,
		FPS:    30,
		Tracks: []timeline.Track{
			{ID: "track-v1", Index: 0, Kind: timeline.TrackVideo, Elements: []timeline.Element{
				{ID: "el-v1", SourceID: "src-1", Name: "Main", StartTime: 0, EndTime: 10},
			}},
			{ID: "track-a1", Index: 1, Kind: timeline.TrackAudio, Elements: []timeline.Element{
				{ID: "el-a1", SourceID: "src-2", StartTime: 0, EndTime: 10},
			}},
		},
	}
	rr = doRequest(t, router, http.MethodPut, "/projects/"+projectID+"/timeline", tl)
	if rr.Code != http.StatusOK {
		t.Fatalf("put timeline status = %d, body = %s", rr.Code, rr.Body.String())
	}
	return projectID
}

func TestHealthEndpoint_NoAuthRequired(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusOK)
	}
	body := decodeJSONBody(t, rr)
	if body["status"] != "ok" {
		t.Fatalf("status = %v, want ok", body["status"])
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
}

func TestAuth_WrongToken(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusUnauthorized)
	}
	body := decodeJSONBody(t, rr)
	if body["code"] != "UNAUTHORIZED" {
		t.Fatalf("code = %v, want UNAUTHORIZED", body["code"])
	}
}

func TestProjectLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	projectID := createTestProject(t, router)

	rr := doRequest(t, router, http.MethodGet, "/projects/"+projectID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get project status = %d", rr.Code)
	}
	if got := decodeJSONBody(t, rr)["name"]; got != "Test Project" {
		t.Fatalf("name = %v, want Test Project", got)
	}

	rr = doRequest(t, router, http.MethodGet, "/projects", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list projects status = %d", rr.Code)
	}
	projects, _ := decodeJSONBody(t, rr)["projects"].([]interface{})
	if len(projects) != 1 {
		t.Fatalf("projects = %d, want 1", len(projects))
	}

	rr = doRequest(t, router, http.MethodDelete, "/projects/"+projectID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete project status = %d", rr.Code)
	}

	rr = doRequest(t, router, http.MethodGet, "/projects/"+projectID, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get deleted project status = %d, want 404", rr.Code)
	}
}

func TestGetProject_NotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	rr := doRequest(t, router, http.MethodGet, "/projects/does-not-exist", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if got := decodeJSONBody(t, rr)["code"]; got != "PROJECT_NOT_FOUND" {
		t.Fatalf("code = %v, want PROJECT_NOT_FOUND", got)
	}
}

func TestCutEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	projectID := createTestProject(t, router)

	rr := doRequest(t, router, http.MethodPost, "/projects/"+projectID+"/edits/cut", map[string]interface{}{
		"element_id": "el-v1",
		"cuts": []map[string]float64{
			{"start": 2, "end": 4},
			{"start": 6, "end": 7},
		},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("cut status = %d, body = %s", rr.Code, rr.Body.String())
	}

	body := decodeJSONBody(t, rr)
	if got := body["cuts_applied"].(float64); got != 2 {
		t.Fatalf("cuts_applied = %v, want 2", got)
	}
	if got := body["total_removed_duration"].(float64); got != 3 {
		t.Fatalf("total_removed_duration = %v, want 3", got)
	}
	remaining, _ := body["remaining_elements"].([]interface{})
	if len(remaining) != 3 {
		t.Fatalf("remaining_elements = %d, want 3", len(remaining))
	}
}

func TestCutEndpoint_OverlappingIntervals(t *testing.T) {
	router, _ := newTestRouter(t)
	projectID := createTestProject(t, router)

	rr := doRequest(t, router, http.MethodPost, "/projects/"+projectID+"/edits/cut", map[string]interface{}{
		"element_id": "el-v1",
		"cuts": []map[string]float64{
			{"start": 1, "end": 4},
			{"start": 3, "end": 6},
		},
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if got := decodeJSONBody(t, rr)["code"]; got != "OVERLAPPING_INTERVALS" {
		t.Fatalf("code = %v, want OVERLAPPING_INTERVALS", got)
	}
}

func TestCutEndpoint_ElementNotFound(t *testing.T) {
	router, _ := newTestRouter(t)
	projectID := createTestProject(t, router)

	rr := doRequest(t, router, http.MethodPost, "/projects/"+projectID+"/edits/cut", map[string]interface{}{
		"element_id": "no-such-element",
		"cuts":       []map[string]float64{{"start": 1, "end": 2}},
	})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusNotFound)
	}
	if got := decodeJSONBody(t, rr)["code"]; got != "ELEMENT_NOT_FOUND" {
		t.Fatalf("code = %v, want ELEMENT_NOT_FOUND", got)
	}
}

func TestSplitEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	projectID := createTestProject(t, router)

	rr := doRequest(t, router, http.MethodPost, "/projects/"+projectID+"/edits/split", SplitRequest{
		ElementID: "el-v1",
		SplitTime: 4,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("split status = %d, body = %s", rr.Code, rr.Body.String())
	}
	body := decodeJSONBody(t, rr)
	if body["second_element_id"] == nil {
		t.Fatal("second_element_id missing for full split")
	}
}

func TestSplitEndpoint_KeepLeftOmitsSecondID(t *testing.T) {
	router, _ := newTestRouter(t)
	projectID := createTestProject(t, router)

	rr := doRequest(t, router, http.MethodPost, "/projects/"+projectID+"/edits/split", SplitRequest{
		ElementID: "el-v1",
		SplitTime: 4,
		Mode:      "keepLeft",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("split status = %d, body = %s", rr.Code, rr.Body.String())
	}
	if got := decodeJSONBody(t, rr)["second_element_id"]; got != nil {
		t.Fatalf("second_element_id = %v, want null", got)
	}
}

func TestSplitEndpoint_BadMode(t *testing.T) {
	router, _ := newTestRouter(t)
	projectID := createTestProject(t, router)

	rr := doRequest(t, router, http.MethodPost, "/projects/"+projectID+"/edits/split", SplitRequest{
		ElementID: "el-v1",
		SplitTime: 4,
		Mode:      "sideways",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSplitEndpoint_OutOfBounds(t *testing.T) {
	router, _ := newTestRouter(t)
	projectID := createTestProject(t, router)

	rr := doRequest(t, router, http.MethodPost, "/projects/"+projectID+"/edits/split", SplitRequest{
		ElementID: "el-v1",
		SplitTime: 10,
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if got := decodeJSONBody(t, rr)["code"]; got != "SPLIT_OUT_OF_BOUNDS" {
		t.Fatalf("code = %v, want SPLIT_OUT_OF_BOUNDS", got)
	}
}

func TestMoveEndpoint_Collision(t *testing.T) {
	router, _ := newTestRouter(t)
	projectID := createTestProject(t, router)

	// Split first so the video track has two elements, then try to move
	// the audio element on top of one of them.
	rr := doRequest(t, router, http.MethodPost, "/projects/"+projectID+"/edits/split", SplitRequest{
		ElementID: "el-v1",
		SplitTime: 5,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("split status = %d", rr.Code)
	}

	start := 2.0
	rr = doRequest(t, router, http.MethodPost, "/projects/"+projectID+"/edits/move", map[string]interface{}{
		"element_id":     "el-a1",
		"to_track_id":    "track-v1",
		"new_start_time": start,
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("status code = %d, want %d, body = %s", rr.Code, http.StatusConflict, rr.Body.String())
	}
	if got := decodeJSONBody(t, rr)["code"]; got != "MOVE_COLLISION" {
		t.Fatalf("code = %v, want MOVE_COLLISION", got)
	}
}

func TestArrangeEndpoint_ManualRequiresOrder(t *testing.T) {
	router, _ := newTestRouter(t)
	projectID := createTestProject(t, router)

	rr := doRequest(t, router, http.MethodPost, "/projects/"+projectID+"/edits/arrange", map[string]interface{}{
		"track_id": "track-v1",
		"mode":     "manual",
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestSelectionRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)
	projectID := createTestProject(t, router)

	rr := doRequest(t, router, http.MethodPut, "/projects/"+projectID+"/selection", SelectionRequest{
		Selected: []selection.Ref{{TrackID: "track-v1", ElementID: "el-v1"}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("put selection status = %d", rr.Code)
	}

	rr = doRequest(t, router, http.MethodGet, "/projects/"+projectID+"/selection", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get selection status = %d", rr.Code)
	}
	selected, _ := decodeJSONBody(t, rr)["selected"].([]interface{})
	if len(selected) != 1 {
		t.Fatalf("selected = %d, want 1", len(selected))
	}
}

func TestSelectionInvalidatedBySplit(t *testing.T) {
	router, _ := newTestRouter(t)
	projectID := createTestProject(t, router)

	rr := doRequest(t, router, http.MethodPut, "/projects/"+projectID+"/selection", SelectionRequest{
		Selected: []selection.Ref{{TrackID: "track-v1", ElementID: "el-v1"}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("put selection status = %d", rr.Code)
	}

	rr = doRequest(t, router, http.MethodPost, "/projects/"+projectID+"/edits/split", SplitRequest{
		ElementID: "el-v1",
		SplitTime: 5,
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("split status = %d", rr.Code)
	}

	rr = doRequest(t, router, http.MethodGet, "/projects/"+projectID+"/selection", nil)
	selected, _ := decodeJSONBody(t, rr)["selected"].([]interface{})
	if len(selected) != 0 {
		t.Fatalf("selected = %d after split retired the element, want 0", len(selected))
	}
}

func TestExportEDLEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	projectID := createTestProject(t, router)

	rr := doRequest(t, router, http.MethodPost, "/projects/"+projectID+"/export/edl", ExportEDLRequest{
		Title: "My Edit",
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("export status = %d, body = %s", rr.Code, rr.Body.String())
	}

	body := decodeJSONBody(t, rr)
	if got := body["title"]; got != "My Edit" {
		t.Fatalf("title = %v, want My Edit", got)
	}
	if got := body["clip_count"].(float64); got != 1 {
		t.Fatalf("clip_count = %v, want 1", got)
	}
	edl, _ := body["edl"].(string)
	if edl == "" {
		t.Fatal("edl body is empty")
	}
}

func TestPutTimeline_RejectsInvalid(t *testing.T) {
	router, _ := newTestRouter(t)
	projectID := createTestProject(t, router)

	tl := &timeline.Timeline{
		Name: "broken", Width: 1920, Height: 1080, FPS: 30,
		Tracks: []timeline.Track{
			{ID: "t1", Kind: timeline.TrackVideo, Elements: []timeline.Element{
				{ID: "e1", SourceID: "s", StartTime: 0, EndTime: 5},
				{ID: "e2", SourceID: "s", StartTime: 3, EndTime: 8},
			}},
		},
	}
	rr := doRequest(t, router, http.MethodPut, "/projects/"+projectID+"/timeline", tl)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status code = %d, want %d", rr.Code, http.StatusBadRequest)
	}
	if got := decodeJSONBody(t, rr)["code"]; got != "INVALID_TIMELINE" {
		t.Fatalf("code = %v, want INVALID_TIMELINE", got)
	}
}
