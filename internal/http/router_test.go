package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"voice-task-service/internal/directory"
	"voice-task-service/internal/events"
	"voice-task-service/internal/models"
	"voice-task-service/internal/service/extraction"
	"voice-task-service/internal/service/intake"
	"voice-task-service/internal/service/pipeline"
	"voice-task-service/internal/service/stt/mock"
)

func newTestServer() *httptest.Server {
	cfg := pipeline.Config{
		Limits:               intake.DefaultLimits(),
		Language:             "fr",
		Provider:             "mock",
		ReliabilityThreshold: 0.7,
		ReconcilePolicy:      extraction.PolicyHighestConfidence,
		PreviewTTL:           24 * time.Hour,
	}
	orchestrator := pipeline.New(cfg, mock.New(), nil, events.New(nil), directory.NewSeeded())
	return httptest.NewServer(NewRouter(orchestrator))
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return v
}

func createAndFillUpload(t *testing.T, ts *httptest.Server) string {
	t.Helper()

	resp := postJSON(t, ts.URL+"/v1/uploads", map[string]string{"mediaType": "audio/webm"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create upload status = %d", resp.StatusCode)
	}
	created := decode[map[string]any](t, resp)
	uploadID, _ := created["uploadId"].(string)
	if uploadID == "" {
		t.Fatal("expected an upload ID")
	}

	req, err := http.NewRequest(http.MethodPut, ts.URL+"/v1/uploads/"+uploadID+"/chunks/0", bytes.NewReader([]byte{0x01, 0x02}))
	if err != nil {
		t.Fatal(err)
	}
	chunkResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	chunkResp.Body.Close()
	if chunkResp.StatusCode != http.StatusNoContent {
		t.Fatalf("put chunk status = %d", chunkResp.StatusCode)
	}
	return uploadID
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	for _, path := range []string{"/v1/liveness", "/v1/readiness"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d", path, resp.StatusCode)
		}
	}
}

func TestUploadLifecycle(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	uploadID := createAndFillUpload(t, ts)

	resp := postJSON(t, ts.URL+"/v1/uploads/"+uploadID+"/process", map[string]string{"householdId": "demo-household"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("process status = %d", resp.StatusCode)
	}
	out := decode[pipeline.Outcome](t, resp)
	if out.Status != "ok" {
		t.Errorf("expected ok outcome, got %s (%s)", out.Status, out.ReviewReason)
	}
	p := out.Preview
	if p.Status != models.PreviewPending {
		t.Errorf("expected pending preview, got %s", p.Status)
	}
	if p.Category != models.CategoryTransport {
		t.Errorf("expected transport category, got %s", p.Category)
	}

	listResp, err := http.Get(ts.URL + "/v1/previews?household_id=demo-household")
	if err != nil {
		t.Fatal(err)
	}
	if listResp.StatusCode != http.StatusOK {
		t.Fatalf("list previews status = %d", listResp.StatusCode)
	}
	previews := decode[[]models.TaskPreview](t, listResp)
	if len(previews) != 1 || previews[0].PreviewID != p.PreviewID {
		t.Errorf("unexpected preview listing: %+v", previews)
	}
}

func TestConfirmAndListTasks(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	uploadID := createAndFillUpload(t, ts)
	resp := postJSON(t, ts.URL+"/v1/uploads/"+uploadID+"/process", map[string]string{"householdId": "demo-household"})
	p := decode[pipeline.Outcome](t, resp).Preview

	confirmResp := postJSON(t, ts.URL+"/v1/previews/"+p.PreviewID+"/confirm", map[string]string{"assigneeId": "member-bruno"})
	if confirmResp.StatusCode != http.StatusOK {
		t.Fatalf("confirm status = %d", confirmResp.StatusCode)
	}
	task := decode[models.GeneratedTask](t, confirmResp)
	if task.PreviewID != p.PreviewID || task.AssigneeID != "member-bruno" {
		t.Errorf("unexpected task: %+v", task)
	}

	tasksResp, err := http.Get(ts.URL + "/v1/tasks?household_id=demo-household")
	if err != nil {
		t.Fatal(err)
	}
	tasks := decode[[]models.GeneratedTask](t, tasksResp)
	if len(tasks) != 1 || tasks[0].TaskID != task.TaskID {
		t.Errorf("unexpected task listing: %+v", tasks)
	}
}

func TestCancelPreviewEndpoint(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	uploadID := createAndFillUpload(t, ts)
	resp := postJSON(t, ts.URL+"/v1/uploads/"+uploadID+"/process", map[string]string{"householdId": "demo-household"})
	p := decode[pipeline.Outcome](t, resp).Preview

	cancelResp := postJSON(t, ts.URL+"/v1/previews/"+p.PreviewID+"/cancel", struct{}{})
	cancelResp.Body.Close()
	if cancelResp.StatusCode != http.StatusNoContent {
		t.Fatalf("cancel status = %d", cancelResp.StatusCode)
	}

	listResp, err := http.Get(ts.URL + "/v1/previews?household_id=demo-household")
	if err != nil {
		t.Fatal(err)
	}
	previews := decode[[]models.TaskPreview](t, listResp)
	if len(previews) != 0 {
		t.Errorf("expected empty listing after cancel, got %+v", previews)
	}
}

func TestUpdatePreviewEndpoint(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	uploadID := createAndFillUpload(t, ts)
	resp := postJSON(t, ts.URL+"/v1/uploads/"+uploadID+"/process", map[string]string{"householdId": "demo-household"})
	p := decode[pipeline.Outcome](t, resp).Preview

	payload, _ := json.Marshal(map[string]any{"priority": "high", "title": "Covoiturage foot"})
	req, err := http.NewRequest(http.MethodPatch, ts.URL+"/v1/previews/"+p.PreviewID, bytes.NewReader(payload))
	if err != nil {
		t.Fatal(err)
	}
	patchResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	if patchResp.StatusCode != http.StatusOK {
		t.Fatalf("patch status = %d", patchResp.StatusCode)
	}
	updated := decode[models.TaskPreview](t, patchResp)
	if updated.Priority != models.UrgencyHigh || updated.Title != "Covoiturage foot" {
		t.Errorf("unexpected updated preview: %+v", updated)
	}
	if updated.Weight.Total <= p.Weight.Total {
		t.Error("expected raising priority to raise the charge weight")
	}
}

func TestUpdatePreview_RejectsUnknownEnums(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	uploadID := createAndFillUpload(t, ts)
	resp := postJSON(t, ts.URL+"/v1/uploads/"+uploadID+"/process", map[string]string{"householdId": "demo-household"})
	p := decode[pipeline.Outcome](t, resp).Preview

	for name, payload := range map[string]map[string]any{
		"category": {"category": "bogus"},
		"priority": {"priority": "bogus"},
	} {
		t.Run(name, func(t *testing.T) {
			body, _ := json.Marshal(payload)
			req, err := http.NewRequest(http.MethodPatch, ts.URL+"/v1/previews/"+p.PreviewID, bytes.NewReader(body))
			if err != nil {
				t.Fatal(err)
			}
			patchResp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatal(err)
			}
			patchResp.Body.Close()
			if patchResp.StatusCode != http.StatusBadRequest {
				t.Errorf("expected 400 for unknown %s, got %d", name, patchResp.StatusCode)
			}
		})
	}

	listResp, err := http.Get(ts.URL + "/v1/previews?household_id=demo-household")
	if err != nil {
		t.Fatal(err)
	}
	previews := decode[[]models.TaskPreview](t, listResp)
	if len(previews) != 1 || previews[0].Category != p.Category || previews[0].Priority != p.Priority {
		t.Errorf("expected preview unchanged after rejected edits, got %+v", previews)
	}
}

func TestCreateUpload_DeclaredSizeAndEstimate(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	// Declared size over the limit is rejected before a session exists.
	resp := postJSON(t, ts.URL+"/v1/uploads", map[string]any{
		"mediaType": "audio/webm",
		"sizeBytes": 11 * 1024 * 1024,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413 for declared oversize, got %d", resp.StatusCode)
	}

	// A declared duration yields a positive processing estimate.
	resp = postJSON(t, ts.URL+"/v1/uploads", map[string]any{
		"mediaType":       "audio/webm",
		"sizeBytes":       512 * 1024,
		"durationSeconds": 30,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create upload status = %d", resp.StatusCode)
	}
	created := decode[map[string]any](t, resp)
	if est, _ := created["estimatedProcessingSeconds"].(float64); est <= 0 {
		t.Errorf("expected a positive processing estimate, got %v", created["estimatedProcessingSeconds"])
	}

	// Negative declarations are malformed.
	resp = postJSON(t, ts.URL+"/v1/uploads", map[string]any{
		"mediaType": "audio/webm",
		"sizeBytes": -1,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 for negative size, got %d", resp.StatusCode)
	}
}

func TestErrorMapping(t *testing.T) {
	ts := newTestServer()
	defer ts.Close()

	// Unsupported media type
	resp := postJSON(t, ts.URL+"/v1/uploads", map[string]string{"mediaType": "video/avi"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("expected 415, got %d", resp.StatusCode)
	}

	// Unknown upload
	resp = postJSON(t, ts.URL+"/v1/uploads/nope/process", map[string]string{"householdId": "demo-household"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown upload, got %d", resp.StatusCode)
	}

	// Unknown preview
	resp = postJSON(t, ts.URL+"/v1/previews/nope/confirm", map[string]string{"assigneeId": "member-bruno"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown preview, got %d", resp.StatusCode)
	}

	// Missing household filter
	getResp, err := http.Get(ts.URL + "/v1/previews")
	if err != nil {
		t.Fatal(err)
	}
	getResp.Body.Close()
	if getResp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400 without household_id, got %d", getResp.StatusCode)
	}

	// Empty upload cannot be processed
	createResp := postJSON(t, ts.URL+"/v1/uploads", map[string]string{"mediaType": "audio/webm"})
	created := decode[map[string]any](t, createResp)
	resp = postJSON(t, ts.URL+"/v1/uploads/"+created["uploadId"].(string)+"/process", map[string]string{"householdId": "demo-household"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("expected 409 for empty upload, got %d", resp.StatusCode)
	}
}
