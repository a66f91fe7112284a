package server

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/df07/go-pathtracer/pkg/scene"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	s := NewServer(Options{Workers: 2, Seed: 1, AssetDir: t.TempDir()})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(func() {
		s.Close()
		ts.Close()
	})
	return ts
}

func postRender(t *testing.T, ts *httptest.Server, req RenderRequest) (*http.Response, JobView) {
	t.Helper()
	body, _ := json.Marshal(req)
	resp, err := http.Post(ts.URL+"/api/render", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	defer resp.Body.Close()

	var view JobView
	json.NewDecoder(resp.Body).Decode(&view)
	return resp, view
}

func waitForJob(t *testing.T, ts *httptest.Server, id string) JobView {
	t.Helper()
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(ts.URL + "/api/render/" + id)
		if err != nil {
			t.Fatalf("GET failed: %v", err)
		}
		var view JobView
		json.NewDecoder(resp.Body).Decode(&view)
		resp.Body.Close()
		if view.Status != StatusRunning {
			return view
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Timed out waiting for the job")
	return JobView{}
}

func smallRender() RenderRequest {
	return RenderRequest{Scene: "quads", Width: 8, Height: 8, Samples: 1, MaxDepth: 3}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200, got %d", resp.StatusCode)
	}
}

func TestScenes(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/scenes")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var response scene.ScenesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if len(response.Groups) == 0 || len(response.Groups[0].Scenes) == 0 {
		t.Errorf("Expected built-in scenes, got %+v", response)
	}
}

func TestRender_Lifecycle(t *testing.T) {
	ts := newTestServer(t)

	resp, view := postRender(t, ts, smallRender())
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", resp.StatusCode)
	}
	if view.ID == "" || view.Width != 8 || view.Height != 8 {
		t.Fatalf("Unexpected job %+v", view)
	}

	final := waitForJob(t, ts, view.ID)
	if final.Status != StatusDone {
		t.Fatalf("Expected done, got %s (%s)", final.Status, final.Error)
	}
	if final.Stats == nil || final.Stats.Pixels != 64 {
		t.Errorf("Expected stats for 64 pixels, got %+v", final.Stats)
	}

	imgResp, err := http.Get(ts.URL + "/api/render/" + view.ID + "/image")
	if err != nil {
		t.Fatal(err)
	}
	defer imgResp.Body.Close()
	img, err := png.Decode(imgResp.Body)
	if err != nil {
		t.Fatalf("Expected a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("Expected 8x8 image, got %v", b)
	}
}

func TestRender_BadRequests(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name string
		req  RenderRequest
	}{
		{"missing scene", RenderRequest{}},
		{"unknown scene", RenderRequest{Scene: "nope"}},
		{"too wide", RenderRequest{Scene: "quads", Width: maxDimension + 1}},
		{"negative samples", RenderRequest{Scene: "quads", Samples: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := postRender(t, ts, tt.req)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", resp.StatusCode)
			}
		})
	}

	resp, err := http.Get(ts.URL + "/api/render/does-not-exist")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown job, got %d", resp.StatusCode)
	}
}

func TestRender_Cancel(t *testing.T) {
	ts := newTestServer(t)
	_, view := postRender(t, ts, RenderRequest{Scene: "cornell", Width: 200, Height: 200, Samples: 10000})

	req, _ := http.NewRequest(http.MethodDelete, ts.URL+"/api/render/"+view.ID, nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	final := waitForJob(t, ts, view.ID)
	if final.Status != StatusCancelled {
		t.Errorf("Expected cancelled, got %s", final.Status)
	}

	imgResp, err := http.Get(ts.URL + "/api/render/" + view.ID + "/image")
	if err != nil {
		t.Fatal(err)
	}
	imgResp.Body.Close()
	if imgResp.StatusCode != http.StatusConflict {
		t.Errorf("Expected 409 for a cancelled job image, got %d", imgResp.StatusCode)
	}
}

func TestRenderProgress_WebSocket(t *testing.T) {
	ts := newTestServer(t)
	_, view := postRender(t, ts, RenderRequest{Scene: "quads", Width: 32, Height: 32, Samples: 4, MaxDepth: 5})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/render/" + view.ID
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.CloseNow()

	var last ProgressEvent
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		if err := json.Unmarshal(data, &last); err != nil {
			t.Fatalf("Invalid event: %v", err)
		}
		if last.Type != "progress" {
			break
		}
	}

	if last.Type != "complete" || last.JobID != view.ID {
		t.Errorf("Expected a complete event for %s, got %+v", view.ID, last)
	}
	if last.RowsDone != 32 || last.Percent != 100 {
		t.Errorf("Expected all rows done, got %d (%.0f%%)", last.RowsDone, last.Percent)
	}
}
