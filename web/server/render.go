package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// Request limits keep a single job from exhausting the host
const (
	maxDimension = 4096
	maxSamples   = 100000
	maxDepth     = 500

	writeWait = 10 * time.Second
)

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene    string `json:"scene"`    // Scene id, e.g. "cornell" or "model:bunny"
	Width    int    `json:"width"`    // Optional image width
	Height   int    `json:"height"`   // Optional image height
	Samples  int    `json:"samples"`  // Optional samples per pixel
	MaxDepth int    `json:"maxDepth"` // Optional bounce limit
	Seed     int64  `json:"seed"`     // Optional seed
}

func (req *RenderRequest) validate() error {
	switch {
	case req.Scene == "":
		return errors.New("scene is required")
	case req.Width < 0 || req.Width > maxDimension || req.Height < 0 || req.Height > maxDimension:
		return fmt.Errorf("image dimensions must be between 0 and %d", maxDimension)
	case req.Samples < 0 || req.Samples > maxSamples:
		return fmt.Errorf("samples must be between 0 and %d", maxSamples)
	case req.MaxDepth < 0 || req.MaxDepth > maxDepth:
		return fmt.Errorf("maxDepth must be between 0 and %d", maxDepth)
	}
	return nil
}

func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.opts.AssetDir)
	if err != nil {
		logger.Errorf("list scenes failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list scenes")
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// buildScene creates the requested scene and applies the request's overrides
func (s *Server) buildScene(req *RenderRequest, seed int64) (*scene.Scene, error) {
	sc, err := scene.Create(req.Scene, scene.Options{AssetDir: s.opts.AssetDir, Seed: seed})
	if err != nil {
		return nil, err
	}
	sc.SetImageSize(req.Width, req.Height)
	if req.Samples > 0 {
		sc.SamplingConfig.SamplesPerPixel = req.Samples
	}
	if req.MaxDepth > 0 {
		sc.SamplingConfig.MaxDepth = req.MaxDepth
	}
	return sc, nil
}

func (s *Server) handleCreateRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	seed := req.Seed
	if seed == 0 {
		seed = s.opts.Seed
	}
	sc, err := s.buildScene(&req, seed)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scene.ErrUnknownScene) {
			status = http.StatusBadRequest
		}
		logger.Warningf("scene %q: %v", req.Scene, err)
		writeError(w, status, err.Error())
		return
	}

	ctx, cancel := context.WithCancel(s.baseCtx)
	job := newJob(req.Scene, sc.Camera.Width(), sc.Camera.Height(), cancel)

	rdr, err := renderer.New(sc, renderer.Options{
		Workers:  s.opts.Workers,
		Seed:     seed,
		Progress: func(done, total int) { job.progress(done) },
	})
	if err != nil {
		cancel()
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.jobs.Add(job)
	logger.Infof("job %s: rendering %s at %dx%d", job.ID, req.Scene, sc.Camera.Width(), sc.Camera.Height())

	go func() {
		defer cancel()
		img, stats, err := rdr.Render(ctx)
		job.finish(img, stats, err)
		if err != nil {
			logger.Warningf("job %s: %v", job.ID, err)
			return
		}
		logger.Infof("job %s: finished in %s", job.ID, stats.Duration)
	}()

	writeJSON(w, http.StatusAccepted, job.View())
}

func (s *Server) lookupJob(w http.ResponseWriter, r *http.Request) (*Job, bool) {
	job, ok := s.jobs.Get(mux.Vars(r)["jobId"])
	if !ok {
		writeError(w, http.StatusNotFound, "job not found")
	}
	return job, ok
}

func (s *Server) handleGetRender(w http.ResponseWriter, r *http.Request) {
	if job, ok := s.lookupJob(w, r); ok {
		writeJSON(w, http.StatusOK, job.View())
	}
}

func (s *Server) handleCancelRender(w http.ResponseWriter, r *http.Request) {
	if job, ok := s.lookupJob(w, r); ok {
		job.Cancel()
		writeJSON(w, http.StatusAccepted, job.View())
	}
}

func (s *Server) handleRenderImage(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}
	img, done := job.Image()
	if !done {
		writeError(w, http.StatusConflict, fmt.Sprintf("job is %s", job.View().Status))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := img.WritePNG(w); err != nil {
		logger.Errorf("job %s: encode png: %v", job.ID, err)
	}
}

// handleRenderProgress streams ProgressEvents as JSON text messages until the job finishes
func (s *Server) handleRenderProgress(w http.ResponseWriter, r *http.Request) {
	job, ok := s.lookupJob(w, r)
	if !ok {
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.opts.OriginPatterns})
	if err != nil {
		logger.Errorf("websocket accept: %v", err)
		return
	}
	defer conn.CloseNow()

	events, unsubscribe := job.Subscribe()
	defer unsubscribe()

	// Only writes flow to the client; CloseRead handles control frames
	ctx := conn.CloseRead(r.Context())

	current := job.Event()
	if err := sendEvent(ctx, conn, current); err != nil {
		return
	}
	if current.Type != "progress" {
		conn.Close(websocket.StatusNormalClosure, "")
		return
	}
	for {
		select {
		case event, ok := <-events:
			if !ok {
				if err := sendEvent(ctx, conn, job.Event()); err == nil {
					conn.Close(websocket.StatusNormalClosure, "")
				}
				return
			}
			if err := sendEvent(ctx, conn, event); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func sendEvent(ctx context.Context, conn *websocket.Conn, event ProgressEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	writeCtx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	if err := conn.Write(writeCtx, websocket.MessageText, data); err != nil {
		logger.Debugf("websocket write: %v", err)
		return err
	}
	return nil
}
