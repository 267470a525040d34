package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"cueforge/internal/cue"
	"cueforge/internal/metadata"
	"cueforge/internal/provider/discogs"
	"cueforge/internal/provider/gnudb"
	"cueforge/internal/provider/musicbrainz"
	"cueforge/internal/provider/tracklist"
	"cueforge/internal/splitter"
)

type SheetResponse struct {
	Sheet *cue.Sheet `json:"sheet"`
	Text  string     `json:"text"`
	Path  string     `json:"path,omitempty"`
	Audio string     `json:"audio,omitempty"`
}

type ImportRequest struct {
	Source          string `json:"source"`
	ID              string `json:"id"`
	Header          bool   `json:"header"`
	TrackTitles     bool   `json:"track_titles"`
	TrackPerformers bool   `json:"track_performers"`
	Timings         bool   `json:"timings"`
	Interpolate     bool   `json:"interpolate"`
	DiscNumber      string `json:"disc_number,omitempty"`
}

type TrackEditRequest struct {
	Value string `json:"value"`
}

type SplitRequest struct {
	OutDir string `json:"out_dir,omitempty"`
	Format string `json:"format,omitempty"`
}

type JobResponse struct {
	ID          string    `json:"id"`
	AudioPath   string    `json:"audio_path"`
	Status      JobStatus `json:"status"`
	Progress    int       `json:"progress"`
	Total       int       `json:"total"`
	Error       string    `json:"error,omitempty"`
	Outputs     []string  `json:"outputs,omitempty"`
	CreatedAt   string    `json:"created_at"`
	StartedAt   *string   `json:"started_at,omitempty"`
	CompletedAt *string   `json:"completed_at,omitempty"`
}

// handleSheet serves the current sheet on GET and replaces it from raw cue
// text on PUT.
func (s *Server) handleSheet(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.writeSheet(w)

	case http.MethodPut:
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request body", http.StatusBadRequest)
			return
		}

		sheet, err := cue.Parse(string(body))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		s.mu.Lock()
		s.session.Sheet = sheet
		s.mu.Unlock()
		s.writeSheet(w)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleTrackEdit applies one timeline edit. The path carries the 1-based
// track number and the operation:
// POST /api/sheet/tracks/{n}/{retime|duration|title|performer|delete}
// POST /api/sheet/tracks/add appends a row.
func (s *Server) handleTrackEdit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/sheet/tracks/")
	parts := strings.Split(path, "/")

	if len(parts) == 1 && parts[0] == "add" {
		s.mu.Lock()
		s.session.AddRow()
		s.mu.Unlock()
		s.writeSheet(w)
		return
	}

	if len(parts) != 2 {
		http.Error(w, "Expected /api/sheet/tracks/{number}/{op}", http.StatusBadRequest)
		return
	}

	num, err := strconv.Atoi(parts[0])
	if err != nil {
		http.Error(w, "Invalid track number", http.StatusBadRequest)
		return
	}
	i := num - 1

	var req TrackEditRequest
	if parts[1] != "delete" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
	}

	s.mu.Lock()
	switch parts[1] {
	case "retime":
		err = s.session.Retime(i, req.Value)
	case "duration":
		err = s.session.SetDuration(i, req.Value)
	case "title":
		err = s.session.SetTitle(i, req.Value)
	case "performer":
		err = s.session.SetPerformer(i, req.Value)
	case "delete":
		err = s.session.Delete(i)
	default:
		err = fmt.Errorf("unknown operation %q", parts[1])
	}
	s.mu.Unlock()

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	s.writeSheet(w)
}

// handleImport runs a provider lookup and merges the result into the sheet.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ImportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.ID == "" {
		http.Error(w, "ID is required", http.StatusBadRequest)
		return
	}

	p, err := s.providerFor(req.Source, req.DiscNumber)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := metadata.Options{
		Header:          req.Header,
		TrackTitles:     req.TrackTitles,
		TrackPerformers: req.TrackPerformers,
		Timings:         req.Timings,
		Interpolate:     req.Interpolate,
		DiscNumber:      req.DiscNumber,
	}

	s.mu.Lock()
	err = s.session.Import(r.Context(), p, req.ID, opts)
	s.mu.Unlock()

	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	s.writeSheet(w)
}

func (s *Server) providerFor(source, discNumber string) (metadata.Provider, error) {
	switch metadata.Source(source) {
	case metadata.SourceGnuDB:
		return gnudb.New(), nil
	case metadata.SourceDiscogs:
		c := discogs.New(s.config.DiscogsToken)
		if discNumber != "" {
			return discogsDisc{c: c, discNumber: discNumber}, nil
		}
		return c, nil
	case metadata.SourceMusicBrainz:
		return musicbrainz.New(), nil
	case metadata.SourceTracklist:
		return tracklist.New(), nil
	default:
		return nil, fmt.Errorf("unknown source %q", source)
	}
}

// discogsDisc narrows a discogs lookup to one disc of a multi-disc release.
type discogsDisc struct {
	c          *discogs.Client
	discNumber string
}

func (d discogsDisc) Name() string { return d.c.Name() }

func (d discogsDisc) Lookup(ctx context.Context, id string) (*metadata.Result, error) {
	return d.c.LookupRelease(ctx, id, d.discNumber)
}

// handleSplit starts a background split of the attached audio file.
func (s *Server) handleSplit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SplitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	audioPath := s.session.AudioPath
	s.mu.Unlock()
	if audioPath == "" {
		http.Error(w, "No audio file attached", http.StatusBadRequest)
		return
	}

	outDir := req.OutDir
	if outDir == "" {
		outDir = s.config.OutputDir
	}
	format := req.Format
	if format == "" {
		format = s.config.AudioFormat
	}

	job := s.jobMgr.CreateJob(audioPath, outDir, format)
	s.logger.Info("Created split job %s for %s", job.ID, audioPath)

	go s.processJob(job)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.jobToResponse(job))
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobs := s.jobMgr.ListJobs()
	responses := make([]*JobResponse, len(jobs))
	for i, job := range jobs {
		responses[i] = s.jobToResponse(job)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

func (s *Server) handleJobAction(w http.ResponseWriter, r *http.Request) {
	// Extract job ID from path: /api/jobs/{id} or /api/jobs/{id}/cancel
	path := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Job ID required", http.StatusBadRequest)
		return
	}

	jobID := parts[0]

	// Handle GET /api/jobs/{id}
	if r.Method == http.MethodGet && len(parts) == 1 {
		job, err := s.jobMgr.GetJob(jobID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.jobToResponse(job))
		return
	}

	// Handle POST /api/jobs/{id}/cancel
	if r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "cancel" {
		job, err := s.jobMgr.GetJob(jobID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		if job.Cancel != nil {
			job.Cancel()
		}

		s.jobMgr.UpdateJob(jobID, func(j *Job) {
			j.Status = StatusCancelled
		})

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "cancelled"})
		return
	}

	http.Error(w, "Invalid request", http.StatusBadRequest)
}

func (s *Server) processJob(job *Job) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store cancel function in job
	s.jobMgr.UpdateJob(job.ID, func(j *Job) {
		j.Cancel = cancel
		j.Status = StatusRunning
	})

	s.logger.Info("Starting split job %s", job.ID)

	// Split against a snapshot so concurrent sheet edits don't shift cut
	// points mid-run.
	s.mu.Lock()
	sheet := s.session.Sheet.Clone()
	s.mu.Unlock()

	s.jobMgr.UpdateJob(job.ID, func(j *Job) {
		j.Total = len(sheet.Tracks)
	})

	sp := splitter.New(s.logger, job.Format)
	sp.OnProgress = func(done, total int) {
		s.jobMgr.UpdateJob(job.ID, func(j *Job) {
			j.Progress = done
		})
	}

	outputs, err := sp.Split(ctx, sheet, job.AudioPath, job.OutDir)
	if err != nil {
		s.logger.Error("Split failed: %v", err)
		s.jobMgr.UpdateJob(job.ID, func(j *Job) {
			j.Status = StatusFailed
			j.Error = err.Error()
			j.Outputs = outputs
		})
		return
	}

	// Mark as completed
	s.jobMgr.UpdateJob(job.ID, func(j *Job) {
		j.Status = StatusCompleted
		j.Outputs = outputs
	})

	s.logger.Info("Split job %s completed: %d files", job.ID, len(outputs))
}

func (s *Server) writeSheet(w http.ResponseWriter) {
	s.mu.Lock()
	resp := SheetResponse{
		Sheet: s.session.Sheet,
		Text:  s.session.Text(),
		Path:  s.session.Path,
		Audio: s.session.AudioPath,
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (s *Server) jobToResponse(job *Job) *JobResponse {
	resp := &JobResponse{
		ID:        job.ID,
		AudioPath: job.AudioPath,
		Status:    job.Status,
		Progress:  job.Progress,
		Total:     job.Total,
		Error:     job.Error,
		Outputs:   job.Outputs,
		CreatedAt: job.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	if job.StartedAt != nil {
		started := job.StartedAt.Format("2006-01-02 15:04:05")
		resp.StartedAt = &started
	}

	if job.CompletedAt != nil {
		completed := job.CompletedAt.Format("2006-01-02 15:04:05")
		resp.CompletedAt = &completed
	}

	return resp
}
