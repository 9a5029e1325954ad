package server

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/jonathan/skillmatch/internal/cache"
	"github.com/jonathan/skillmatch/internal/db"
	"github.com/jonathan/skillmatch/internal/ingestion"
	"github.com/jonathan/skillmatch/internal/matching"
	"github.com/jonathan/skillmatch/internal/pipeline"
	"github.com/jonathan/skillmatch/internal/sections"
	"github.com/jonathan/skillmatch/internal/types"
)

// ExtractRequest represents the request body for /extract
type ExtractRequest struct {
	Text string `json:"text"`
}

// ExtractResponse represents the response for /extract
type ExtractResponse struct {
	Skills types.SkillSet `json:"skills"`
	Count  int            `json:"count"`
}

// SegmentRequest represents the request body for /segment. Either Section
// names a predefined section or Headers are given.
type SegmentRequest struct {
	Text    string   `json:"text"`
	Section string   `json:"section,omitempty" validate:"omitempty,oneof=projects internships"`
	Headers []string `json:"headers,omitempty" validate:"required_without=Section,dive,required"`
	Stops   []string `json:"stops,omitempty" validate:"dive,required"`
}

// SegmentResponse represents the response for /segment
type SegmentResponse struct {
	Name    string         `json:"name,omitempty"`
	Section string         `json:"section"`
	Skills  types.SkillSet `json:"skills"`
}

// NormalizeJobRequest represents the request body for /jobs/normalize
type NormalizeJobRequest struct {
	Record types.JobRecord `json:"record" validate:"required"`
}

// MatchRequest represents the request body for /match
type MatchRequest struct {
	ResumeSkills []string `json:"resume_skills"`
	JobSkills    []string `json:"job_skills"`
}

// BatchMatchRequest represents the request body for /match/batch
type BatchMatchRequest struct {
	ResumeText string            `json:"resume_text" validate:"required"`
	Jobs       []types.JobRecord `json:"jobs" validate:"required"`
	Keywords   []string          `json:"keywords,omitempty"`
	MaxJobs    int               `json:"max_jobs,omitempty" validate:"gte=0"`
	RequestID  string            `json:"request_id,omitempty" validate:"omitempty,max=128"`
}

// handleExtract extracts the skill set from free text
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req ExtractRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	skills := s.extractor.Extract(r.Context(), ingestion.Normalize(req.Text))
	s.jsonResponse(w, http.StatusOK, ExtractResponse{Skills: skills, Count: skills.Len()})
}

// handleSegment extracts a section and its skills
func (s *Server) handleSegment(w http.ResponseWriter, r *http.Request) {
	var req SegmentRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	spec := sections.Spec{Headers: req.Headers, Stops: req.Stops}
	switch req.Section {
	case sections.ProjectsSpec.Name:
		spec = sections.ProjectsSpec
	case sections.InternshipsSpec.Name:
		spec = sections.InternshipsSpec
	}

	section := sections.KeywordSegmenter{}.Segment(req.Text, spec)
	resp := SegmentResponse{Name: section.Name, Section: section.Text}
	if section.Text != "" {
		resp.Skills = s.extractor.Extract(r.Context(), ingestion.Normalize(section.Text))
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleNormalizeJob maps a raw job record onto a NormalizedJob
func (s *Server) handleNormalizeJob(w http.ResponseWriter, r *http.Request) {
	var req NormalizeJobRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, s.normalizer.Normalize(r.Context(), req.Record))
}

// handleMatch scores two skill sets, consulting the cache when configured
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req MatchRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	resume := types.NewSkillSet(req.ResumeSkills...)
	job := types.NewSkillSet(req.JobSkills...)

	if s.cache != nil {
		cached, err := s.cache.Get(r.Context(), resume, job)
		if err == nil {
			w.Header().Set("X-Cache", "HIT")
			s.jsonResponse(w, http.StatusOK, cached)
			return
		}
		if !errors.Is(err, cache.ErrKeyNotExist) {
			log.Printf("[MATCH] cache read failed: %v", err)
		}
	}

	result := matching.Score(resume, job)
	if s.cache != nil {
		if err := s.cache.Set(r.Context(), resume, job, result); err != nil {
			log.Printf("[MATCH] cache write failed: %v", err)
		}
		w.Header().Set("X-Cache", "MISS")
	}
	s.jsonResponse(w, http.StatusOK, result)
}

func (s *Server) batchOptions(req BatchMatchRequest) pipeline.RunOptions {
	opts := pipeline.RunOptions{
		ResumeText:  req.ResumeText,
		Jobs:        req.Jobs,
		Keywords:    req.Keywords,
		MaxJobs:     req.MaxJobs,
		Concurrency: s.concurrency,
		Extractor:   s.extractor,
		RequestID:   req.RequestID,
	}
	if s.store != nil {
		opts.Store = s.store
	}
	return opts
}

// handleMatchBatch analyzes a resume and ranks the given job records against it
func (s *Server) handleMatchBatch(w http.ResponseWriter, r *http.Request) {
	var req BatchMatchRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	result, err := pipeline.RunPipeline(r.Context(), s.batchOptions(req))
	if err != nil {
		log.Printf("Batch match failed: %v", err)
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, result)
}

// handleMatchBatchStream runs a batch match and streams progress via SSE
func (s *Server) handleMatchBatchStream(w http.ResponseWriter, r *http.Request) {
	var req BatchMatchRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	stream, err := newProgressStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	opts := s.batchOptions(req)
	opts.OnProgress = func(event pipeline.ProgressEvent) {
		if err := stream.step(event); err != nil {
			log.Printf("Error writing SSE event: %v", err)
		}
	}

	result, err := pipeline.RunPipeline(r.Context(), opts)
	if err != nil {
		log.Printf("Streaming batch match failed: %v", err)
		_ = stream.fail(err)
		_ = stream.complete(req.RequestID, "failed")
		return
	}

	if err := stream.result(result); err != nil {
		log.Printf("Error writing SSE event: %v", err)
	}
	_ = stream.complete(req.RequestID, "completed")
}

func (s *Server) resumeID(r *http.Request) (uuid.UUID, error) {
	if s.store == nil {
		return uuid.Nil, &ErrUnavailable{Service: "database"}
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		return uuid.Nil, &ErrValidation{Field: "id", Message: "must be a UUID"}
	}
	return id, nil
}

// handleGetResume returns a stored resume analysis
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	id, err := s.resumeID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	resume, err := s.store.GetResume(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if resume == nil {
		s.writeError(w, &ErrNotFound{Resource: "resume", ID: id.String()})
		return
	}
	s.jsonResponse(w, http.StatusOK, resume)
}

// handleListResumeMatches lists stored matches for a resume, best first
func (s *Server) handleListResumeMatches(w http.ResponseWriter, r *http.Request) {
	id, err := s.resumeID(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil || limit < 0 {
			s.writeError(w, &ErrValidation{Field: "limit", Message: "must be a non-negative integer"})
			return
		}
	}

	rows, err := s.store.ListMatchesForResume(r.Context(), id, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if rows == nil {
		rows = []db.MatchRow{}
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"resume_id": id,
		"matches":   rows,
	})
}
