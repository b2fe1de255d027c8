// Package httpapi exposes the coaching services over HTTP. Handlers are
// thin: decode JSON, call the service, encode JSON. Auth, payments and
// persistence live in the hosting platform, not here.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/puentesglobales/careermastery/internal/ats"
	"github.com/puentesglobales/careermastery/internal/coach"
	. "github.com/puentesglobales/careermastery/internal/logging"
	"github.com/puentesglobales/careermastery/internal/psychometric"
	"github.com/puentesglobales/careermastery/internal/wizard"
)

// maxBodyBytes caps request bodies; CVs and transcripts are text, anything
// bigger is abuse.
const maxBodyBytes = 1 << 20

// Server wires the services into a chi router.
type Server struct {
	coach   *coach.Coach
	ats     *ats.Service
	wizard  *wizard.Engine
	psycho  *psychometric.Engine
	httpSrv *http.Server
}

func NewServer(port int, c *coach.Coach, a *ats.Service, w *wizard.Engine, p *psychometric.Engine) *Server {
	s := &Server{coach: c, ats: a, wizard: w, psycho: p}
	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(90 * time.Second))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/interview/message", s.handleInterviewMessage)
		r.Post("/interview/report", s.handleInterviewReport)

		r.Post("/cv/analyze", s.handleCVAnalyze)
		r.Post("/cv/rewrite", s.handleCVRewrite)
		r.Post("/cv/generate", s.handleCVGenerate)
		r.Post("/cv/wizard/{step}", s.handleWizardStep)

		r.Post("/assessment/init", s.handleAssessmentInit)
		r.Post("/assessment/score", s.handleAssessmentScore)
		r.Post("/assessment/report", s.handleAssessmentReport)
	})

	return r
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	L_info("httpapi: listening", "addr", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

// Handler returns the route tree for tests.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInterviewMessage(w http.ResponseWriter, r *http.Request) {
	var req coach.Request
	if !decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}
	if len(req.History) == 0 {
		writeError(w, http.StatusBadRequest, "history must contain the current message")
		return
	}

	reply, err := s.coach.GetInterviewResponse(r.Context(), req)
	if err != nil {
		// Only context cancellation reaches here; provider failures
		// already degraded to a recovery reply inside the coach.
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

type reportRequest struct {
	UserID         string `json:"userId"`
	CVText         string `json:"cvText"`
	JobDescription string `json:"jobDescription"`
	Lang           string `json:"lang"`
}

func (s *Server) handleInterviewReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if !decode(w, r, &req) {
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	report, err := s.coach.GenerateFinalReport(r.Context(), req.UserID, req.CVText, req.JobDescription, req.Lang)
	if err != nil {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type analyzeRequest struct {
	CVText         string `json:"cvText"`
	JobDescription string `json:"jobDescription"`
	Lang           string `json:"lang"`
}

func (s *Server) handleCVAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decode(w, r, &req) {
		return
	}

	analysis, err := s.ats.AnalyzeCV(r.Context(), req.CVText, req.JobDescription, req.Lang)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

type rewriteRequest struct {
	CVText string `json:"cvText"`
}

func (s *Server) handleCVRewrite(w http.ResponseWriter, r *http.Request) {
	var req rewriteRequest
	if !decode(w, r, &req) {
		return
	}

	rewrite, err := s.ats.RewriteCV(r.Context(), req.CVText)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rewrite)
}

func (s *Server) handleCVGenerate(w http.ResponseWriter, r *http.Request) {
	var req ats.GenerateInput
	if !decode(w, r, &req) {
		return
	}

	cv, err := s.ats.GenerateCV(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, cv)
}

func (s *Server) handleWizardStep(w http.ResponseWriter, r *http.Request) {
	step, err := strconv.Atoi(chi.URLParam(r, "step"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "step must be a number")
		return
	}

	var data wizard.StepData
	if !decode(w, r, &data) {
		return
	}

	result, err := s.wizard.ProcessStep(r.Context(), step, data)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type assessmentInitRequest struct {
	CVText   string `json:"cvText"`
	JobTitle string `json:"jobTitle"`
}

func (s *Server) handleAssessmentInit(w http.ResponseWriter, r *http.Request) {
	var req assessmentInitRequest
	if !decode(w, r, &req) {
		return
	}
	if req.JobTitle == "" {
		writeError(w, http.StatusBadRequest, "jobTitle is required")
		return
	}

	assessment, err := s.psycho.InitializeAssessment(r.Context(), req.CVText, req.JobTitle)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}

type assessmentScoreRequest struct {
	Responses []psychometric.Response `json:"responses"`
	Profile   map[string]float64      `json:"roleProfile"`
}

func (s *Server) handleAssessmentScore(w http.ResponseWriter, r *http.Request) {
	var req assessmentScoreRequest
	if !decode(w, r, &req) {
		return
	}

	results := s.psycho.CalculateResults(req.Responses, req.Profile)
	writeJSON(w, http.StatusOK, results)
}

type assessmentReportRequest struct {
	CVText   string               `json:"cvText"`
	JobTitle string               `json:"jobTitle"`
	Results  psychometric.Results `json:"results"`
}

func (s *Server) handleAssessmentReport(w http.ResponseWriter, r *http.Request) {
	var req assessmentReportRequest
	if !decode(w, r, &req) {
		return
	}

	report, err := s.psycho.GenerateFinalReport(r.Context(), req.CVText, req.JobTitle, req.Results)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		L_warn("httpapi: response encode failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
