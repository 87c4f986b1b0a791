package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	_ "github.com/lib/pq"

	"github.com/ruleflow/ruleflow/flowchart"
	"github.com/ruleflow/ruleflow/internal/logger"
	"github.com/ruleflow/ruleflow/rules"
	"github.com/ruleflow/ruleflow/rulesets"
)

type Server struct {
	db      *sql.DB // nil when running on the in-memory store
	manager *rulesets.Manager
	engine  *rules.Engine
	router  *chi.Mux
}

// NewServer wires the store, manager, and routes. An empty databaseURL runs
// the server on the in-memory store, which is enough for the stateless
// /evaluate endpoint and local experiments.
func NewServer(databaseURL string) (*Server, error) {
	var db *sql.DB
	var store rulesets.RuleSetStore

	if databaseURL != "" {
		var err error
		db, err = sql.Open("postgres", databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
		store = rulesets.NewPostgresRuleSetStore(db)
	} else {
		logger.Logger.Warn("DATABASE_URL not set, using in-memory rule-set store")
		store = rulesets.NewInMemoryRuleSetStore()
	}

	s := &Server{
		db:      db,
		manager: rulesets.NewManager(store),
		engine:  rules.NewEngine(),
	}

	s.setupRoutes()

	return s, nil
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Health check
	r.Get("/api/v1/health", s.handleHealth)

	// Stateless evaluation: rule set travels with the request
	r.Post("/api/v1/evaluate", s.handleEvaluate)

	// Rule-set management and evaluation by ID
	r.Route("/api/v1/rulesets", func(r chi.Router) {
		r.Get("/", s.handleListRuleSets)
		r.Post("/", s.handleCreateRuleSet)

		r.Route("/{ruleSetId}", func(r chi.Router) {
			r.Get("/", s.handleGetRuleSet)
			r.Put("/", s.handleUpdateRuleSet)
			r.Delete("/", s.handleDeleteRuleSet)
			r.Post("/evaluate", s.handleEvaluateRuleSet)
			r.Get("/flow", s.handleFlow)
		})
	})

	s.router = r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Health check handler
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Stateless evaluation handler: the request carries the whole rule set and
// the record, the response is the validation result verbatim.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if req.RuleSet == nil {
		respondError(w, http.StatusBadRequest, "ruleSet is required", nil)
		return
	}
	if req.Record == nil {
		respondError(w, http.StatusBadRequest, "record is required", nil)
		return
	}

	startTime := time.Now()
	result := s.engine.Evaluate(req.RuleSet, req.Record)

	respondJSON(w, http.StatusOK, EvaluateResponse{
		Result:         result,
		EvaluationTime: time.Since(startTime).String(),
	})
}

// Evaluate-by-ID handler
func (s *Server) handleEvaluateRuleSet(w http.ResponseWriter, r *http.Request) {
	ruleSetID := chi.URLParam(r, "ruleSetId")

	var req EvaluateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	if req.Record == nil {
		respondError(w, http.StatusBadRequest, "record is required", nil)
		return
	}

	startTime := time.Now()
	result, err := s.manager.Evaluate(ruleSetID, req.Record)
	if err != nil {
		respondError(w, http.StatusNotFound, "rule set not found", err)
		return
	}

	respondJSON(w, http.StatusOK, EvaluateResponse{
		Result:         result,
		EvaluationTime: time.Since(startTime).String(),
	})
}

// List rule sets handler
func (s *Server) handleListRuleSets(w http.ResponseWriter, r *http.Request) {
	all, err := s.manager.List()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to list rule sets", err)
		return
	}

	respondJSON(w, http.StatusOK, RuleSetsListResponse{RuleSets: all})
}

// Create rule set handler
func (s *Server) handleCreateRuleSet(w http.ResponseWriter, r *http.Request) {
	var rs rules.RuleSet
	if err := json.NewDecoder(r.Body).Decode(&rs); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := s.manager.Create(&rs); err != nil {
		respondError(w, http.StatusBadRequest, "failed to create rule set", err)
		return
	}

	respondJSON(w, http.StatusCreated, &rs)
}

// Get rule set handler
func (s *Server) handleGetRuleSet(w http.ResponseWriter, r *http.Request) {
	ruleSetID := chi.URLParam(r, "ruleSetId")

	rs, err := s.manager.Get(ruleSetID)
	if err != nil {
		respondError(w, http.StatusNotFound, "rule set not found", err)
		return
	}

	respondJSON(w, http.StatusOK, rs)
}

// Update rule set handler
func (s *Server) handleUpdateRuleSet(w http.ResponseWriter, r *http.Request) {
	ruleSetID := chi.URLParam(r, "ruleSetId")

	var rs rules.RuleSet
	if err := json.NewDecoder(r.Body).Decode(&rs); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}
	rs.ID = ruleSetID

	if err := s.manager.Update(&rs); err != nil {
		respondError(w, http.StatusBadRequest, "failed to update rule set", err)
		return
	}

	respondJSON(w, http.StatusOK, &rs)
}

// Delete rule set handler
func (s *Server) handleDeleteRuleSet(w http.ResponseWriter, r *http.Request) {
	ruleSetID := chi.URLParam(r, "ruleSetId")

	if err := s.manager.Delete(ruleSetID); err != nil {
		respondError(w, http.StatusNotFound, "rule set not found", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Flow chart handler: plain-text rendering of the rule flow
func (s *Server) handleFlow(w http.ResponseWriter, r *http.Request) {
	ruleSetID := chi.URLParam(r, "ruleSetId")

	rs, err := s.manager.Get(ruleSetID)
	if err != nil {
		respondError(w, http.StatusNotFound, "rule set not found", err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, flowchart.Render(rs))
}

// Helper functions
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	response := map[string]string{
		"error": message,
	}
	if err != nil {
		response["details"] = err.Error()
	}
	respondJSON(w, status, response)
}

func main() {
	logger.Init()
	log := logger.Logger

	server, err := NewServer(os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Error("failed to create server", "error", err)
		os.Exit(1)
	}
	if server.db != nil {
		defer server.db.Close()
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      server,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Info("server starting", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", "error", err)
	}

	log.Info("server stopped")
}
