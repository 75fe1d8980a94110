package main

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/coopcredit/coopcredit/internal/infrastructure/adapter"
)

// newRouter wires the risk central routes.
func newRouter(logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	h := &riskHandler{logger: logger}
	r.Post("/risk-evaluation", h.evaluate)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("Risk Central Mock Service is running"))
	})

	return r
}

type riskHandler struct {
	logger *slog.Logger
}

func (h *riskHandler) evaluate(w http.ResponseWriter, r *http.Request) {
	var req adapter.RiskEvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	h.logger.InfoContext(r.Context(), "evaluating risk",
		"document", req.Document,
		"amount", req.Amount.String(),
		"term_months", req.TermMonths,
		"request_id", middleware.GetReqID(r.Context()),
	)

	verdict := adapter.ScoreDocument(req.Document)
	score := verdict.Score
	resp := adapter.RiskEvaluationResponse{
		Document:  req.Document,
		Score:     &score,
		RiskLevel: verdict.Level.String(),
		Detail:    verdict.Detail,
	}

	h.logger.InfoContext(r.Context(), "risk evaluation completed",
		"score", score,
		"risk_level", resp.RiskLevel,
	)
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}
