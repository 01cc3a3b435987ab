// Package handlers serves match decisions over HTTP.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/lehigh-university-libraries/bibmatch/internal/models"
	"github.com/lehigh-university-libraries/bibmatch/internal/pipeline"
	"github.com/lehigh-university-libraries/bibmatch/internal/storage"
)

type Handler struct {
	store    *storage.DecisionStore
	pipeline *pipeline.Pipeline
	opts     pipeline.Options
}

// New returns a handler deciding records with p, which was built from opts.
func New(p *pipeline.Pipeline, opts pipeline.Options) *Handler {
	return &Handler{
		store:    storage.New(),
		pipeline: p,
		opts:     opts,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	slog.Error(message)
	http.Error(w, message, code)
}

func (h *Handler) getDecisionOrError(w http.ResponseWriter, id string) (*models.DecisionRecord, bool) {
	rec, exists := h.store.Get(id)
	if !exists {
		h.writeError(w, "Decision not found", http.StatusNotFound)
		return nil, false
	}
	return rec, true
}

func summarize(res pipeline.Result) models.OrderSummary {
	return models.OrderSummary{
		ControlNumber: res.Order.ControlNumber,
		ISBNs:         res.Order.ISBNs,
		CallNumber:    res.Order.BranchCallNumber,
		CallType:      res.Order.CallType,
		CallLabel:     res.Order.CallLabel,
		Audience:      res.Order.Audience,
		OrderConflict: res.Order.HasOrderConflict,
		Candidates:    res.Candidates,
	}
}
