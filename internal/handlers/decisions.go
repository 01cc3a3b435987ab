package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lehigh-university-libraries/bibmatch/internal/dataset"
	"github.com/lehigh-university-libraries/bibmatch/internal/models"
)

// maxBody bounds a decision request; one MARC record is far smaller.
const maxBody = 1 << 20

// HandleDecisions lists stored decisions (GET) or decides a new record (POST).
func (h *Handler) HandleDecisions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, http.StatusOK, h.store.List())
	case http.MethodPost:
		h.handleDecide(w, r)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) handleDecide(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ID      string `json:"id"`
		MARC    string `json:"marc"`
		Library string `json:"library"`
	}

	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(request.MARC) == "" {
		h.writeError(w, "marc is required", http.StatusBadRequest)
		return
	}

	row := dataset.Row{ID: request.ID, MARC: request.MARC, Library: request.Library}
	res := h.pipeline.Process(r.Context(), 0, row)

	rec := &models.DecisionRecord{
		ID:        uuid.NewString(),
		RecordID:  request.ID,
		System:    h.opts.System,
		Library:   res.Library,
		Agent:     h.opts.Agent,
		CreatedAt: time.Now(),
	}
	if res.Failed() {
		rec.Error = res.Err.Error()
		h.store.Set(rec)
		h.writeJSON(w, http.StatusUnprocessableEntity, rec)
		return
	}

	d := res.Decision
	rec.Order = summarize(res)
	rec.Decision = &d
	h.store.Set(rec)

	h.writeJSON(w, http.StatusCreated, rec)
}

// HandleDecisionDetail returns (GET) or forgets (DELETE) one stored decision.
func (h *Handler) HandleDecisionDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/decisions/")

	rec, ok := h.getDecisionOrError(w, id)
	if !ok {
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.writeJSON(w, http.StatusOK, rec)
	case http.MethodDelete:
		h.store.Delete(id)
		w.WriteHeader(http.StatusNoContent)
	default:
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}
