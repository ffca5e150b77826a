package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/Harshitk-cp/claimcheck/internal/domain"
	"github.com/Harshitk-cp/claimcheck/internal/service"
	"github.com/go-chi/chi/v5"
)

// EmptyTypeParam addresses the bucket of claims with no type in URL paths.
const EmptyTypeParam = "_"

type ClaimHandler struct {
	svc *service.ConsistencyService
}

func NewClaimHandler(svc *service.ConsistencyService) *ClaimHandler {
	return &ClaimHandler{svc: svc}
}

func (h *ClaimHandler) Check(w http.ResponseWriter, r *http.Request) {
	var claim domain.Claim
	if err := json.NewDecoder(r.Body).Decode(&claim); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.Check(r.Context(), &claim)
	if err != nil {
		if errors.Is(err, service.ErrInvalidClaim) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to check claim")
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (h *ClaimHandler) ListConflicts(w http.ResponseWriter, r *http.Request) {
	subjectID := r.URL.Query().Get("subject_id")
	if subjectID == "" {
		writeError(w, http.StatusBadRequest, "subject_id is required")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	conflicts, err := h.svc.ListConflicts(r.Context(), subjectID, limit)
	if err != nil {
		if errors.Is(err, service.ErrConflictLogDisabled) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to list conflicts")
		return
	}
	if conflicts == nil {
		conflicts = []domain.ClaimConflict{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"conflicts": conflicts})
}

func (h *ClaimHandler) InvalidateIndex(w http.ResponseWriter, r *http.Request) {
	claimType := chi.URLParam(r, "type")
	if claimType == EmptyTypeParam {
		claimType = ""
	}
	h.svc.Invalidate(claimType)
	w.WriteHeader(http.StatusNoContent)
}
