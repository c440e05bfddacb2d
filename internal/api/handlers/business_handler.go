package handlers

import (
	"net/http"

	"github.com/openlistings/directory/internal/domain/repositories"
	apperrors "github.com/openlistings/directory/pkg/errors"
)

// BusinessHandler handles business-profile HTTP requests
type BusinessHandler struct {
	businessRepo repositories.BusinessRepository
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(businessRepo repositories.BusinessRepository) *BusinessHandler {
	return &BusinessHandler{
		businessRepo: businessRepo,
	}
}

// GetBusiness handles GET /api/businesses/{slug}
func (h *BusinessHandler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		respondWithError(w, http.StatusBadRequest, "business slug is required")
		return
	}

	business, err := h.businessRepo.GetBySlug(r.Context(), slug)
	if err != nil {
		if apperrors.IsNotFound(err) {
			respondWithError(w, http.StatusNotFound, "business not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, business)
}
