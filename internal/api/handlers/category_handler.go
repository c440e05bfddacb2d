package handlers

import (
	"net/http"

	"github.com/openlistings/directory/internal/domain/providers"
)

// CategoryHandler handles category catalog HTTP requests
type CategoryHandler struct {
	refData providers.ReferenceDataProvider
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(refData providers.ReferenceDataProvider) *CategoryHandler {
	return &CategoryHandler{
		refData: refData,
	}
}

// ListCategories handles GET /api/categories
func (h *CategoryHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.refData.Categories()

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"categories": categories,
		"count":      len(categories),
	})
}
