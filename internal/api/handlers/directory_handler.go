package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/openlistings/directory/internal/application/services"
	apperrors "github.com/openlistings/directory/pkg/errors"
)

// DirectoryHandler handles directory search HTTP requests
type DirectoryHandler struct {
	queryService *services.DirectoryQueryService
}

// NewDirectoryHandler creates a new directory handler
func NewDirectoryHandler(queryService *services.DirectoryQueryService) *DirectoryHandler {
	return &DirectoryHandler{
		queryService: queryService,
	}
}

// Search handles GET /api/directory/{state}/{city}/{category}
func (h *DirectoryHandler) Search(w http.ResponseWriter, r *http.Request) {
	params := services.QueryParams{
		State:        r.PathValue("state"),
		City:         r.PathValue("city"),
		CategorySlug: r.PathValue("category"),
		Page:         1,
	}

	if params.State == "" || params.City == "" || params.CategorySlug == "" {
		respondWithError(w, http.StatusBadRequest, "state, city and category are required")
		return
	}

	if pageParam := r.URL.Query().Get("page"); pageParam != "" {
		page, err := strconv.Atoi(pageParam)
		if err != nil || page < 1 {
			respondWithError(w, http.StatusBadRequest, "page must be a positive integer")
			return
		}
		params.Page = page
	}

	result, err := h.queryService.Query(r.Context(), params)
	if err != nil {
		if appErr, ok := err.(*apperrors.AppError); ok {
			switch appErr.Type {
			case apperrors.ErrorTypeNotFound:
				respondWithError(w, http.StatusNotFound, appErr.Message)
			case apperrors.ErrorTypeValidation:
				respondWithError(w, http.StatusBadRequest, appErr.Message)
			default:
				respondWithError(w, http.StatusInternalServerError, "internal server error")
			}
			return
		}
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
