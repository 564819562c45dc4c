package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/recipebox/recipebox-go/internal/middleware"
	"github.com/recipebox/recipebox-go/internal/model"
	"github.com/recipebox/recipebox-go/internal/service"
)

const maxImageUploadBytes = 10 << 20 // 10MB

// RecipeHandler handles HTTP requests for recipe operations.
type RecipeHandler struct {
	service *service.RecipeService
}

// NewRecipeHandler creates a new RecipeHandler.
func NewRecipeHandler(svc *service.RecipeService) *RecipeHandler {
	return &RecipeHandler{service: svc}
}

// HandleList handles GET /api/v1/recipe/recipes requests. The tags and
// ingredients query parameters take comma-separated numeric ID lists.
func (h *RecipeHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	tagIDs, err := parseIDList(r.URL.Query().Get("tags"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("tags must be a comma-separated list of numeric IDs"))
		return
	}
	ingredientIDs, err := parseIDList(r.URL.Query().Get("ingredients"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("ingredients must be a comma-separated list of numeric IDs"))
		return
	}

	recipes, err := h.service.List(r.Context(), userID, tagIDs, ingredientIDs)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, recipes)
}

// HandleCreate handles POST /api/v1/recipe/recipes requests.
func (h *RecipeHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.CreateRecipeRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	resp, err := h.service.Create(r.Context(), userID, req)
	if err != nil {
		if isRecipeValidationError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleGet handles GET /api/v1/recipe/recipes/{recipe_id} requests.
func (h *RecipeHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	recipeID, ok := recipeIDParam(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Get(r.Context(), userID, recipeID)
	if err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdate handles PATCH /api/v1/recipe/recipes/{recipe_id} requests.
func (h *RecipeHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	recipeID, ok := recipeIDParam(w, r)
	if !ok {
		return
	}

	var req model.UpdateRecipeRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	resp, err := h.service.Update(r.Context(), userID, recipeID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case isRecipeValidationError(err):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /api/v1/recipe/recipes/{recipe_id} requests.
func (h *RecipeHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	recipeID, ok := recipeIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, recipeID); err != nil {
		if errors.Is(err, service.ErrRecipeNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleUploadImage handles POST /api/v1/recipe/recipes/{recipe_id}/upload-image
// requests, a multipart form with a single "image" field.
func (h *RecipeHandler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	recipeID, ok := recipeIDParam(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)

	file, _, err := r.FormFile("image")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("image file is required"))
		return
	}
	defer file.Close()

	resp, err := h.service.UploadImage(r.Context(), userID, recipeID, file)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRecipeNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case errors.Is(err, service.ErrInvalidImage):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// recipeIDParam parses the recipe_id URL parameter. Non-numeric IDs read as
// 404, same as an ID that does not exist.
func recipeIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "recipe_id"), 10, 64)
	if err != nil || id < 1 {
		writeJSON(w, http.StatusNotFound, errorResponse("recipe not found"))
		return 0, false
	}
	return id, true
}

// parseIDList parses a comma-separated list of numeric IDs; "" means no filter.
func parseIDList(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func isRecipeValidationError(err error) bool {
	return errors.Is(err, service.ErrTitleRequired) ||
		errors.Is(err, service.ErrTimeMinutesInvalid) ||
		errors.Is(err, service.ErrPriceInvalid) ||
		errors.Is(err, service.ErrNameRequired)
}
