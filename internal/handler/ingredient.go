package handler

import (
	"errors"
	"net/http"

	"github.com/recipebox/recipebox-go/internal/middleware"
	"github.com/recipebox/recipebox-go/internal/model"
	"github.com/recipebox/recipebox-go/internal/service"
)

// IngredientHandler handles HTTP requests for ingredient operations.
type IngredientHandler struct {
	service *service.IngredientService
}

// NewIngredientHandler creates a new IngredientHandler.
func NewIngredientHandler(svc *service.IngredientService) *IngredientHandler {
	return &IngredientHandler{service: svc}
}

// HandleList handles GET /api/v1/recipe/ingredients requests.
func (h *IngredientHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	ingredients, err := h.service.List(r.Context(), userID, assignedOnlyParam(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, ingredients)
}

// HandleUpdate handles PATCH /api/v1/recipe/ingredients/{ingredient_id} requests.
func (h *IngredientHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	ingredientID, ok := idParam(w, r, "ingredient_id", "ingredient not found")
	if !ok {
		return
	}

	var req model.RenameRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	resp, err := h.service.Rename(r.Context(), userID, ingredientID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIngredientNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
		case errors.Is(err, service.ErrNameRequired), errors.Is(err, service.ErrDuplicateName):
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
		default:
			writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /api/v1/recipe/ingredients/{ingredient_id} requests.
func (h *IngredientHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	ingredientID, ok := idParam(w, r, "ingredient_id", "ingredient not found")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, ingredientID); err != nil {
		if errors.Is(err, service.ErrIngredientNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
