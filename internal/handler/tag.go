package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/recipebox/recipebox-go/internal/middleware"
	"github.com/recipebox/recipebox-go/internal/model"
	"github.com/recipebox/recipebox-go/internal/service"
)

// TagHandler handles HTTP requests for tag operations. Tags are created
// implicitly through recipe writes, so there is no create endpoint here.
type TagHandler struct {
	service *service.TagService
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(svc *service.TagService) *TagHandler {
	return &TagHandler{service: svc}
}

// HandleList handles GET /api/v1/recipe/tags requests. assigned_only=1
// restricts the list to tags referenced by at least one recipe.
func (h *TagHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	tags, err := h.service.List(r.Context(), userID, assignedOnlyParam(r))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, tags)
}

// HandleUpdate handles PATCH /api/v1/recipe/tags/{tag_id} requests.
func (h *TagHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	tagID, ok := idParam(w, r, "tag_id", "tag not found")
	if !ok {
		return
	}

	var req model.RenameRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	resp, err := h.service.Rename(r.Context(), userID, tagID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTagNotFound):
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

// HandleDelete handles DELETE /api/v1/recipe/tags/{tag_id} requests.
func (h *TagHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	tagID, ok := idParam(w, r, "tag_id", "tag not found")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, tagID); err != nil {
		if errors.Is(err, service.ErrTagNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// idParam parses a numeric URL parameter; failures read as 404 with the given
// message, same as a row that does not exist.
func idParam(w http.ResponseWriter, r *http.Request, name, notFoundMsg string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		writeJSON(w, http.StatusNotFound, errorResponse(notFoundMsg))
		return 0, false
	}
	return id, true
}

func assignedOnlyParam(r *http.Request) bool {
	v := r.URL.Query().Get("assigned_only")
	return v == "1" || v == "true"
}
