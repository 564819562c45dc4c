package handler

import (
	"errors"
	"net/http"

	"github.com/recipebox/recipebox-go/internal/middleware"
	"github.com/recipebox/recipebox-go/internal/model"
	"github.com/recipebox/recipebox-go/internal/service"
)

// UserHandler handles HTTP requests for registration, token issuance, and
// the authenticated user's own profile.
type UserHandler struct {
	service *service.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc *service.AuthService) *UserHandler {
	return &UserHandler{service: svc}
}

// HandleCreateUser handles POST /api/v1/user/create requests.
func (h *UserHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		if isUserValidationError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// HandleToken handles POST /api/v1/user/token requests. Bad credentials map
// to a generic 400 that does not reveal whether the email exists.
func (h *UserHandler) HandleToken(w http.ResponseWriter, r *http.Request) {
	var req model.TokenRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}

	resp, err := h.service.IssueToken(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleMe handles GET /api/v1/user/me requests.
func (h *UserHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	resp, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// HandleUpdateMe handles PATCH /api/v1/user/me requests. Only name, email,
// and password may be updated; unknown fields are rejected.
func (h *UserHandler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse("unauthorized"))
		return
	}

	var req model.UpdateUserRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}

	resp, err := h.service.UpdateProfile(r.Context(), userID, req)
	if err != nil {
		if isUserValidationError(err) {
			writeJSON(w, http.StatusBadRequest, errorResponse(err.Error()))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResponse("internal server error"))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// isUserValidationError reports whether err should surface as a 400.
// A taken email is a 400 rather than 409: signup probing gets the same
// response shape as any other invalid payload.
func isUserValidationError(err error) bool {
	return errors.Is(err, service.ErrEmailRequired) ||
		errors.Is(err, service.ErrEmailInvalid) ||
		errors.Is(err, service.ErrEmailTaken) ||
		errors.Is(err, service.ErrPasswordTooShort)
}
