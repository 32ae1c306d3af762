package listing

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/redmonkez12/pheafer-api/internal/auth"
	"github.com/redmonkez12/pheafer-api/internal/httputil"
	"github.com/redmonkez12/pheafer-api/internal/logging"
)

// Handler contains HTTP handlers for listing endpoints
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles listing search
// @Summary      List listings
// @Description  Return every listing, or those whose city contains the query (case-insensitive)
// @Tags         listings
// @Produce      json
// @Param        city query string false "City substring"
// @Success      200 {array} Listing
// @Failure      500 {object} httputil.ErrorResponse
// @Router       /api/listings [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	listings, err := h.service.List(r.Context(), r.URL.Query().Get("city"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	httputil.RespondJSON(w, listings, http.StatusOK)
}

// Get handles fetching one listing
// @Summary      Get listing
// @Tags         listings
// @Produce      json
// @Param        id path string true "Listing ID"
// @Success      200 {object} Listing
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/listings/{id} [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	found, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}
	httputil.RespondJSON(w, found, http.StatusOK)
}

// Create handles listing creation
// @Summary      Create listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body Fields true "Listing fields"
// @Success      201 {object} Listing
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Router       /api/listings [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	created, err := h.service.Create(r.Context(), principal, in)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	logging.GetLoggerFromContext(r.Context()).Info("listing created", "listing_id", created.ID, "user_id", principal.UserID)
	httputil.RespondJSON(w, created, http.StatusCreated)
}

// Update handles full replacement of a listing
// @Summary      Update listing
// @Tags         listings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Param        request body Fields true "Listing fields"
// @Success      200 {object} Listing
// @Failure      400 {object} httputil.ErrorResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      403 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/listings/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var in Input
	if err := httputil.DecodeJSON(r, &in); err != nil {
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	principal, _ := auth.PrincipalFromContext(r.Context())
	updated, err := h.service.Update(r.Context(), principal, chi.URLParam(r, "id"), in)
	if err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	logging.GetLoggerFromContext(r.Context()).Info("listing updated", "listing_id", updated.ID, "user_id", principal.UserID)
	httputil.RespondJSON(w, updated, http.StatusOK)
}

// Delete handles listing removal
// @Summary      Delete listing
// @Tags         listings
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Listing ID"
// @Success      200 {object} httputil.MessageResponse
// @Failure      401 {object} httputil.ErrorResponse
// @Failure      403 {object} httputil.ErrorResponse
// @Failure      404 {object} httputil.ErrorResponse
// @Router       /api/listings/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	principal, _ := auth.PrincipalFromContext(r.Context())
	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		h.respondServiceError(w, r, err)
		return
	}

	logging.GetLoggerFromContext(r.Context()).Info("listing deleted", "listing_id", id, "user_id", principal.UserID)
	httputil.RespondJSON(w, httputil.MessageResponse{Message: "Deleted"}, http.StatusOK)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *ValidationError
	switch {
	case errors.As(err, &validationErr):
		httputil.RespondErrorWithCode(w, validationErr.Message, httputil.CodeValidation, http.StatusBadRequest)
	case errors.Is(err, ErrUnauthenticated):
		httputil.RespondErrorWithCode(w, "authentication token missing", httputil.CodeMissingAuth, http.StatusUnauthorized)
	case errors.Is(err, ErrForbidden):
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeForbidden, http.StatusForbidden)
	case errors.Is(err, ErrNotFound):
		httputil.RespondErrorWithCode(w, "Listing not found.", httputil.CodeNotFound, http.StatusNotFound)
	default:
		logging.GetLoggerFromContext(r.Context()).Error("listing request failed", "error", err.Error())
		httputil.RespondErrorWithCode(w, "Server error", httputil.CodeInternalError, http.StatusInternalServerError)
	}
}
