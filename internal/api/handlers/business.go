package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/reminderflow/internal/api/dto"
	"github.com/pratik-mahalle/reminderflow/internal/domain/business"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/utils"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/validator"
)

// BusinessHandler handles business-related requests
type BusinessHandler struct {
	service   business.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(service business.Service, log *logger.Logger, val *validator.Validator) *BusinessHandler {
	return &BusinessHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// Mine returns the business owned by the authenticated user
func (h *BusinessHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	b, err := h.service.GetByUserID(r.Context(), userID)
	if err != nil {
		utils.WriteAnyError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.ToBusinessDTO(b))
}

// ByUser returns the business owned by the user in the path, which must be
// the authenticated user
func (h *BusinessHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	if chi.URLParam(r, "id") != userID {
		utils.WriteError(w, errors.Forbidden("Access denied"))
		return
	}

	b, err := h.service.GetByUserID(r.Context(), userID)
	if err != nil {
		utils.WriteAnyError(w, err)
		return
	}

	utils.WriteSuccess(w, http.StatusOK, dto.ToBusinessDTO(b))
}

// Create creates the authenticated user's business (OAuth onboarding)
func (h *BusinessHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.CreateBusinessRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	created, err := h.service.Create(r.Context(), &business.Business{
		UserID:   userID,
		Name:     req.Name,
		LogoURL:  req.LogoURL,
		Timezone: req.Timezone,
		Language: req.Language,
	})
	if err != nil {
		h.logger.WarnWithErr(err, "Failed to create business")
		utils.WriteAnyError(w, err)
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusCreated, "Business created", dto.ToBusinessDTO(created))
}

// Update applies a partial update to a business
func (h *BusinessHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req dto.UpdateBusinessRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	id := chi.URLParam(r, "id")
	existing, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		utils.WriteAnyError(w, err)
		return
	}
	if existing.UserID != userID {
		utils.WriteError(w, errors.Forbidden("Access denied"))
		return
	}

	updated, err := h.service.Update(r.Context(), id, req.Patch())
	if err != nil {
		utils.WriteAnyError(w, err)
		return
	}

	utils.WriteSuccessWithMessage(w, http.StatusOK, "Business updated", dto.ToBusinessDTO(updated))
}
