package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/reminderflow/internal/api/dto"
	"github.com/pratik-mahalle/reminderflow/internal/domain/integration"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/utils"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/validator"
)

// IntegrationHandler handles calendar integration requests
type IntegrationHandler struct {
	service   integration.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewIntegrationHandler creates a new calendar integration handler
func NewIntegrationHandler(service integration.Service, log *logger.Logger, val *validator.Validator) *IntegrationHandler {
	return &IntegrationHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// List returns a business's calendar integrations
func (h *IntegrationHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteAnyError(w, err)
		return
	}

	out := make([]*dto.CalendarIntegrationDTO, 0, len(items))
	for _, c := range items {
		out = append(out, dto.ToCalendarIntegrationDTO(c))
	}
	utils.WriteSuccess(w, http.StatusOK, out)
}

// Create links a calendar provider to a business
func (h *IntegrationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateIntegrationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	c := &integration.CalendarIntegration{
		BusinessID:   chi.URLParam(r, "id"),
		Provider:     req.Provider,
		AccessToken:  req.AccessToken,
		RefreshToken: req.RefreshToken,
		CalendarID:   req.CalendarID,
		SyncEnabled:  true,
	}
	if req.SyncEnabled != nil {
		c.SyncEnabled = *req.SyncEnabled
	}

	created, err := h.service.Create(r.Context(), c)
	if err != nil {
		utils.WriteAnyError(w, err)
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusCreated, "Integration created", dto.ToCalendarIntegrationDTO(created))
}

// Update applies a partial update to an integration
func (h *IntegrationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateIntegrationRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.Patch())
	if err != nil {
		utils.WriteAnyError(w, err)
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Integration updated", dto.ToCalendarIntegrationDTO(updated))
}

// Delete removes an integration; removing an unknown id succeeds
func (h *IntegrationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteAnyError(w, err)
		return
	}
	utils.WriteNoContent(w)
}
