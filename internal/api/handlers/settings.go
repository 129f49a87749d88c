package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/reminderflow/internal/api/dto"
	"github.com/pratik-mahalle/reminderflow/internal/domain/settings"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/utils"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/validator"
)

// SettingsHandler handles reminder settings requests
type SettingsHandler struct {
	service   settings.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewSettingsHandler creates a new reminder settings handler
func NewSettingsHandler(service settings.Service, log *logger.Logger, val *validator.Validator) *SettingsHandler {
	return &SettingsHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// Get returns a business's reminder settings
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteAnyError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.ToReminderSettingsDTO(s))
}

// Upsert inserts or updates a business's reminder settings
func (h *SettingsHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req dto.UpsertReminderSettingsRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	s, err := h.service.Upsert(r.Context(), req.Upsert(chi.URLParam(r, "id")))
	if err != nil {
		utils.WriteAnyError(w, err)
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Reminder settings saved", dto.ToReminderSettingsDTO(s))
}
