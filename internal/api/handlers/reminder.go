package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/reminderflow/internal/api/dto"
	"github.com/pratik-mahalle/reminderflow/internal/domain/reminder"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/utils"
)

// ReminderHandler handles reminder history requests
type ReminderHandler struct {
	service reminder.Service
	logger  *logger.Logger
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(service reminder.Service, log *logger.Logger) *ReminderHandler {
	return &ReminderHandler{
		service: service,
		logger:  log,
	}
}

// List returns a business's reminders, newest scheduled first
func (h *ReminderHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.service.List(r.Context(), chi.URLParam(r, "id"), reminder.Filter{
		Status: r.URL.Query().Get("status"),
		Limit:  utils.ParseLimit(r),
	})
	if err != nil {
		utils.WriteAnyError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.ToReminderDTOs(items))
}
