package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/reminderflow/internal/api/dto"
	"github.com/pratik-mahalle/reminderflow/internal/domain/appointment"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/errors"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/utils"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/validator"
)

// AppointmentHandler handles appointment requests
type AppointmentHandler struct {
	service   appointment.Service
	logger    *logger.Logger
	validator *validator.Validator
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(service appointment.Service, log *logger.Logger, val *validator.Validator) *AppointmentHandler {
	return &AppointmentHandler{
		service:   service,
		logger:    log,
		validator: val,
	}
}

// List returns a business's appointments ordered by start time.
// Supports status, from, to (RFC 3339) and limit query parameters.
func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	from, ok := utils.ParseTimeQuery(r, "from")
	if !ok {
		utils.WriteError(w, errors.BadRequest("from must be an RFC 3339 timestamp"))
		return
	}
	to, ok := utils.ParseTimeQuery(r, "to")
	if !ok {
		utils.WriteError(w, errors.BadRequest("to must be an RFC 3339 timestamp"))
		return
	}

	items, err := h.service.List(r.Context(), chi.URLParam(r, "id"), appointment.Filter{
		Status: r.URL.Query().Get("status"),
		From:   from,
		To:     to,
		Limit:  utils.ParseLimit(r),
	})
	if err != nil {
		utils.WriteAnyError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.ToAppointmentDTOs(items))
}

// Get returns one appointment
func (h *AppointmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteAnyError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.ToAppointmentDTO(a))
}

// Create creates an appointment for a business
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	created, err := h.service.Create(r.Context(), req.Appointment(chi.URLParam(r, "id")))
	if err != nil {
		utils.WriteAnyError(w, err)
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusCreated, "Appointment created", dto.ToAppointmentDTO(created))
}

// Update applies a partial update to an appointment
func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	updated, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req.Patch())
	if err != nil {
		utils.WriteAnyError(w, err)
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Appointment updated", dto.ToAppointmentDTO(updated))
}

// Delete removes an appointment; removing an unknown id succeeds
func (h *AppointmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		utils.WriteAnyError(w, err)
		return
	}
	utils.WriteNoContent(w)
}
