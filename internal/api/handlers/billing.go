package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/reminderflow/internal/api/dto"
	"github.com/pratik-mahalle/reminderflow/internal/domain/analytics"
	"github.com/pratik-mahalle/reminderflow/internal/domain/subscription"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/utils"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/validator"
)

// defaultAnalyticsWindow is used when the caller omits from
const defaultAnalyticsWindow = 30 * 24 * time.Hour

// BillingHandler handles subscription, plan and analytics requests
type BillingHandler struct {
	subscriptions subscription.Service
	analytics     analytics.Service
	logger        *logger.Logger
	validator     *validator.Validator
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(
	subscriptions subscription.Service,
	analyticsService analytics.Service,
	log *logger.Logger,
	val *validator.Validator,
) *BillingHandler {
	return &BillingHandler{
		subscriptions: subscriptions,
		analytics:     analyticsService,
		logger:        log,
		validator:     val,
	}
}

// Plans returns the plan catalogue
func (h *BillingHandler) Plans(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, dto.ToPlanDTOs(subscription.Plans))
}

// GetSubscription returns a business's subscription
func (h *BillingHandler) GetSubscription(w http.ResponseWriter, r *http.Request) {
	s, err := h.subscriptions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteAnyError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.ToSubscriptionDTO(s))
}

// UpdateSubscription applies a partial update to a subscription
func (h *BillingHandler) UpdateSubscription(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateSubscriptionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	updated, err := h.subscriptions.Update(r.Context(), chi.URLParam(r, "id"), req.Patch())
	if err != nil {
		utils.WriteAnyError(w, err)
		return
	}
	utils.WriteSuccessWithMessage(w, http.StatusOK, "Subscription updated", dto.ToSubscriptionDTO(updated))
}

// DailyAnalytics returns per-day counters between from and to (YYYY-MM-DD,
// inclusive). Defaults to the last 30 days.
func (h *BillingHandler) DailyAnalytics(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	from := r.URL.Query().Get("from")
	if from == "" {
		from = now.Add(-defaultAnalyticsWindow).Format(analytics.DateLayout)
	}
	to := r.URL.Query().Get("to")
	if to == "" {
		to = now.Format(analytics.DateLayout)
	}

	rows, err := h.analytics.DailyStats(r.Context(), chi.URLParam(r, "id"), from, to)
	if err != nil {
		utils.WriteAnyError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, dto.ToDailyAnalyticsDTOs(rows))
}
