package dashboard

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pratik-mahalle/reminderflow/internal/app/guard"
	"github.com/pratik-mahalle/reminderflow/internal/app/session"
	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

const defaultDuration = 60 * time.Minute

// business returns the signed-in user's business, or warns and sends the
// browser back to the dashboard when the account has none
func (s *Server) business(w http.ResponseWriter, r *http.Request) (*client.Business, bool) {
	biz := s.store.State().Business
	if biz == nil {
		s.toasts.Warning(s.t("dashboard.noBusiness"))
		seeOther(w, r, guard.DashboardPath)
		return nil, false
	}
	return biz, true
}

// done toasts key on success and reloads the session's business data
func (s *Server) done(w http.ResponseWriter, r *http.Request, key, location string) {
	s.store.RefreshBusiness(r.Context())
	s.toasts.Success(s.t(key))
	seeOther(w, r, location)
}

func optional(r *http.Request, field string) *string {
	v := strings.TrimSpace(r.PostFormValue(field))
	if v == "" {
		return nil
	}
	return &v
}

func (s *Server) setTheme(w http.ResponseWriter, r *http.Request) {
	if err := s.store.SetTheme(session.Theme(r.PostFormValue("theme"))); err != nil {
		s.log.WarnWithErr(err, "Failed to set theme")
		s.toasts.Error(s.t("errors.generic"))
	}
	seeOther(w, r, localNext(r, "/"))
}

func (s *Server) setLanguage(w http.ResponseWriter, r *http.Request) {
	if s.prefs == nil {
		seeOther(w, r, localNext(r, "/"))
		return
	}
	if err := s.prefs.SetLanguage(r.PostFormValue("language")); err != nil {
		s.log.WarnWithErr(err, "Failed to set language")
		s.toasts.Error(s.t("errors.generic"))
	}
	seeOther(w, r, localNext(r, "/"))
}

func (s *Server) dismissToast(w http.ResponseWriter, r *http.Request) {
	s.toasts.Dismiss(chi.URLParam(r, "id"))
	if r.Header.Get("X-Requested-With") == "fetch" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	seeOther(w, r, localNext(r, "/"))
}

func (s *Server) saveBusiness(w http.ResponseWriter, r *http.Request) {
	biz, ok := s.business(w, r)
	if !ok {
		return
	}

	patch := client.BusinessPatch{
		Name:     optional(r, "name"),
		Timezone: optional(r, "timezone"),
		Language: optional(r, "language"),
	}
	if patch.Timezone != nil {
		if _, err := time.LoadLocation(*patch.Timezone); err != nil {
			s.toasts.Warning(s.t("errors.generic"))
			seeOther(w, r, "/settings")
			return
		}
	}

	if _, err := s.api.Businesses().Update(r.Context(), biz.ID, patch); err != nil {
		s.apiFailed(r, err, "update_business")
		seeOther(w, r, "/settings")
		return
	}
	s.done(w, r, "settings.saved", "/settings")
}

// parseIntervals zips the hours[] and channel[] form columns. Blank rows are
// skipped.
func parseIntervals(r *http.Request) ([]client.Interval, bool) {
	hours := r.PostForm["hours"]
	chans := r.PostForm["channel"]

	intervals := []client.Interval{}
	for i, h := range hours {
		h = strings.TrimSpace(h)
		if h == "" {
			continue
		}
		n, err := strconv.Atoi(h)
		if err != nil || n <= 0 || n > 720 || i >= len(chans) || !contains(channels, chans[i]) {
			return nil, false
		}
		intervals = append(intervals, client.Interval{Hours: n, Channel: chans[i]})
	}
	return intervals, true
}

func (s *Server) saveReminderSettings(w http.ResponseWriter, r *http.Request) {
	biz, ok := s.business(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	intervals, ok := parseIntervals(r)
	if !ok {
		s.toasts.Warning(s.t("errors.generic"))
		seeOther(w, r, "/settings")
		return
	}

	sms := r.PostFormValue("sms_enabled") != ""
	email := r.PostFormValue("email_enabled") != ""
	whatsapp := r.PostFormValue("whatsapp_enabled") != ""
	req := client.ReminderSettingsUpsert{
		Intervals:       intervals,
		SMSEnabled:      &sms,
		EmailEnabled:    &email,
		WhatsAppEnabled: &whatsapp,
	}

	if _, err := s.api.ReminderSettings().Upsert(r.Context(), biz.ID, req); err != nil {
		s.apiFailed(r, err, "upsert_reminder_settings")
		seeOther(w, r, "/settings")
		return
	}
	s.done(w, r, "settings.saved", "/settings")
}

func (s *Server) saveTemplate(w http.ResponseWriter, r *http.Request) {
	biz, ok := s.business(w, r)
	if !ok {
		return
	}

	tmpl := strings.TrimSpace(r.PostFormValue("template"))
	if _, err := s.api.ReminderSettings().Upsert(r.Context(), biz.ID, client.ReminderSettingsUpsert{
		DefaultMessageTemplate: &tmpl,
	}); err != nil {
		s.apiFailed(r, err, "save_template")
		seeOther(w, r, "/templates")
		return
	}
	s.done(w, r, "templates.saved", "/templates")
}

// appointmentTimes reads the date/time/duration fields in the business's
// timezone
func appointmentTimes(r *http.Request, loc *time.Location) (time.Time, time.Time, bool) {
	start, err := time.ParseInLocation("2006-01-02 15:04",
		strings.TrimSpace(r.PostFormValue("date"))+" "+strings.TrimSpace(r.PostFormValue("time")), loc)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}

	duration := defaultDuration
	if v := strings.TrimSpace(r.PostFormValue("duration")); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return time.Time{}, time.Time{}, false
		}
		duration = time.Duration(minutes) * time.Minute
	}
	return start, start.Add(duration), true
}

func (s *Server) createAppointment(w http.ResponseWriter, r *http.Request) {
	biz, ok := s.business(w, r)
	if !ok {
		return
	}

	start, end, ok := appointmentTimes(r, businessLocation(s.store.State()))
	name := strings.TrimSpace(r.PostFormValue("client_name"))
	if !ok || name == "" {
		s.toasts.Warning(s.t("appointments.invalidTime"))
		seeOther(w, r, "/appointments")
		return
	}

	_, err := s.api.Appointments().Create(r.Context(), biz.ID, client.CreateAppointmentRequest{
		ClientName:  name,
		ClientPhone: optional(r, "client_phone"),
		ClientEmail: optional(r, "client_email"),
		ServiceName: optional(r, "service_name"),
		StartTime:   start,
		EndTime:     end,
		Notes:       optional(r, "notes"),
	})
	if err != nil {
		s.apiFailed(r, err, "create_appointment")
		seeOther(w, r, "/appointments")
		return
	}
	s.toasts.Success(s.t("appointments.created"))
	seeOther(w, r, "/appointments")
}

func (s *Server) updateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	status := r.PostFormValue("status")
	if !contains(appointmentStatuses, status) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if _, err := s.api.Appointments().Update(r.Context(), chi.URLParam(r, "id"), client.AppointmentPatch{Status: &status}); err != nil {
		s.apiFailed(r, err, "update_appointment")
	} else {
		s.toasts.Success(s.t("appointments.updated"))
	}
	seeOther(w, r, localNext(r, "/appointments"))
}

func (s *Server) deleteAppointment(w http.ResponseWriter, r *http.Request) {
	if err := s.api.Appointments().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.apiFailed(r, err, "delete_appointment")
	} else {
		s.toasts.Success(s.t("appointments.deleted"))
	}
	seeOther(w, r, "/appointments")
}

func (s *Server) connectIntegration(w http.ResponseWriter, r *http.Request) {
	biz, ok := s.business(w, r)
	if !ok {
		return
	}

	provider := r.PostFormValue("provider")
	if !contains(providers, provider) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	sync := true
	_, err := s.api.CalendarIntegrations().Create(r.Context(), biz.ID, client.CreateIntegrationRequest{
		Provider:    provider,
		CalendarID:  optional(r, "calendar_id"),
		SyncEnabled: &sync,
	})
	if err != nil {
		s.apiFailed(r, err, "connect_integration")
	} else {
		s.toasts.Success(s.t("integrations.connectedToast"))
	}
	seeOther(w, r, "/integrations")
}

func (s *Server) toggleIntegrationSync(w http.ResponseWriter, r *http.Request) {
	sync := r.PostFormValue("sync_enabled") != ""
	if _, err := s.api.CalendarIntegrations().Update(r.Context(), chi.URLParam(r, "id"), client.IntegrationPatch{SyncEnabled: &sync}); err != nil {
		s.apiFailed(r, err, "update_integration")
	} else {
		s.toasts.Success(s.t("settings.saved"))
	}
	seeOther(w, r, "/integrations")
}

func (s *Server) disconnectIntegration(w http.ResponseWriter, r *http.Request) {
	if err := s.api.CalendarIntegrations().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.apiFailed(r, err, "disconnect_integration")
	} else {
		s.toasts.Success(s.t("integrations.disconnectedToast"))
	}
	seeOther(w, r, "/integrations")
}

func (s *Server) changePlan(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.business(w, r); !ok {
		return
	}
	sub := s.store.State().Subscription
	if sub == nil {
		s.toasts.Error(s.t("errors.generic"))
		seeOther(w, r, "/billing")
		return
	}

	plan := r.PostFormValue("plan")
	if _, err := s.api.Subscriptions().Update(r.Context(), sub.ID, client.SubscriptionPatch{Plan: &plan}); err != nil {
		s.apiFailed(r, err, "change_plan")
		seeOther(w, r, "/billing")
		return
	}
	s.done(w, r, "billing.planChanged", "/billing")
}
