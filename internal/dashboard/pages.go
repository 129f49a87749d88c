package dashboard

import (
	"net/http"
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/app/authflow"
	"github.com/pratik-mahalle/reminderflow/internal/app/guard"
	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

var (
	appointmentStatuses = []string{"scheduled", "confirmed", "cancelled", "completed", "no_show"}
	reminderStatuses    = []string{"pending", "sent", "delivered", "failed"}
	providers           = []string{"google", "calendly", "outlook"}
	channels            = []string{"sms", "email", "whatsapp"}
	themes              = []string{"light", "dark", "system"}
)

const upcomingLimit = 5

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// apiFailed logs err and toasts it. A rejected token gets one refresh; when
// that fails too the session is gone and the next request is redirected.
func (s *Server) apiFailed(r *http.Request, err error, op string) {
	s.log.With("op", op).WarnWithErr(err, "API request failed")

	if client.IsUnauthorized(err) && s.auth != nil {
		if rerr := s.auth.RefreshSession(r.Context()); rerr != nil {
			s.log.WarnWithErr(rerr, "Session refresh failed")
		}
		if !s.store.State().Authenticated() {
			s.toasts.Warning(s.t("auth.errors.sessionExpired"))
			return
		}
	}
	s.toasts.Error(s.t(authflow.MessageKey(err)))
}

func (s *Server) landingPage(w http.ResponseWriter, r *http.Request) {
	plans, err := s.api.Plans().List(r.Context())
	if err != nil {
		s.log.WarnWithErr(err, "Failed to load plans")
	}
	p := s.newPage(r, "common.appName", guard.Public, plans)
	p.Variant = ""
	s.render(w, http.StatusOK, "landing", p)
}

type overview struct {
	Upcoming          []client.Appointment
	TotalAppointments int
	RemindersSent     int
	Confirmations     int
	NoShows           int
	Outcomes          int
}

func (s *Server) dashboardPage(w http.ResponseWriter, r *http.Request) {
	biz := s.store.State().Business
	if biz == nil {
		s.render(w, http.StatusOK, "dashboard", s.newPage(r, "nav.dashboard", guard.Protected, nil))
		return
	}

	ctx := r.Context()
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	ov := &overview{}

	appts, err := s.api.Appointments().List(ctx, biz.ID, &client.AppointmentListOptions{From: &from})
	if err != nil {
		s.apiFailed(r, err, "list_appointments")
	}
	ov.TotalAppointments = len(appts)
	for _, a := range appts {
		if a.StartTime.After(now) && a.Status != "cancelled" && len(ov.Upcoming) < upcomingLimit {
			ov.Upcoming = append(ov.Upcoming, a)
		}
	}

	days, err := s.api.Analytics().DailyStats(ctx, biz.ID, from.UTC().Format("2006-01-02"), now.UTC().Format("2006-01-02"))
	if err != nil {
		s.apiFailed(r, err, "daily_stats")
	}
	for _, d := range days {
		ov.RemindersSent += d.RemindersSent
		ov.Confirmations += d.Confirmations
		ov.NoShows += d.NoShows
		ov.Outcomes += d.Confirmations + d.Cancellations + d.NoShows
	}

	s.render(w, http.StatusOK, "dashboard", s.newPage(r, "nav.dashboard", guard.Protected, ov))
}

type listing struct {
	Items    interface{}
	Status   string
	Statuses []string
}

func (s *Server) appointmentsPage(w http.ResponseWriter, r *http.Request) {
	biz := s.store.State().Business
	data := &listing{Statuses: appointmentStatuses}
	if status := r.URL.Query().Get("status"); contains(appointmentStatuses, status) {
		data.Status = status
	}

	if biz != nil {
		items, err := s.api.Appointments().List(r.Context(), biz.ID, &client.AppointmentListOptions{Status: data.Status})
		if err != nil {
			s.apiFailed(r, err, "list_appointments")
		}
		data.Items = items
	}

	s.render(w, http.StatusOK, "appointments", s.newPage(r, "appointments.title", guard.Protected, data))
}

func (s *Server) remindersPage(w http.ResponseWriter, r *http.Request) {
	biz := s.store.State().Business
	data := &listing{Statuses: reminderStatuses}
	if status := r.URL.Query().Get("status"); contains(reminderStatuses, status) {
		data.Status = status
	}

	if biz != nil {
		items, err := s.api.Reminders().List(r.Context(), biz.ID, &client.ReminderListOptions{Status: data.Status, Limit: 100})
		if err != nil {
			s.apiFailed(r, err, "list_reminders")
		}
		data.Items = items
	}

	s.render(w, http.StatusOK, "reminders", s.newPage(r, "reminders.title", guard.Protected, data))
}

func (s *Server) templatesPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "templates", s.newPage(r, "templates.title", guard.Protected, nil))
}

type providerRow struct {
	Provider    string
	Integration *client.CalendarIntegration
}

func (s *Server) integrationsPage(w http.ResponseWriter, r *http.Request) {
	biz := s.store.State().Business
	var items []client.CalendarIntegration
	if biz != nil {
		var err error
		if items, err = s.api.CalendarIntegrations().List(r.Context(), biz.ID); err != nil {
			s.apiFailed(r, err, "list_integrations")
		}
	}

	rows := make([]providerRow, 0, len(providers))
	for _, name := range providers {
		row := providerRow{Provider: name}
		for i := range items {
			if items[i].Provider == name {
				row.Integration = &items[i]
				break
			}
		}
		rows = append(rows, row)
	}

	s.render(w, http.StatusOK, "integrations", s.newPage(r, "integrations.title", guard.Protected, rows))
}

type settingsData struct {
	Themes    []string
	Languages []string
	Channels  []string
	Intervals []client.Interval
}

func (s *Server) settingsPage(w http.ResponseWriter, r *http.Request) {
	data := &settingsData{
		Themes:    themes,
		Languages: s.catalog.Languages(),
		Channels:  channels,
	}
	if rs := s.store.State().ReminderSettings; rs != nil {
		data.Intervals = append(data.Intervals, rs.Intervals...)
	}
	// one blank row for adding an interval
	data.Intervals = append(data.Intervals, client.Interval{Channel: "sms"})

	s.render(w, http.StatusOK, "settings", s.newPage(r, "settings.title", guard.Protected, data))
}

func (s *Server) billingPage(w http.ResponseWriter, r *http.Request) {
	plans, err := s.api.Plans().List(r.Context())
	if err != nil {
		s.apiFailed(r, err, "list_plans")
	}
	s.render(w, http.StatusOK, "billing", s.newPage(r, "billing.title", guard.Protected, plans))
}

func (s *Server) helpPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "help", s.newPage(r, "help.title", guard.Protected, nil))
}
