package dashboard

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/app/authflow"
	"github.com/pratik-mahalle/reminderflow/internal/app/forms"
	"github.com/pratik-mahalle/reminderflow/internal/app/guard"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/metrics"
)

func (s *Server) loginPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "login", s.newPage(r, "auth.loginTitle", guard.Public, nil))
}

func (s *Server) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	f := forms.LoginFromValues(r.PostForm)
	errs, err := s.flow.SignIn(r.Context(), f)
	if err != nil {
		p := s.newPage(r, "auth.loginTitle", guard.Public, nil)
		p.Form.Set("email", f.Email)
		s.renderFormError(w, "login", p, errs, err)
		return
	}
	seeOther(w, r, guard.DashboardPath)
}

func (s *Server) registerPage(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "register", s.newPage(r, "auth.registerTitle", guard.Public, nil))
}

func (s *Server) registerSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	f := forms.RegisterFromValues(r.PostForm)
	errs, err := s.flow.Register(r.Context(), f)
	if err != nil {
		p := s.newPage(r, "auth.registerTitle", guard.Public, nil)
		p.Form.Set("business_name", f.BusinessName)
		p.Form.Set("email", f.Email)
		s.renderFormError(w, "register", p, errs, err)
		return
	}
	seeOther(w, r, guard.DashboardPath)
}

// renderFormError re-renders a form. Field errors answer 422; API failures
// were already toasted by the flow.
func (s *Server) renderFormError(w http.ResponseWriter, name string, p *page, errs forms.Errors, err error) {
	status := http.StatusOK
	if errors.Is(err, authflow.ErrInvalidForm) {
		status = http.StatusUnprocessableEntity
		p.Errors = errs
	}
	p.Toasts = s.toasts.List()
	s.render(w, status, name, p)
}

func (s *Server) googleStart(w http.ResponseWriter, r *http.Request) {
	redirectTo := strings.TrimRight(s.cfg.PublicURL, "/") + "/auth/callback/google"
	http.Redirect(w, r, s.flow.GoogleURL(redirectTo), http.StatusSeeOther)
}

// authCallback completes an OAuth hand-off when tokens are present. The
// browser always lands on the dashboard, whose guard takes it from there.
func (s *Server) authCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if e := q.Get("error"); e != "" {
		s.log.With("error", e).Warn("OAuth sign-in was not completed")
		metrics.RecordAuthAttempt("dashboard_oauth", "denied")
		s.toasts.Error(s.t("errors.generic"))
	} else if at := q.Get("access_token"); at != "" && s.auth != nil {
		var expiresAt time.Time
		if unix, err := strconv.ParseInt(q.Get("expires_at"), 10, 64); err == nil {
			expiresAt = time.Unix(unix, 0)
		}
		if _, err := s.auth.CompleteOAuth(r.Context(), at, q.Get("refresh_token"), expiresAt); err != nil {
			s.log.WarnWithErr(err, "OAuth hand-off failed")
			metrics.RecordAuthAttempt("dashboard_oauth", "failed")
			s.toasts.Error(s.t(authflow.MessageKey(err)))
		} else {
			metrics.RecordAuthAttempt("dashboard_oauth", "ok")
			s.toasts.Success(s.t("auth.signedIn"))
		}
	}

	seeOther(w, r, guard.DashboardPath)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	// failures are toasted by the flow; the local session is gone either way
	_ = s.flow.SignOut(r.Context())
	seeOther(w, r, guard.LoginPath)
}
