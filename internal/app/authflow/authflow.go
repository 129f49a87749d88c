// Package authflow implements the sign-in, sign-up and sign-out use cases
// shared by the dashboard and the CLI.
package authflow

import (
	"context"
	"errors"
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/app/forms"
	"github.com/pratik-mahalle/reminderflow/internal/app/i18n"
	"github.com/pratik-mahalle/reminderflow/internal/app/toast"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/metrics"
	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

// ErrInvalidForm is returned when client-side validation blocked a submission
var ErrInvalidForm = errors.New("form has validation errors")

// Auth is the auth service as used by the flows
type Auth interface {
	SignInWithPassword(ctx context.Context, email, password string) (*client.Session, error)
	SignUp(ctx context.Context, req client.SignUpRequest) (*client.Session, error)
	GoogleSignInURL(redirectTo string) string
}

// Session ends the local session
type Session interface {
	SignOut(ctx context.Context) error
}

// Toaster posts user-visible notifications
type Toaster interface {
	Success(message string) toast.Toast
	Error(message string) toast.Toast
}

// Languages provides the active display language
type Languages interface {
	Language() string
}

// Flow wires the auth use cases together
type Flow struct {
	auth     Auth
	session  Session
	toasts   Toaster
	forms    *forms.Validator
	catalog  *i18n.Catalog
	language Languages
	log      *logger.Logger
}

// New creates a Flow
func New(auth Auth, sess Session, toasts Toaster, catalog *i18n.Catalog, language Languages, log *logger.Logger) *Flow {
	return &Flow{
		auth:     auth,
		session:  sess,
		toasts:   toasts,
		forms:    forms.New(catalog),
		catalog:  catalog,
		language: language,
		log:      log,
	}
}

// MessageKey returns the catalog key shown to the user for err
func MessageKey(err error) string {
	switch client.KindOf(err) {
	case client.KindEmailInUse:
		return "auth.errors.emailInUse"
	case client.KindInvalidCredentials:
		return "auth.errors.invalidCredentials"
	case client.KindNetwork:
		return "errors.network"
	case client.KindRateLimited:
		return "errors.rateLimited"
	default:
		return "errors.generic"
	}
}

// SignIn validates f and signs in. Validation errors are returned without
// contacting the API; API failures are toasted and returned.
func (fl *Flow) SignIn(ctx context.Context, f forms.LoginForm) (forms.Errors, error) {
	lang := fl.language.Language()
	if errs := fl.forms.Validate(&f, lang); errs.Any() {
		return errs, ErrInvalidForm
	}

	if _, err := fl.auth.SignInWithPassword(ctx, f.Email, f.Password); err != nil {
		fl.fail(err, "sign_in")
		return nil, err
	}

	metrics.RecordAuthAttempt("dashboard_password", "ok")
	fl.toasts.Success(fl.catalog.T(lang, "auth.signedIn"))
	return nil, nil
}

// Register validates f and creates the account with its business
func (fl *Flow) Register(ctx context.Context, f forms.RegisterForm) (forms.Errors, error) {
	lang := fl.language.Language()
	if errs := fl.forms.Validate(&f, lang); errs.Any() {
		return errs, ErrInvalidForm
	}

	_, err := fl.auth.SignUp(ctx, client.SignUpRequest{
		Email:        f.Email,
		Password:     f.Password,
		BusinessName: f.BusinessName,
		Timezone:     localTimezone(),
		Language:     lang,
	})
	if err != nil {
		fl.fail(err, "sign_up")
		return nil, err
	}

	metrics.RecordAuthAttempt("dashboard_register", "ok")
	fl.toasts.Success(fl.catalog.T(lang, "auth.registered"))
	return nil, nil
}

// GoogleURL returns where to send the browser to sign in with Google
func (fl *Flow) GoogleURL(redirectTo string) string {
	return fl.auth.GoogleSignInURL(redirectTo)
}

// SignOut ends the session. The local session is always cleared; a failed
// remote call is toasted.
func (fl *Flow) SignOut(ctx context.Context) error {
	if err := fl.session.SignOut(ctx); err != nil {
		fl.fail(err, "sign_out")
		return err
	}
	fl.toasts.Success(fl.catalog.T(fl.language.Language(), "auth.signedOut"))
	return nil
}

func (fl *Flow) fail(err error, op string) {
	kind := client.KindOf(err)
	fl.log.With("op", op).With("kind", kind.String()).WarnWithErr(err, "Auth request failed")
	metrics.RecordAuthAttempt("dashboard_"+op, kind.String())
	fl.toasts.Error(fl.catalog.T(fl.language.Language(), MessageKey(err)))
}

func localTimezone() string {
	name := time.Now().Location().String()
	if name == "" || name == "Local" {
		return "UTC"
	}
	return name
}
