package authflow

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pratik-mahalle/reminderflow/internal/app/forms"
	"github.com/pratik-mahalle/reminderflow/internal/app/i18n"
	"github.com/pratik-mahalle/reminderflow/internal/app/toast"
	"github.com/pratik-mahalle/reminderflow/internal/pkg/logger"
	"github.com/pratik-mahalle/reminderflow/pkg/client"
)

type fakeAuth struct {
	signIns  int
	signUps  []client.SignUpRequest
	err      error
	redirect string
}

func (f *fakeAuth) SignInWithPassword(ctx context.Context, email, password string) (*client.Session, error) {
	f.signIns++
	if f.err != nil {
		return nil, f.err
	}
	return &client.Session{AccessToken: "at", User: &client.User{ID: "u1", Email: email}}, nil
}

func (f *fakeAuth) SignUp(ctx context.Context, req client.SignUpRequest) (*client.Session, error) {
	f.signUps = append(f.signUps, req)
	if f.err != nil {
		return nil, f.err
	}
	return &client.Session{AccessToken: "at", User: &client.User{ID: "u1", Email: req.Email}}, nil
}

func (f *fakeAuth) GoogleSignInURL(redirectTo string) string {
	f.redirect = redirectTo
	return "http://api.test/api/v1/auth/google/login?redirect_to=" + redirectTo
}

type fakeSession struct {
	err   error
	calls int
}

func (f *fakeSession) SignOut(ctx context.Context) error {
	f.calls++
	return f.err
}

type fixedLanguage string

func (l fixedLanguage) Language() string { return string(l) }

func newFlow(auth *fakeAuth, sess *fakeSession, lang string) (*Flow, *toast.Queue) {
	q := toast.NewQueue()
	return New(auth, sess, q, i18n.MustNew(), fixedLanguage(lang), logger.Nop()), q
}

func TestRegister_ShortPasswordMakesNoCall(t *testing.T) {
	auth := &fakeAuth{}
	flow, q := newFlow(auth, &fakeSession{}, "en")

	errs, err := flow.Register(context.Background(), forms.RegisterForm{
		BusinessName:    "Acme",
		Email:           "owner@example.com",
		Password:        "short",
		ConfirmPassword: "short",
	})

	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Equal(t, "Password must be at least 8 characters", errs["password"])
	assert.Empty(t, auth.signUps, "validation failures must not reach the API")
	assert.Zero(t, q.Len())
}

func TestRegister_Success(t *testing.T) {
	auth := &fakeAuth{}
	flow, q := newFlow(auth, &fakeSession{}, "ru")

	errs, err := flow.Register(context.Background(), forms.RegisterForm{
		BusinessName:    " Acme ",
		Email:           "owner@example.com",
		Password:        "longenough",
		ConfirmPassword: "longenough",
	})
	require.NoError(t, err)
	assert.Empty(t, errs)

	require.Len(t, auth.signUps, 1)
	assert.Equal(t, "Acme", auth.signUps[0].BusinessName)
	assert.Equal(t, "ru", auth.signUps[0].Language)
	assert.NotEmpty(t, auth.signUps[0].Timezone)

	require.Equal(t, 1, q.Len())
	assert.Equal(t, toast.TypeSuccess, q.List()[0].Type)
	assert.Equal(t, "Аккаунт создан", q.List()[0].Message)
}

func TestAPIErrorsBecomeToasts(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "email in use",
			err:  &client.APIError{StatusCode: http.StatusConflict, Code: client.CodeEmailInUse, Message: "already registered"},
			want: "This email is already registered",
		},
		{
			name: "invalid credentials",
			err:  &client.APIError{StatusCode: http.StatusUnauthorized, Code: client.CodeInvalidCredentials},
			want: "Invalid email or password",
		},
		{
			name: "network",
			err:  &client.NetworkError{Op: "POST /api/v1/auth/login", Err: errors.New("connection refused")},
			want: "Cannot reach the server",
		},
		{
			name: "server",
			err:  &client.APIError{StatusCode: http.StatusInternalServerError},
			want: "Something went wrong. Please try again.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &fakeAuth{err: tt.err}
			flow, q := newFlow(auth, &fakeSession{}, "en")

			_, err := flow.SignIn(context.Background(), forms.LoginForm{Email: "owner@example.com", Password: "pw"})
			require.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, auth.signIns)

			require.Equal(t, 1, q.Len())
			assert.Equal(t, toast.TypeError, q.List()[0].Type)
			assert.Equal(t, tt.want, q.List()[0].Message)
		})
	}
}

func TestSignIn_InvalidForm(t *testing.T) {
	auth := &fakeAuth{}
	flow, _ := newFlow(auth, &fakeSession{}, "en")

	errs, err := flow.SignIn(context.Background(), forms.LoginForm{Email: "nope"})
	assert.ErrorIs(t, err, ErrInvalidForm)
	assert.Len(t, errs, 2)
	assert.Zero(t, auth.signIns)
}

func TestSignOut(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		sess := &fakeSession{}
		flow, q := newFlow(&fakeAuth{}, sess, "en")

		require.NoError(t, flow.SignOut(context.Background()))
		assert.Equal(t, 1, sess.calls)
		assert.Equal(t, "Signed out", q.List()[0].Message)
	})

	t.Run("failure is toasted", func(t *testing.T) {
		sess := &fakeSession{err: &client.NetworkError{Op: "POST /api/v1/auth/logout", Err: errors.New("timeout")}}
		flow, q := newFlow(&fakeAuth{}, sess, "en")

		assert.Error(t, flow.SignOut(context.Background()))
		assert.Equal(t, toast.TypeError, q.List()[0].Type)
	})
}

func TestGoogleURL(t *testing.T) {
	auth := &fakeAuth{}
	flow, _ := newFlow(auth, &fakeSession{}, "en")

	url := flow.GoogleURL("http://localhost:5173/auth/callback/google")
	assert.Contains(t, url, "/api/v1/auth/google/login")
	assert.Equal(t, "http://localhost:5173/auth/callback/google", auth.redirect)
}

func TestMessageKey(t *testing.T) {
	assert.Equal(t, "errors.rateLimited", MessageKey(&client.APIError{StatusCode: http.StatusTooManyRequests}))
	assert.Equal(t, "errors.generic", MessageKey(errors.New("boom")))
}
