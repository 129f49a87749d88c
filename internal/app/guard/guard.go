// Package guard decides whether a route renders, redirects or shows the
// loading indicator, based on the session store.
package guard

import (
	"context"
	"net/http"

	"github.com/pratik-mahalle/reminderflow/internal/app/session"
)

// Redirect targets
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// Variant selects which side of authentication a route is for
type Variant int

const (
	// Protected routes require a signed-in user
	Protected Variant = iota
	// Public routes are for anonymous users only
	Public
)

func (v Variant) String() string {
	if v == Public {
		return "public"
	}
	return "protected"
}

// Outcome is what the route should do
type Outcome int

const (
	Loading Outcome = iota
	Render
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Render:
		return "render"
	case Redirect:
		return "redirect"
	default:
		return "loading"
	}
}

// MarshalText encodes the outcome by name
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Decision is the result of evaluating a guard. Redirects replace the
// current history entry.
type Decision struct {
	Outcome  Outcome `json:"outcome"`
	Location string  `json:"location,omitempty"`
	Replace  bool    `json:"replace,omitempty"`
}

// Source is the session store as seen by the guard
type Source interface {
	State() session.State
	Subscribe(fn func(session.State)) (unsubscribe func())
}

// Decide applies the guard table to st
func Decide(v Variant, st session.State) Decision {
	if !st.IsInitialized || st.IsLoading {
		return Decision{Outcome: Loading}
	}

	authenticated := st.User != nil
	switch {
	case v == Protected && !authenticated:
		return Decision{Outcome: Redirect, Location: LoginPath, Replace: true}
	case v == Public && authenticated:
		return Decision{Outcome: Redirect, Location: DashboardPath, Replace: true}
	default:
		return Decision{Outcome: Render}
	}
}

// Middleware guards next. Every request re-evaluates the decision; loading
// is served while the session is not ready.
func Middleware(v Variant, src Source, loading http.Handler) func(http.Handler) http.Handler {
	if loading == nil {
		loading = http.HandlerFunc(defaultLoading)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := Decide(v, src.State())
			switch d.Outcome {
			case Render:
				next.ServeHTTP(w, r)
			case Redirect:
				w.Header().Set("Cache-Control", "no-store")
				http.Redirect(w, r, d.Location, http.StatusSeeOther)
			default:
				w.Header().Set("Cache-Control", "no-store")
				loading.ServeHTTP(w, r)
			}
		})
	}
}

func defaultLoading(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Retry-After", "1")
	http.Error(w, "Loading...", http.StatusServiceUnavailable)
}

// Watch emits the current decision and then every changed decision until
// ctx is done. Slow receivers only ever see the latest decision.
func Watch(ctx context.Context, v Variant, src Source) <-chan Decision {
	out := make(chan Decision)
	changed := make(chan struct{}, 1)

	unsubscribe := src.Subscribe(func(session.State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})

	go func() {
		defer close(out)
		defer unsubscribe()

		last := Decide(v, src.State())
		select {
		case out <- last:
		case <-ctx.Done():
			return
		}

		for {
			select {
			case <-ctx.Done():
				return
			case <-changed:
			}

			d := Decide(v, src.State())
			if d == last {
				continue
			}
			last = d
			select {
			case out <- d:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
