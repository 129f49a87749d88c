package dashboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pratik-mahalle/reminderflow/internal/app/guard"
	"github.com/pratik-mahalle/reminderflow/internal/app/session"
	"github.com/pratik-mahalle/reminderflow/internal/app/toast"
)

// Event names on the /events stream
const (
	EventSession = "session"
	EventToasts  = "toasts"
	EventGuard   = "guard"
)

// sessionEvent is the part of the session state the browser needs
type sessionEvent struct {
	Authenticated bool          `json:"authenticated"`
	Ready         bool          `json:"ready"`
	Refreshing    bool          `json:"refreshing"`
	Theme         session.Theme `json:"theme"`
	Mode          session.Mode  `json:"mode"`
	BusinessName  string        `json:"business_name,omitempty"`
}

func newSessionEvent(st session.State) sessionEvent {
	ev := sessionEvent{
		Authenticated: st.Authenticated(),
		Ready:         st.Ready(),
		Refreshing:    st.Refreshing,
		Theme:         st.Theme,
		Mode:          st.Mode,
	}
	if st.Business != nil {
		ev.BusinessName = st.Business.Name
	}
	return ev
}

// offer replaces whatever is pending in ch with v
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}

// events streams session, toast and guard changes as Server-Sent Events.
// The guard side is chosen with ?variant=public|protected and omitted
// when absent.
func (s *Server) events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	states := make(chan session.State, 1)
	toasts := make(chan []toast.Toast, 1)
	unsubscribeStore := s.store.Subscribe(func(st session.State) { offer(states, st) })
	defer unsubscribeStore()
	unsubscribeToasts := s.toasts.Subscribe(func(ts []toast.Toast) { offer(toasts, ts) })
	defer unsubscribeToasts()

	var decisions <-chan guard.Decision
	switch r.URL.Query().Get("variant") {
	case guard.Public.String():
		decisions = guard.Watch(ctx, guard.Public, s.store)
	case guard.Protected.String():
		decisions = guard.Watch(ctx, guard.Protected, s.store)
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	send := func(event string, v interface{}) bool {
		if err := writeEvent(w, event, v); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send(EventSession, newSessionEvent(s.store.State())) || !send(EventToasts, s.toasts.List()) {
		return
	}

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case st := <-states:
			if !send(EventSession, newSessionEvent(st)) {
				return
			}
		case ts := <-toasts:
			if !send(EventToasts, ts) {
				return
			}
		case d, ok := <-decisions:
			if !ok {
				return
			}
			if !send(EventGuard, d) {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}
