package services

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/autoscanml/internal/client/client"
)

// Route names a screen the view can navigate to.
type Route string

const (
	RouteLogin     Route = "login"
	RouteDashboard Route = "dashboard"
)

const (
	LoginRedirectDelay = 1200 * time.Millisecond
	ResetRedirectDelay = 2000 * time.Millisecond
)

// Navigation asks the view to move to To once After has elapsed.
type Navigation struct {
	To    Route
	After time.Duration
}

// Outcome is the side effect of a workflow transition.
type Outcome struct {
	Message  string
	Navigate *Navigation
}

func navigate(to Route, after time.Duration) *Navigation {
	return &Navigation{To: to, After: after}
}

// failureMessages are the texts shown when a call fails: Server when the
// response carried no message, Transport when the server was unreachable.
type failureMessages struct {
	Server    string
	Transport string
}

// failure builds the outcome for a failed call, preferring the message the
// server sent.
func failure(err error, msgs failureMessages) Outcome {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return Outcome{Message: verr.Message}
	}
	if errors.Is(err, client.ErrUnavailable) {
		return Outcome{Message: msgs.Transport}
	}
	if msg := client.ServerMessage(err); msg != "" {
		return Outcome{Message: msg}
	}
	return Outcome{Message: msgs.Server}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
