package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/autoscanml/internal/client/client"
	"github.com/dmitrijs2005/autoscanml/internal/client/models"
	"github.com/dmitrijs2005/autoscanml/internal/logging"
)

const (
	msgLoginSuccess   = "Login successful!"
	msgLoginFailed    = "Login failed"
	msgLoginTransport = "Error connecting to server"
)

// LoginForm is the state of the login screen.
type LoginForm struct {
	Username   string
	Password   string
	RememberMe bool
}

// LoginWorkflow authenticates the user and maintains the remembered-user
// list.
type LoginWorkflow struct {
	mu         sync.Mutex
	client     client.Client
	prefs      *Preferences
	log        logging.Logger
	form       LoginForm
	remembered models.RememberedUsers
}

func NewLoginWorkflow(c client.Client, prefs *Preferences, log logging.Logger) *LoginWorkflow {
	return &LoginWorkflow{client: c, prefs: prefs, log: log}
}

// Init loads the remembered users and prefills the form with the most
// recent one.
func (w *LoginWorkflow) Init(ctx context.Context) (LoginForm, error) {
	users, err := w.prefs.RememberedUsers(ctx)
	if err != nil {
		return LoginForm{}, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.remembered = users
	w.form = LoginForm{}
	if len(users) > 0 {
		w.form = LoginForm{Username: users[0].Username, Password: users[0].Password, RememberMe: true}
	}
	return w.form, nil
}

// Remembered lists the usernames offered for quick login.
func (w *LoginWorkflow) Remembered() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.remembered.Usernames()
}

// Form returns the current form state.
func (w *LoginWorkflow) Form() LoginForm {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.form
}

// SetUsername applies a selected or typed username. A remembered username
// fills in its password and turns RememberMe on; any other clears both.
func (w *LoginWorkflow) SetUsername(username string) LoginForm {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.form.Username = username
	if c, ok := w.remembered.Find(username); ok {
		w.form.Password = c.Password
		w.form.RememberMe = true
	} else {
		w.form.Password = ""
		w.form.RememberMe = false
	}
	return w.form
}

func (w *LoginWorkflow) SetPassword(password string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form.Password = password
}

func (w *LoginWorkflow) SetRememberMe(on bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.form.RememberMe = on
}

// Login submits the form. On success the username is persisted, the
// credentials are remembered when RememberMe is set, and the view is sent to
// the dashboard after LoginRedirectDelay.
func (w *LoginWorkflow) Login(ctx context.Context) (Outcome, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	form := w.form
	if _, err := w.client.Login(ctx, form.Username, form.Password); err != nil {
		w.log.Warn(ctx, "login failed", "username", form.Username, "error", err)
		return failure(err, failureMessages{Server: msgLoginFailed, Transport: msgLoginTransport}), err
	}

	if form.RememberMe {
		users, err := w.prefs.Remember(ctx, models.Credentials{Username: form.Username, Password: form.Password})
		if err != nil {
			return Outcome{}, err
		}
		w.remembered = users
	}
	if err := w.prefs.SetUsername(ctx, form.Username); err != nil {
		return Outcome{}, err
	}

	w.log.Debug(ctx, "login succeeded", "username", form.Username, "remember", form.RememberMe)
	return Outcome{Message: msgLoginSuccess, Navigate: navigate(RouteDashboard, LoginRedirectDelay)}, nil
}
