package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/autoscanml/internal/client/models"
	"github.com/dmitrijs2005/autoscanml/internal/client/services"
	"github.com/dmitrijs2005/autoscanml/internal/common"
)

// errShown marks errors whose message the handler already printed.
var errShown = errors.New("already reported")

func shown(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errShown, err)
}

func (a *App) secret(prompt string) (string, error) {
	pw, err := getPassword(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// Login walks the login form. Remembered users prefill it; choosing a
// remembered username also fills its password.
func (a *App) Login(ctx context.Context) error {
	form, err := a.login.Init(ctx)
	if err != nil {
		return err
	}
	if users := a.login.Remembered(); len(users) > 0 {
		a.printf("Remembered users: %v\n", users)
	}

	username, err := GetWithDefault(a.reader, "Username", form.Username, a.out)
	if err != nil {
		return err
	}
	form = a.login.SetUsername(username)

	prompt := "Password"
	if form.Password != "" {
		prompt = "Password (Enter to use remembered)"
	}
	password, err := a.secret(prompt)
	if err != nil {
		return err
	}
	if password != "" || form.Password == "" {
		a.login.SetPassword(password)
	}

	remember, err := GetYesNo(a.reader, "Remember me?", form.RememberMe, a.out)
	if err != nil {
		return err
	}
	a.login.SetRememberMe(remember)

	out, err := a.login.Login(ctx)
	a.println(out.Message)
	if err != nil {
		return shown(err)
	}
	return a.follow(ctx, out.Navigate)
}

// Signup collects account details, requests an OTP and verifies it.
// Entering an empty code abandons verification.
func (a *App) Signup(ctx context.Context) error {
	w := services.NewSignupWorkflow(a.client, a.log)
	draft := &models.SignupDraft{}

	var err error
	if draft.Name, err = getSimpleText(a.reader, "Full name", a.out); err != nil {
		return err
	}
	country, err := getSimpleText(a.reader, fmt.Sprintf("Country (or %q)", models.CountryOther), a.out)
	if err != nil {
		return err
	}
	draft.SetCountry(country)
	if country == models.CountryOther {
		other, err := getSimpleText(a.reader, "Your country", a.out)
		if err != nil {
			return err
		}
		draft.SetOtherCountry(other)
	}
	if draft.Email, err = getSimpleText(a.reader, "Email", a.out); err != nil {
		return err
	}
	if draft.Username, err = getSimpleText(a.reader, "Username", a.out); err != nil {
		return err
	}
	if draft.Password, err = a.secret("Password"); err != nil {
		return err
	}
	if draft.AgreedToTerms, err = GetYesNo(a.reader, "Do you agree to the terms?", false, a.out); err != nil {
		return err
	}

	out, err := w.SubmitDetails(ctx, draft)
	a.println(out.Message)
	if err != nil {
		return shown(err)
	}

	for w.Stage() == services.StageAwaitingVerification {
		code, err := getSimpleText(a.reader, fmt.Sprintf("Enter the OTP sent to %s (empty to cancel)", w.Email()), a.out)
		if err != nil {
			return err
		}
		if code == "" {
			return nil
		}
		out, err := w.VerifyOTP(ctx, code)
		a.println(out.Message)
		if err != nil {
			continue
		}
		return a.follow(ctx, out.Navigate)
	}
	return nil
}

// Forgot runs the two-step password reset.
func (a *App) Forgot(ctx context.Context) error {
	w := services.NewResetWorkflow(a.client, a.log)

	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	out, err := w.RequestReset(ctx, email)
	a.println(out.Message)
	if err != nil {
		return shown(err)
	}

	for w.Stage() == services.StageAwaitingVerification {
		otp, err := getSimpleText(a.reader, "OTP (empty to cancel)", a.out)
		if err != nil {
			return err
		}
		if otp == "" {
			return nil
		}
		newPassword, err := a.secret("New password")
		if err != nil {
			return err
		}

		out, err := w.CompleteReset(ctx, "", otp, newPassword)
		a.println(out.Message)
		if err != nil {
			continue
		}
		return a.follow(ctx, out.Navigate)
	}
	return nil
}

// Passwd changes the password of the logged-in user.
func (a *App) Passwd(ctx context.Context) error {
	username, err := a.settings.CurrentUser(ctx)
	if err != nil {
		return err
	}

	form := &services.PasswordForm{}
	defer form.Clear()

	if form.Old, err = a.secret("Current password"); err != nil {
		return err
	}
	if form.New, err = a.secret("New password"); err != nil {
		return err
	}
	if form.Confirm, err = a.secret("Confirm new password"); err != nil {
		return err
	}

	out, err := a.password.ChangePassword(ctx, username, form)
	a.println(out.Message)
	return shown(err)
}

// Logout forgets all local state, remembered users included.
func (a *App) Logout(ctx context.Context) error {
	if err := a.settings.Logout(ctx); err != nil {
		return err
	}
	a.lastDashboard = nil
	a.println("Logged out.")
	return nil
}
