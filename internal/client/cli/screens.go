package cli

import (
	"bytes"
	"context"
	"errors"
	"strconv"

	"github.com/dmitrijs2005/autoscanml/internal/client/models"
	"github.com/dmitrijs2005/autoscanml/internal/client/render"
	"github.com/dmitrijs2005/autoscanml/internal/client/services"
	"github.com/dmitrijs2005/autoscanml/internal/filex"
)

const msgPartialDashboard = "Some dashboard data could not be loaded."

// Dashboard loads and prints the dashboard summary.
func (a *App) Dashboard(ctx context.Context) error {
	snap, err := a.dashboard.Load(ctx)
	a.lastDashboard = &snap
	if err != nil {
		a.println(msgPartialDashboard)
		a.log.Warn(ctx, "dashboard incomplete", "error", err)
	}
	return render.WriteDashboard(a.out, snap.Summary, nowFn())
}

// Export writes the dashboard as Markdown to path. The last loaded
// dashboard is reused when there is one.
func (a *App) Export(ctx context.Context, path string) error {
	if a.lastDashboard == nil {
		snap, err := a.dashboard.Load(ctx)
		if err != nil {
			a.println(msgPartialDashboard)
		}
		a.lastDashboard = &snap
	}

	var buf bytes.Buffer
	if err := render.WriteDashboard(&buf, a.lastDashboard.Summary, nowFn()); err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return err
	}
	a.printf("Dashboard exported to %s\n", path)
	return nil
}

// Reports lists scanned reports and offers to download one.
func (a *App) Reports(ctx context.Context) error {
	items, err := a.reports.List(ctx)
	if err != nil {
		a.log.Warn(ctx, "reports unavailable", "error", err)
	}
	if err := render.WriteReports(a.out, items); err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	choice, err := getSimpleText(a.reader, "Download report # (Enter to skip)", a.out)
	if err != nil || choice == "" {
		return err
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(items) {
		a.println("No such report.")
		return nil
	}

	path, err := a.reports.Download(ctx, items[n-1].ReportURL, a.reportsDir)
	if err != nil {
		a.println("Failed to download report.")
		return shown(err)
	}
	a.printf("Report saved to %s\n", path)
	return nil
}

// Upload submits the model at path for scanning and prints the report link.
func (a *App) Upload(ctx context.Context, path string) error {
	if err := a.upload.SelectFile(models.LocalFile{Path: path}); err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			a.println(verr.Message)
			return shown(err)
		}
		return err
	}

	out, err := a.upload.Submit(ctx)
	if out.Message != "" {
		a.println(out.Message)
	}
	if err != nil {
		if errors.Is(err, services.ErrInFlight) {
			a.println("An upload is already in progress.")
		}
		return shown(err)
	}

	snap := a.upload.Snapshot()
	a.printf("Report: %s\n", snap.ReportURL)
	a.lastDashboard = nil
	return a.upload.Reset()
}

// Settings prints the profile of the logged-in user and the theme.
func (a *App) Settings(ctx context.Context) error {
	theme, err := a.settings.Theme(ctx)
	if err != nil {
		return err
	}

	p, err := a.settings.Profile(ctx)
	if err != nil {
		a.println("Could not load profile.")
		a.log.Warn(ctx, "profile unavailable", "error", err)
	} else {
		a.printf("Name:     %s\n", p.Name)
		a.printf("Username: %s\n", p.Username)
		a.printf("Email:    %s\n", p.Email)
		a.printf("Country:  %s\n", p.Country)
	}
	a.printf("Theme:    %s\n", theme)
	return nil
}

// Theme shows the theme, or switches it when one is given.
func (a *App) Theme(ctx context.Context, theme string) error {
	if theme == "" {
		t, err := a.settings.Theme(ctx)
		if err != nil {
			return err
		}
		a.printf("Theme: %s\n", t)
		return nil
	}

	if err := a.settings.SetTheme(ctx, theme); err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			a.println(verr.Message)
			return shown(err)
		}
		return err
	}
	a.printf("Theme set to %s\n", theme)
	return nil
}
