package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/autoscanml/internal/client/client"
	"github.com/dmitrijs2005/autoscanml/internal/client/services"
	"github.com/dmitrijs2005/autoscanml/internal/logging"
)

// waitFn delays a navigation. Tests replace it to avoid sleeping.
var waitFn = func(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

// nowFn stamps exported dashboards.
var nowFn = time.Now

type App struct {
	client     client.Client
	prefs      *services.Preferences
	login      *services.LoginWorkflow
	password   *services.PasswordWorkflow
	upload     *services.UploadWorkflow
	dashboard  *services.DashboardService
	reports    *services.ReportsService
	settings   *services.SettingsService
	reportsDir string
	log        logging.Logger

	reader *bufio.Reader
	out    io.Writer

	lastDashboard *services.DashboardSnapshot
}

// Options carries the optional parts of an App.
type Options struct {
	ReportsDir    string
	UploadOptions []services.UploadOption
}

func NewApp(c client.Client, prefs *services.Preferences, log logging.Logger, in io.Reader, out io.Writer, opts Options) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{
		client:     c,
		prefs:      prefs,
		login:      services.NewLoginWorkflow(c, prefs, log),
		password:   services.NewPasswordWorkflow(c, log),
		upload:     services.NewUploadWorkflow(c, log, opts.UploadOptions...),
		dashboard:  services.NewDashboardService(c, log),
		reports:    services.NewReportsService(c, log),
		settings:   services.NewSettingsService(c, prefs, log),
		reportsDir: opts.ReportsDir,
		log:        log,
		reader:     bufio.NewReader(in),
		out:        out,
	}
}

// Run starts the REPL and blocks until exit.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()

	a.println("Welcome to AutoScanML (type 'help' for commands)")
	runREPL(ctx, a, func() string { return a.status(ctx) }, a.reader)
}

func (a *App) isLoggedIn(ctx context.Context) bool {
	_, err := a.settings.CurrentUser(ctx)
	return err == nil
}

func (a *App) status(ctx context.Context) string {
	user, err := a.settings.CurrentUser(ctx)
	if err != nil {
		return "guest"
	}
	return user
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// follow performs the navigation an outcome asked for.
func (a *App) follow(ctx context.Context, nav *services.Navigation) error {
	if nav == nil {
		return nil
	}
	waitFn(ctx, nav.After)
	switch nav.To {
	case services.RouteLogin:
		return a.Login(ctx)
	case services.RouteDashboard:
		return a.Dashboard(ctx)
	}
	return nil
}
