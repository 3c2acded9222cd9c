package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL chrome (prompt, help, unknown command).
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. *App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Login(ctx context.Context) error
	Signup(ctx context.Context) error
	Forgot(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Reports(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	Settings(ctx context.Context) error
	Theme(ctx context.Context, theme string) error
	Passwd(ctx context.Context) error
	Export(ctx context.Context, path string) error
	Logout(ctx context.Context) error
}

const (
	helpGuest  = "Available commands: login, signup, forgot, theme [light|dark], help, exit"
	helpMember = "Available commands: dashboard, reports, upload <path>, settings, theme [light|dark], passwd, export <file.md>, logout, help, exit"
)

var memberOnly = map[string]struct{}{
	"dashboard": {}, "reports": {}, "upload": {}, "settings": {},
	"passwd": {}, "export": {}, "logout": {},
}

// runREPL reads one command per line and dispatches it to a. The loop ends
// on EOF or when the user types "exit" or "quit". Handler errors are shown
// and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("asml (%s)> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, arg := parts[0], strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), parts[0]))

		if _, ok := memberOnly[cmd]; ok && !a.isLoggedIn(ctx) {
			printlnFn("Please log in first.")
			continue
		}

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}

		case "login":
			cmdErr = a.Login(ctx)

		case "signup", "register":
			cmdErr = a.Signup(ctx)

		case "forgot":
			cmdErr = a.Forgot(ctx)

		case "dashboard":
			cmdErr = a.Dashboard(ctx)

		case "reports":
			cmdErr = a.Reports(ctx)

		case "upload":
			if arg == "" {
				printlnFn("Usage: upload <path>")
				continue
			}
			cmdErr = a.Upload(ctx, arg)

		case "settings":
			cmdErr = a.Settings(ctx)

		case "theme":
			cmdErr = a.Theme(ctx, arg)

		case "passwd":
			cmdErr = a.Passwd(ctx)

		case "export":
			if arg == "" {
				printlnFn("Usage: export <file.md>")
				continue
			}
			cmdErr = a.Export(ctx, arg)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil && !errors.Is(cmdErr, errShown) {
			printlnFn("error:", cmdErr)
		}
	}
}
