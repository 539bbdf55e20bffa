package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
)

func printf(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}

// getStatus renders the prompt suffix: the logged-in user's email, if any.
func (a *App) getStatus(ctx context.Context) string {
	u := a.sessions.Current()
	if u == nil || !a.isLoggedIn(ctx) {
		return ""
	}
	return fmt.Sprintf("(%s)", u.Email)
}

func (a *App) Root(ctx context.Context) {
	printf(a.out, "Welcome to jobtrack CLI (type 'help' for commands)\n")

	for {
		printf(a.out, "jt %s> ", a.getStatus(ctx))
		line, err := a.reader.ReadString('\n')
		if err != nil {
			break
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			a.Help(ctx)
		case "register":
			a.Register(ctx)
		case "confirm":
			a.ConfirmEmail(ctx, args)
		case "login":
			a.Login(ctx)
		case "logout":
			a.Logout(ctx)
		case "forgot-password":
			a.ForgotPassword(ctx)
		case "reset-password":
			a.ResetPassword(ctx)
		case "whoami":
			a.WhoAmI(ctx)
		case "list", "l":
			a.ListApplications(ctx, args)
		case "add":
			a.AddApplication(ctx)
		case "rm":
			a.RemoveApplication(ctx, args)
		case "docs":
			a.ListDocuments(ctx, args)
		case "upload":
			a.UploadDocument(ctx, args)
		case "download":
			a.DownloadDocument(ctx, args)
		case "exit", "quit":
			return
		default:
			printf(a.out, "Unknown command: %s\n", cmd)
		}
	}
}

func (a *App) Help(ctx context.Context) {
	if a.isLoggedIn(ctx) {
		printf(a.out, "Available commands: whoami, (l)ist [status], add, rm <id>, docs <id>, upload <id> <file>, download <id> <doc> <file>, logout, exit\n")
	} else {
		printf(a.out, "Available commands: register, confirm <token>, login, forgot-password, reset-password, exit\n")
	}
}
