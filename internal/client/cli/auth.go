package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/jobtrack/internal/client/auth"
)

func (a *App) Register(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Email:", a.out)
	if err != nil {
		return
	}
	firstName, err := GetSimpleText(a.reader, "First name:", a.out)
	if err != nil {
		return
	}
	lastName, err := GetSimpleText(a.reader, "Last name:", a.out)
	if err != nil {
		return
	}
	password, err := GetPassword(a.out, "Password: ")
	if err != nil {
		return
	}

	err = a.authService.Register(ctx, auth.RegisterRequest{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
	})
	if err != nil {
		printf(a.out, "Registration failed: %v\n", err)
		return
	}
	printf(a.out, "Registered. Check your inbox for a confirmation link, then run 'confirm <token>'.\n")
}

func (a *App) ConfirmEmail(ctx context.Context, args []string) {
	if len(args) != 1 {
		printf(a.out, "Usage: confirm <token>\n")
		return
	}
	if err := a.authService.ConfirmEmail(ctx, args[0]); err != nil {
		printf(a.out, "Confirmation failed: %v\n", err)
		return
	}
	printf(a.out, "Email confirmed. You can log in now.\n")
}

func (a *App) Login(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Email:", a.out)
	if err != nil {
		return
	}
	password, err := GetPassword(a.out, "Password: ")
	if err != nil {
		return
	}

	user, err := a.authService.Login(ctx, email, password)
	if err != nil {
		switch classified := auth.ClassifyLogin(err); {
		case errors.Is(classified, auth.ErrEmailNotConfirmed):
			printf(a.out, "Please confirm your email first\n")
		case errors.Is(classified, auth.ErrInvalidCredentials):
			printf(a.out, "Email or password incorrect\n")
		default:
			printf(a.out, "Login failed. Please try again.\n")
		}
		return
	}
	printf(a.out, "Welcome, %s %s!\n", user.FirstName, user.LastName)
}

func (a *App) Logout(ctx context.Context) {
	if err := a.authService.Logout(ctx); err != nil {
		// local session is gone either way
		printf(a.out, "Logged out locally (server unreachable: %v)\n", err)
		return
	}
	printf(a.out, "Logged out.\n")
}

func (a *App) ForgotPassword(ctx context.Context) {
	email, err := GetSimpleText(a.reader, "Email:", a.out)
	if err != nil {
		return
	}
	_ = a.authService.ForgotPassword(ctx, email)
	printf(a.out, "If the address has an account, a reset link has been sent.\n")
}

func (a *App) ResetPassword(ctx context.Context) {
	token, err := GetSimpleText(a.reader, "Reset token:", a.out)
	if err != nil {
		return
	}
	password, err := GetPassword(a.out, "New password: ")
	if err != nil {
		return
	}
	if err := a.authService.ResetPassword(ctx, token, password); err != nil {
		printf(a.out, "Reset failed: %v\n", err)
		return
	}
	printf(a.out, "Password updated. You can log in now.\n")
}

func (a *App) WhoAmI(ctx context.Context) {
	u := a.sessions.Current()
	if u == nil || !a.isLoggedIn(ctx) {
		printf(a.out, "Not logged in.\n")
		return
	}
	printf(a.out, "%s %s <%s>\n", u.FirstName, u.LastName, u.Email)
}
