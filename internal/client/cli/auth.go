package cli

import (
	"context"

	"github.com/dmitrijs2005/gophbooks/internal/client/models"
	"github.com/dmitrijs2005/gophbooks/internal/common"
)

// getSimpleText, getPassword, getMultiline and getConfirmation are
// indirections used to facilitate testing.
var (
	getSimpleText   = GetSimpleText
	getPassword     = GetPassword
	getMultiline    = GetMultiline
	getConfirmation = GetConfirmation
)

// Signup prompts for a display name, email and password and creates an
// account. The user logs in afterwards.
func (a *App) Signup(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	in := models.SignupInput{Name: name, Email: email, Password: string(password)}
	if err := a.authService.Signup(ctx, in); err != nil {
		return err
	}

	a.printf("Account created. Use 'login' to sign in.\n")
	return nil
}

// Login prompts for credentials and starts a session. The password buffer
// is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	u, err := a.authService.Login(ctx, models.LoginInput{Email: email, Password: string(password)})
	if err != nil {
		return err
	}
	a.user = u

	if u.IsAdmin() {
		a.printf("Logged in as %s (administrator)\n", u.ID)
	} else {
		a.printf("Logged in as %s\n", u.ID)
	}
	return nil
}

// Logout ends the session locally even when the server call fails.
func (a *App) Logout(ctx context.Context) error {
	err := a.authService.Logout(ctx)
	a.user = models.User{}
	a.printf("Logged out\n")
	return err
}

func (a *App) WhoAmI(ctx context.Context) error {
	if !a.isLoggedIn() {
		a.printf("Not logged in\n")
		return nil
	}
	a.printf("%s, role %s\n", a.user.ID, a.user.Role)
	return nil
}

func (a *App) expireSession(ctx context.Context) error {
	a.user = models.User{}
	return a.authService.HandleUnauthenticated(ctx)
}

