package views

import (
	"context"
	"path/filepath"

	"juicyboard/client-go/board/api"
	"juicyboard/client-go/board/router"
	"juicyboard/client-go/board/validate"
)

func Login(a *App) router.View {
	return func(rt router.Route) func() {
		a.setPage(a.header("#login") +
			"\n== log in ==\n" +
			"fields: email, password\n")
		a.bindHeader("#login")

		a.Bindings.Bind("login", func(ctx context.Context, fields map[string]string) error {
			email := fields["email"]
			password := fields["password"]
			if email == "" || password == "" {
				a.notify("please enter both email and password")
				return nil
			}
			if _, err := a.API.Login(ctx, email, password); err != nil {
				// The gateway already surfaced the failure.
				return nil
			}
			a.notify("welcome back")
			a.navigate("#home")
			return nil
		})

		a.Bindings.Bind("go-signup", func(ctx context.Context, fields map[string]string) error {
			a.navigate("#signup")
			return nil
		})
		return nil
	}
}

func Signup(a *App) router.View {
	return func(rt router.Route) func() {
		a.setPage(a.header("#signup") +
			"\n== sign up ==\n" +
			"fields: email, password, password_confirm, nickname, profile_image (optional)\n")
		a.bindHeader("#signup")

		a.Bindings.Bind("signup", func(ctx context.Context, fields map[string]string) error {
			email := fields["email"]
			password := fields["password"]
			confirm := fields["password_confirm"]
			nickname := fields["nickname"]

			if email == "" || password == "" || confirm == "" || nickname == "" {
				a.notify("please fill in email, password, password confirmation and nickname")
				return nil
			}
			if !validate.Email(email) {
				a.notify("invalid email format, e.g. example@example.com")
				return nil
			}
			if !validate.Password(password) {
				a.notify("password must be 8-20 characters with upper, lower, digit and special characters")
				return nil
			}
			if password != confirm {
				a.notify("password and confirmation do not match")
				return nil
			}
			if ok, msg := validate.Nickname(nickname); !ok {
				a.notify(msg)
				return nil
			}

			var profileImage *api.Upload
			if path := fields["profile_image"]; path != "" {
				data, err := a.readFile(path)
				if err != nil {
					a.notify("could not read profile image")
					return nil
				}
				profileImage = &api.Upload{Filename: filepath.Base(path), Data: data}
			}

			if err := a.API.Register(ctx, email, password, nickname, profileImage); err != nil {
				return nil
			}
			a.notify("signup complete, please log in")
			a.navigate("#login")
			return nil
		})

		a.Bindings.Bind("back-to-login", func(ctx context.Context, fields map[string]string) error {
			a.navigate("#login")
			return nil
		})
		return nil
	}
}
