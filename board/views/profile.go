package views

import (
	"context"
	"fmt"
	"path/filepath"

	"juicyboard/client-go/board/api"
	"juicyboard/client-go/board/router"
	"juicyboard/client-go/board/ui"
	"juicyboard/client-go/board/validate"
)

func ProfileEdit(a *App) router.View {
	return func(rt router.Route) func() {
		ctx := a.ctx()
		if a.requireLogin(ctx) == nil {
			return nil
		}

		a.setPage(a.header("#profile-edit")+"\n"+ui.Region("profile")+"\n", "profile")
		a.bindHeader("#profile-edit")
		a.setRegion("profile", "loading profile...")

		id, err := a.API.Me(ctx)
		if err != nil {
			a.setRegion("profile", "failed to load profile")
			return nil
		}

		a.setRegion("profile", fmt.Sprintf(
			"== edit profile ==\nemail: %s\nnickname: %s\nprofile image: %s\nfields: nickname, profile_image (optional)\n",
			esc(id.Email), esc(id.Nickname), esc(id.ProfileImage)))

		a.Bindings.Bind("update", func(ctx context.Context, fields map[string]string) error {
			nickname := fields["nickname"]
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

			if err := a.API.UpdateProfile(ctx, nickname, profileImage); err != nil {
				return nil
			}
			a.notify("profile updated")
			return nil
		})

		a.Bindings.Bind("delete-account", func(ctx context.Context, fields map[string]string) error {
			if err := a.API.DeleteAccount(ctx); err != nil {
				return nil
			}
			a.notify("account deleted")
			a.navigate("#login")
			return nil
		})

		a.Bindings.Bind("done", func(ctx context.Context, fields map[string]string) error {
			a.navigate("#home")
			return nil
		})
		return nil
	}
}

func PasswordEdit(a *App) router.View {
	return func(rt router.Route) func() {
		ctx := a.ctx()
		if a.requireLogin(ctx) == nil {
			return nil
		}

		a.setPage(a.header("#password-edit") +
			"\n== change password ==\n" +
			"fields: password, password_confirm\n")
		a.bindHeader("#password-edit")

		a.Bindings.Bind("update", func(ctx context.Context, fields map[string]string) error {
			password := fields["password"]
			confirm := fields["password_confirm"]
			if password == "" || confirm == "" {
				a.notify("please enter the password twice")
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
			if err := a.API.UpdatePassword(ctx, password); err != nil {
				return nil
			}
			a.notify("password changed, please log in again")
			a.logout(ctx)
			return nil
		})
		return nil
	}
}
