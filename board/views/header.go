package views

import (
	"context"
	"strings"
)

// boardFragments are the fragments on which the header's toggle points
// back home instead of to the board.
var boardFragments = map[string]bool{
	"#board":      true,
	"#post":       true,
	"#post-write": true,
	"#post-edit":  true,
}

// header renders the top bar for the given fragment. The profile side
// shows the nickname when logged in and a login shortcut otherwise.
func (a *App) header(fragment string) string {
	var b strings.Builder
	b.WriteString("=== juicy community ===\n")

	if boardFragments[fragment] {
		b.WriteString("[toggle: home]")
	} else {
		b.WriteString("[toggle: board]")
	}

	cur := a.Session.Current(a.ctx())
	if cur != nil {
		nick := cur.Identity.Nickname
		if nick == "" {
			nick = "user"
		}
		b.WriteString("  (" + esc(nick) + " | profile-edit | password-edit | logout)\n")
	} else {
		b.WriteString("  (login)\n")
	}
	return b.String()
}

// bindHeader installs the header's actions for the current page.
func (a *App) bindHeader(fragment string) {
	target := "#board"
	if boardFragments[fragment] {
		target = "#home"
	}
	a.Bindings.Bind("toggle", func(ctx context.Context, fields map[string]string) error {
		a.navigate(target)
		return nil
	})

	if a.Session.Current(a.ctx()) != nil {
		a.Bindings.Bind("go-profile-edit", func(ctx context.Context, fields map[string]string) error {
			a.navigate("#profile-edit")
			return nil
		})
		a.Bindings.Bind("go-password-edit", func(ctx context.Context, fields map[string]string) error {
			a.navigate("#password-edit")
			return nil
		})
		a.Bindings.Bind("logout", func(ctx context.Context, fields map[string]string) error {
			a.logout(ctx)
			return nil
		})
	} else {
		a.Bindings.Bind("go-login", func(ctx context.Context, fields map[string]string) error {
			a.navigate("#login")
			return nil
		})
	}
}
