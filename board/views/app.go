// Package views implements the per-route view functions. Every view
// follows the same lifecycle: guard on session state, render its page into
// the mount wholesale, bind interaction handlers, and -- when it needs
// remote data -- render a placeholder first and re-render the data region
// in place when the call returns.
package views

import (
	"context"
	"html"
	"os"
	"strings"

	"juicyboard/client-go/board/api"
	"juicyboard/client-go/board/router"
	"juicyboard/client-go/board/session"
	"juicyboard/client-go/board/ui"
)

// App bundles the services a view needs. One App exists per client; the
// views it produces share the mount, bindings, viewport and session.
type App struct {
	API      *api.Client
	Session  *session.Store
	Mount    *ui.Mount
	Bindings *ui.Bindings
	Viewport *ui.Viewport

	// Notify surfaces a one-line message to the user.
	Notify func(msg string)
	// Ctx is the base context for view-issued calls.
	Ctx context.Context

	PageSize        int
	ScrollThreshold int

	// ReadFile loads a user-chosen file for uploads; defaults to
	// os.ReadFile.
	ReadFile func(path string) ([]byte, error)

	router *router.Router
}

// NewRouter builds the fragment table. Unknown fragments fall back to the
// home view.
func (a *App) NewRouter() *router.Router {
	r := router.New(Home(a))
	r.Handle("#home", Home(a))
	r.Handle("#login", Login(a))
	r.Handle("#signup", Signup(a))
	r.Handle("#board", Board(a))
	r.Handle("#post", PostDetail(a))
	r.Handle("#post-write", PostWrite(a))
	r.Handle("#post-edit", PostEdit(a))
	r.Handle("#profile-edit", ProfileEdit(a))
	r.Handle("#password-edit", PasswordEdit(a))
	a.router = r
	return r
}

func (a *App) ctx() context.Context {
	if a.Ctx != nil {
		return a.Ctx
	}
	return context.Background()
}

func (a *App) navigate(fragment string) {
	if a.router != nil {
		a.router.Navigate(fragment)
	}
}

func (a *App) notify(msg string) {
	if a.Notify != nil {
		a.Notify(msg)
	}
}

func (a *App) readFile(path string) ([]byte, error) {
	if a.ReadFile != nil {
		return a.ReadFile(path)
	}
	return os.ReadFile(path)
}

// setPage replaces the mount content wholesale and drops the previous
// page's bindings in the same step, so no stale handler survives a render.
func (a *App) setPage(page string, regions ...string) {
	a.Bindings.Reset()
	a.Mount.SetPage(page, regions...)
	a.syncViewport()
}

func (a *App) setRegion(id, content string) {
	if a.Mount.SetRegion(id, content) {
		a.syncViewport()
	}
}

// syncViewport keeps the scroll surface's document height in step with the
// rendered page.
func (a *App) syncViewport() {
	if a.Viewport == nil {
		return
	}
	a.Viewport.SetDocHeight(strings.Count(a.Mount.Render(), "\n") + 1)
}

// requireLogin guards a view: with no session it warns, redirects to the
// login view and returns nil, and the view does no further work.
func (a *App) requireLogin(ctx context.Context) *session.Session {
	cur := a.Session.Current(ctx)
	if cur == nil {
		a.notify("please log in first")
		a.navigate("#login")
	}
	return cur
}

func (a *App) logout(ctx context.Context) {
	_ = a.Session.Clear(ctx)
	a.notify("logged out")
	a.navigate("#login")
}

func esc(s string) string {
	return html.EscapeString(s)
}
