package views

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"juicyboard/client-go/board/api"
	"juicyboard/client-go/board/gateway"
	"juicyboard/client-go/board/kvstore"
	"juicyboard/client-go/board/session"
	"juicyboard/client-go/board/types"
	"juicyboard/client-go/board/ui"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// newTestApp wires a full client against an httptest backend. Notifications
// from both the views and the gateway land in the returned slice.
func newTestApp(t *testing.T, handler http.Handler) (*App, *[]string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	kv, err := kvstore.Open(":memory:")
	if err != nil {
		t.Fatalf("kvstore.Open: %v", err)
	}
	t.Cleanup(func() { _ = kv.Close() })
	sess := session.New(kv)

	var msgs []string
	notify := func(msg string) { msgs = append(msgs, msg) }

	gw := gateway.New(srv.URL, sess)
	gw.Notify = notify

	a := &App{
		API:             api.New(gw, sess),
		Session:         sess,
		Mount:           ui.NewMount(),
		Bindings:        ui.NewBindings(),
		Viewport:        ui.NewViewport(40),
		Notify:          notify,
		PageSize:        10,
		ScrollThreshold: 200,
	}
	a.NewRouter()
	return a, &msgs
}

func seedSession(t *testing.T, a *App, id int64, nickname string) {
	t.Helper()
	err := a.Session.Save(context.Background(), types.Identity{
		UserID: id, Email: "a@b.co", Nickname: nickname,
	}, "tok")
	if err != nil {
		t.Fatalf("seed session: %v", err)
	}
}

func count(msgs []string, want string) int {
	n := 0
	for _, m := range msgs {
		if m == want {
			n++
		}
	}
	return n
}

func TestGuardedViewRedirectsToLogin(t *testing.T) {
	a, msgs := newTestApp(t, http.NewServeMux())

	a.router.Navigate("#board")
	a.router.Flush()

	if got := a.router.Location(); got != "#login" {
		t.Fatalf("location: %q", got)
	}
	if count(*msgs, "please log in first") != 1 {
		t.Fatalf("notifications: %v", *msgs)
	}
	if !strings.Contains(a.Mount.Render(), "log in") {
		t.Fatalf("login page not rendered:\n%s", a.Mount.Render())
	}
}

func TestUnknownFragmentFallsBackToHome(t *testing.T) {
	a, _ := newTestApp(t, http.NewServeMux())

	a.router.Navigate("#no-such-view")
	a.router.Flush()

	if !strings.Contains(a.Mount.Render(), "classify an image") {
		t.Fatalf("expected home page:\n%s", a.Mount.Render())
	}
}

func TestLoginActionSavesSessionAndGoesHome(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"access_token": "tok-1"},
		})
	})
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"user_id": 1, "email": "a@b.co", "nickname": "mango"},
		})
	})

	a, msgs := newTestApp(t, mux)
	a.router.Navigate("#login")
	a.router.Flush()

	err := a.Bindings.Invoke(context.Background(), "login", map[string]string{
		"email": "a@b.co", "password": "pw",
	})
	if err != nil {
		t.Fatalf("login action: %v", err)
	}
	a.router.Flush()

	if a.Session.Current(context.Background()) == nil {
		t.Fatalf("session not saved")
	}
	if count(*msgs, "welcome back") != 1 {
		t.Fatalf("notifications: %v", *msgs)
	}
	if got := a.router.Location(); got != "#home" {
		t.Fatalf("location: %q", got)
	}
}

func TestBoardScrollLoadsPagesAndDisposerStops(t *testing.T) {
	var requests int
	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts", func(w http.ResponseWriter, r *http.Request) {
		requests++
		posts := make([]map[string]any, 10)
		for i := range posts {
			posts[i] = map[string]any{
				"post_id": requests*100 + i, "title": "post", "user_id": 1,
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"posts": posts, "has_next": true, "next_cursor": requests + 1,
			},
		})
	})

	a, _ := newTestApp(t, mux)
	seedSession(t, a, 1, "mango")

	a.router.Navigate("#board")
	a.router.Flush()
	if requests != 1 {
		t.Fatalf("initial load requests: %d", requests)
	}
	if !strings.Contains(a.Mount.Render(), "post") {
		t.Fatalf("posts not rendered:\n%s", a.Mount.Render())
	}

	// The short test document keeps the viewport near the bottom, so each
	// scroll event asks for the next page.
	a.Viewport.ScrollBy(1)
	if requests != 2 {
		t.Fatalf("requests after scroll: %d", requests)
	}
	a.Viewport.ScrollBy(1)
	if requests != 3 {
		t.Fatalf("requests after second scroll: %d", requests)
	}

	a.router.Navigate("#home")
	a.router.Flush()
	a.Viewport.ScrollBy(1)
	if requests != 3 {
		t.Fatalf("scroll listener survived navigation: %d requests", requests)
	}
}

func TestBoardEmptyFeedShowsStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"posts": []any{}, "has_next": false},
		})
	})

	a, _ := newTestApp(t, mux)
	seedSession(t, a, 1, "mango")

	a.router.Navigate("#board")
	a.router.Flush()

	if !strings.Contains(a.Mount.Render(), "no posts yet") {
		t.Fatalf("empty status missing:\n%s", a.Mount.Render())
	}
}

func TestLikeToggleRollbackRestoresExactState(t *testing.T) {
	lt := NewLikeToggle(3)
	lt.Toggle()
	if !lt.Liked() || lt.Count() != 4 {
		t.Fatalf("after toggle: liked=%v count=%d", lt.Liked(), lt.Count())
	}
	lt.Rollback()
	if lt.Liked() || lt.Count() != 3 {
		t.Fatalf("after rollback: liked=%v count=%d", lt.Liked(), lt.Count())
	}

	lt = NewLikeToggle(0)
	lt.Toggle()
	lt.Toggle()
	if lt.Liked() || lt.Count() != 0 {
		t.Fatalf("double toggle: liked=%v count=%d", lt.Liked(), lt.Count())
	}
}

func TestPostDetailLikeFailureRollsBackOnce(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts/5", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"post_id": 5, "user_id": 9, "title": "t", "content": "c",
				"like_count": 2, "view_count": 1,
			},
		})
	})
	mux.HandleFunc("POST /posts/5/like", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "like failed"})
	})

	a, msgs := newTestApp(t, mux)
	seedSession(t, a, 1, "mango")

	a.router.Navigate("#post?id=5")
	a.router.Flush()
	if !strings.Contains(a.Mount.Render(), "(+) 2") {
		t.Fatalf("initial like state missing:\n%s", a.Mount.Render())
	}

	if err := a.Bindings.Invoke(context.Background(), "toggle-like", nil); err != nil {
		t.Fatalf("toggle-like: %v", err)
	}

	if !strings.Contains(a.Mount.Render(), "(+) 2") {
		t.Fatalf("rollback did not restore state:\n%s", a.Mount.Render())
	}
	if count(*msgs, "like failed") != 1 {
		t.Fatalf("expected exactly one failure notification: %v", *msgs)
	}
}

func TestPostDetailHidesOtherAuthorsControls(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /posts/5", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{
				"post_id": 5, "user_id": 9, "title": "t", "content": "c",
				"comments": []map[string]any{
					{"comment_id": 1, "user_id": 1, "content": "mine"},
					{"comment_id": 2, "user_id": 9, "content": "theirs"},
				},
			},
		})
	})

	a, _ := newTestApp(t, mux)
	seedSession(t, a, 1, "mango")

	a.router.Navigate("#post?id=5")
	a.router.Flush()

	if strings.Contains(a.Mount.Render(), "[edit-post]") {
		t.Fatalf("author controls shown to non-author:\n%s", a.Mount.Render())
	}
	for _, name := range a.Bindings.Names() {
		if name == "edit-post" || name == "delete-post" {
			t.Fatalf("author action bound for non-author: %s", name)
		}
	}

	if !ownsComment([]types.Comment{{CommentID: 1, UserID: 1}}, "1", 1) {
		t.Fatalf("own comment not recognized")
	}
	if ownsComment([]types.Comment{{CommentID: 2, UserID: 9}}, "2", 1) {
		t.Fatalf("foreign comment recognized as own")
	}
}

func TestPostWriteNavigatesToNewDetail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /posts", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"post_id": 11},
		})
	})
	mux.HandleFunc("GET /posts/11", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"post_id": 11, "user_id": 1, "title": "fresh", "content": "c"},
		})
	})

	a, msgs := newTestApp(t, mux)
	seedSession(t, a, 1, "mango")

	a.router.Navigate("#post-write")
	a.router.Flush()

	err := a.Bindings.Invoke(context.Background(), "submit", map[string]string{
		"title": "fresh", "content": "c",
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	a.router.Flush()

	if got := a.router.Location(); got != "#post?id=11" {
		t.Fatalf("location: %q", got)
	}
	if count(*msgs, "post created") != 1 {
		t.Fatalf("notifications: %v", *msgs)
	}
	if !strings.Contains(a.Mount.Render(), "fresh") {
		t.Fatalf("detail not rendered:\n%s", a.Mount.Render())
	}
}

func TestPostWriteRequiresTitleAndContent(t *testing.T) {
	a, msgs := newTestApp(t, http.NewServeMux())
	seedSession(t, a, 1, "mango")

	a.router.Navigate("#post-write")
	a.router.Flush()

	if err := a.Bindings.Invoke(context.Background(), "submit", map[string]string{"title": "  "}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if count(*msgs, "please enter both a title and content") != 1 {
		t.Fatalf("notifications: %v", *msgs)
	}
}

func TestProfileDeleteAccountClearsSession(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"data": map[string]any{"user_id": 1, "email": "a@b.co", "nickname": "mango"},
		})
	})
	mux.HandleFunc("DELETE /me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"message": "ok"})
	})

	a, msgs := newTestApp(t, mux)
	seedSession(t, a, 1, "mango")

	a.router.Navigate("#profile-edit")
	a.router.Flush()

	if err := a.Bindings.Invoke(context.Background(), "delete-account", nil); err != nil {
		t.Fatalf("delete-account: %v", err)
	}
	a.router.Flush()

	if a.Session.Current(context.Background()) != nil {
		t.Fatalf("session survived account deletion")
	}
	if count(*msgs, "account deleted") != 1 {
		t.Fatalf("notifications: %v", *msgs)
	}
	if got := a.router.Location(); got != "#login" {
		t.Fatalf("location: %q", got)
	}
}

func TestPasswordEditLogsOutAfterChange(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("PATCH /me/password", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"message": "ok"})
	})

	a, msgs := newTestApp(t, mux)
	seedSession(t, a, 1, "mango")

	a.router.Navigate("#password-edit")
	a.router.Flush()

	err := a.Bindings.Invoke(context.Background(), "update", map[string]string{
		"password": "Abcdef1!", "password_confirm": "Abcdef1!",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	a.router.Flush()

	if a.Session.Current(context.Background()) != nil {
		t.Fatalf("session survived password change")
	}
	if count(*msgs, "password changed, please log in again") != 1 {
		t.Fatalf("notifications: %v", *msgs)
	}
	if got := a.router.Location(); got != "#login" {
		t.Fatalf("location: %q", got)
	}
}

func TestLateRegionWriteAfterNavigationIsIgnored(t *testing.T) {
	a, _ := newTestApp(t, http.NewServeMux())

	a.setPage("old "+ui.Region("slot"), "slot")
	a.setPage("new page")

	a.setRegion("slot", "late response")
	if got := a.Mount.Render(); got != "new page" {
		t.Fatalf("late write leaked: %q", got)
	}
}
