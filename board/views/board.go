package views

import (
	"context"
	"fmt"
	"strings"

	"juicyboard/client-go/board/feed"
	"juicyboard/client-go/board/router"
	"juicyboard/client-go/board/types"
	"juicyboard/client-go/board/ui"
)

// Board is the infinite-scroll post list. Feed state is built fresh on
// every entry; the ambient scroll listener it installs is removed by the
// disposer the router runs on the next transition.
func Board(a *App) router.View {
	return func(rt router.Route) func() {
		ctx := a.ctx()
		if a.requireLogin(ctx) == nil {
			return nil
		}

		ctrl := feed.New(postSource{a.API}, a.PageSize)

		a.setPage(a.header("#board")+
			"\n== community board ==   [write]\n\n"+
			ui.Region("boardList")+"\n"+
			ui.Region("boardLoading")+"\n",
			"boardList", "boardLoading")
		a.bindHeader("#board")

		a.Bindings.Bind("write", func(ctx context.Context, fields map[string]string) error {
			a.navigate("#post-write")
			return nil
		})
		a.Bindings.Bind("open-post", func(ctx context.Context, fields map[string]string) error {
			id := fields["id"]
			if id == "" {
				return nil
			}
			a.navigate("#post?id=" + id)
			return nil
		})

		ctrl.OnItems = func(items []types.Post) {
			a.setRegion("boardList", renderBoardList(items))
		}
		ctrl.OnStatus = func(status string) {
			a.setRegion("boardLoading", status)
		}

		a.Viewport.SetOnScroll(func() {
			if ctrl.Loading() || ctrl.Exhausted() {
				return
			}
			if a.Viewport.NearBottom(a.ScrollThreshold) {
				_ = ctrl.LoadMore(ctx)
			}
		})

		_ = ctrl.LoadMore(ctx)

		return func() {
			a.Viewport.ClearOnScroll()
		}
	}
}

// postSource adapts the API client to the feed's page source.
type postSource struct {
	api postLister
}

type postLister interface {
	ListPosts(ctx context.Context, cursor string, limit int) (*types.PostPage, error)
}

func (s postSource) Page(ctx context.Context, cursor string, limit int) (*types.PostPage, error) {
	return s.api.ListPosts(ctx, cursor, limit)
}

func renderBoardList(items []types.Post) string {
	var b strings.Builder
	for _, p := range items {
		fmt.Fprintf(&b, "[%d] %s\n", p.PostID, esc(p.Title))
		fmt.Fprintf(&b, "    %s | likes %d | comments %d | views %d\n",
			esc(p.AuthorName()), p.LikeCount, len(p.Comments), p.ViewCount)
	}
	return strings.TrimRight(b.String(), "\n")
}
