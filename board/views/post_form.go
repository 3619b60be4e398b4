package views

import (
	"context"
	"fmt"
	"strings"

	"juicyboard/client-go/board/router"
	"juicyboard/client-go/board/ui"
)

func PostWrite(a *App) router.View {
	return func(rt router.Route) func() {
		ctx := a.ctx()
		if a.requireLogin(ctx) == nil {
			return nil
		}

		a.setPage(a.header("#post-write") +
			"\n== write a post ==\n" +
			"fields: title (required), content (required), image (url, optional)\n")
		a.bindHeader("#post-write")

		a.Bindings.Bind("submit", func(ctx context.Context, fields map[string]string) error {
			title := strings.TrimSpace(fields["title"])
			content := strings.TrimSpace(fields["content"])
			image := strings.TrimSpace(fields["image"])
			if title == "" || content == "" {
				a.notify("please enter both a title and content")
				return nil
			}

			postID, err := a.API.CreatePost(ctx, title, content, image)
			if err != nil {
				return nil
			}
			a.notify("post created")
			if postID != "" {
				a.navigate("#post?id=" + postID)
			} else {
				a.navigate("#board")
			}
			return nil
		})

		a.Bindings.Bind("cancel", func(ctx context.Context, fields map[string]string) error {
			a.navigate("#board")
			return nil
		})
		return nil
	}
}

func PostEdit(a *App) router.View {
	return func(rt router.Route) func() {
		ctx := a.ctx()
		if a.requireLogin(ctx) == nil {
			return nil
		}
		id := rt.Query["id"]
		if id == "" {
			a.notify("invalid access")
			a.navigate("#board")
			return nil
		}

		a.setPage(a.header("#post-edit")+"\n"+ui.Region("postEdit")+"\n", "postEdit")
		a.bindHeader("#post-edit")
		a.setRegion("postEdit", "loading post...")

		p, err := a.API.GetPost(ctx, id)
		if err != nil {
			a.setRegion("postEdit", "failed to load post")
			return nil
		}

		a.setRegion("postEdit", fmt.Sprintf(
			"== edit post ==\ntitle: %s\ncontent: %s\nimage: %s\nfields: title, content, image\n",
			esc(p.Title), esc(p.Content), esc(p.Image)))

		a.Bindings.Bind("submit", func(ctx context.Context, fields map[string]string) error {
			title := strings.TrimSpace(fields["title"])
			content := strings.TrimSpace(fields["content"])
			image := strings.TrimSpace(fields["image"])
			if title == "" || content == "" {
				a.notify("please enter both a title and content")
				return nil
			}
			if err := a.API.UpdatePost(ctx, id, title, content, image); err != nil {
				return nil
			}
			a.notify("post updated")
			a.navigate("#post?id=" + id)
			return nil
		})

		a.Bindings.Bind("cancel", func(ctx context.Context, fields map[string]string) error {
			a.navigate("#post?id=" + id)
			return nil
		})
		return nil
	}
}
