package views

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"juicyboard/client-go/board/router"
	"juicyboard/client-go/board/types"
	"juicyboard/client-go/board/ui"
)

// PostDetail shows one post with its comments, the optimistic like toggle
// and -- for the author -- edit and delete. Any comment mutation re-fetches
// the whole detail rather than patching incrementally.
func PostDetail(a *App) router.View {
	return func(rt router.Route) func() {
		ctx := a.ctx()
		cur := a.requireLogin(ctx)
		if cur == nil {
			return nil
		}
		id := rt.Query["id"]
		if id == "" {
			a.notify("invalid access")
			a.navigate("#board")
			return nil
		}
		viewer := cur.Identity

		// render is re-run after comment mutations; each run replaces the
		// page and rebinds from scratch.
		var render func()
		render = func() {
			a.setPage(a.header("#post")+"\n"+ui.Region("postDetail")+"\n", "postDetail")
			a.bindHeader("#post")
			a.setRegion("postDetail", "loading post...")

			p, err := a.API.GetPost(ctx, id)
			if err != nil {
				a.setRegion("postDetail", "failed to load post")
				return
			}

			like := NewLikeToggle(p.LikeCount)
			show := func() {
				a.setRegion("postDetail", renderPostDetail(p, viewer, like))
			}
			show()

			a.Bindings.Bind("back", func(ctx context.Context, fields map[string]string) error {
				a.navigate("#board")
				return nil
			})

			if viewer.UserID == p.UserID {
				a.Bindings.Bind("edit-post", func(ctx context.Context, fields map[string]string) error {
					a.navigate("#post-edit?id=" + id)
					return nil
				})
				a.Bindings.Bind("delete-post", func(ctx context.Context, fields map[string]string) error {
					if err := a.API.DeletePost(ctx, id); err != nil {
						return nil
					}
					a.notify("post deleted")
					a.navigate("#board")
					return nil
				})
			}

			a.Bindings.Bind("toggle-like", func(ctx context.Context, fields map[string]string) error {
				like.Toggle()
				show()
				if err := a.API.SetLike(ctx, id, like.Liked()); err != nil {
					// The gateway surfaced the failure; compensate locally.
					like.Rollback()
					show()
				}
				return nil
			})

			a.Bindings.Bind("add-comment", func(ctx context.Context, fields map[string]string) error {
				content := strings.TrimSpace(fields["content"])
				if content == "" {
					a.notify("please enter a comment")
					return nil
				}
				if err := a.API.AddComment(ctx, id, content); err != nil {
					return nil
				}
				a.notify("comment added")
				render()
				return nil
			})

			a.Bindings.Bind("edit-comment", func(ctx context.Context, fields map[string]string) error {
				cid := fields["cid"]
				content := strings.TrimSpace(fields["content"])
				if cid == "" || content == "" {
					a.notify("please enter a comment id and content")
					return nil
				}
				if !ownsComment(p.Comments, cid, viewer.UserID) {
					a.notify("you can only edit your own comments")
					return nil
				}
				if err := a.API.EditComment(ctx, id, cid, content); err != nil {
					return nil
				}
				a.notify("comment updated")
				render()
				return nil
			})
		}

		render()
		return nil
	}
}

func ownsComment(comments []types.Comment, cid string, userID int64) bool {
	id, err := strconv.ParseInt(cid, 10, 64)
	if err != nil {
		return false
	}
	for _, c := range comments {
		if c.CommentID == id {
			return c.UserID == userID
		}
	}
	return false
}

func renderPostDetail(p *types.Post, viewer types.Identity, like *LikeToggle) string {
	var b strings.Builder

	heart := "(+)"
	if like.Liked() {
		heart = "(<3)"
	}
	fmt.Fprintf(&b, "[back]   like %s %d\n\n", heart, like.Count())
	fmt.Fprintf(&b, "# %s\n", esc(p.Title))
	fmt.Fprintf(&b, "%s | views %d\n\n", esc(p.AuthorName()), p.ViewCount)
	if p.Image != "" {
		fmt.Fprintf(&b, "[image: %s]\n\n", esc(p.Image))
	}
	b.WriteString(esc(p.Content) + "\n")

	if viewer.UserID == p.UserID {
		b.WriteString("\n[edit-post] [delete-post]\n")
	}

	b.WriteString("\n-- comments --\n")
	if len(p.Comments) == 0 {
		b.WriteString("no comments yet\n")
	}
	for _, c := range p.Comments {
		mark := ""
		if c.UserID == viewer.UserID {
			mark = " [editable]"
		}
		fmt.Fprintf(&b, "(%d) %s%s: %s\n", c.CommentID, esc(c.AuthorName()), mark, esc(c.Content))
	}
	return b.String()
}
