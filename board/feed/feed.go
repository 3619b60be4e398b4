// Package feed drives the cursor-paginated, incrementally loaded post
// list. A controller is built fresh each time the board view is entered
// and discarded on teardown; nothing is cached across visits.
package feed

import (
	"context"

	"juicyboard/client-go/board/types"
)

// Source serves one page of posts. The empty cursor requests the first
// page.
type Source interface {
	Page(ctx context.Context, cursor string, limit int) (*types.PostPage, error)
}

// Statuses shown in the list's loading slot.
const (
	StatusLoading    = "loading posts..."
	StatusEmpty      = "no posts yet"
	StatusLoadFailed = "failed to load posts"
)

// Controller holds the feed state machine. Items only ever grow by
// concatenation in arrival order; the controller never reorders or
// deduplicates (that is the server's concern). All methods are meant for
// the single event-driven thread that owns the view.
type Controller struct {
	src   Source
	limit int

	cursor    string
	items     []types.Post
	loading   bool
	exhausted bool

	// OnItems receives the full item sequence after each append.
	OnItems func(items []types.Post)
	// OnStatus receives loading-slot text updates.
	OnStatus func(status string)
}

func New(src Source, limit int) *Controller {
	return &Controller{src: src, limit: limit}
}

func (c *Controller) Items() []types.Post { return c.items }
func (c *Controller) Loading() bool       { return c.loading }
func (c *Controller) Exhausted() bool     { return c.exhausted }
func (c *Controller) Cursor() string      { return c.cursor }

// LoadMore fetches and appends the next page. It is a no-op while a fetch
// is in flight or once the feed is exhausted, which serializes pages and
// makes scroll-storm calls harmless. A failed fetch leaves cursor, items
// and exhausted untouched so a later call can retry.
func (c *Controller) LoadMore(ctx context.Context) error {
	if c.loading || c.exhausted {
		return nil
	}
	c.loading = true
	defer func() { c.loading = false }()

	firstPage := c.cursor == ""
	c.status(StatusLoading)

	page, err := c.src.Page(ctx, c.cursor, c.limit)
	if err != nil {
		c.status(StatusLoadFailed)
		return err
	}

	if len(page.Posts) == 0 {
		c.exhausted = true
		if firstPage {
			c.status(StatusEmpty)
		} else {
			c.status("")
		}
		return nil
	}

	c.items = append(c.items, page.Posts...)
	if page.HasNext && page.NextCursor != "" {
		c.cursor = page.NextCursor
	} else {
		c.exhausted = true
	}
	c.status("")
	if c.OnItems != nil {
		c.OnItems(c.items)
	}
	return nil
}

func (c *Controller) status(s string) {
	if c.OnStatus != nil {
		c.OnStatus(s)
	}
}
