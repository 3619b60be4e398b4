// Package ui models the host surfaces the views render against: a single
// mount point with named regions, a registry of bound view actions, a
// whole-page scroll surface, and a user-notification sink. Keeping these
// behind small types lets tests drive a full view lifecycle without any
// real terminal.
package ui

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
)

// Region returns the placeholder a page embeds where a named region's
// content will be spliced in.
func Region(id string) string {
	return "[[region " + id + "]]"
}

// Mount is the single application mount point. SetPage replaces the whole
// page; SetRegion re-renders one declared region in place. A SetRegion for
// a region the current page never declared is a tolerated no-op -- that is
// what keeps a response arriving after navigation from corrupting the next
// view's output.
type Mount struct {
	mu      sync.Mutex
	page    string
	regions map[string]string
}

func NewMount() *Mount {
	return &Mount{regions: map[string]string{}}
}

func (m *Mount) SetPage(page string, regionIDs ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.page = page
	m.regions = map[string]string{}
	for _, id := range regionIDs {
		m.regions[id] = ""
	}
}

func (m *Mount) SetRegion(id, content string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.regions[id]; !ok {
		return false
	}
	m.regions[id] = content
	return true
}

// Render returns the page with region content spliced in.
func (m *Mount) Render() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.page
	for id, content := range m.regions {
		out = strings.ReplaceAll(out, Region(id), content)
	}
	return out
}

// Action is an interaction handler bound by a view: the named equivalent
// of a click listener, fed the form fields the user filled in.
type Action func(ctx context.Context, fields map[string]string) error

// Bindings holds the actions of the currently rendered page. Rebinding
// happens on every page render, so stale handlers from a previous view are
// never invocable.
type Bindings struct {
	mu      sync.Mutex
	actions map[string]Action
}

func NewBindings() *Bindings {
	return &Bindings{actions: map[string]Action{}}
}

func (b *Bindings) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actions = map[string]Action{}
}

func (b *Bindings) Bind(name string, a Action) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.actions[name] = a
}

func (b *Bindings) Names() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, 0, len(b.actions))
	for name := range b.actions {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (b *Bindings) Invoke(ctx context.Context, name string, fields map[string]string) error {
	b.mu.Lock()
	a, ok := b.actions[name]
	b.mu.Unlock()
	if !ok {
		return fmt.Errorf("no such action: %s", name)
	}
	if fields == nil {
		fields = map[string]string{}
	}
	return a(ctx, fields)
}

// Viewport is the whole-page scroll surface. It carries at most one
// ambient scroll listener; the owning view's disposer clears it so the
// listener never outlives the page that installed it.
type Viewport struct {
	mu         sync.Mutex
	pos        int
	viewHeight int
	docHeight  int
	onScroll   func()
}

func NewViewport(viewHeight int) *Viewport {
	return &Viewport{viewHeight: viewHeight}
}

func (v *Viewport) SetOnScroll(fn func()) {
	v.mu.Lock()
	v.onScroll = fn
	v.mu.Unlock()
}

func (v *Viewport) ClearOnScroll() {
	v.SetOnScroll(nil)
}

// SetDocHeight is called after a render changes the page length.
func (v *Viewport) SetDocHeight(h int) {
	v.mu.Lock()
	v.docHeight = h
	v.mu.Unlock()
}

// ScrollBy moves the scroll position, clamped to the document, and fires
// the ambient listener if one is installed.
func (v *Viewport) ScrollBy(delta int) {
	v.mu.Lock()
	v.pos += delta
	max := v.docHeight - v.viewHeight
	if max < 0 {
		max = 0
	}
	if v.pos > max {
		v.pos = max
	}
	if v.pos < 0 {
		v.pos = 0
	}
	fn := v.onScroll
	v.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// NearBottom reports whether the visible bottom edge is within threshold
// units of the document end.
func (v *Viewport) NearBottom(threshold int) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pos+v.viewHeight >= v.docHeight-threshold
}

// Notifier surfaces one-line messages to the user (the alert equivalent).
type Notifier struct {
	mu sync.Mutex
	w  io.Writer
}

func NewNotifier(w io.Writer) *Notifier {
	return &Notifier{w: w}
}

func (n *Notifier) Notify(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "! %s\n", msg)
}
