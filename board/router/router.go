// Package router maps location fragments to views. Dispatch is total: any
// fragment, including empty and unknown ones, resolves to exactly one view.
// Each view activation returns a disposer; the router runs it before
// activating the next view, so page-scoped ambient listeners never leak
// across transitions.
package router

import (
	"strings"
	"sync"
)

// DefaultFragment is where an empty location lands on first load.
const DefaultFragment = "#home"

// Route is the parsed location: the fragment used for dispatch plus its
// query parameters. It is derived on every dispatch, never persisted.
type Route struct {
	Fragment string
	Query    map[string]string
}

// Parse splits a raw location ("#post?id=1") into fragment and query.
// The query component never participates in dispatch.
func Parse(location string) Route {
	frag, rawQuery, _ := strings.Cut(location, "?")
	rt := Route{Fragment: frag, Query: map[string]string{}}
	for _, pair := range strings.Split(rawQuery, "&") {
		if pair == "" {
			continue
		}
		k, v, _ := strings.Cut(pair, "=")
		rt.Query[k] = v
	}
	return rt
}

// View renders a page and returns a disposer for any ambient listeners it
// installed. A nil disposer is fine for views without them.
type View func(rt Route) (dispose func())

type Router struct {
	mu       sync.Mutex
	routes   map[string]View
	fallback View
	location string
	pending  []string
	dispose  func()
}

// New creates a router whose unknown-fragment fallback is the given view.
func New(fallback View) *Router {
	return &Router{
		routes:   make(map[string]View),
		fallback: fallback,
	}
}

func (r *Router) Handle(fragment string, v View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes[fragment] = v
}

// Location returns the current raw location.
func (r *Router) Location() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.location
}

// Navigate queues a location change. Like a fragment assignment in a
// browser, it returns immediately; the change is applied by the next Flush.
func (r *Router) Navigate(fragment string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, fragment)
}

// Flush applies queued location changes in order, dispatching each one.
// Views may Navigate from inside a dispatch (e.g. a login guard); those
// changes are picked up in the same Flush.
func (r *Router) Flush() {
	for {
		r.mu.Lock()
		if len(r.pending) == 0 {
			r.mu.Unlock()
			return
		}
		next := r.pending[0]
		r.pending = r.pending[1:]
		if next == r.location {
			// Same-fragment assignment does not re-fire, mirroring
			// hashchange semantics.
			r.mu.Unlock()
			continue
		}
		r.location = next
		r.mu.Unlock()
		r.Dispatch()
	}
}

// Start performs the initial dispatch, defaulting an empty location to
// DefaultFragment, then drains any navigations the first view queued.
func (r *Router) Start() {
	r.mu.Lock()
	if r.location == "" {
		r.location = DefaultFragment
	}
	r.mu.Unlock()
	r.Dispatch()
	r.Flush()
}

// Dispatch tears the previous view down and renders the view for the
// current location. The previous page's content stays in place until the
// new view's render replaces it.
func (r *Router) Dispatch() {
	r.mu.Lock()
	location := r.location
	rt := Parse(location)
	v, ok := r.routes[rt.Fragment]
	if !ok {
		v = r.fallback
	}
	dispose := r.dispose
	r.dispose = nil
	r.mu.Unlock()

	if dispose != nil {
		dispose()
	}
	d := v(rt)

	r.mu.Lock()
	r.dispose = d
	r.mu.Unlock()
}
