// Package views holds the informational panels of the dashboard and the
// router that decides which one is visible.
package views

import (
	"log/slog"
	"strings"
	"sync"
)

// View names one panel.
type View string

const (
	Overview   View = "overview"
	Simulation View = "simulation"
	Tech       View = "tech"
	Team       View = "team"
)

// All lists views in navigation order.
func All() []View {
	return []View{Overview, Simulation, Tech, Team}
}

// Parse maps a name to a view. Unknown names fall back to Overview.
func Parse(name string) View {
	switch View(strings.ToLower(strings.TrimSpace(name))) {
	case Simulation:
		return Simulation
	case Tech:
		return Tech
	case Team:
		return Team
	default:
		return Overview
	}
}

// Valid reports whether name is a known view without falling back.
func Valid(name string) bool {
	for _, v := range All() {
		if string(v) == name {
			return true
		}
	}
	return false
}

// Router holds the visible view. Hooks run when a view is entered or left,
// outside the router's lock.
type Router struct {
	selectMu sync.Mutex

	mu      sync.Mutex
	current View
	onEnter map[View][]func()
	onLeave map[View][]func()
	logger  *slog.Logger
}

// NewRouter starts on Overview.
func NewRouter(logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		current: Overview,
		onEnter: make(map[View][]func()),
		onLeave: make(map[View][]func()),
		logger:  logger.With("component", "views"),
	}
}

// OnEnter registers fn to run when v becomes visible.
func (r *Router) OnEnter(v View, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onEnter[v] = append(r.onEnter[v], fn)
}

// OnLeave registers fn to run when v stops being visible.
func (r *Router) OnLeave(v View, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onLeave[v] = append(r.onLeave[v], fn)
}

// Current returns the visible view.
func (r *Router) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Select switches to the named view, falling back to Overview, and returns
// the view now visible. Selecting the visible view runs no hooks.
func (r *Router) Select(name string) View {
	next := Parse(name)

	// hooks of one switch finish before the next switch starts
	r.selectMu.Lock()
	defer r.selectMu.Unlock()

	r.mu.Lock()
	prev := r.current
	if prev == next {
		r.mu.Unlock()
		return next
	}
	r.current = next
	leave := append([]func(){}, r.onLeave[prev]...)
	enter := append([]func(){}, r.onEnter[next]...)
	r.mu.Unlock()

	r.logger.Debug("view changed", "from", prev, "to", next)
	for _, fn := range leave {
		fn()
	}
	for _, fn := range enter {
		fn()
	}
	return next
}
