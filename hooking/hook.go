// Package hooking lets observers attach to a simulation run without the run
// knowing who is watching.
package hooking

import "reflect"

// HookPos names a point in the life of a hookable object where hooks fire.
type HookPos struct {
	Name string
}

// HookCtx is the context that holds all the information about the site that a
// hook is triggered.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   any
	Detail any
}

// Hookable defines an object that accept Hooks.
type Hookable interface {
	// Name returns the name of the object that fires the hooks.
	Name() string

	// AcceptHook registers a hook. If positions are given, the hook only
	// fires at those positions.
	AcceptHook(hook Hook, positions ...*HookPos)

	// NumHooks returns the number of hooks registered.
	NumHooks() int
}

// Hook is a short piece of program that can be invoked by a hookable object.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f.
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

type registration struct {
	hook      Hook
	positions []*HookPos
}

func (r registration) firesAt(pos *HookPos) bool {
	if len(r.positions) == 0 {
		return true
	}

	for _, p := range r.positions {
		if p == pos {
			return true
		}
	}

	return false
}

// A HookableBase provides some utility function for other type that implement
// the Hookable interface.
type HookableBase struct {
	registrations []registration
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.registrations)
}

// AcceptHook register a hook.
func (h *HookableBase) AcceptHook(hook Hook, positions ...*HookPos) {
	h.mustNotHaveDuplicatedHook(hook)

	h.registrations = append(h.registrations, registration{
		hook:      hook,
		positions: positions,
	})
}

// Function hooks are not comparable, so only comparable hooks are checked.
func (h *HookableBase) mustNotHaveDuplicatedHook(hook Hook) {
	if !reflect.TypeOf(hook).Comparable() {
		return
	}

	for _, r := range h.registrations {
		if !reflect.TypeOf(r.hook).Comparable() {
			continue
		}

		if r.hook == hook {
			panic("duplicated hook")
		}
	}
}

// InvokeHook triggers the registered hooks that listen to ctx.Pos.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, r := range h.registrations {
		if r.firesAt(ctx.Pos) {
			r.hook.Func(ctx)
		}
	}
}
