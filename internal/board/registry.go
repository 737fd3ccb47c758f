package board

import (
	"slices"
	"time"
)

// Registry indexes modifiers by trigger square.
type Registry struct {
	bySquare map[int][]Modifier
	size     int
}

// NewRegistry builds a registry from the two modifier sources. The input
// slices are not retained.
func NewRegistry(buttholes []Butthole, specials []SpecialSquare) *Registry {
	modifiers := make([]Modifier, 0, len(buttholes)+len(specials))
	for _, b := range buttholes {
		modifiers = append(modifiers, b)
	}
	for _, s := range specials {
		modifiers = append(modifiers, s)
	}
	return NewRegistryFromModifiers(modifiers...)
}

// NewRegistryFromModifiers builds a registry from arbitrary modifier
// variants. Modifiers sharing a square are ordered by kind precedence, then
// by argument order.
func NewRegistryFromModifiers(modifiers ...Modifier) *Registry {
	r := &Registry{bySquare: make(map[int][]Modifier)}
	for _, m := range modifiers {
		if m == nil {
			continue
		}
		r.bySquare[m.Trigger()] = append(r.bySquare[m.Trigger()], m)
		r.size++
	}
	for _, entries := range r.bySquare {
		slices.SortStableFunc(entries, func(a, b Modifier) int {
			return rank(a.Kind()) - rank(b.Kind())
		})
	}
	return r
}

// Lookup returns the modifier triggered by landing on square at time t.
// Buttholes win over special squares on the same square.
func (r *Registry) Lookup(square int, t time.Time) (Modifier, bool) {
	if r == nil {
		return nil, false
	}
	for _, m := range r.bySquare[square] {
		if m.ActiveWindow().Covers(t) {
			return m, true
		}
	}
	return nil, false
}

// Len returns the number of registered modifiers.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return r.size
}

// rank places unknown kinds after every known kind.
func rank(kind Kind) int {
	if value, ok := precedence[kind]; ok {
		return value
	}
	return len(precedence)
}
