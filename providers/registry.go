package providers

import (
	"fmt"
	"sort"

	"tripscout/models"
)

// Registry holds the adapter set, keyed by provider code and supported
// category. It is populated once at startup and read-only thereafter, so
// lookups need no synchronization.
type Registry struct {
	byCode     map[string]Adapter
	byCategory map[models.Category][]Adapter
	priority   map[string]int
	ordered    []Adapter
}

// NewRegistry builds a registry from the adapter set. priorityOrder lists
// provider codes from most to least preferred and drives deterministic
// tie-breaking; codes not listed rank after listed ones, by code.
func NewRegistry(priorityOrder []string, adapters ...Adapter) (*Registry, error) {
	r := &Registry{
		byCode:     make(map[string]Adapter, len(adapters)),
		byCategory: make(map[models.Category][]Adapter),
		priority:   make(map[string]int, len(priorityOrder)),
	}
	for i, code := range priorityOrder {
		r.priority[code] = i
	}
	for _, a := range adapters {
		if _, dup := r.byCode[a.Code()]; dup {
			return nil, fmt.Errorf("duplicate provider code %q", a.Code())
		}
		r.byCode[a.Code()] = a
		r.ordered = append(r.ordered, a)
		for _, cat := range a.Categories() {
			r.byCategory[cat] = append(r.byCategory[cat], a)
		}
	}
	for cat := range r.byCategory {
		r.sortByPriority(r.byCategory[cat])
	}
	r.sortByPriority(r.ordered)
	return r, nil
}

func (r *Registry) sortByPriority(adapters []Adapter) {
	sort.Slice(adapters, func(i, j int) bool {
		return r.Less(adapters[i].Code(), adapters[j].Code())
	})
}

// Less reports whether provider a ranks before provider b in priority order.
func (r *Registry) Less(a, b string) bool {
	pa, oka := r.priority[a]
	pb, okb := r.priority[b]
	switch {
	case oka && okb:
		return pa < pb
	case oka:
		return true
	case okb:
		return false
	default:
		return a < b
	}
}

// ByCategory returns all adapters supporting the category, in priority order.
func (r *Registry) ByCategory(category models.Category) []Adapter {
	return r.byCategory[category]
}

// ByCode returns the adapter registered under code, if any.
func (r *Registry) ByCode(code string) (Adapter, bool) {
	a, ok := r.byCode[code]
	return a, ok
}

// All returns every registered adapter, in priority order.
func (r *Registry) All() []Adapter {
	return r.ordered
}
