package repository

import (
	"sort"
	"strings"
)

// Model is one registry entry: the query handle of an entity, its scalar
// fields and an optional page size override (0 means the default).
type Model struct {
	Name     string
	Columns  Columns
	Pager    Pager
	PageSize int
}

// Registry maps entity names to their models. It is populated once at start
// up and read-only afterwards.
type Registry struct {
	models map[string]Model
}

// NewRegistry builds a registry from models. pageSizes holds per-entity page
// size overrides keyed by upper-cased entity name (e.g. "ENTITY").
func NewRegistry(pageSizes map[string]int, models ...Model) *Registry {
	r := &Registry{models: make(map[string]Model, len(models))}
	for _, m := range models {
		if n, ok := pageSizes[strings.ToUpper(m.Name)]; ok && n > 0 {
			m.PageSize = n
		}
		r.models[m.Name] = m
	}
	return r
}

// Lookup returns the model registered under name.
func (r *Registry) Lookup(name string) (Model, bool) {
	m, ok := r.models[name]
	return m, ok
}

// FieldsOf lists the scalar fields of an entity.
func (r *Registry) FieldsOf(name string) ([]string, bool) {
	m, ok := r.models[name]
	if !ok {
		return nil, false
	}
	return m.Columns.Fields(), true
}

// Names lists the registered entity names in sorted order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.models))
	for name := range r.models {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
