package check

import (
	"idiomlint/internal/core/errors"
	"idiomlint/internal/shared/util"
	"slices"
)

// Registry holds the available checks by name.
type Registry struct {
	checks map[string]Check
}

// NewRegistry registers checks in order; duplicate names are an error.
func NewRegistry(checks ...Check) (*Registry, error) {
	r := &Registry{checks: make(map[string]Check)}
	for _, c := range checks {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) Register(c Check) error {
	name := c.Name()
	if _, ok := r.checks[name]; ok {
		return errors.AddContext(errors.New(errors.CodeConflict, "check registered twice"), errors.CtxCheck, name)
	}
	r.checks[name] = c
	return nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	return util.SortedKeys(r.checks)
}

func (r *Registry) Lookup(name string) (Check, bool) {
	c, ok := r.checks[name]
	return c, ok
}

// Select returns the checks to run in name order. An empty enabled list
// means every registered check. Unknown names in either list are errors.
func (r *Registry) Select(enabled, disabled []string) ([]Check, error) {
	for _, name := range slices.Concat(enabled, disabled) {
		if _, ok := r.checks[name]; !ok {
			return nil, errors.AddContext(errors.New(errors.CodeNotFound, "unknown check"), errors.CtxCheck, name)
		}
	}
	var out []Check
	for _, name := range r.Names() {
		if len(enabled) > 0 && !slices.Contains(enabled, name) {
			continue
		}
		if slices.Contains(disabled, name) {
			continue
		}
		out = append(out, r.checks[name])
	}
	return out, nil
}
