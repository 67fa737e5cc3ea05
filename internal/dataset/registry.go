package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIncompleteDatasets is returned when optimization is attempted
// before all five dataset roles are populated.
var ErrIncompleteDatasets = errors.New("incomplete dataset set")

// Registry holds the input tables for one computation session, at most
// one per role. Tables are immutable once set; Set replaces the whole
// table rather than mutating it.
type Registry struct {
	tables map[Role]*Table
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[Role]*Table)}
}

// Set populates a role with a loaded table.
func (r *Registry) Set(role Role, t *Table) {
	r.tables[role] = t
}

// Get returns the table for a role, or nil when unpopulated.
func (r *Registry) Get(role Role) *Table {
	return r.tables[role]
}

// Missing lists the unpopulated roles in canonical order.
func (r *Registry) Missing() []Role {
	var missing []Role
	for _, role := range Roles {
		if r.tables[role] == nil {
			missing = append(missing, role)
		}
	}
	return missing
}

// Ready reports whether all five roles are populated, wrapping
// ErrIncompleteDatasets with the missing role names otherwise.
func (r *Registry) Ready() error {
	missing := r.Missing()
	if len(missing) == 0 {
		return nil
	}
	names := make([]string, len(missing))
	for i, role := range missing {
		names[i] = string(role)
	}
	return fmt.Errorf("%w: missing %s", ErrIncompleteDatasets, strings.Join(names, ", "))
}

// Snapshot returns a shallow copy of the role map. Tables themselves
// are never mutated after load, so sharing them is safe.
func (r *Registry) Snapshot() map[Role]*Table {
	out := make(map[Role]*Table, len(r.tables))
	for role, t := range r.tables {
		out[role] = t
	}
	return out
}
