package theme

import (
	"context"
	"sort"

	"github.com/example/ledstrip/internal/led"
)

// NullID is the id of the distinguished idle theme.
const NullID = "null"

// nullTheme is the "nothing running" theme. The controller treats it as a
// dedicated idle condition and never calls its Step; the no-op bodies only
// exist so it satisfies the interface.
type nullTheme struct{}

func (nullTheme) ID() string                                { return NullID }
func (nullTheme) Init(_ context.Context, _ led.Strip) error { return nil }
func (nullTheme) Step() Outcome                             { return Continue }

// IsNull reports whether t is absent or the null theme.
func IsNull(t Theme) bool { return t == nil || t.ID() == NullID }

// Registry maps ids to Theme instances. Themes are registered once at
// startup; lookups after that are read-only. The null theme is always
// present.
type Registry struct {
	m    map[string]Theme
	null Theme
}

func NewRegistry() *Registry {
	n := nullTheme{}
	return &Registry{m: map[string]Theme{NullID: n}, null: n}
}

func (r *Registry) Register(t Theme) {
	if t == nil || t.ID() == NullID {
		return
	}
	r.m[t.ID()] = t
}

// Lookup returns the theme for id. The caller decides the fallback on a
// miss, typically the null theme.
func (r *Registry) Lookup(id string) (Theme, bool) {
	t, ok := r.m[id]
	return t, ok
}

// Null returns the idle theme.
func (r *Registry) Null() Theme { return r.null }

// IDs lists registered theme ids, sorted, null included.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
