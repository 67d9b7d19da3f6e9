package theme

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/ledstrip/internal/led"
)

type namedTheme struct{ id string }

func (t *namedTheme) ID() string                            { return t.id }
func (t *namedTheme) Init(context.Context, led.Strip) error { return nil }
func (t *namedTheme) Step() Outcome                         { return Continue }

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	a := &namedTheme{id: "a"}
	r.Register(a)

	got, ok := r.Lookup("a")
	assert.True(t, ok)
	assert.Same(t, a, got)

	_, ok = r.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistryAlwaysHasNull(t *testing.T) {
	r := NewRegistry()
	n := r.Null()
	assert.Equal(t, NullID, n.ID())
	assert.True(t, IsNull(n))
	assert.True(t, IsNull(nil))

	got, ok := r.Lookup(NullID)
	assert.True(t, ok)
	assert.Equal(t, NullID, got.ID())
}

func TestRegistryRejectsNullOverride(t *testing.T) {
	r := NewRegistry()
	r.Register(&namedTheme{id: NullID})
	got, _ := r.Lookup(NullID)
	assert.Equal(t, r.Null(), got, "built-in null theme must not be replaced")

	r.Register(nil)
	assert.Equal(t, []string{"null"}, r.IDs())
}

func TestNullThemeIsInert(t *testing.T) {
	n := NewRegistry().Null()
	assert.NoError(t, n.Init(context.Background(), nil))
	out := n.Step()
	assert.False(t, out.Stop)
}

func TestOutcomeStop(t *testing.T) {
	out := Stop("because")
	assert.True(t, out.Stop)
	assert.Equal(t, "because", out.Reason)
	assert.False(t, Continue.Stop)
}
