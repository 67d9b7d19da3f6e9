// Package theme defines the animation plugin interface the render controller
// hosts, plus the registry of available themes.
package theme

import (
	"context"

	"github.com/example/ledstrip/internal/led"
)

// Theme is one named unit of animation logic. A theme is stateful across
// Step calls but is never invoked concurrently with itself or another theme:
// the controller runs at most one episode at a time.
//
// The context passed to Init is the interrupt signal for the episode. It is
// cancelled when a switch or shutdown is requested; Step must observe it on a
// bounded cadence (per frame, and more often for expensive inner work) so
// switches stay responsive.
type Theme interface {
	ID() string
	Init(ctx context.Context, strip led.Strip) error
	Step() Outcome
}

// Outcome is the explicit result of one Step: either keep animating or end
// the episode with a reason.
type Outcome struct {
	Stop   bool
	Reason string
}

// Continue keeps the episode running.
var Continue = Outcome{}

// Stop ends the episode.
func Stop(reason string) Outcome { return Outcome{Stop: true, Reason: reason} }
