// Package render hosts the persistent render worker that runs theme episodes
// against the LED strip, and the switching protocol that hands the strip
// between themes safely.
package render

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/example/ledstrip/internal/led"
	"github.com/example/ledstrip/internal/perf"
	"github.com/example/ledstrip/internal/theme"
)

// State is the render worker's current phase.
type State int32

const (
	StateIdle State = iota
	StateInitializing
	StateRunning
	StateSwitching
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateSwitching:
		return "switching"
	case StateShuttingDown:
		return "shutting-down"
	default:
		return "unknown"
	}
}

const (
	// DefaultFPS is the target frame rate when none is configured.
	DefaultFPS = 60
	// DefaultShutdownTimeout bounds how long Shutdown waits for the worker.
	DefaultShutdownTimeout = time.Second

	// switchGrace bounds how long SetTheme waits for the worker to adopt the
	// new theme before returning with the timed-out flag set.
	switchGrace = 50 * time.Millisecond
	// initFailBackoff is the pause after a failed theme initialization.
	initFailBackoff = 100 * time.Millisecond
)

// ErrShutdownTimeout reports that the render worker was still running when
// the shutdown wait expired. The worker exits on its own once the current
// theme step returns; it cannot be preempted.
var ErrShutdownTimeout = errors.New("render worker did not exit before timeout")

type command struct {
	th    theme.Theme
	reply chan struct{}
}

// Options tunes a Controller. The zero value is usable.
type Options struct {
	// FPS is the target frame rate; 0 means DefaultFPS.
	FPS int
	// Perf receives one sample per rendered frame. Optional.
	Perf *perf.Monitor
	// OnError receives theme fault reports. Optional; defaults to the log.
	OnError func(msg string)
}

// Controller owns the render worker and the active theme reference. Exactly
// one theme episode runs at a time; callers only ever touch the switching
// protocol, never the strip or theme internals.
//
// Construct one per strip with NewController; there is no global instance.
type Controller struct {
	strip  led.Strip
	reg    *theme.Registry
	perf   *perf.Monitor
	period time.Duration

	mu             sync.Mutex
	onError        func(msg string)
	switching      bool
	switchTimedOut bool
	episodeCancel  context.CancelFunc // nil while idle

	state     atomic.Int32
	currentID atomic.Value // string

	cmds     chan command
	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}

	baseCtx    context.Context
	baseCancel context.CancelFunc

	// worker-owned after the constructor returns
	current theme.Theme
}

// NewController starts the render worker. The worker begins idle on the null
// theme and runs until Shutdown.
func NewController(strip led.Strip, reg *theme.Registry, opts Options) *Controller {
	fps := opts.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	onError := opts.OnError
	if onError == nil {
		onError = func(msg string) { log.Error().Msg(msg) }
	}
	c := &Controller{
		strip:   strip,
		reg:     reg,
		perf:    opts.Perf,
		period:  time.Second / time.Duration(fps),
		onError: onError,
		cmds:    make(chan command, 1),
		quit:    make(chan struct{}),
		done:    make(chan struct{}),
		current: reg.Null(),
	}
	c.baseCtx, c.baseCancel = context.WithCancel(context.Background())
	c.currentID.Store(theme.NullID)
	c.state.Store(int32(StateIdle))
	go c.run()
	return c
}

// State returns the worker's current phase.
func (c *Controller) State() State { return State(c.state.Load()) }

// CurrentThemeID returns the id of the theme the worker has adopted.
func (c *Controller) CurrentThemeID() string {
	id, _ := c.currentID.Load().(string)
	return id
}

// SetErrorCallback replaces the fault sink. Passing nil restores the default
// log-based sink.
func (c *Controller) SetErrorCallback(fn func(msg string)) {
	if fn == nil {
		fn = func(msg string) { log.Error().Msg(msg) }
	}
	c.mu.Lock()
	c.onError = fn
	c.mu.Unlock()
}

func (c *Controller) reportError(msg string) {
	c.mu.Lock()
	fn := c.onError
	c.mu.Unlock()
	fn(msg)
}

// SetTheme requests a switch to t; nil means the null theme. The call is a
// no-op while another switch is in flight and has not timed out, and when t
// is already the current theme. Enqueueing the request cancels the running
// episode's context, so a step that polls it yields at its polling cadence
// rather than running to completion. SetTheme returns once the worker has
// adopted the theme or after a short grace period, whichever comes first; a
// caller that needs a guaranteed switch polls CurrentThemeID.
func (c *Controller) SetTheme(t theme.Theme) {
	if t == nil {
		t = c.reg.Null()
	}
	c.mu.Lock()
	if c.switching && !c.switchTimedOut {
		c.mu.Unlock()
		return
	}
	if cur, _ := c.currentID.Load().(string); t.ID() == cur && !c.switching {
		c.mu.Unlock()
		return
	}
	c.switching = true
	c.switchTimedOut = false

	// The enqueue and the cancel read happen under the same lock hold. The
	// worker takes the lock to adopt a command or retire an episode, so the
	// cancel func read here belongs to the episode that was running when the
	// command landed, never to the episode started for it.
	reply := make(chan struct{}, 1)
	var cancel context.CancelFunc
	select {
	case c.cmds <- command{th: t, reply: reply}:
		cancel = c.episodeCancel
	case <-c.quit:
		c.switching = false
		c.mu.Unlock()
		return
	default:
		// An earlier timed-out request still occupies the queue. The worker
		// will adopt it and clear the flags; this request is dropped, per the
		// debounce contract.
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	// Interrupt the in-flight step so a cooperative theme hands the strip
	// over within its polling cadence.
	if cancel != nil {
		cancel()
	}

	select {
	case <-reply:
	case <-time.After(switchGrace):
		c.mu.Lock()
		if c.switching {
			c.switchTimedOut = true
		}
		c.mu.Unlock()
	case <-c.done:
	}
}

// SetThemeID looks id up in the registry and switches to it. Unknown ids are
// reported through the error callback and fall back to the null theme.
func (c *Controller) SetThemeID(id string) {
	if id == "" || id == theme.NullID {
		c.SetTheme(nil)
		return
	}
	t, ok := c.reg.Lookup(id)
	if !ok {
		c.reportError(fmt.Sprintf("unknown theme %q; falling back to null", id))
		t = nil
	}
	c.SetTheme(t)
}

// SetBrightness clamps v to 0-255 and applies it to the strip immediately.
// Brightness is a sink-level property, so this is safe mid-episode.
func (c *Controller) SetBrightness(v int) {
	if v < 0 {
		v = 0
	}
	if v > 0xFF {
		v = 0xFF
	}
	c.strip.SetBrightness(uint8(v))
	if err := c.strip.Show(); err != nil {
		c.reportError(fmt.Sprintf("brightness flush failed: %v", err))
	}
}

// SetSolidColor switches to the null theme, then paints every pixel. The
// switch first guarantees no theme is concurrently writing pixels.
func (c *Controller) SetSolidColor(r, g, b uint8) {
	c.SetTheme(nil)
	c.strip.Fill(led.Color{R: r, G: g, B: b})
	if err := c.strip.Show(); err != nil {
		c.reportError(fmt.Sprintf("solid color flush failed: %v", err))
	}
}

// Off blacks out the strip.
func (c *Controller) Off() { c.SetSolidColor(0, 0, 0) }

// Shutdown stops the worker and waits up to timeout (DefaultShutdownTimeout
// when <= 0) for it to exit. On ErrShutdownTimeout the worker may linger
// until the current theme step returns; it is never forcibly killed.
func (c *Controller) Shutdown(timeout time.Duration) error {
	c.quitOnce.Do(func() {
		close(c.quit)
		c.baseCancel()
	})
	if timeout <= 0 {
		timeout = DefaultShutdownTimeout
	}
	select {
	case <-c.done:
		return nil
	case <-time.After(timeout):
		log.Warn().Dur("timeout", timeout).Msg("render worker still running after shutdown wait")
		return ErrShutdownTimeout
	}
}

// run is the persistent render worker.
func (c *Controller) run() {
	defer close(c.done)
	runtime.LockOSThread()
	applySchedHints()

	for {
		select {
		case <-c.quit:
			c.state.Store(int32(StateShuttingDown))
			return
		default:
		}

		// Pick up a switch that landed while the previous episode was ending.
		select {
		case cmd := <-c.cmds:
			c.adopt(cmd)
		default:
		}

		if theme.IsNull(c.current) {
			c.state.Store(int32(StateIdle))
			select {
			case <-c.quit:
				c.state.Store(int32(StateShuttingDown))
				return
			case cmd := <-c.cmds:
				c.adopt(cmd)
			}
			continue
		}

		c.runEpisode(c.current)
	}
}

// adopt installs the commanded theme as current, clears the switch
// bookkeeping and acknowledges the caller.
func (c *Controller) adopt(cmd command) {
	c.current = cmd.th
	c.currentID.Store(cmd.th.ID())
	c.mu.Lock()
	c.switching = false
	c.switchTimedOut = false
	c.mu.Unlock()
	if cmd.reply != nil {
		cmd.reply <- struct{}{}
	}
}

// runEpisode initializes th and steps it until it stops, a switch arrives or
// shutdown is requested. Theme faults are contained here; they end the
// episode and never escape the worker.
func (c *Controller) runEpisode(th theme.Theme) {
	ctx, cancel := context.WithCancel(c.baseCtx)
	c.mu.Lock()
	c.episodeCancel = cancel
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		c.episodeCancel = nil
		c.mu.Unlock()
		cancel()
	}()

	c.state.Store(int32(StateInitializing))
	if err := c.safeInit(ctx, th); err != nil {
		c.reportError(fmt.Sprintf("failed to initialize theme %s: %v", th.ID(), err))
		c.current = c.reg.Null()
		c.currentID.Store(theme.NullID)
		c.backoff(initFailBackoff)
		return
	}

	c.state.Store(int32(StateRunning))
	for {
		start := time.Now()
		out, err := c.safeStep(th)
		elapsed := time.Since(start)
		if c.perf != nil {
			c.perf.RecordFrame(elapsed)
		}
		if err != nil {
			c.reportError(fmt.Sprintf("theme %s step fault: %v", th.ID(), err))
			c.state.Store(int32(StateSwitching))
			return
		}
		if out.Stop {
			log.Debug().Str("theme", th.ID()).Str("reason", out.Reason).Msg("theme ended episode")
			c.state.Store(int32(StateSwitching))
			return
		}

		// Pace to the target period. An overrun proceeds immediately; there
		// is no frame queue and no catch-up.
		if wait := c.period - elapsed; wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-c.quit:
				timer.Stop()
				return
			case cmd := <-c.cmds:
				timer.Stop()
				cancel()
				c.state.Store(int32(StateSwitching))
				c.adopt(cmd)
				return
			case <-timer.C:
			}
		} else {
			select {
			case <-c.quit:
				return
			case cmd := <-c.cmds:
				cancel()
				c.state.Store(int32(StateSwitching))
				c.adopt(cmd)
				return
			default:
			}
		}
	}
}

// backoff pauses between failed episodes without going deaf to commands.
func (c *Controller) backoff(d time.Duration) {
	select {
	case <-c.quit:
	case cmd := <-c.cmds:
		c.adopt(cmd)
	case <-time.After(d):
	}
}

func (c *Controller) safeInit(ctx context.Context, th theme.Theme) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return th.Init(ctx, c.strip)
}

func (c *Controller) safeStep(th theme.Theme) (out theme.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return th.Step(), nil
}
