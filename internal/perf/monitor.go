// Package perf tracks render frame timing over a rolling window and samples
// system metrics at low rate.
package perf

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// Summary is a read-only snapshot of the current metrics. Safe to request at
// any time; producing it never blocks the render worker.
type Summary struct {
	CPUPercent     float64
	MemoryPercent  float64
	LEDFPS         float64
	LEDFrameTimeMS float64
	ProcessID      int
	ThreadCount    int
	GoroutineCount int
}

type frameSample struct {
	at  time.Time
	dur time.Duration
}

// Monitor keeps a trailing window of frame samples fed by the render worker
// and runs an independent 1 Hz system sampler. A sampler failure is logged
// and skipped for that cycle; it never reaches the render path.
type Monitor struct {
	window   time.Duration
	interval time.Duration
	now      func() time.Time
	proc     *process.Process

	mu        sync.Mutex
	samples   []frameSample
	fps       float64
	frameTime time.Duration
	cpuPct    float64
	memPct    float64
	threads   int

	cancel context.CancelFunc
	done   chan struct{}
}

// NewMonitor returns a monitor with a 1 s frame window and a 1 s sampling
// interval. The sampler is idle until Start.
func NewMonitor() *Monitor {
	m := &Monitor{
		window:   time.Second,
		interval: time.Second,
		now:      time.Now,
	}
	if p, err := process.NewProcess(int32(os.Getpid())); err == nil {
		m.proc = p
	}
	return m
}

// RecordFrame appends one frame duration, prunes samples older than the
// window and recomputes the derived metrics. Called by the render worker
// after every frame.
func (m *Monitor) RecordFrame(d time.Duration) {
	now := m.now()
	cutoff := now.Add(-m.window)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.samples = append(m.samples, frameSample{at: now, dur: d})
	i := 0
	for i < len(m.samples) && !m.samples[i].at.After(cutoff) {
		i++
	}
	if i > 0 {
		m.samples = append(m.samples[:0], m.samples[i:]...)
	}

	if len(m.samples) < 2 {
		m.fps = 0
		m.frameTime = 0
		return
	}
	span := m.samples[len(m.samples)-1].at.Sub(m.samples[0].at)
	if span <= 0 {
		m.fps = 0
		m.frameTime = 0
		return
	}
	var total time.Duration
	for _, s := range m.samples {
		total += s.dur
	}
	m.fps = float64(len(m.samples)) / span.Seconds()
	m.frameTime = total / time.Duration(len(m.samples))
}

// Start launches the background system sampler. Calling Start twice is a
// no-op.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.done = make(chan struct{})
	go m.sampleLoop(ctx, m.done)
}

// Stop halts the sampler and waits for it to exit.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	done := m.done
	m.cancel = nil
	m.done = nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (m *Monitor) sampleLoop(ctx context.Context, done chan struct{}) {
	defer close(done)
	// Prime the diff-based CPU counter so the first real sample is not 0/100.
	_, _ = cpu.PercentWithContext(ctx, 0, false)
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sampleOnce(ctx)
		}
	}
}

func (m *Monitor) sampleOnce(ctx context.Context) {
	pcts, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil || len(pcts) == 0 {
		log.Debug().Err(err).Msg("cpu sample failed; skipping cycle")
		return
	}
	cpuPct := pcts[0]

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("memory sample failed; skipping cycle")
		return
	}
	memPct := vm.UsedPercent

	var threads int

	if m.proc != nil {
		if n, err := m.proc.NumThreadsWithContext(ctx); err == nil {
			threads = int(n)
		}
	}

	m.mu.Lock()
	m.cpuPct = cpuPct
	m.memPct = memPct
	m.threads = threads
	m.mu.Unlock()
}

// Summary returns the current metrics snapshot.
func (m *Monitor) Summary() Summary {
	m.mu.Lock()
	s := Summary{
		CPUPercent:     m.cpuPct,
		MemoryPercent:  m.memPct,
		LEDFPS:         m.fps,
		LEDFrameTimeMS: float64(m.frameTime) / float64(time.Millisecond),
		ThreadCount:    m.threads,
	}
	m.mu.Unlock()
	s.ProcessID = os.Getpid()
	s.GoroutineCount = runtime.NumGoroutine()
	return s
}
