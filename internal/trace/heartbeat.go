package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat periodically emits heartbeat events during a long check run. If
// heartbeats continue without property events, a case is likely stuck in a
// kernel loop.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	progress func() string
	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// StartHeartbeat starts a goroutine emitting heartbeat events at the given
// interval. progress, when non-nil, supplies the event detail. It returns nil
// when tracing is disabled or interval is not positive; Stop accepts nil.
func StartHeartbeat(tracer Tracer, interval time.Duration, progress func() string) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer:   tracer,
		interval: interval,
		progress: progress,
		stopCh:   make(chan struct{}),
	}
	h.wg.Add(1)
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer h.wg.Done()

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	n := 0
	for {
		select {
		case <-ticker.C:
			n++
			detail := fmt.Sprintf("#%d", n)
			if h.progress != nil {
				detail += " " + h.progress()
			}
			h.tracer.Emit(&Event{
				Time:   time.Now(),
				Kind:   KindHeartbeat,
				Scope:  ScopeCommand,
				Worker: -1,
				Name:   "heartbeat",
				Detail: detail,
			})
		case <-h.stopCh:
			return
		}
	}
}

// Stop stops the heartbeat goroutine and waits for it to finish.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.stopOnce.Do(func() { close(h.stopCh) })
	h.wg.Wait()
}
