package services

import (
	"context"
	"time"

	"mostrador/internal/logging"
)

// Poller drives the fixed-interval auto-close sweep. Errors are
// logged and swallowed: polling is a background concern and the next
// tick retries. No backoff, no jitter. Stop on logout.
type Poller struct {
	shifts   *ShiftService
	interval time.Duration
	notifyCh chan string
	stopCh   chan struct{}
}

// NewPoller creates a poller. notifyCh (optional) receives the
// employee name whenever a tick discovers the tracked shift was
// auto-closed; sends never block.
func NewPoller(shifts *ShiftService, interval time.Duration, notifyCh chan string) *Poller {
	return &Poller{
		shifts:   shifts,
		interval: interval,
		notifyCh: notifyCh,
		stopCh:   make(chan struct{}),
	}
}

// Start begins polling in the background, running one sweep
// immediately.
func (p *Poller) Start() {
	go p.loop()
}

// Stop halts the polling loop.
func (p *Poller) Stop() {
	close(p.stopCh)
}

func (p *Poller) loop() {
	p.tick()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.tick()
		}
	}
}

func (p *Poller) tick() {
	// The tracked employee must be read before the sweep clears it.
	employeeName := ""
	if snapshot := p.shifts.sessions.Snapshot(); snapshot.Employee != nil {
		employeeName = snapshot.Employee.Name
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()

	swept, err := p.shifts.CheckAutoClose(ctx)
	if err != nil {
		logging.Logger.Warn("Auto-close poll failed, will retry next tick", "error", err)
		return
	}
	if !swept {
		return
	}

	if p.notifyCh != nil {
		select {
		case p.notifyCh <- employeeName:
		default:
			// Channel full, skip notification
		}
	}
}
