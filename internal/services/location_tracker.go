package services

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"speed-backend/internal/domain"
	"speed-backend/internal/domain/models"
	"speed-backend/internal/utils"
)

const (
	DefaultLocationInterval = 10 * time.Second
	// DefaultLocationJitter bounds each simulated move in degrees.
	DefaultLocationJitter = 0.005
)

// DefaultOrigin is Victoria Island, Lagos.
var DefaultOrigin = models.Location{Lat: 6.5244, Lng: 3.3792}

// LocationTracker simulates movement for online drivers: one goroutine per
// driver nudges the roster location every Interval until stopped.
type LocationTracker struct {
	Roster   Roster
	Interval time.Duration
	Jitter   float64
	Rand     func() float64

	mu      sync.Mutex
	running map[int64]context.CancelFunc
	wg      sync.WaitGroup
}

func NewLocationTracker(roster Roster, interval time.Duration) *LocationTracker {
	if interval <= 0 {
		interval = DefaultLocationInterval
	}
	return &LocationTracker{
		Roster:   roster,
		Interval: interval,
		Jitter:   DefaultLocationJitter,
		Rand:     rand.Float64,
		running:  map[int64]context.CancelFunc{},
	}
}

// Start begins tracking driverID from origin. Starting an already tracked
// driver is a no-op.
func (t *LocationTracker) Start(driverID int64, origin models.Location) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running == nil {
		t.running = map[int64]context.CancelFunc{}
	}
	if _, ok := t.running[driverID]; ok {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	t.running[driverID] = cancel
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.run(ctx, driverID, origin)
	}()
	utils.LogEvent("", "tracker", "start", fmt.Sprintf("driver_id=%d", driverID))
}

func (t *LocationTracker) Stop(driverID int64) {
	t.mu.Lock()
	cancel, ok := t.running[driverID]
	delete(t.running, driverID)
	t.mu.Unlock()
	if ok {
		cancel()
		utils.LogEvent("", "tracker", "stop", fmt.Sprintf("driver_id=%d", driverID))
	}
}

// StopAll cancels every tracker and waits for the goroutines to exit.
func (t *LocationTracker) StopAll() {
	t.mu.Lock()
	for id, cancel := range t.running {
		cancel()
		delete(t.running, id)
	}
	t.mu.Unlock()
	t.wg.Wait()
}

func (t *LocationTracker) Running(driverID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.running[driverID]
	return ok
}

func (t *LocationTracker) run(ctx context.Context, driverID int64, loc models.Location) {
	if !t.publish(ctx, driverID, loc) {
		return
	}
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			loc = t.step(loc)
			if !t.publish(ctx, driverID, loc) {
				return
			}
		}
	}
}

func (t *LocationTracker) step(loc models.Location) models.Location {
	r := t.Rand
	if r == nil {
		r = rand.Float64
	}
	loc.Lat += (r()*2 - 1) * t.Jitter
	loc.Lng += (r()*2 - 1) * t.Jitter
	return loc
}

// publish reports whether tracking should continue.
func (t *LocationTracker) publish(ctx context.Context, driverID int64, loc models.Location) bool {
	err := t.Roster.SetLocation(ctx, driverID, loc)
	switch {
	case err == nil:
		return true
	case ctx.Err() != nil:
		return false
	case domain.IsNotFound(err):
		utils.LogWarn("", "tracker", "set_location", fmt.Sprintf("driver_id=%d left the roster", driverID), err)
		t.forget(driverID)
		return false
	default:
		utils.LogWarn("", "tracker", "set_location", fmt.Sprintf("driver_id=%d", driverID), err)
		return true
	}
}

func (t *LocationTracker) forget(driverID int64) {
	t.mu.Lock()
	cancel, ok := t.running[driverID]
	delete(t.running, driverID)
	t.mu.Unlock()
	if ok {
		cancel()
	}
}
