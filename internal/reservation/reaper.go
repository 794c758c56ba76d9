package reservation

import (
	"context"
	"log"
	"time"
)

// Sweeper is the slice of the seat store the reaper needs.
type Sweeper interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// Locker gates a sweep so that, with several instances running, only
// one pays for it per interval.  Gating is an optimization: the sweep
// is a single conditional update and concurrent sweeps stay correct.
type Locker interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error)
}

const reaperLockKey = "reaper:sweep"

// Reaper reverts expired holds to available on a fixed interval.  It
// is a safety net behind the on-demand reclaim built into the hold
// path; a failed or skipped tick is logged and the next tick tries
// again, so no error here is ever fatal.
type Reaper struct {
	store    Sweeper
	locker   Locker
	interval time.Duration
	lockTTL  time.Duration
	done     chan struct{}
}

// NewReaper wires a Reaper.  locker may be nil, in which case every
// tick sweeps unconditionally.
func NewReaper(store Sweeper, locker Locker, interval, lockTTL time.Duration) *Reaper {
	return &Reaper{
		store:    store,
		locker:   locker,
		interval: interval,
		lockTTL:  lockTTL,
		done:     make(chan struct{}),
	}
}

// Start launches the sweep loop in a goroutine.
func (r *Reaper) Start() {
	go r.run()
}

// Stop terminates the loop.  A sweep in flight finishes on its own.
func (r *Reaper) Stop() {
	close(r.done)
}

func (r *Reaper) run() {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.sweepOnce(context.Background())
		}
	}
}

// sweepOnce performs one gated sweep.  Lock errors degrade to an
// ungated sweep; a held lock skips the tick.
func (r *Reaper) sweepOnce(ctx context.Context) {
	if r.locker != nil {
		release, ok, err := r.locker.Acquire(ctx, reaperLockKey, r.lockTTL)
		if err != nil {
			log.Printf("reaper: lock acquire failed, sweeping anyway: %v", err)
		} else if !ok {
			return
		} else {
			defer func() {
				if rerr := release(ctx); rerr != nil {
					log.Printf("reaper: lock release failed: %v", rerr)
				}
			}()
		}
	}
	reclaimed, err := r.store.SweepExpired(ctx)
	if err != nil {
		log.Printf("reaper: sweep failed: %v", err)
		return
	}
	if reclaimed > 0 {
		log.Printf("reaper: reclaimed %d expired seat holds", reclaimed)
	}
}
