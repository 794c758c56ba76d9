package reservation

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeSweeper struct {
	count     int64
	reclaimed int64
	err       error
}

func (f *fakeSweeper) SweepExpired(ctx context.Context) (int64, error) {
	atomic.AddInt64(&f.count, 1)
	return f.reclaimed, f.err
}

type fakeLocker struct {
	held     bool
	err      error
	acquired int
	released int
}

func (f *fakeLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	f.acquired++
	if f.err != nil {
		return nil, false, f.err
	}
	if f.held {
		return nil, false, nil
	}
	return func(context.Context) error {
		f.released++
		return nil
	}, true, nil
}

func TestSweepOnceReclaims(t *testing.T) {
	sw := &fakeSweeper{reclaimed: 3}
	r := NewReaper(sw, nil, time.Minute, time.Second)

	r.sweepOnce(context.Background())
	assert.Equal(t, int64(1), sw.count)
}

func TestSweepOnceSkipsWhenLockHeld(t *testing.T) {
	sw := &fakeSweeper{}
	locker := &fakeLocker{held: true}
	r := NewReaper(sw, locker, time.Minute, time.Second)

	r.sweepOnce(context.Background())
	assert.Equal(t, 1, locker.acquired)
	assert.Zero(t, sw.count, "another instance holds the lease; this tick must skip")
}

func TestSweepOnceSweepsDespiteLockError(t *testing.T) {
	sw := &fakeSweeper{}
	locker := &fakeLocker{err: errors.New("redis down")}
	r := NewReaper(sw, locker, time.Minute, time.Second)

	r.sweepOnce(context.Background())
	assert.Equal(t, int64(1), sw.count, "the lock is advisory; its failure must not stop the sweep")
}

func TestSweepOnceReleasesLock(t *testing.T) {
	sw := &fakeSweeper{}
	locker := &fakeLocker{}
	r := NewReaper(sw, locker, time.Minute, time.Second)

	r.sweepOnce(context.Background())
	assert.Equal(t, 1, locker.released)
}

func TestSweepOnceToleratesSweepError(t *testing.T) {
	sw := &fakeSweeper{err: errors.New("deadlock victim")}
	r := NewReaper(sw, nil, time.Minute, time.Second)

	r.sweepOnce(context.Background())
	r.sweepOnce(context.Background())
	assert.Equal(t, int64(2), sw.count, "a failed sweep only waits for the next tick")
}

func TestReaperStartStop(t *testing.T) {
	sw := &fakeSweeper{}
	r := NewReaper(sw, nil, 5*time.Millisecond, time.Second)

	r.Start()
	time.Sleep(40 * time.Millisecond)
	r.Stop()
	time.Sleep(20 * time.Millisecond)

	swept := atomic.LoadInt64(&sw.count)
	assert.Greater(t, swept, int64(0))

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, swept, atomic.LoadInt64(&sw.count), "no sweeps after Stop")
}
