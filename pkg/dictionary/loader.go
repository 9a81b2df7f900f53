package dictionary

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// State tracks the table lifecycle.
type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
	StateFailed
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Stats describes the loader for health and debug output.
type Stats struct {
	State   string
	Levels  int
	Entries int
}

// DefaultLevels is the number of HSK level files a full load covers.
const DefaultLevels = 6

// DefaultTimeout bounds one load attempt end to end.
const DefaultTimeout = 30 * time.Second

const loadKey = "load"

// Loader builds the dictionary table on first use. Concurrent callers of
// Ensure share one in-flight load. A failed load clears itself so the next
// call starts over; a successful one installs the table for the rest of
// the process.
type Loader struct {
	src     Source
	levels  int
	timeout time.Duration

	group singleflight.Group

	mu      sync.RWMutex
	state   State
	table   Table
	lastErr error
}

// NewLoader creates a loader over src. Zero levels or timeout pick the
// defaults.
func NewLoader(src Source, levels int, timeout time.Duration) *Loader {
	if levels <= 0 {
		levels = DefaultLevels
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Loader{src: src, levels: levels, timeout: timeout}
}

// Ensure returns the table, loading it first if needed. The load itself
// always runs to completion or failure under the loader's own timeout;
// ctx only bounds this caller's wait, so an impatient caller leaving does
// not abort the load for everyone else.
func (l *Loader) Ensure(ctx context.Context) (Table, error) {
	if table, ok := l.Table(); ok {
		return table, nil
	}

	ch := l.group.DoChan(loadKey, func() (any, error) {
		return l.load()
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(Table), nil
	}
}

// load runs one full fetch-and-merge. All levels fetch in parallel and any
// single failure fails the whole load.
func (l *Loader) load() (Table, error) {
	// another flight may have installed the table while this call queued
	if table, ok := l.Table(); ok {
		return table, nil
	}

	l.setState(StateLoading)
	start := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	perLevel := make([][]Entry, l.levels)
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < l.levels; i++ {
		level := i + 1
		g.Go(func() error {
			entries, err := l.src.FetchLevel(gctx, level)
			if err != nil {
				return fmt.Errorf("level %d: %w", level, err)
			}
			perLevel[level-1] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.fail(err)
		return nil, err
	}

	table := merge(perLevel)
	l.install(table)
	log.Debugf("dictionary loaded: %d entries from %d levels in %v", len(table), l.levels, time.Since(start))
	return table, nil
}

// Table returns the installed table, or false while none is loaded.
func (l *Loader) Table() (Table, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.table, l.table != nil
}

// State reports the lifecycle state.
func (l *Loader) State() State {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.state
}

// LastError returns the error of the most recent failed load, nil after a
// success.
func (l *Loader) LastError() error {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.lastErr
}

// Stats returns a snapshot for health and debug output.
func (l *Loader) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return Stats{
		State:   l.state.String(),
		Levels:  l.levels,
		Entries: len(l.table),
	}
}

func (l *Loader) setState(s State) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = s
}

func (l *Loader) install(t Table) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.table = t
	l.state = StateLoaded
	l.lastErr = nil
}

func (l *Loader) fail(err error) {
	l.mu.Lock()
	l.state = StateFailed
	l.lastErr = err
	l.mu.Unlock()
	log.Warnf("dictionary load failed: %v", err)
}
