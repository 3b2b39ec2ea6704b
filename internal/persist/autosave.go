package persist

import (
	"sync"
	"time"
)

// DefaultAutosaveDelay coalesces bursts of edits into one save.
const DefaultAutosaveDelay = 3 * time.Second

// Autosave is the debounced save timer: every mutation marks the state
// dirty and restarts a fixed delay; only the timer's expiry triggers the
// save callback. Closing cancels any pending timer so nothing writes after
// the editor is gone.
type Autosave struct {
	delay time.Duration
	save  func()

	mu     sync.Mutex
	timer  *time.Timer
	dirty  bool
	closed bool
}

// NewAutosave builds a debouncer around a save callback. The callback runs
// on a timer goroutine and must be safe to call concurrently with editor
// operations. A non-positive delay falls back to the default.
func NewAutosave(delay time.Duration, save func()) *Autosave {
	if delay <= 0 {
		delay = DefaultAutosaveDelay
	}
	return &Autosave{delay: delay, save: save}
}

// Mark flags unsaved changes and (re)starts the delay timer.
func (a *Autosave) Mark() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	a.dirty = true
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.delay, a.fire)
}

// fire runs on timer expiry.
func (a *Autosave) fire() {
	a.mu.Lock()
	if a.closed || !a.dirty {
		a.mu.Unlock()
		return
	}
	a.dirty = false
	a.mu.Unlock()
	a.save()
}

// Flush saves immediately when there are unsaved changes, cancelling any
// pending timer. Used by explicit save actions.
func (a *Autosave) Flush() {
	a.mu.Lock()
	if a.closed || !a.dirty {
		a.mu.Unlock()
		return
	}
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.dirty = false
	a.mu.Unlock()
	a.save()
}

// Dirty reports whether changes are awaiting a save.
func (a *Autosave) Dirty() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dirty
}

// Close cancels any pending save. Further Marks are ignored.
func (a *Autosave) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.dirty = false
}
