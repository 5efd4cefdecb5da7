package app

import (
	"os"
	"sync"
	"time"
)

// Reloader watches a set of files and invokes a callback when any of them is
// modified. The morph CLI uses it to re-run a job while point files are being
// edited.
type Reloader struct {
	mu            sync.Mutex
	paths         []string
	baseline      map[string]time.Time
	checkInterval time.Duration
	stopCh        chan struct{}
	onChange      func(changed []string)
}

// NewReloader creates a reloader for paths. Files that do not exist yet are
// reported once they appear.
func NewReloader(checkInterval time.Duration, paths ...string) *Reloader {
	r := &Reloader{
		paths:         paths,
		checkInterval: checkInterval,
	}
	r.ResetBaseline()
	return r
}

// OnChange sets the callback. It is called from a background goroutine.
func (r *Reloader) OnChange(callback func(changed []string)) {
	r.mu.Lock()
	r.onChange = callback
	r.mu.Unlock()
}

// Start begins watching in a background goroutine. Starting a running
// reloader is a no-op.
func (r *Reloader) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopCh != nil {
		return
	}
	r.stopCh = make(chan struct{})
	go r.watchLoop(r.stopCh)
}

// Stop stops the watcher goroutine. It is safe to call before Start and
// more than once.
func (r *Reloader) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopCh == nil {
		return
	}
	close(r.stopCh)
	r.stopCh = nil
}

func (r *Reloader) watchLoop(stop chan struct{}) {
	ticker := time.NewTicker(r.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			changed := r.Check()
			r.mu.Lock()
			cb := r.onChange
			r.mu.Unlock()
			if len(changed) > 0 && cb != nil {
				cb(changed)
			}
		}
	}
}

// Check returns the files modified since the last baseline and moves the
// baseline forward for them.
func (r *Reloader) Check() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changed []string
	for _, p := range r.paths {
		mod := modTime(p)
		if mod.After(r.baseline[p]) {
			changed = append(changed, p)
			r.baseline[p] = mod
		}
	}
	return changed
}

// ResetBaseline records the current modification times of all files.
func (r *Reloader) ResetBaseline() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.baseline = make(map[string]time.Time, len(r.paths))
	for _, p := range r.paths {
		r.baseline[p] = modTime(p)
	}
}

func modTime(path string) time.Time {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}
	}
	return info.ModTime()
}
