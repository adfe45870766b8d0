package session

import "sync"

// Tasks is the registry of background work owned by a session. Stops
// run in reverse registration order on teardown, including error paths.
type Tasks struct {
	mu    sync.Mutex
	stops []func()
}

// Add registers a stop function for session teardown.
func (t *Tasks) Add(stop func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stops = append(t.stops, stop)
}

// StopAll runs every registered stop once and clears the registry.
func (t *Tasks) StopAll() {
	t.mu.Lock()
	stops := t.stops
	t.stops = nil
	t.mu.Unlock()
	for i := len(stops) - 1; i >= 0; i-- {
		stops[i]()
	}
}
