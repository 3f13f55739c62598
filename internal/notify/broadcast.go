package notify

import "sync"

// Broadcaster fans notices out to every attached Notifier. Components that
// emit notices are built before the display that shows them, so they hold
// the broadcaster and the display attaches itself later.
type Broadcaster struct {
	mu    sync.RWMutex
	sinks []Notifier
}

// Compile-time interface check
var _ Notifier = (*Broadcaster)(nil)

// Attach adds n to the receivers.
func (b *Broadcaster) Attach(n Notifier) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sinks = append(b.sinks, n)
}

// Notify implements Notifier.
func (b *Broadcaster) Notify(n Notice) {
	b.mu.RLock()
	sinks := append([]Notifier(nil), b.sinks...)
	b.mu.RUnlock()

	for _, s := range sinks {
		s.Notify(n)
	}
}
