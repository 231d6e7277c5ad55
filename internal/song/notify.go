package song

import "sync"

// ChangeKind identifies what part of the model a change touched.
type ChangeKind int

const (
	SongUpdated ChangeKind = iota
	TrackAdded
	TrackUpdated
	TrackRemoved
	ClipAdded
	ClipUpdated
	ClipRemoved
)

// Change is one model mutation event. ClipID is empty for track-level
// changes; TrackID is empty for song-level changes.
type Change struct {
	Kind    ChangeKind
	TrackID string
	ClipID  string
}

// Notifier fans out model changes to all subscribers: the renderer, the
// playback engine, and anything else that mirrors the model.
type Notifier struct {
	mu          sync.RWMutex
	subscribers map[*Subscriber]struct{}
}

// Subscriber receives changes from the notifier.
type Subscriber struct {
	C    chan Change
	done chan struct{}
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{subscribers: make(map[*Subscriber]struct{})}
}

// Subscribe registers a new subscriber.
func (n *Notifier) Subscribe() *Subscriber {
	sub := &Subscriber{
		C:    make(chan Change, 64),
		done: make(chan struct{}),
	}
	n.mu.Lock()
	n.subscribers[sub] = struct{}{}
	n.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscriber and signals it to stop.
func (n *Notifier) Unsubscribe(sub *Subscriber) {
	n.mu.Lock()
	delete(n.subscribers, sub)
	n.mu.Unlock()
	close(sub.done)
}

// SubscriberCount returns the number of active subscribers.
func (n *Notifier) SubscriberCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.subscribers)
}

// Publish delivers a change to every subscriber. Slow subscribers get
// changes dropped rather than blocking the mutation path.
func (n *Notifier) Publish(c Change) {
	n.mu.RLock()
	for sub := range n.subscribers {
		select {
		case sub.C <- c:
		default:
			// subscriber too slow, drop to keep edits responsive
		}
	}
	n.mu.RUnlock()
}

// Done reports the channel closed on unsubscribe.
func (s *Subscriber) Done() <-chan struct{} {
	return s.done
}
