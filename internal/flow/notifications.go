package flow

import (
	"sync"
	"time"

	"foodlog/internal/models"
)

const (
	maxQueuedNotifications = 32
	subscriberBuffer       = 16
)

// notifier queues toast messages and fans them out to live subscribers.
type notifier struct {
	mu     sync.Mutex
	queue  []models.Notification
	subs   map[int]chan models.Notification
	nextID int
	closed bool
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[int]chan models.Notification)}
}

func (n *notifier) push(level, title, description string) {
	msg := models.Notification{
		Level:       level,
		Title:       title,
		Description: description,
		At:          time.Now().UTC(),
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	n.queue = append(n.queue, msg)
	if over := len(n.queue) - maxQueuedNotifications; over > 0 {
		n.queue = n.queue[over:]
	}
	for _, ch := range n.subs {
		select {
		case ch <- msg:
		default: // slow subscriber, drop
		}
	}
}

// drain returns and clears queued messages.
func (n *notifier) drain() []models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := n.queue
	n.queue = nil
	return out
}

func (n *notifier) pending() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.queue)
}

// subscribe registers a live listener; the returned func unregisters it.
func (n *notifier) subscribe() (<-chan models.Notification, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	ch := make(chan models.Notification, subscriberBuffer)
	if n.closed {
		close(ch)
		return ch, func() {}
	}
	n.subs[id] = ch

	return ch, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if c, ok := n.subs[id]; ok {
			delete(n.subs, id)
			close(c)
		}
	}
}

// closeAll drops every subscriber.
func (n *notifier) closeAll() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	for id, ch := range n.subs {
		delete(n.subs, id)
		close(ch)
	}
}
