package app

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"flex_reviews/internal/domain"
)

// subscriber buffer; a full buffer drops the event rather than blocking the
// queue's mutation paths.
const subscriberBuffer = 16

// NotificationQueue is the process-wide list of transient user-facing
// messages. Enqueue schedules auto-removal after the notification's
// Duration; a Duration <= 0 keeps it until removed explicitly.
type NotificationQueue struct {
	mu      sync.Mutex
	items   []domain.Notification
	timers  map[string]*time.Timer
	subs    map[int]chan domain.Notification
	nextSub int
}

func NewNotificationQueue() *NotificationQueue {
	return &NotificationQueue{
		timers: map[string]*time.Timer{},
		subs:   map[int]chan domain.Notification{},
	}
}

// Enqueue adds the notification and returns its generated id.
func (q *NotificationQueue) Enqueue(n domain.Notification) string {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	q.mu.Lock()
	q.items = append(q.items, n)
	if n.Duration > 0 {
		id := n.ID
		q.timers[id] = time.AfterFunc(n.Duration, func() { q.Remove(id) })
	}
	for _, ch := range q.subs {
		select {
		case ch <- n:
		default:
		}
	}
	q.mu.Unlock()
	return n.ID
}

// Success enqueues a success notification with the default expiry.
func (q *NotificationQueue) Success(title, message string) string {
	return q.Enqueue(domain.Notification{
		Severity: domain.SeveritySuccess, Title: title, Message: message,
		Duration: domain.DefaultNotificationTTL,
	})
}

// Error enqueues an error notification with the default expiry.
func (q *NotificationQueue) Error(title, message string) string {
	return q.Enqueue(domain.Notification{
		Severity: domain.SeverityError, Title: title, Message: message,
		Duration: domain.DefaultNotificationTTL,
	})
}

// Warning enqueues a warning notification with the default expiry.
func (q *NotificationQueue) Warning(title, message string) string {
	return q.Enqueue(domain.Notification{
		Severity: domain.SeverityWarning, Title: title, Message: message,
		Duration: domain.DefaultNotificationTTL,
	})
}

// Remove deletes by id; removing an absent id is a no-op.
func (q *NotificationQueue) Remove(id string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if t, ok := q.timers[id]; ok {
		t.Stop()
		delete(q.timers, id)
	}
	for i, n := range q.items {
		if n.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return
		}
	}
}

// Clear empties the queue and cancels every pending auto-removal.
func (q *NotificationQueue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for id, t := range q.timers {
		t.Stop()
		delete(q.timers, id)
	}
	q.items = nil
}

func (q *NotificationQueue) Snapshot() []domain.Notification {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]domain.Notification, len(q.items))
	copy(out, q.items)
	return out
}

// Subscribe streams every notification enqueued after the call. The
// returned cancel func releases the subscription.
func (q *NotificationQueue) Subscribe() (<-chan domain.Notification, func()) {
	ch := make(chan domain.Notification, subscriberBuffer)
	q.mu.Lock()
	id := q.nextSub
	q.nextSub++
	q.subs[id] = ch
	q.mu.Unlock()
	cancel := func() {
		q.mu.Lock()
		if _, ok := q.subs[id]; ok {
			delete(q.subs, id)
			close(ch)
		}
		q.mu.Unlock()
	}
	return ch, cancel
}
