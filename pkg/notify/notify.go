// Package notify shows short-lived messages to the user.
package notify

import (
	"sync"
	"time"
)

// Notifier displays message for roughly timeout.
type Notifier interface {
	Notify(message string, timeout time.Duration)
}

// Func adapts a function to Notifier.
type Func func(message string, timeout time.Duration)

// Notify calls f.
func (f Func) Notify(message string, timeout time.Duration) {
	f(message, timeout)
}

// Discard drops every notification.
var Discard Notifier = Func(func(string, time.Duration) {})

// Multi fans notifications out to several notifiers in order.
type Multi []Notifier

// Notify forwards to every non-nil notifier.
func (m Multi) Notify(message string, timeout time.Duration) {
	for _, n := range m {
		if n != nil {
			n.Notify(message, timeout)
		}
	}
}

// Notification is one recorded call to Notify.
type Notification struct {
	Message string
	Timeout time.Duration
}

// Recorder keeps every notification it receives.
type Recorder struct {
	mu            sync.Mutex
	notifications []Notification
}

// Notify records the notification.
func (r *Recorder) Notify(message string, timeout time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, Notification{Message: message, Timeout: timeout})
}

// Notifications returns a copy of what was recorded so far.
func (r *Recorder) Notifications() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notifications...)
}

// Messages returns only the recorded messages.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.notifications))
	for i, n := range r.notifications {
		out[i] = n.Message
	}
	return out
}

// Reset forgets everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = nil
}
