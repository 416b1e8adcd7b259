package domain

import "time"

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// DefaultNotificationTTL is applied by the queue's convenience constructors.
// A Duration <= 0 on an enqueued notification disables auto-expiry.
const DefaultNotificationTTL = 5 * time.Second

type Notification struct {
	ID       string        `json:"id"`
	Severity Severity      `json:"type"`
	Title    string        `json:"title"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"-"`
}
