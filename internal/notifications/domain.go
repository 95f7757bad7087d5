package notifications

import "time"

// Notification is a short in-app message for one user. ReadAt stays the
// zero time until the user acknowledges it.
type Notification struct {
	ID        int64
	UserID    int64
	Kind      string
	Message   string
	ReadAt    time.Time
	CreatedAt time.Time
}

func (n Notification) Read() bool { return !n.ReadAt.IsZero() }
