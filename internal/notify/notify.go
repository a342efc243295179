// Package notify delivers birthday reminders. The delivery backend is an
// interface so tests can capture notifications instead of emitting them.
package notify

import (
	"context"
	"hash/fnv"
)

// Importance levels mirror the usual notification channel tiers.
const (
	ImportanceLow     = "low"
	ImportanceDefault = "default"
	ImportanceHigh    = "high"
)

// Channel describes a notification category registered once at startup.
type Channel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Importance  string `json:"importance"`
}

// Notification is a single reminder ready for delivery.
type Notification struct {
	ID        uint32 `json:"id"`
	ChannelID string `json:"channel_id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
}

// Notifier is the delivery backend contract.
type Notifier interface {
	// Register declares a channel. Registering the same channel twice is a no-op.
	Register(ctx context.Context, ch Channel) error
	// Send delivers one notification. Sending with an ID already delivered
	// replaces the previous notification rather than stacking a duplicate.
	Send(ctx context.Context, n Notification) error
}

// IDFor derives a stable notification id from a contact name, so repeat
// reminders for the same person replace each other.
func IDFor(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return h.Sum32()
}
