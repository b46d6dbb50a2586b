// Package notify publishes events about new contact messages.
package notify

import (
	"context"
	"time"

	"github.com/eringen/portfolio/models"
)

// Notifier is told about every stored contact message.
type Notifier interface {
	MessageReceived(ctx context.Context, msg models.Message) error
	Close() error
}

// ActionMessageCreated is the action of the event published for a new message.
const ActionMessageCreated = "message.created"

// Event is the JSON body published for a contact message.
type Event struct {
	Action    string         `json:"action"`
	Message   models.Message `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
}

// Nop discards every notification.
type Nop struct{}

func (Nop) MessageReceived(context.Context, models.Message) error { return nil }

func (Nop) Close() error { return nil }
