package v1

import (
	"context"
	"time"
)

//go:generate mockgen -source=event.go -destination=mock/event_mock.go -package=mock

// BarsIngested is emitted after a series has been persisted.
type BarsIngested struct {
	RequestID string    `json:"requestId,omitempty"`
	Symbol    string    `json:"symbol"`
	Frequency string    `json:"frequency"`
	Source    Source    `json:"source"`
	Count     int64     `json:"count"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
}

// EventPublisher publishes bar lifecycle events.
type EventPublisher interface {
	PublishBarsIngested(ctx context.Context, event BarsIngested) error
	Close() error
}
