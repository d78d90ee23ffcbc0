package types

import "time"

// EventType represents the type of real-time event
type EventType string

const (
	EventVideoUploaded EventType = "video.uploaded"
	EventVideoDeleted  EventType = "video.deleted"
)

// Event represents a real-time event that can be sent over WebSocket
type Event struct {
	Type      EventType   `json:"type"`
	Category  string      `json:"category"`
	Data      interface{} `json:"data"`
	Timestamp string      `json:"timestamp"`
}

// VideoDeletedEvent is sent once both the blob and the record are gone
type VideoDeletedEvent struct {
	VideoID   string `json:"video_id"`
	DeletedAt string `json:"deleted_at"`
}

// NewEvent creates a new event with the current timestamp
func NewEvent(eventType EventType, category string, data interface{}) *Event {
	return &Event{
		Type:      eventType,
		Category:  category,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}
