package events

import (
	"time"

	"github.com/princekumarofficial/expressions-service/internal/types"
	"github.com/princekumarofficial/expressions-service/internal/types/videos"
)

// WebSocketHub interface for the WebSocket hub
type WebSocketHub interface {
	Broadcast(event *types.Event)
}

// EventPublisher turns catalog changes into websocket events.
type EventPublisher struct {
	hub WebSocketHub
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(hub WebSocketHub) *EventPublisher {
	return &EventPublisher{
		hub: hub,
	}
}

// PublishVideoUploaded announces a new video to subscribers of its category
func (p *EventPublisher) PublishVideoUploaded(video videos.VideoAsset) error {
	p.hub.Broadcast(types.NewEvent(types.EventVideoUploaded, video.Category, video))
	return nil
}

// PublishVideoDeleted announces a removed video to subscribers of its category
func (p *EventPublisher) PublishVideoDeleted(video videos.VideoAsset) error {
	eventData := &types.VideoDeletedEvent{
		VideoID:   video.ID,
		DeletedAt: time.Now().UTC().Format(time.RFC3339),
	}

	p.hub.Broadcast(types.NewEvent(types.EventVideoDeleted, video.Category, eventData))
	return nil
}
