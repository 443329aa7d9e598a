package feed

import "github.com/AlibekovAA/places-directory/internal/place/dto"

type EventType string

const (
	EventPlaceCreated EventType = "place_created"
	EventPlaceUpdated EventType = "place_updated"
	EventPlaceDeleted EventType = "place_deleted"
)

type Event struct {
	Type      EventType  `json:"type"`
	PlaceID   string     `json:"place_id"`
	CreatorID string     `json:"creator_id"`
	Place     *dto.Place `json:"place,omitempty"`
}

// Publisher is what the place service needs from the feed.
type Publisher interface {
	Publish(event Event)
}

type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
