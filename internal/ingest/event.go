// Package ingest receives edited images back from the editing service.
//
// A Subscriber keeps a websocket subscription to the service push channel
// and a Fetcher reads images over plain HTTP. Both feed a single Loop that
// hands every image to the Ingestor, which validates it and publishes it
// to the shared application state.
package ingest

import (
	"encoding/json"
	"fmt"
)

// EventImageReceived is the push event carrying an edited image.
const EventImageReceived = "unity_image_received"

// Event is one push channel message.
type Event struct {
	Name string    `json:"event"`
	Data EventData `json:"data"`
}

// EventData is the payload of EventImageReceived.
type EventData struct {
	Image    string `json:"image"`
	MIMEType string `json:"mime_type,omitempty"`
}

// ParseEvent decodes a push channel message.
func ParseEvent(raw []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return Event{}, fmt.Errorf("failed to parse push event: %w", err)
	}
	if ev.Name == "" {
		return Event{}, fmt.Errorf("push event has no name")
	}
	return ev, nil
}
