package services

import (
	"encoding/json"
	"log"
	"time"

	"expense-server/timeutil"
	"expense-server/ws"
)

// Event is the envelope pushed to connected dashboard clients.
type Event struct {
	Type      string `json:"type"`
	Timestamp string `json:"timestamp"`
	Data      any    `json:"data"`
}

// EventDispatcher fans entity-change notifications out to the websocket
// clients. Publishing never blocks the request cycle on a slow client; a
// failed write just drops that client.
type EventDispatcher struct {
	manager *ws.Manager
}

func NewEventDispatcher(manager *ws.Manager) *EventDispatcher {
	return &EventDispatcher{manager: manager}
}

func (d *EventDispatcher) Publish(eventType string, data any) {
	if d.manager.Count() == 0 {
		return
	}
	payload, err := json.Marshal(Event{
		Type:      eventType,
		Timestamp: timeutil.FormatIST(time.Now()),
		Data:      data,
	})
	if err != nil {
		log.Printf("event %s not published: %v", eventType, err)
		return
	}
	d.manager.Broadcast(payload)
}
