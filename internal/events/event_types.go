package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/sr-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketMirrored      EventType = "ticket_mirrored"
	EventTicketMirrorFailed  EventType = "ticket_mirror_failed"
	EventTicketStatusChanged EventType = "ticket_status_changed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	TicketID   int64       `json:"ticket_id"`
	TicketCode string      `json:"ticket_code"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// NewEvent stamps an event for ticket with a fresh id.
func NewEvent(eventType EventType, ticket *domain.Ticket, now time.Time, payload interface{}) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		TicketID:   ticket.ID,
		TicketCode: ticket.TicketCode,
		Timestamp:  now.UTC(),
		Payload:    payload,
	}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Title     string                `json:"title"`
	Category  domain.TicketCategory `json:"category"`
	Priority  domain.TicketPriority `json:"priority"`
	Team      string                `json:"team"`
	Requester string                `json:"requester"`
}

// TicketMirroredPayload payload.
type TicketMirroredPayload struct {
	PageID     string   `json:"page_id"`
	Unresolved []string `json:"unresolved,omitempty"`
}

// TicketMirrorFailedPayload payload.
type TicketMirrorFailedPayload struct {
	Reason string `json:"reason"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}
