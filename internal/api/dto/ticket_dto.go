package dto

import (
	"strings"

	"github.com/spec-kit/sr-service/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Title         string                `json:"title" validate:"required,min=2,max=100"`
	Summary       string                `json:"summary" validate:"max=200"`
	Description   string                `json:"description" validate:"required,min=2,max=4000"`
	Category      domain.TicketCategory `json:"category" validate:"required,sr_category"`
	Priority      domain.TicketPriority `json:"priority" validate:"required,sr_priority"`
	SystemName    string                `json:"system_name" validate:"required,max=100"`
	Team          string                `json:"team" validate:"required,max=100"`
	Assignee      string                `json:"assignee" validate:"required,max=100"`
	Requester     string                `json:"requester" validate:"required,max=100"`
	ContactEmail  string                `json:"contact_email" validate:"omitempty,max=200,email"`
	AttachmentURL string                `json:"attachment_url" validate:"omitempty,max=1000,http_url"`
	RequestDate   string                `json:"request_date" validate:"omitempty,datetime=2006-01-02"`
	DueDate       string                `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

// Normalize trims surrounding whitespace before validation.
func (r *CreateTicketRequest) Normalize() {
	for _, field := range []*string{
		&r.Title, &r.Summary, &r.Description, &r.SystemName, &r.Team, &r.Assignee,
		&r.Requester, &r.ContactEmail, &r.AttachmentURL, &r.RequestDate, &r.DueDate,
	} {
		*field = strings.TrimSpace(*field)
	}
	r.Category = domain.TicketCategory(strings.TrimSpace(string(r.Category)))
	r.Priority = domain.TicketPriority(strings.TrimSpace(string(r.Priority)))
}

// ToInput converts the request into a service input.
func (r CreateTicketRequest) ToInput() domain.TicketInput {
	return domain.TicketInput{
		Title:         r.Title,
		Summary:       r.Summary,
		Description:   r.Description,
		Category:      r.Category,
		Priority:      r.Priority,
		SystemName:    r.SystemName,
		Team:          r.Team,
		Assignee:      r.Assignee,
		Requester:     r.Requester,
		ContactEmail:  r.ContactEmail,
		AttachmentURL: r.AttachmentURL,
		RequestDate:   r.RequestDate,
		DueDate:       r.DueDate,
	}
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status" validate:"required,sr_status"`
}

// TicketResponse is the projection returned by every ticket endpoint.
type TicketResponse struct {
	ID           int64               `json:"id"`
	TicketID     string              `json:"ticket_id"`
	Status       domain.TicketStatus `json:"status"`
	NotionPageID *string             `json:"notion_page_id"`
}

// NewTicketResponse projects a ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:           ticket.ID,
		TicketID:     ticket.TicketCode,
		Status:       ticket.Status,
		NotionPageID: ticket.NotionPageID,
	}
}

// NewTicketResponses projects a list, never returning nil.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}
