package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for SR tickets. Values are the
// labels shared with the frontend and the Notion database options.
type TicketStatus string

const (
	TicketStatusReceivedPending TicketStatus = "접수 대기"
	TicketStatusReceived        TicketStatus = "접수 완료"
	TicketStatusOnHold          TicketStatus = "보류"
	TicketStatusInProgress      TicketStatus = "진행 중"
	TicketStatusInReview        TicketStatus = "검토 중"
	TicketStatusDone            TicketStatus = "완료"
	TicketStatusCancelled       TicketStatus = "취소"
)

// TicketStatuses lists the closed status set.
var TicketStatuses = []TicketStatus{
	TicketStatusReceivedPending,
	TicketStatusReceived,
	TicketStatusOnHold,
	TicketStatusInProgress,
	TicketStatusInReview,
	TicketStatusDone,
	TicketStatusCancelled,
}

// Valid reports whether s belongs to the closed status set.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if s == candidate {
			return true
		}
	}
	return false
}

// TicketCategory classifies the request.
type TicketCategory string

const (
	TicketCategoryIncident    TicketCategory = "장애"
	TicketCategoryInquiry     TicketCategory = "문의"
	TicketCategoryImprovement TicketCategory = "개선"
	TicketCategoryAccount     TicketCategory = "계정"
	TicketCategoryOther       TicketCategory = "기타"
	TicketCategoryNew         TicketCategory = "신규"
)

var TicketCategories = []TicketCategory{
	TicketCategoryIncident,
	TicketCategoryInquiry,
	TicketCategoryImprovement,
	TicketCategoryAccount,
	TicketCategoryOther,
	TicketCategoryNew,
}

func (c TicketCategory) Valid() bool {
	for _, candidate := range TicketCategories {
		if c == candidate {
			return true
		}
	}
	return false
}

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityLow    TicketPriority = "낮음"
	TicketPriorityNormal TicketPriority = "보통"
	TicketPriorityHigh   TicketPriority = "높음"
	TicketPriorityUrgent TicketPriority = "긴급"
)

var TicketPriorities = []TicketPriority{
	TicketPriorityLow,
	TicketPriorityNormal,
	TicketPriorityHigh,
	TicketPriorityUrgent,
}

func (p TicketPriority) Valid() bool {
	for _, candidate := range TicketPriorities {
		if p == candidate {
			return true
		}
	}
	return false
}

// DateLayout is the calendar-date format used for persisted dates.
const DateLayout = "2006-01-02"

// Ticket is the single persisted SR record.
type Ticket struct {
	ID            int64
	TicketCode    string
	Title         string
	Summary       *string
	Description   string
	Category      TicketCategory
	Priority      TicketPriority
	SystemName    string
	Team          string
	Assignee      string
	Requester     string
	ContactEmail  *string
	AttachmentURL *string
	RequestDate   string
	DueDate       *string
	Status        TicketStatus
	NotionPageID  *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// TicketInput is a validated submission. Optional fields are empty strings
// when absent; dates use DateLayout.
type TicketInput struct {
	Title         string
	Summary       string
	Description   string
	Category      TicketCategory
	Priority      TicketPriority
	SystemName    string
	Team          string
	Assignee      string
	Requester     string
	ContactEmail  string
	AttachmentURL string
	RequestDate   string
	DueDate       string
}

// NewTicket builds the row to insert for input. The request date falls back
// to the UTC calendar date of now, and the status is always the initial one.
func NewTicket(input TicketInput, code string, now time.Time) *Ticket {
	requestDate := strings.TrimSpace(input.RequestDate)
	if requestDate == "" {
		requestDate = now.UTC().Format(DateLayout)
	}
	return &Ticket{
		TicketCode:    code,
		Title:         input.Title,
		Summary:       optional(input.Summary),
		Description:   input.Description,
		Category:      input.Category,
		Priority:      input.Priority,
		SystemName:    input.SystemName,
		Team:          input.Team,
		Assignee:      input.Assignee,
		Requester:     input.Requester,
		ContactEmail:  optional(input.ContactEmail),
		AttachmentURL: optional(input.AttachmentURL),
		RequestDate:   requestDate,
		DueDate:       optional(input.DueDate),
		Status:        TicketStatusReceivedPending,
	}
}

func optional(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// Deref returns the pointed-to string or "".
func Deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
