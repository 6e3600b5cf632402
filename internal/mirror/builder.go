package mirror

import (
	"strings"
	"time"

	"github.com/spec-kit/sr-service/internal/domain"
)

// Column names of the SR Notion database.
const (
	PropTitle         = "제목"
	PropCategory      = "카테고리"
	PropPriority      = "우선순위"
	PropSystemName    = "서비스/시스템명"
	PropStatus        = "상태"
	PropRequestDate   = "요청 일자"
	PropTicketCode    = "티켓번호"
	PropTeam          = "담당 팀"
	PropAssignee      = "담당자"
	PropRequester     = "요청자"
	PropSummary       = "간략 설명"
	PropContactEmail  = "연락 이메일"
	PropAttachment    = "첨부 파일"
	PropDueDate       = "마감 일자"
	attachmentName    = "첨부"
	descriptionHeader = "상세 설명"
	fallbackSeparator = " / "
)

// People holds the resolved ids for the two person fields. Either list may
// be empty.
type People struct {
	AssigneeIDs  []string
	RequesterIDs []string
}

// BuildProperties maps a ticket onto the database columns. Optional columns
// are only present when the ticket carries a value.
func BuildProperties(ticket *domain.Ticket, people People, now time.Time) Properties {
	requestDate := ticket.RequestDate
	if requestDate == "" {
		requestDate = now.UTC().Format(domain.DateLayout)
	}

	props := Properties{
		PropTitle:       TitleProperty{Text: ticket.Title},
		PropCategory:    SelectProperty{Name: string(ticket.Category)},
		PropPriority:    SelectProperty{Name: string(ticket.Priority)},
		PropSystemName:  SelectProperty{Name: ticket.SystemName},
		PropStatus:      StatusProperty{Name: string(domain.TicketStatusReceivedPending)},
		PropRequestDate: DateProperty{Start: requestDate},
		PropTicketCode:  TextProperty{Text: ticket.TicketCode},
		PropTeam:        TextProperty{Text: ticket.Team},
		PropAssignee:    PeopleProperty{UserIDs: people.AssigneeIDs},
		PropRequester:   PeopleProperty{UserIDs: people.RequesterIDs},
	}

	if v := domain.Deref(ticket.Summary); v != "" {
		props[PropSummary] = TextProperty{Text: v}
	}
	if v := domain.Deref(ticket.ContactEmail); v != "" {
		props[PropContactEmail] = EmailProperty{Email: v}
	}
	if v := domain.Deref(ticket.AttachmentURL); v != "" {
		props[PropAttachment] = FileProperty{Name: attachmentName, URL: v}
	}
	if v := domain.Deref(ticket.DueDate); v != "" {
		props[PropDueDate] = DateProperty{Start: v}
	}
	return props
}

// UnresolvedPeople lists, as display text, each non-empty person field that
// did not resolve to any user id.
func UnresolvedPeople(ticket *domain.Ticket, people People) []string {
	var lines []string
	if len(people.AssigneeIDs) == 0 && strings.TrimSpace(ticket.Assignee) != "" {
		lines = append(lines, PropAssignee+"(텍스트): "+ticket.Assignee)
	}
	if len(people.RequesterIDs) == 0 && strings.TrimSpace(ticket.Requester) != "" {
		lines = append(lines, PropRequester+"(텍스트): "+ticket.Requester)
	}
	return lines
}

// BuildContentBlocks returns the page body: a heading, the description and,
// when any person field is unresolved, one paragraph keeping those names as
// plain text.
func BuildContentBlocks(ticket *domain.Ticket, unresolved []string) []Block {
	blocks := []Block{
		HeadingBlock{Text: descriptionHeader},
		ParagraphBlock{Text: ticket.Description},
	}
	if len(unresolved) > 0 {
		blocks = append(blocks, ParagraphBlock{Text: strings.Join(unresolved, fallbackSeparator)})
	}
	return blocks
}
