package dto

import (
	"strings"
	"testing"

	"github.com/spec-kit/sr-service/internal/domain"
	apperrors "github.com/spec-kit/sr-service/pkg/util/errorutil"
)

func validRequest() CreateTicketRequest {
	return CreateTicketRequest{
		Title:       "VPN 접속 불가",
		Description: "재택 근무 중 VPN 연결이 끊깁니다",
		Category:    domain.TicketCategoryIncident,
		Priority:    domain.TicketPriorityHigh,
		SystemName:  "VPN",
		Team:        "인프라팀",
		Assignee:    "Kim",
		Requester:   "lee@example.com",
	}
}

func TestValidateCreateTicketRequest(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*CreateTicketRequest)
		wantErr string // field name expected in details, "" for valid
	}{
		{"valid", func(*CreateTicketRequest) {}, ""},
		{"all optional fields", func(r *CreateTicketRequest) {
			r.Summary = "짧은 요약"
			r.ContactEmail = "ops@example.com"
			r.AttachmentURL = "https://files.example.com/a.png"
			r.RequestDate = "2024-06-01"
			r.DueDate = "2024-06-30"
		}, ""},
		{"short title", func(r *CreateTicketRequest) { r.Title = "가" }, "title"},
		{"long title", func(r *CreateTicketRequest) {
			r.Title = string(make([]rune, 101))
		}, "title"},
		{"missing team", func(r *CreateTicketRequest) { r.Team = "" }, "team"},
		{"missing requester", func(r *CreateTicketRequest) { r.Requester = "" }, "requester"},
		{"unknown category", func(r *CreateTicketRequest) { r.Category = "incident" }, "category"},
		{"unknown priority", func(r *CreateTicketRequest) { r.Priority = "P1" }, "priority"},
		{"bad email", func(r *CreateTicketRequest) { r.ContactEmail = "not-an-email" }, "contact_email"},
		{"bad url", func(r *CreateTicketRequest) { r.AttachmentURL = "files/a.png" }, "attachment_url"},
		{"bad request date", func(r *CreateTicketRequest) { r.RequestDate = "2024/06/01" }, "request_date"},
		{"impossible due date", func(r *CreateTicketRequest) { r.DueDate = "2024-02-30" }, "due_date"},
		{"long summary", func(r *CreateTicketRequest) { r.Summary = string(make([]rune, 201)) }, "summary"},
		{"long description", func(r *CreateTicketRequest) { r.Description = strings.Repeat("가", 4001) }, "description"},
		{"description at column width", func(r *CreateTicketRequest) { r.Description = strings.Repeat("가", 4000) }, ""},
		{"long attachment url", func(r *CreateTicketRequest) {
			r.AttachmentURL = "https://files.example.com/" + strings.Repeat("a", 1000)
		}, "attachment_url"},
		{"long contact email", func(r *CreateTicketRequest) {
			r.ContactEmail = strings.Repeat("a", 190) + "@example.com"
		}, "contact_email"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			err := Validate(req)

			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			domainErr := apperrors.ToDomainError(err)
			if domainErr == nil || domainErr.Code != apperrors.CodeValidationFailed {
				t.Fatalf("err = %v, want validation error", err)
			}
			if _, ok := domainErr.Details[tt.wantErr]; !ok {
				t.Errorf("details = %v, want key %q", domainErr.Details, tt.wantErr)
			}
		})
	}
}

func TestValidateUpdateStatusRequest(t *testing.T) {
	for _, status := range domain.TicketStatuses {
		if err := Validate(UpdateStatusRequest{Status: status}); err != nil {
			t.Errorf("status %q rejected: %v", status, err)
		}
	}
	for _, status := range []domain.TicketStatus{"", "done", "접수대기"} {
		if err := Validate(UpdateStatusRequest{Status: status}); !apperrors.HasCode(err, apperrors.CodeValidationFailed) {
			t.Errorf("status %q accepted", status)
		}
	}
}

func TestNormalizeAndToInput(t *testing.T) {
	req := validRequest()
	req.Title = "  VPN 접속 불가  "
	req.Category = " 장애 "
	req.Summary = "   "
	req.Normalize()

	input := req.ToInput()
	if input.Title != "VPN 접속 불가" || input.Category != domain.TicketCategoryIncident || input.Summary != "" {
		t.Errorf("input = %+v", input)
	}
}

func TestNewTicketResponses(t *testing.T) {
	if got := NewTicketResponses(nil); got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty non-nil slice", got)
	}
	page := "page-1"
	got := NewTicketResponses([]domain.Ticket{{ID: 2, TicketCode: "SR-2", Status: domain.TicketStatusDone, NotionPageID: &page}})
	if got[0].ID != 2 || got[0].TicketID != "SR-2" || *got[0].NotionPageID != page {
		t.Errorf("got %+v", got[0])
	}
}
