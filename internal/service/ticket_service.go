package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/sr-service/internal/domain"
	"github.com/spec-kit/sr-service/internal/events"
	"github.com/spec-kit/sr-service/internal/mirror"
	"github.com/spec-kit/sr-service/internal/observability"
	"github.com/spec-kit/sr-service/internal/repository"
	apperrors "github.com/spec-kit/sr-service/pkg/util/errorutil"
)

// TicketMirror copies a stored ticket into the external tracker.
type TicketMirror interface {
	Configured() bool
	MirrorTicket(ctx context.Context, ticket *domain.Ticket) mirror.Result
}

// TicketService coordinates ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	mirror     TicketMirror
	dispatcher events.Dispatcher
	logger     *zap.Logger
	metrics    *observability.Metrics
	now        func() time.Time
	newCode    func() string
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Mirror     TicketMirror
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Metrics    *observability.Metrics
	// Now and CodeGenerator default to time.Now and domain.GenerateTicketCode.
	Now           func() time.Time
	CodeGenerator func() string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	s := &TicketService{
		tickets:    deps.TicketRepo,
		mirror:     deps.Mirror,
		dispatcher: deps.Dispatcher,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		now:        deps.Now,
		newCode:    deps.CodeGenerator,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newCode == nil {
		s.newCode = domain.GenerateTicketCode
	}
	return s
}

// Submit stores a new ticket and mirrors it. Only the store write can fail
// the request; mirror problems are logged and the stored ticket is returned.
func (s *TicketService) Submit(ctx context.Context, input domain.TicketInput) (*domain.Ticket, error) {
	if s.mirror == nil || !s.mirror.Configured() {
		return nil, apperrors.NewConfigurationError("NOTION_DB_ID is not configured")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	ticket := domain.NewTicket(input, s.newCode(), s.now())
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewStoreError("create", err)
	}
	s.publishEvent(ctx, events.EventTicketCreated, ticket, events.TicketCreatedPayload{
		Title:     ticket.Title,
		Category:  ticket.Category,
		Priority:  ticket.Priority,
		Team:      ticket.Team,
		Requester: ticket.Requester,
	})

	result := s.mirror.MirrorTicket(ctx, ticket)
	if !result.OK() {
		err := result.Err
		if err == nil {
			err = errors.New("mirror returned no page id")
		}
		s.logger.Warn("notion mirror failed",
			zap.Int64("id", ticket.ID),
			zap.String("ticket_id", ticket.TicketCode),
			zap.Error(err))
		s.metrics.RecordMirror(observability.MirrorFailed)
		s.publishEvent(ctx, events.EventTicketMirrorFailed, ticket, events.TicketMirrorFailedPayload{Reason: err.Error()})
		return ticket, nil
	}

	updated, err := s.tickets.AttachNotionPageID(ctx, ticket.ID, result.PageID)
	if err != nil {
		s.logger.Error("attach notion page id failed",
			zap.Int64("id", ticket.ID),
			zap.String("ticket_id", ticket.TicketCode),
			zap.String("page_id", result.PageID),
			zap.Error(err))
		s.metrics.RecordMirror(observability.MirrorAttachFailed)
		return ticket, nil
	}

	s.metrics.RecordMirror(observability.MirrorSucceeded)
	s.publishEvent(ctx, events.EventTicketMirrored, updated, events.TicketMirroredPayload{
		PageID:     result.PageID,
		Unresolved: result.Unresolved,
	})
	return updated, nil
}

// Get returns a ticket by its numeric id.
func (s *TicketService) Get(ctx context.Context, id int64) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, translateStoreError("get", err, map[string]any{"id": id})
	}
	return ticket, nil
}

// GetByCode returns a ticket by its SR code.
func (s *TicketService) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, apperrors.NewValidationError("invalid ticket code", map[string]any{"ticket_id": "required"})
	}
	ticket, err := s.tickets.GetByCode(ctx, code)
	if err != nil {
		return nil, translateStoreError("get", err, map[string]any{"ticket_id": code})
	}
	return ticket, nil
}

// List returns the newest tickets first.
func (s *TicketService) List(ctx context.Context, limit int) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, limit)
	if err != nil {
		return nil, apperrors.NewStoreError("list", err)
	}
	return tickets, nil
}

// UpdateStatus overwrites the status. Any transition between known values is
// allowed. The mirror page is not updated.
func (s *TicketService) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{
			"status": "must be one of " + joinValues(domain.TicketStatuses),
		})
	}
	ticket, previous, err := s.tickets.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, translateStoreError("update status", err, map[string]any{"id": id})
	}
	s.publishEvent(ctx, events.EventTicketStatusChanged, ticket, events.TicketStatusChangedPayload{
		OldStatus: previous,
		NewStatus: ticket.Status,
	})
	return ticket, nil
}

func validateInput(input domain.TicketInput) error {
	details := map[string]any{}
	if !input.Category.Valid() {
		details["category"] = "must be one of " + joinValues(domain.TicketCategories)
	}
	if !input.Priority.Valid() {
		details["priority"] = "must be one of " + joinValues(domain.TicketPriorities)
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid ticket", details)
	}
	return nil
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, ", ")
}

func translateStoreError(op string, err error, details map[string]any) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("ticket", details)
	}
	return apperrors.NewStoreError(op, err)
}

func (s *TicketService) publishEvent(ctx context.Context, eventType events.EventType, ticket *domain.Ticket, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, events.NewEvent(eventType, ticket, s.now(), payload)); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(eventType)), zap.Error(err))
	}
}
