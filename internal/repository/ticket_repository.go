package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/sr-service/internal/domain"
)

// ErrNotFound is returned when no ticket matches the lookup.
var ErrNotFound = errors.New("ticket not found")

const (
	// DefaultListLimit applies when the caller passes a non-positive limit.
	DefaultListLimit = 50
	// MaxListLimit caps a single listing.
	MaxListLimit = 500
)

// TicketRepository encapsulates SR ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id int64) (*domain.Ticket, error)
	GetByCode(ctx context.Context, code string) (*domain.Ticket, error)
	List(ctx context.Context, limit int) ([]domain.Ticket, error)
	// UpdateStatus overwrites the status unconditionally and returns the
	// updated row together with the status it replaced.
	UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, domain.TicketStatus, error)
	AttachNotionPageID(ctx context.Context, id int64, pageID string) (*domain.Ticket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

// ticketColumns lists the selected columns in ticketDest order. Rows written
// by earlier clients may hold NULL in any column the domain models as a plain
// value, including status and both timestamps, so those are coalesced.
var ticketColumns = selectColumns("")

// initialStatusSQL is the fallback for a NULL status.
const initialStatusSQL = "'" + string(domain.TicketStatusReceivedPending) + "'"

func selectColumns(alias string) string {
	p := ""
	if alias != "" {
		p = alias + "."
	}
	return p + "id, COALESCE(" + p + "ticket_id, ''), " + p + "title, " + p + "summary, " + p + "description, " +
		"COALESCE(" + p + "category, ''), COALESCE(" + p + "priority, ''), COALESCE(" + p + "system_name, ''), " +
		"COALESCE(" + p + "team, ''), COALESCE(" + p + "assignee, ''), COALESCE(" + p + "requester, ''), " +
		p + "contact_email, " + p + "attachment_url, COALESCE(" + p + "request_date, ''), " + p + "due_date, " +
		"COALESCE(" + p + "status, " + initialStatusSQL + "), " + p + "notion_page_id, " +
		"COALESCE(" + p + "created_at, " + p + "updated_at, NOW()), " +
		"COALESCE(" + p + "updated_at, " + p + "created_at, NOW())"
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO sr_tickets (ticket_id, title, summary, description, category, priority, system_name,
            team, assignee, requester, contact_email, attachment_url, request_date, due_date, status,
            created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,NOW(),NOW())
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		ticket.TicketCode,
		ticket.Title,
		ticket.Summary,
		ticket.Description,
		ticket.Category,
		ticket.Priority,
		ticket.SystemName,
		ticket.Team,
		ticket.Assignee,
		ticket.Requester,
		ticket.ContactEmail,
		ticket.AttachmentURL,
		ticket.RequestDate,
		ticket.DueDate,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM sr_tickets WHERE id=$1`, id)
}

func (r *ticketRepository) GetByCode(ctx context.Context, code string) (*domain.Ticket, error) {
	return r.fetchSingle(ctx, `SELECT `+ticketColumns+` FROM sr_tickets WHERE ticket_id=$1`, code)
}

func (r *ticketRepository) List(ctx context.Context, limit int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	rows, err := r.pool.Query(ctx, `SELECT `+ticketColumns+` FROM sr_tickets ORDER BY id DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		var ticket domain.Ticket
		if err := scanTicket(rows, &ticket); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func (r *ticketRepository) UpdateStatus(ctx context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, domain.TicketStatus, error) {
	query := `
        WITH prev AS (SELECT id, COALESCE(status, ` + initialStatusSQL + `) AS status FROM sr_tickets WHERE id=$2 FOR UPDATE)
        UPDATE sr_tickets t SET status=$1, updated_at=NOW()
        FROM prev WHERE t.id=prev.id
        RETURNING prev.status, ` + selectColumns("t")

	var previous domain.TicketStatus
	var ticket domain.Ticket
	err := r.pool.QueryRow(ctx, query, status, id).Scan(append([]any{&previous}, ticketDest(&ticket)...)...)
	if err != nil {
		return nil, "", translate(err)
	}
	return &ticket, previous, nil
}

func (r *ticketRepository) AttachNotionPageID(ctx context.Context, id int64, pageID string) (*domain.Ticket, error) {
	query := `UPDATE sr_tickets SET notion_page_id=$1, updated_at=NOW() WHERE id=$2 RETURNING ` + ticketColumns
	return r.fetchSingle(ctx, query, pageID, id)
}

func (r *ticketRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := scanTicket(r.pool.QueryRow(ctx, query, args...), &ticket); err != nil {
		return nil, translate(err)
	}
	return &ticket, nil
}

func scanTicket(row pgx.Row, ticket *domain.Ticket) error {
	return row.Scan(ticketDest(ticket)...)
}

func ticketDest(ticket *domain.Ticket) []any {
	return []any{
		&ticket.ID,
		&ticket.TicketCode,
		&ticket.Title,
		&ticket.Summary,
		&ticket.Description,
		&ticket.Category,
		&ticket.Priority,
		&ticket.SystemName,
		&ticket.Team,
		&ticket.Assignee,
		&ticket.Requester,
		&ticket.ContactEmail,
		&ticket.AttachmentURL,
		&ticket.RequestDate,
		&ticket.DueDate,
		&ticket.Status,
		&ticket.NotionPageID,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	}
}

func translate(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
