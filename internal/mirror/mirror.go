package mirror

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/sr-service/internal/domain"
)

// PageCreator is the part of Client that writes pages.
type PageCreator interface {
	Configured() bool
	CreatePage(ctx context.Context, properties Properties, children []Block) (string, error)
}

// Result is the outcome of one mirror write. Err is nil on success, in
// which case PageID is set.
type Result struct {
	PageID     string
	Unresolved []string
	Err        error
}

// OK reports whether the page was created.
func (r Result) OK() bool {
	return r.Err == nil && r.PageID != ""
}

// Mirror copies tickets into the Notion database.
type Mirror struct {
	pages     PageCreator
	directory *Directory
	logger    *zap.Logger
	now       func() time.Time
}

// NewMirror wires a page creator with a directory. directory may be nil, in
// which case person fields always fall back to text.
func NewMirror(pages PageCreator, directory *Directory, logger *zap.Logger) *Mirror {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mirror{pages: pages, directory: directory, logger: logger, now: time.Now}
}

// Configured reports whether a destination database is set.
func (m *Mirror) Configured() bool {
	return m != nil && m.pages != nil && m.pages.Configured()
}

// MirrorTicket resolves people, builds the payload and creates the page.
// Directory failures degrade to text fallback; only the page write itself
// can make the result fail.
func (m *Mirror) MirrorTicket(ctx context.Context, ticket *domain.Ticket) Result {
	people := m.resolvePeople(ctx, ticket)
	unresolved := UnresolvedPeople(ticket, people)

	properties := BuildProperties(ticket, people, m.now())
	blocks := BuildContentBlocks(ticket, unresolved)

	pageID, err := m.pages.CreatePage(ctx, properties, blocks)
	if err != nil {
		return Result{Unresolved: unresolved, Err: err}
	}
	return Result{PageID: pageID, Unresolved: unresolved}
}

// resolvePeople loads the directory once for both person fields.
func (m *Mirror) resolvePeople(ctx context.Context, ticket *domain.Ticket) People {
	if !m.directory.Enabled() {
		return People{}
	}
	users, err := m.directory.Users(ctx)
	if err != nil {
		warnLookupFailure(m.logger, "user directory unavailable; person fields kept as text", err,
			zap.String("ticket_id", ticket.TicketCode))
		return People{}
	}
	return People{
		AssigneeIDs:  MatchUsers(users, ticket.Assignee),
		RequesterIDs: MatchUsers(users, ticket.Requester),
	}
}
