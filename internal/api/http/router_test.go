package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sr-service/internal/api/http/handlers"
	"github.com/spec-kit/sr-service/internal/domain"
	"github.com/spec-kit/sr-service/internal/mirror"
	"github.com/spec-kit/sr-service/internal/observability"
	"github.com/spec-kit/sr-service/internal/repository"
	"github.com/spec-kit/sr-service/internal/service"
)

type stubRepo struct {
	mu      sync.Mutex
	tickets []*domain.Ticket
}

func (r *stubRepo) Create(_ context.Context, t *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = int64(len(r.tickets) + 1)
	copied := *t
	r.tickets = append(r.tickets, &copied)
	return nil
}

func (r *stubRepo) find(match func(*domain.Ticket) bool) (*domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if match(t) {
			copied := *t
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubRepo) GetByID(_ context.Context, id int64) (*domain.Ticket, error) {
	return r.find(func(t *domain.Ticket) bool { return t.ID == id })
}

func (r *stubRepo) GetByCode(_ context.Context, code string) (*domain.Ticket, error) {
	return r.find(func(t *domain.Ticket) bool { return t.TicketCode == code })
}

func (r *stubRepo) List(_ context.Context, limit int) ([]domain.Ticket, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Ticket{}
	for i := len(r.tickets) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, *r.tickets[i])
	}
	return out, nil
}

func (r *stubRepo) UpdateStatus(_ context.Context, id int64, status domain.TicketStatus) (*domain.Ticket, domain.TicketStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.tickets {
		if t.ID == id {
			prev := t.Status
			t.Status = status
			copied := *t
			return &copied, prev, nil
		}
	}
	return nil, "", repository.ErrNotFound
}

func (r *stubRepo) AttachNotionPageID(_ context.Context, id int64, pageID string) (*domain.Ticket, error) {
	r.mu.Lock()
	for _, t := range r.tickets {
		if t.ID == id {
			t.NotionPageID = &pageID
		}
	}
	r.mu.Unlock()
	return r.GetByID(context.Background(), id)
}

type stubMirror struct {
	configured bool
	result     mirror.Result
}

func (m stubMirror) Configured() bool { return m.configured }

func (m stubMirror) MirrorTicket(context.Context, *domain.Ticket) mirror.Result { return m.result }

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func newTestApp(m stubMirror, postgres handlers.Pinger) *fiber.App {
	metrics := observability.NewMetrics()
	app := fiber.New()
	RegisterMiddlewares(app, MiddlewareConfig{Metrics: metrics, Timeout: 5 * time.Second})

	var seq int
	svc := service.NewTicketService(service.TicketDependencies{
		TicketRepo: &stubRepo{},
		Mirror:     m,
		Metrics:    metrics,
		CodeGenerator: func() string {
			seq++
			return "SR-0000000" + string(rune('0'+seq))
		},
	})
	RegisterRoutes(app, RouteConfig{
		Health:  handlers.NewHealthHandler("sr-service", "test", postgres, nil, m.configured),
		Metrics: handlers.NewMetricsHandler(metrics),
		Tickets: handlers.NewTicketsHandler(svc),
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any, string) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	var decoded map[string]any
	_ = json.Unmarshal(raw, &decoded)
	return resp.StatusCode, decoded, string(raw)
}

const validBody = `{
	"title": "VPN 접속 불가",
	"description": "재택 근무 중 VPN 연결이 끊깁니다",
	"category": "장애",
	"priority": "높음",
	"system_name": "VPN",
	"team": "인프라팀",
	"assignee": "Kim",
	"requester": "Lee",
	"attachment_url": "https://files.example.com/a.png"
}`

func TestHealth(t *testing.T) {
	app := newTestApp(stubMirror{}, stubPinger{})
	status, body, _ := do(t, app, fiber.MethodGet, "/api/health", "")
	if status != 200 || body["ok"] != true {
		t.Errorf("status=%d body=%v", status, body)
	}
}

func TestReady(t *testing.T) {
	status, body, _ := do(t, newTestApp(stubMirror{configured: true}, stubPinger{}), fiber.MethodGet, "/api/health/ready", "")
	if status != 200 || body["status"] != "ready" {
		t.Errorf("status=%d body=%v", status, body)
	}

	status, body, _ = do(t, newTestApp(stubMirror{}, stubPinger{err: errors.New("down")}), fiber.MethodGet, "/api/health/ready", "")
	if status != 503 {
		t.Errorf("status=%d body=%v", status, body)
	}
}

func TestCreateTicket(t *testing.T) {
	app := newTestApp(stubMirror{configured: true, result: mirror.Result{PageID: "page-1"}}, stubPinger{})

	status, body, raw := do(t, app, fiber.MethodPost, "/api/sr/", validBody)
	if status != 201 {
		t.Fatalf("status=%d body=%s", status, raw)
	}
	if body["id"] != float64(1) || body["ticket_id"] != "SR-00000001" || body["status"] != "접수 대기" || body["notion_page_id"] != "page-1" {
		t.Errorf("body = %v", body)
	}
}

func TestCreateTicket_MirrorFailureStill201(t *testing.T) {
	app := newTestApp(stubMirror{configured: true, result: mirror.Result{Err: errors.New("notion down")}}, stubPinger{})

	status, body, raw := do(t, app, fiber.MethodPost, "/api/sr/", validBody)
	if status != 201 {
		t.Fatalf("status=%d body=%s", status, raw)
	}
	if v, ok := body["notion_page_id"]; !ok || v != nil {
		t.Errorf("notion_page_id = %v, want explicit null", v)
	}
}

func TestCreateTicket_Errors(t *testing.T) {
	tests := []struct {
		name       string
		mirror     stubMirror
		body       string
		wantStatus int
		wantCode   string
	}{
		{"malformed json", stubMirror{configured: true}, `{"title":`, 400, "VALIDATION_FAILED"},
		{"missing fields", stubMirror{configured: true}, `{"title":"VPN"}`, 400, "VALIDATION_FAILED"},
		{"bad category", stubMirror{configured: true}, strings.Replace(validBody, `"장애"`, `"incident"`, 1), 400, "VALIDATION_FAILED"},
		{"bad url", stubMirror{configured: true}, strings.Replace(validBody, `https://files.example.com/a.png`, `not a url`, 1), 400, "VALIDATION_FAILED"},
		{"mirror unconfigured", stubMirror{}, validBody, 500, "MIRROR_NOT_CONFIGURED"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body, raw := do(t, newTestApp(tt.mirror, stubPinger{}), fiber.MethodPost, "/api/sr/", tt.body)
			if status != tt.wantStatus {
				t.Fatalf("status=%d body=%s", status, raw)
			}
			errBody, _ := body["error"].(map[string]any)
			if errBody["code"] != tt.wantCode {
				t.Errorf("error = %v", errBody)
			}
		})
	}
}

func TestCreateTicket_FieldDetails(t *testing.T) {
	app := newTestApp(stubMirror{configured: true}, stubPinger{})
	_, body, _ := do(t, app, fiber.MethodPost, "/api/sr/", `{"title":"VPN"}`)
	details, _ := body["error"].(map[string]any)["details"].(map[string]any)
	for _, field := range []string{"description", "category", "priority", "team", "assignee", "requester", "system_name"} {
		if _, ok := details[field]; !ok {
			t.Errorf("details missing %q: %v", field, details)
		}
	}
}

func TestTicketLookupsAndStatus(t *testing.T) {
	app := newTestApp(stubMirror{configured: true, result: mirror.Result{PageID: "page-1"}}, stubPinger{})
	for i := 0; i < 3; i++ {
		if status, _, raw := do(t, app, fiber.MethodPost, "/api/sr/", validBody); status != 201 {
			t.Fatalf("create: %d %s", status, raw)
		}
	}

	req := httptest.NewRequest(fiber.MethodGet, "/api/sr/?limit=2", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	var list []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0]["id"] != float64(3) {
		t.Errorf("list = %v", list)
	}

	if status, body, _ := do(t, app, fiber.MethodGet, "/api/sr/2", ""); status != 200 || body["ticket_id"] != "SR-00000002" {
		t.Errorf("get: %d %v", status, body)
	}
	if status, body, _ := do(t, app, fiber.MethodGet, "/api/sr/code/SR-00000003", ""); status != 200 || body["id"] != float64(3) {
		t.Errorf("get by code: %d %v", status, body)
	}
	if status, _, _ := do(t, app, fiber.MethodGet, "/api/sr/99", ""); status != 404 {
		t.Errorf("missing: %d", status)
	}
	if status, _, _ := do(t, app, fiber.MethodGet, "/api/sr/abc", ""); status != 400 {
		t.Errorf("bad id: %d", status)
	}

	status, body, raw := do(t, app, fiber.MethodPatch, "/api/sr/1/status", `{"status":"진행 중"}`)
	if status != 200 || body["status"] != "진행 중" {
		t.Errorf("patch: %d %s", status, raw)
	}
	if status, _, _ := do(t, app, fiber.MethodPatch, "/api/sr/1/status", `{"status":"in progress"}`); status != 400 {
		t.Errorf("invalid status: %d", status)
	}
	if status, _, _ := do(t, app, fiber.MethodPatch, "/api/sr/99/status", `{"status":"완료"}`); status != 404 {
		t.Errorf("missing ticket: %d", status)
	}
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	app := newTestApp(stubMirror{}, stubPinger{})
	status, body, _ := do(t, app, fiber.MethodGet, "/api/nope", "")
	if status != 404 || body["error"].(map[string]any)["code"] != "NOT_FOUND" {
		t.Errorf("status=%d body=%v", status, body)
	}
}

func TestPanicIsRecovered(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, MiddlewareConfig{})
	app.Get("/boom", func(*fiber.Ctx) error { panic("boom") })

	status, body, _ := do(t, app, fiber.MethodGet, "/boom", "")
	if status != 500 || body["error"].(map[string]any)["code"] != "INTERNAL_ERROR" {
		t.Errorf("status=%d body=%v", status, body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	app := newTestApp(stubMirror{configured: true, result: mirror.Result{PageID: "p"}}, stubPinger{})
	do(t, app, fiber.MethodPost, "/api/sr/", validBody)

	status, body, _ := do(t, app, fiber.MethodGet, "/api/metrics", "")
	if status != 200 {
		t.Fatalf("status=%d", status)
	}
	mirrorCounts, _ := body["mirror"].(map[string]any)
	if mirrorCounts[observability.MirrorSucceeded] != float64(1) {
		t.Errorf("mirror counts = %v", mirrorCounts)
	}
}
