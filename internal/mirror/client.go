package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseURL  = "https://api.notion.com/v1"
	defaultVersion  = "2022-06-28"
	defaultTimeout  = 10 * time.Second
	usersPageSize   = 100
	maxResponseSize = 4 << 20
)

// Config holds configuration for creating a Notion Client.
type Config struct {
	// BaseURL defaults to https://api.notion.com/v1.
	BaseURL string
	// Token is the integration bearer secret.
	Token string
	// DatabaseID is the parent database new pages are created under.
	DatabaseID string
	// Version is sent as the Notion-Version header.
	Version string
	// Timeout bounds each outbound request.
	Timeout time.Duration
	// HTTPClient defaults to a client with no global timeout; Timeout is
	// applied per request through the context.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the Notion REST API. One instance is created at startup
// and shared for the life of the process.
type Client struct {
	baseURL    string
	token      string
	databaseID string
	version    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a client, filling defaults.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	version := cfg.Version
	if version == "" {
		version = defaultVersion
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    baseURL,
		token:      cfg.Token,
		databaseID: cfg.DatabaseID,
		version:    version,
		timeout:    timeout,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Configured reports whether a destination database is set.
func (c *Client) Configured() bool {
	return c != nil && c.databaseID != ""
}

// HasCredentials reports whether a bearer token is set.
func (c *Client) HasCredentials() bool {
	return c != nil && c.token != ""
}

// User is a Notion workspace member or bot.
type User struct {
	ID     string  `json:"id"`
	Type   string  `json:"type,omitempty"`
	Name   string  `json:"name,omitempty"`
	Person *Person `json:"person,omitempty"`
}

// Person carries the email of a human user.
type Person struct {
	Email string `json:"email,omitempty"`
}

// Email returns the person email or "".
func (u User) Email() string {
	if u.Person == nil {
		return ""
	}
	return u.Person.Email
}

// UsersPage is one page of GET /users.
type UsersPage struct {
	Results    []User  `json:"results"`
	NextCursor *string `json:"next_cursor"`
	HasMore    bool    `json:"has_more"`
}

// ListUsers fetches one page of the workspace user directory. An empty
// cursor requests the first page.
func (c *Client) ListUsers(ctx context.Context, cursor string) (*UsersPage, error) {
	if !c.HasCredentials() {
		return nil, errNoToken
	}
	query := url.Values{}
	query.Set("page_size", fmt.Sprint(usersPageSize))
	if cursor != "" {
		query.Set("start_cursor", cursor)
	}

	var page UsersPage
	if err := c.do(ctx, http.MethodGet, "/users?"+query.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

type pageParent struct {
	DatabaseID string `json:"database_id"`
}

type createPageRequest struct {
	Parent     pageParent `json:"parent"`
	Properties Properties `json:"properties"`
	Children   []Block    `json:"children,omitempty"`
}

type createPageResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreatePage creates one page under the configured database and returns
// its id. Failures are returned as *MirrorWriteError; nothing is retried.
func (c *Client) CreatePage(ctx context.Context, properties Properties, children []Block) (string, error) {
	if !c.Configured() {
		return "", &MirrorWriteError{Err: errNoDatabase}
	}
	if !c.HasCredentials() {
		return "", &MirrorWriteError{Err: errNoToken}
	}

	body := createPageRequest{
		Parent:     pageParent{DatabaseID: c.databaseID},
		Properties: properties,
		Children:   children,
	}
	var resp createPageResponse
	if err := c.do(ctx, http.MethodPost, "/pages", body, &resp); err != nil {
		return "", &MirrorWriteError{Err: err}
	}
	if resp.ID == "" {
		return "", &MirrorWriteError{Err: errEmptyPageID}
	}
	c.logger.Debug("notion page created", zap.String("page_id", resp.ID), zap.String("url", resp.URL))
	return resp.ID, nil
}

func (c *Client) do(ctx context.Context, method, path string, requestBody, result any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader
	if requestBody != nil {
		encoded, err := json.Marshal(requestBody)
		if err != nil {
			return fmt.Errorf("notion: encoding request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("notion: creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Accept", "application/json")
	if requestBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notion: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("notion: reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{}
		if jsonErr := json.Unmarshal(raw, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(raw))
		}
		apiErr.StatusCode = resp.StatusCode
		return apiErr
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(raw, result); err != nil {
		return fmt.Errorf("notion: decoding response: %w", err)
	}
	return nil
}
