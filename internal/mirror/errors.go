package mirror

import (
	"errors"
	"fmt"
)

// APIError is a non-2xx response from the Notion API. Notion error bodies
// look like {"object":"error","status":400,"code":"validation_error","message":"..."}.
type APIError struct {
	StatusCode int    `json:"status"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("notion: HTTP %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("notion: HTTP %d: %s", e.StatusCode, e.Message)
}

// IsUnauthorized reports whether err is a 401 from Notion.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 401
}

// MirrorWriteError wraps any failure to create the mirror page.
type MirrorWriteError struct {
	Err error
}

func (e *MirrorWriteError) Error() string {
	return "notion page create failed: " + e.Err.Error()
}

func (e *MirrorWriteError) Unwrap() error { return e.Err }

// DirectoryLookupError wraps any failure to load the Notion user directory.
type DirectoryLookupError struct {
	Err error
}

func (e *DirectoryLookupError) Error() string {
	return "notion user directory lookup failed: " + e.Err.Error()
}

func (e *DirectoryLookupError) Unwrap() error { return e.Err }

var (
	errNoToken     = errors.New("notion token not configured")
	errNoDatabase  = errors.New("notion database id not configured")
	errEmptyPageID = errors.New("notion returned a page without id")
)
