package mirror

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// maxDirectoryPages stops a misbehaving cursor from looping forever.
const maxDirectoryPages = 1000

// UserLister is the part of Client the directory needs.
type UserLister interface {
	HasCredentials() bool
	ListUsers(ctx context.Context, cursor string) (*UsersPage, error)
}

// Directory resolves free-text names and emails to Notion user ids.
type Directory struct {
	users  UserLister
	cache  UserCache
	logger *zap.Logger
}

// NewDirectory builds a directory. cache may be nil.
func NewDirectory(users UserLister, cache UserCache, logger *zap.Logger) *Directory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Directory{users: users, cache: cache, logger: logger}
}

// Enabled reports whether lookups can reach Notion at all.
func (d *Directory) Enabled() bool {
	return d != nil && d.users != nil && d.users.HasCredentials()
}

// Users returns the full directory, from cache when fresh, otherwise by
// following next_cursor until Notion reports no more pages. Errors are
// *DirectoryLookupError.
func (d *Directory) Users(ctx context.Context) ([]User, error) {
	if d.cache != nil {
		users, ok, err := d.cache.Load(ctx)
		if err != nil {
			d.logger.Warn("directory cache read failed", zap.Error(err))
		} else if ok {
			return users, nil
		}
	}

	var all []User
	cursor := ""
	seen := map[string]bool{}
	for page := 0; ; page++ {
		if page >= maxDirectoryPages {
			return nil, &DirectoryLookupError{Err: fmt.Errorf("directory exceeded %d pages", maxDirectoryPages)}
		}
		resp, err := d.users.ListUsers(ctx, cursor)
		if err != nil {
			return nil, &DirectoryLookupError{Err: err}
		}
		all = append(all, resp.Results...)

		if resp.NextCursor == nil || *resp.NextCursor == "" {
			break
		}
		cursor = *resp.NextCursor
		if seen[cursor] {
			return nil, &DirectoryLookupError{Err: fmt.Errorf("cursor %q repeated", cursor)}
		}
		seen[cursor] = true
	}

	if d.cache != nil {
		if err := d.cache.Store(ctx, all); err != nil {
			d.logger.Warn("directory cache write failed", zap.Error(err))
		}
	}
	return all, nil
}

// ResolveUserIDs is the single-query form of Users followed by MatchUsers.
// Mirror resolves several fields per ticket, so it loads Users once and
// matches each field itself instead of calling this per field.
// It never fails: an unconfigured client, a blank query or a lookup error
// all yield no ids.
func (d *Directory) ResolveUserIDs(ctx context.Context, query string) []string {
	if !d.Enabled() || strings.TrimSpace(query) == "" {
		return nil
	}
	users, err := d.Users(ctx)
	if err != nil {
		warnLookupFailure(d.logger, "user lookup failed; falling back to text", err, zap.String("query", query))
		return nil
	}
	return MatchUsers(users, query)
}

// unauthorizedHint is attached to lookup warnings when Notion rejects the token.
const unauthorizedHint = "notion rejected the token; check NOTION_TOKEN and the integration's user capabilities"

func warnLookupFailure(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if IsUnauthorized(err) {
		fields = append(fields, zap.String("hint", unauthorizedHint))
	}
	logger.Warn(msg, fields...)
}

// MatchUsers returns all ids whose name or email matches query
// case-insensitively. Multiple matches are all returned.
func MatchUsers(users []User, query string) []string {
	needle := strings.TrimSpace(query)
	if needle == "" {
		return nil
	}
	var ids []string
	for _, u := range users {
		if strings.EqualFold(u.Email(), needle) || strings.EqualFold(u.Name, needle) {
			ids = append(ids, u.ID)
		}
	}
	return ids
}
