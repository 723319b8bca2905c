package store

import (
	"context"
	"time"

	"github.com/abhisek/snipbox/internal/complexity"
)

// User is a registered account. PasswordHash never leaves the server.
type User struct {
	ID           string
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Snippet is a stored code sample with its complexity estimate.
type Snippet struct {
	ID          string
	Title       string
	Description string
	Code        string
	Language    string
	Tags        []string
	AuthorID    string
	Complexity  complexity.Result

	// Author is filled on reads with the author's public fields.
	Author *User

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ListQuery filters and pages snippet listings.
type ListQuery struct {
	Page       int    // 1-based
	Limit      int    // 1..MaxLimit, DefaultLimit when zero
	Language   string // exact match
	AuthorID   string
	Tag        string // exact match on one tag
	Search     string // case-insensitive substring of title, description or a tag
	Complexity string // exact time complexity label
}

// Pagination defaults.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// Normalize clamps Page and Limit into their valid ranges.
func (q ListQuery) Normalize() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit <= 0 {
		q.Limit = DefaultLimit
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}
	return q
}

// Offset is the number of rows skipped for q's page.
func (q ListQuery) Offset() int {
	q = q.Normalize()
	return (q.Page - 1) * q.Limit
}

// Bucket is one row of a grouped count.
type Bucket struct {
	Key   string `json:"key" yaml:"key"`
	Count int    `json:"count" yaml:"count"`
}

// UserRepo manages accounts.
type UserRepo interface {
	// Create stores a new user, assigning ID and timestamps when unset.
	// Returns ErrDuplicateEmail if the email is taken.
	Create(ctx context.Context, u *User) error

	// GetByID returns the user or ErrNotFound.
	GetByID(ctx context.Context, id string) (*User, error)

	// GetByEmail looks up a user by case-insensitive email.
	GetByEmail(ctx context.Context, email string) (*User, error)

	// Count returns the number of users.
	Count(ctx context.Context) (int, error)
}

// SnippetRepo manages snippets and their tags.
type SnippetRepo interface {
	// Create stores a new snippet, assigning ID and timestamps when unset.
	Create(ctx context.Context, s *Snippet) error

	// Get returns the snippet with its tags and author, or ErrNotFound.
	Get(ctx context.Context, id string) (*Snippet, error)

	// Update overwrites every mutable field and the tag set.
	Update(ctx context.Context, s *Snippet) error

	// Delete removes the snippet and its tags.
	Delete(ctx context.Context, id string) error

	// List returns one page of matching snippets, newest first, plus the
	// total number of matches.
	List(ctx context.Context, q ListQuery) ([]*Snippet, int, error)

	// Count returns the number of snippets.
	Count(ctx context.Context) (int, error)

	// CountByLanguage groups snippets by language, largest first.
	CountByLanguage(ctx context.Context) ([]Bucket, error)

	// CountByComplexity groups snippets by time complexity, largest first.
	CountByComplexity(ctx context.Context) ([]Bucket, error)

	// Tags returns distinct tags with usage counts, most used first.
	// A non-positive limit returns all tags.
	Tags(ctx context.Context, limit int) ([]Bucket, error)
}
