// Package snippets implements the snippet use cases: validation, ownership
// checks, pagination and the complexity estimate stored with each snippet.
package snippets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/abhisek/snipbox/internal/complexity"
	"github.com/abhisek/snipbox/internal/store"
)

// MaxCodeLength is the longest accepted code, in characters.
const MaxCodeLength = 10000

// DefaultLanguage is used when a snippet is saved without a language.
const DefaultLanguage = "typescript"

// Input is the body of a create request.
type Input struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description" validate:"max=1000"`
	Code        string  `json:"code" validate:"required,max=10000"`
	Tags        TagList `json:"tags" validate:"dive,max=50"`
	Language    string  `json:"programmingLanguage"`
}

// Patch is the body of an update request. Nil fields are left untouched.
type Patch struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Code        *string  `json:"code"`
	Tags        *TagList `json:"tags"`
	Language    *string  `json:"programmingLanguage"`
}

// Pagination describes one page of a listing.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// Page is a listing result.
type Page struct {
	Items      []*store.Snippet
	Pagination Pagination
}

// Metrics receives snippet and estimator events.
type Metrics interface {
	ObserveEstimate(r complexity.Result)
	SnippetCreated(language string)
}

type nopMetrics struct{}

func (nopMetrics) ObserveEstimate(complexity.Result) {}
func (nopMetrics) SnippetCreated(string)             {}

// Service implements the snippet use cases.
type Service struct {
	repo     store.SnippetRepo
	validate *validator.Validate
	metrics  Metrics
	logger   *slog.Logger
}

// NewService creates a snippet service. metrics and logger may be nil.
func NewService(repo store.SnippetRepo, metrics Metrics, logger *slog.Logger) *Service {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		validate: validator.New(),
		metrics:  metrics,
		logger:   logger,
	}
}

// Create validates in, estimates its complexity and stores it for author.
func (s *Service) Create(ctx context.Context, author *store.User, in Input) (*store.Snippet, error) {
	in = cleanInput(in)
	if err := s.check(in); err != nil {
		return nil, err
	}

	sn := &store.Snippet{
		Title:       in.Title,
		Description: in.Description,
		Code:        in.Code,
		Language:    in.Language,
		Tags:        in.Tags,
		AuthorID:    author.ID,
		Complexity:  s.estimate(in.Code, in.Language),
	}
	if err := s.repo.Create(ctx, sn); err != nil {
		return nil, fmt.Errorf("create snippet: %w", err)
	}
	sn.Author = &store.User{ID: author.ID, Email: author.Email, Name: author.Name}

	s.metrics.SnippetCreated(sn.Language)
	s.logger.Info("snippet created", "snippet_id", sn.ID, "author_id", author.ID, "time", sn.Complexity.Time)
	return sn, nil
}

// Get returns one snippet or store.ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*store.Snippet, error) {
	return s.repo.Get(ctx, id)
}

// List returns one page of snippets matching q.
func (s *Service) List(ctx context.Context, q store.ListQuery) (Page, error) {
	q = q.Normalize()
	items, total, err := s.repo.List(ctx, q)
	if err != nil {
		return Page{}, err
	}
	return Page{
		Items: items,
		Pagination: Pagination{
			Page:  q.Page,
			Limit: q.Limit,
			Total: total,
			Pages: int(math.Ceil(float64(total) / float64(q.Limit))),
		},
	}, nil
}

// Update applies p to snippet id on behalf of actor. Only the author may
// update; a changed code is re-estimated.
func (s *Service) Update(ctx context.Context, actor *store.User, id string, p Patch) (*store.Snippet, error) {
	sn, err := s.owned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	in := Input{
		Title:       sn.Title,
		Description: sn.Description,
		Code:        sn.Code,
		Tags:        sn.Tags,
		Language:    sn.Language,
	}
	if p.Title != nil {
		in.Title = *p.Title
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Code != nil {
		in.Code = *p.Code
	}
	if p.Tags != nil {
		in.Tags = *p.Tags
	}
	if p.Language != nil {
		in.Language = *p.Language
	}
	in = cleanInput(in)
	if err := s.check(in); err != nil {
		return nil, err
	}

	codeChanged := in.Code != sn.Code
	sn.Title = in.Title
	sn.Description = in.Description
	sn.Code = in.Code
	sn.Tags = in.Tags
	sn.Language = in.Language
	if codeChanged {
		sn.Complexity = s.estimate(sn.Code, sn.Language)
	}

	if err := s.repo.Update(ctx, sn); err != nil {
		return nil, fmt.Errorf("update snippet: %w", err)
	}
	return sn, nil
}

// Delete removes snippet id on behalf of actor. Only the author may delete.
func (s *Service) Delete(ctx context.Context, actor *store.User, id string) error {
	if _, err := s.owned(ctx, actor, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete snippet: %w", err)
	}
	s.logger.Info("snippet deleted", "snippet_id", id, "author_id", actor.ID)
	return nil
}

// Share returns share links for snippet id under baseURL.
func (s *Service) Share(ctx context.Context, id, baseURL string) (ShareLinks, error) {
	sn, err := s.repo.Get(ctx, id)
	if err != nil {
		return ShareLinks{}, err
	}
	return NewShareLinks(SnippetURL(baseURL, sn.ID), sn.Title), nil
}

// Tags returns tags with usage counts, most used first.
func (s *Service) Tags(ctx context.Context, limit int) ([]store.Bucket, error) {
	return s.repo.Tags(ctx, limit)
}

func (s *Service) owned(ctx context.Context, actor *store.User, id string) (*store.Snippet, error) {
	sn, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor == nil || sn.AuthorID != actor.ID {
		return nil, ErrForbidden
	}
	return sn, nil
}

func (s *Service) estimate(code, language string) complexity.Result {
	r := complexity.Estimate(code, language)
	s.metrics.ObserveEstimate(r)
	return r
}

func cleanInput(in Input) Input {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Language = strings.TrimSpace(in.Language)
	if in.Language == "" {
		in.Language = DefaultLanguage
	}
	in.Tags = CleanTags(in.Tags)
	return in
}

var fieldNames = map[string]string{
	"Title":       "title",
	"Description": "description",
	"Code":        "code",
	"Tags":        "tag",
}

func (s *Service) check(in Input) error {
	if strings.TrimSpace(in.Code) == "" {
		return &ValidationError{Field: "code", Message: "code is required"}
	}
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: "invalid snippet", Err: err}
	}
	fe := verrs[0]
	name := fieldNames[fe.StructField()]
	if strings.HasPrefix(fe.StructNamespace(), "Input.Tags[") {
		name = "tag"
	}
	var msg string
	switch fe.Tag() {
	case "required":
		msg = name + " is required"
	case "max":
		if name == "tag" {
			msg = "each tag cannot be more than " + fe.Param() + " characters"
		} else {
			msg = name + " cannot be more than " + fe.Param() + " characters"
		}
	default:
		msg = "invalid " + name
	}
	return &ValidationError{Field: name, Message: msg, Err: err}
}
