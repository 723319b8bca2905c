package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"

	"github.com/abhisek/snipbox/internal/complexity"
	"github.com/abhisek/snipbox/internal/i18n"
	"github.com/abhisek/snipbox/internal/store"
)

type userView struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	CreatedAt *time.Time `json:"createdAt,omitempty"`
}

func newUserView(u *store.User) *userView {
	if u == nil {
		return nil
	}
	v := &userView{ID: u.ID, Email: u.Email, Name: u.Name}
	if !u.CreatedAt.IsZero() {
		t := u.CreatedAt
		v.CreatedAt = &t
	}
	return v
}

type complexityView struct {
	TimeComplexity  complexity.Label    `json:"timeComplexity"`
	SpaceComplexity complexity.Label    `json:"spaceComplexity"`
	Explanation     string              `json:"explanation"`
	Confidence      *float64            `json:"confidence,omitempty"`
	ConfidenceLevel string              `json:"confidenceLevel,omitempty"`
	Severity        complexity.Severity `json:"severity"`
	SpaceSeverity   complexity.Severity `json:"spaceSeverity"`
}

// display carries the per-request presentation choices.
type display struct {
	lang    language.Tag
	details bool
}

func displayFor(c *gin.Context) display {
	return display{
		lang:    i18n.Negotiate(c.Query("lang"), c.GetHeader("Accept-Language")),
		details: c.Query("details") == "true",
	}
}

func (d display) complexity(r complexity.Result) complexityView {
	v := complexityView{
		TimeComplexity:  r.Time,
		SpaceComplexity: r.Space,
		Explanation:     i18n.Explain(r, d.lang),
		Severity:        complexity.SeverityOf(r.Time),
		SpaceSeverity:   complexity.SeverityOf(r.Space),
	}
	if d.details {
		conf := r.Confidence
		v.Confidence = &conf
		v.ConfidenceLevel = string(complexity.BucketOf(conf))
	}
	return v
}

type snippetView struct {
	ID                  string         `json:"id"`
	Title               string         `json:"title"`
	Description         string         `json:"description"`
	Code                string         `json:"code"`
	Tags                []string       `json:"tags"`
	ProgrammingLanguage string         `json:"programmingLanguage"`
	Author              *userView      `json:"author"`
	Complexity          complexityView `json:"complexity"`
	CreatedAt           time.Time      `json:"createdAt"`
	UpdatedAt           time.Time      `json:"updatedAt"`
}

func (d display) snippet(s *store.Snippet) snippetView {
	tags := s.Tags
	if tags == nil {
		tags = []string{}
	}
	author := s.Author
	if author == nil {
		author = &store.User{ID: s.AuthorID}
	}
	return snippetView{
		ID:                  s.ID,
		Title:               s.Title,
		Description:         s.Description,
		Code:                s.Code,
		Tags:                tags,
		ProgrammingLanguage: s.Language,
		Author:              &userView{ID: author.ID, Email: author.Email, Name: author.Name},
		Complexity:          d.complexity(s.Complexity),
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
	}
}

func (d display) snippets(items []*store.Snippet) []snippetView {
	out := make([]snippetView, 0, len(items))
	for _, s := range items {
		out = append(out, d.snippet(s))
	}
	return out
}
