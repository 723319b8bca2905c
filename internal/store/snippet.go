package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/snipbox/internal/complexity"
)

var snippetColumns = []string{
	"id", "title", "description", "code", "language", "author_id",
	"time_complexity", "space_complexity", "complexity_explanation",
	"complexity_confidence", "complexity_rule", "created_at", "updated_at",
}

// snippetRepo implements SnippetRepo.
type snippetRepo struct {
	db *sql.DB
}

func (r *snippetRepo) Create(ctx context.Context, s *Snippet) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = s.CreatedAt

	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		ins := builder.Insert(snippetsTable).
			Columns(snippetColumns...).
			Values(
				s.ID, s.Title, s.Description, s.Code, s.Language, s.AuthorID,
				string(s.Complexity.Time), string(s.Complexity.Space), s.Complexity.Explanation,
				s.Complexity.Confidence, s.Complexity.Rule, toUnix(s.CreatedAt), toUnix(s.UpdatedAt),
			)
		if _, err := exec(ctx, tx, ins); err != nil {
			return fmt.Errorf("create snippet: %w", err)
		}
		return writeTags(ctx, tx, s.ID, s.Tags)
	})
}

func (r *snippetRepo) Update(ctx context.Context, s *Snippet) error {
	s.UpdatedAt = time.Now().UTC()

	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		upd := builder.Update(snippetsTable).
			Set("title", s.Title).
			Set("description", s.Description).
			Set("code", s.Code).
			Set("language", s.Language).
			Set("time_complexity", string(s.Complexity.Time)).
			Set("space_complexity", string(s.Complexity.Space)).
			Set("complexity_explanation", s.Complexity.Explanation).
			Set("complexity_confidence", s.Complexity.Confidence).
			Set("complexity_rule", s.Complexity.Rule).
			Set("updated_at", toUnix(s.UpdatedAt)).
			Where(entsql.EQ("id", s.ID))
		res, err := exec(ctx, tx, upd)
		if err != nil {
			return fmt.Errorf("update snippet: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrNotFound
		}

		del := builder.Delete(snippetTagsTable).Where(entsql.EQ("snippet_id", s.ID))
		if _, err := exec(ctx, tx, del); err != nil {
			return fmt.Errorf("clear tags: %w", err)
		}
		return writeTags(ctx, tx, s.ID, s.Tags)
	})
}

func (r *snippetRepo) Delete(ctx context.Context, id string) error {
	return inTx(ctx, r.db, func(tx *sql.Tx) error {
		del := builder.Delete(snippetTagsTable).Where(entsql.EQ("snippet_id", id))
		if _, err := exec(ctx, tx, del); err != nil {
			return fmt.Errorf("delete tags: %w", err)
		}
		res, err := exec(ctx, tx, builder.Delete(snippetsTable).Where(entsql.EQ("id", id)))
		if err != nil {
			return fmt.Errorf("delete snippet: %w", err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *snippetRepo) Get(ctx context.Context, id string) (*Snippet, error) {
	t := builder.Table(snippetsTable)
	sel := selectSnippets(t).Where(entsql.EQ(t.C("id"), id)).Limit(1)
	items, err := r.load(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNotFound
	}
	return items[0], nil
}

func (r *snippetRepo) List(ctx context.Context, q ListQuery) ([]*Snippet, int, error) {
	q = q.Normalize()
	t := builder.Table(snippetsTable)

	count := builder.Select().Count().From(t)
	if p := listFilter(t, q); p != nil {
		count.Where(p)
	}
	total, err := countRows(ctx, r.db, count)
	if err != nil {
		return nil, 0, fmt.Errorf("count snippets: %w", err)
	}
	if total == 0 {
		return []*Snippet{}, 0, nil
	}

	sel := selectSnippets(t).
		OrderBy(entsql.Desc(t.C("created_at")), entsql.Desc(t.C("id"))).
		Limit(q.Limit).
		Offset(q.Offset())
	if p := listFilter(t, q); p != nil {
		sel.Where(p)
	}
	items, err := r.load(ctx, sel)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *snippetRepo) Count(ctx context.Context) (int, error) {
	return countRows(ctx, r.db, builder.Select().Count().From(builder.Table(snippetsTable)))
}

func (r *snippetRepo) CountByLanguage(ctx context.Context) ([]Bucket, error) {
	return r.buckets(ctx, snippetsTable, "language", 0)
}

func (r *snippetRepo) CountByComplexity(ctx context.Context) ([]Bucket, error) {
	return r.buckets(ctx, snippetsTable, "time_complexity", 0)
}

func (r *snippetRepo) Tags(ctx context.Context, limit int) ([]Bucket, error) {
	return r.buckets(ctx, snippetTagsTable, "tag", limit)
}

func (r *snippetRepo) buckets(ctx context.Context, table, column string, limit int) ([]Bucket, error) {
	sel := builder.Select(column, entsql.As(entsql.Count("*"), "n")).
		From(builder.Table(table)).
		GroupBy(column).
		OrderBy(entsql.Desc("n"), column)
	if limit > 0 {
		sel.Limit(limit)
	}
	rows, err := query(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("group %s.%s: %w", table, column, err)
	}
	defer rows.Close()

	out := []Bucket{}
	for rows.Next() {
		var b Bucket
		if err := rows.Scan(&b.Key, &b.Count); err != nil {
			return nil, fmt.Errorf("scan bucket: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// listFilter builds a fresh predicate for q, or nil when q filters nothing.
func listFilter(t *entsql.SelectTable, q ListQuery) *entsql.Predicate {
	var preds []*entsql.Predicate
	if q.Language != "" {
		preds = append(preds, entsql.EQ(t.C("language"), q.Language))
	}
	if q.AuthorID != "" {
		preds = append(preds, entsql.EQ(t.C("author_id"), q.AuthorID))
	}
	if q.Complexity != "" {
		preds = append(preds, entsql.EQ(t.C("time_complexity"), q.Complexity))
	}
	if q.Tag != "" {
		preds = append(preds, entsql.In(t.C("id"),
			builder.Select("snippet_id").
				From(builder.Table(snippetTagsTable)).
				Where(entsql.EQ("tag", q.Tag)),
		))
	}
	if q.Search != "" {
		preds = append(preds, entsql.Or(
			containsFold(t.C("title"), q.Search),
			containsFold(t.C("description"), q.Search),
			entsql.In(t.C("id"),
				builder.Select("snippet_id").
					From(builder.Table(snippetTagsTable)).
					Where(containsFold("tag", q.Search)),
			),
		))
	}
	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	default:
		return entsql.And(preds...)
	}
}

func selectSnippets(t *entsql.SelectTable) *entsql.Selector {
	u := builder.Table(usersTable).As("u")
	cols := make([]string, 0, len(snippetColumns)+2)
	for _, c := range snippetColumns {
		cols = append(cols, t.C(c))
	}
	cols = append(cols, u.C("email"), u.C("name"))
	return builder.Select(cols...).
		From(t).
		Join(u).
		On(t.C("author_id"), u.C("id"))
}

// load runs sel and attaches tags. Rows are closed before the tag query.
func (r *snippetRepo) load(ctx context.Context, sel *entsql.Selector) ([]*Snippet, error) {
	rows, err := query(ctx, r.db, sel)
	if err != nil {
		return nil, fmt.Errorf("query snippets: %w", err)
	}

	var (
		items []*Snippet
		byID  = make(map[string]*Snippet)
	)
	for rows.Next() {
		s, err := scanSnippet(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		items = append(items, s)
		byID[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate snippets: %w", err)
	}
	rows.Close()

	if len(items) == 0 {
		return items, nil
	}

	ids := make([]any, 0, len(items))
	for _, s := range items {
		ids = append(ids, s.ID)
	}
	tagSel := builder.Select("snippet_id", "tag").
		From(builder.Table(snippetTagsTable)).
		Where(entsql.In("snippet_id", ids...)).
		OrderBy("snippet_id", "position")
	tagRows, err := query(ctx, r.db, tagSel)
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var id, tag string
		if err := tagRows.Scan(&id, &tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		if s, ok := byID[id]; ok {
			s.Tags = append(s.Tags, tag)
		}
	}
	return items, tagRows.Err()
}

func scanSnippet(rows *sql.Rows) (*Snippet, error) {
	var (
		s                Snippet
		timeC, spaceC    string
		created, updated int64
		email, name      string
	)
	err := rows.Scan(
		&s.ID, &s.Title, &s.Description, &s.Code, &s.Language, &s.AuthorID,
		&timeC, &spaceC, &s.Complexity.Explanation, &s.Complexity.Confidence, &s.Complexity.Rule,
		&created, &updated, &email, &name,
	)
	if err != nil {
		return nil, fmt.Errorf("scan snippet: %w", err)
	}
	s.Complexity.Time = complexity.Label(timeC)
	s.Complexity.Space = complexity.Label(spaceC)
	s.CreatedAt = fromUnix(created)
	s.UpdatedAt = fromUnix(updated)
	s.Tags = []string{}
	s.Author = &User{ID: s.AuthorID, Email: email, Name: name}
	return &s, nil
}

func writeTags(ctx context.Context, tx *sql.Tx, snippetID string, tags []string) error {
	if len(tags) == 0 {
		return nil
	}
	ins := builder.Insert(snippetTagsTable).Columns("snippet_id", "tag", "position")
	for i, tag := range tags {
		ins.Values(snippetID, tag, i)
	}
	if _, err := exec(ctx, tx, ins); err != nil {
		return fmt.Errorf("write tags: %w", err)
	}
	return nil
}
